package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"ArrowLeft", CommandMoveLeft},
		{"ArrowRight", CommandMoveRight},
		{"ArrowDown", CommandSoftDrop},
		{"f", CommandRotate},
		{"F", CommandRotate},
		{"d", CommandHardDrop},
		{"  rotate ", CommandRotate},
		{"pause_toggle", CommandPauseToggle},
		{"restart", CommandRestart},
		{"click", CommandClick},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "jump", "ArrowUp", "space"} {
		_, err := ParseCommand(input)
		assert.ErrorIs(t, err, ErrInvalidCommand, input)
	}
}

func TestEveryCommandParses(t *testing.T) {
	for _, cmd := range AllCommands() {
		got, err := ParseCommand(string(cmd))
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
}

func TestIsMovement(t *testing.T) {
	assert.True(t, CommandHardDrop.IsMovement())
	assert.True(t, CommandRotate.IsMovement())
	assert.False(t, CommandClick.IsMovement())
	assert.False(t, CommandRestart.IsMovement())
}
