package model

import "strings"

// Command is a discrete player input
type Command string

const (
	CommandMoveLeft    Command = "move_left"
	CommandMoveRight   Command = "move_right"
	CommandSoftDrop    Command = "soft_drop"
	CommandRotate      Command = "rotate"
	CommandHardDrop    Command = "hard_drop"
	CommandPauseToggle Command = "pause_toggle"
	CommandPause       Command = "pause"
	CommandResume      Command = "resume"
	CommandRestart     Command = "restart"
	CommandClick       Command = "click" // Restart when over, otherwise toggle pause
)

// keyBindings maps keyboard key names from the browser widget onto commands
var keyBindings = map[string]Command{
	"arrowleft":  CommandMoveLeft,
	"arrowright": CommandMoveRight,
	"arrowdown":  CommandSoftDrop,
	"f":          CommandRotate,
	"d":          CommandHardDrop,
}

// AllCommands returns every command in a stable order
func AllCommands() []Command {
	return []Command{
		CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandRotate, CommandHardDrop,
		CommandPauseToggle, CommandPause, CommandResume, CommandRestart, CommandClick,
	}
}

// ParseCommand accepts a command name or a key binding name
func ParseCommand(s string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if cmd, ok := keyBindings[key]; ok {
		return cmd, nil
	}
	for _, cmd := range AllCommands() {
		if string(cmd) == key {
			return cmd, nil
		}
	}
	return "", ErrInvalidCommand
}

// IsMovement returns true for commands that only reposition the falling piece
func (c Command) IsMovement() bool {
	switch c {
	case CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandRotate, CommandHardDrop:
		return true
	default:
		return false
	}
}
