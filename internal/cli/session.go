package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Game session commands",
	}

	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionCmdCmd())
	cmd.AddCommand(newSessionTickCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func sessionPath(id string, suffix ...string) string {
	return "/api/v1/sessions/" + url.PathEscape(id) + strings.Join(suffix, "")
}

func newSessionNewCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game session",
		Long: `Start a new game session. The owner token is written to the token
file so later commands can drive the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CreateResult
			if err := client.Post("/api/v1/sessions", nil, &result); err != nil {
				return err
			}

			if !noSave {
				if err := cfg.SaveToken(result.Token); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the owner token to the token file")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionCmdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cmd <id> <command>...",
		Short: "Send commands to a session you own",
		Long: `Send one or more commands in order. Each may be a command name
(move_left, move_right, soft_drop, rotate, hard_drop, pause_toggle, pause,
resume, restart, click) or a key binding (ArrowLeft, ArrowRight, ArrowDown,
f, d). The session after the last command is printed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CommandResult
			for _, command := range args[1:] {
				req := map[string]string{"command": command}
				if err := client.Post(sessionPath(args[0], "/commands"), req, &result); err != nil {
					return fmt.Errorf("%s: %w", command, err)
				}
				if cfg.Verbose {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: changed=%t\n", command, result.Changed)
				}
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick <id> [count]",
		Short: "Advance a session you own by one or more ticks",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer")
				}
				count = n
			}

			var result Session
			req := map[string]int{"count": count}
			if err := client.Post(sessionPath(args[0], "/tick"), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "End a session you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(sessionPath(args[0])); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token file: %w", err)
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage("Session ended")
			return nil
		},
	}
}
