package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agent-of-empires/aoe/internal/session"
	"github.com/agent-of-empires/aoe/internal/state"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	GroupID: GroupSession,
	Short:   "Operate on a single session",
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionStartCmd, sessionStopCmd, sessionRestartCmd,
		sessionAttachCmd, sessionShowCmd, sessionCurrentCmd, sessionImportCmd)
}

// resolveInstance finds an instance by full id or by the IDShort prefix
// shown in `list` output, so users can type either form.
func resolveInstance(a *app, idOrShort string) (*state.Instance, error) {
	if inst, err := a.Store.Get(idOrShort); err == nil {
		return inst, nil
	}
	var match *state.Instance
	for _, inst := range a.Store.Instances() {
		if inst.IDShort() == idOrShort {
			if match != nil {
				return nil, newUserError("ambiguous session id prefix %q", idOrShort)
			}
			match = inst
		}
	}
	if match == nil {
		return nil, newUserError("%v", state.ErrNotFound)
	}
	return match, nil
}

var sessionStartCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Start a session's pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		if err := a.Engine.Start(context.Background(), inst); err != nil {
			return fmt.Errorf("starting %s: %w", inst.ID, err)
		}
		return a.save()
	},
}

var sessionStopCmd = &cobra.Command{
	Use:     "stop ID",
	Aliases: []string{"kill"},
	Short:   "Kill a session's pane",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		if err := a.Engine.Kill(inst); err != nil {
			return fmt.Errorf("stopping %s: %w", inst.ID, err)
		}
		return a.save()
	},
}

var sessionRestartCmd = &cobra.Command{
	Use:   "restart ID",
	Short: "Restart a session's pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		if err := a.Engine.Restart(context.Background(), inst); err != nil {
			return fmt.Errorf("restarting %s: %w", inst.ID, err)
		}
		return a.save()
	},
}

var sessionAttachCmd = &cobra.Command{
	Use:   "attach ID",
	Short: "Attach (or switch client) to a session's pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		return a.Engine.Tmux.Attach(session.AgentPaneName(inst))
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a session's captured pane output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		out, err := a.Engine.CaptureOutputWithSize(inst, captureLines())
		if err != nil {
			return fmt.Errorf("capturing %s: %w", inst.ID, err)
		}
		fmt.Println(out)
		return nil
	},
}

// captureLines sizes a `session show` capture to the attached terminal's
// height when stdout is a tty, falling back to a fixed scrollback length
// otherwise (§4.10 "capture_output_with_size(lines, w, h)").
func captureLines() int {
	const fallback = 200
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	_, h, err := term.GetSize(fd)
	if err != nil || h <= 0 {
		return fallback
	}
	return h
}

var sessionCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the session whose project path matches the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		for _, inst := range a.Store.Instances() {
			if inst.ProjectPath == cwd {
				fmt.Printf("%s  %s  %s\n", inst.ID, inst.Title, inst.Status)
				return nil
			}
		}
		return newUserError("no session found for %s", cwd)
	},
}

var sessionImportCmd = &cobra.Command{
	Use:   "import ID",
	Short: "Re-register a stored session whose agent pane is live (panes without a stored session are not adopted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		inst, err := resolveInstance(a, args[0])
		if err != nil {
			return err
		}
		exists, err := a.Engine.Tmux.Exists(session.AgentPaneName(inst))
		if err != nil {
			return err
		}
		if !exists {
			return newUserError("no live pane for session %s", inst.ID)
		}
		inst.Touch()
		return a.save()
	},
}
