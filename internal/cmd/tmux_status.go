package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/session"
)

var tmuxCmd = &cobra.Command{
	Use:     "tmux",
	GroupID: GroupAdmin,
	Short:   "Inspect the multiplexer backing this profile's sessions",
}

func init() {
	rootCmd.AddCommand(tmuxCmd)
	tmuxCmd.AddCommand(tmuxStatusCmd)
}

var tmuxStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which sessions have a live pane",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		for _, inst := range a.Store.Instances() {
			exists, err := a.Engine.Tmux.Exists(session.AgentPaneName(inst))
			if err != nil {
				return fmt.Errorf("checking %s: %w", inst.ID, err)
			}
			state := "down"
			if exists {
				state = "up"
			}
			fmt.Printf("%s  %s  %s\n", inst.IDShort(), inst.Title, state)
		}
		return nil
	},
}
