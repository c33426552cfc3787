package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/constants"
	"github.com/agent-of-empires/aoe/internal/state"
	"github.com/agent-of-empires/aoe/internal/tmux"
)

var (
	uninstallKeepData       bool
	uninstallKeepTmuxConfig bool
	uninstallDryRun         bool
	uninstallAssumeYes      bool
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	GroupID: GroupAdmin,
	Short:   "Tear down every session's panes and remove the app_root data directory",
	RunE:    runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallKeepData, "keep-data", false, "leave app_root (config + profiles) on disk")
	uninstallCmd.Flags().BoolVar(&uninstallKeepTmuxConfig, "keep-tmux-config", false, "skip killing live tmux panes")
	uninstallCmd.Flags().BoolVar(&uninstallDryRun, "dry-run", false, "print what would happen without doing it")
	uninstallCmd.Flags().BoolVarP(&uninstallAssumeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	appRoot, err := config.AppRoot()
	if err != nil {
		return err
	}

	profiles, err := state.ListProfiles(appRoot)
	if err != nil {
		return err
	}

	if !uninstallAssumeYes && !uninstallDryRun {
		fmt.Printf("This removes %d profile(s) under %s. Continue? [y/N] ", len(profiles), appRoot)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(line)) != "y" {
			return newUserError("aborted")
		}
	}

	if !uninstallKeepTmuxConfig {
		for _, profile := range profiles {
			store, err := state.LoadProfile(appRoot, profile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: loading profile %q: %v\n", profile, err)
				continue
			}
			killProfilePanes(store, uninstallDryRun)
		}
	}

	if uninstallKeepData {
		fmt.Println("Data kept at", appRoot)
		return nil
	}

	if uninstallDryRun {
		fmt.Println("Would remove", appRoot)
		return nil
	}
	if err := os.RemoveAll(appRoot); err != nil {
		return fmt.Errorf("removing %s: %w", appRoot, err)
	}
	fmt.Println("Removed", appRoot)
	return nil
}

func killProfilePanes(store interface {
	Instances() []*state.Instance
}, dryRun bool) {
	tx := tmux.NewTmux("")
	for _, inst := range store.Instances() {
		for _, name := range panesFor(inst) {
			if dryRun {
				fmt.Println("Would kill pane", name)
				continue
			}
			if err := tx.Kill(name); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: killing pane %s: %v\n", name, err)
			}
		}
	}
}

func panesFor(inst *state.Instance) []string {
	return []string{
		tmux.PaneName(constants.PanePrefixAgent, inst.Title, inst.ID),
		tmux.PaneName(constants.PanePrefixTerminal, inst.Title, inst.ID),
		tmux.PaneName(constants.PanePrefixContainer, inst.Title, inst.ID),
	}
}
