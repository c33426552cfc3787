package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/state"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	GroupID: GroupOrg,
	Short:   "Manage profiles (named on-disk namespaces for sessions and config)",
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd, profileCreateCmd, profileDeleteCmd, profileDefaultCmd)
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		appRoot, err := config.AppRoot()
		if err != nil {
			return err
		}
		names, err := state.ListProfiles(appRoot)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appRoot, err := config.AppRoot()
		if err != nil {
			return err
		}
		return state.CreateProfile(appRoot, args[0])
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a profile and its sessions.json/config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appRoot, err := config.AppRoot()
		if err != nil {
			return err
		}
		if !state.ProfileExists(appRoot, args[0]) {
			return newUserError("profile %q not found", args[0])
		}
		return state.DeleteProfile(appRoot, args[0])
	},
}

var profileDefaultMarkerName = "default_profile"

var profileDefaultCmd = &cobra.Command{
	Use:   "default [NAME]",
	Short: "Show or set the default profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appRoot, err := config.AppRoot()
		if err != nil {
			return err
		}
		markerPath := filepath.Join(appRoot, profileDefaultMarkerName)

		if len(args) == 0 {
			data, err := os.ReadFile(markerPath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("default")
					return nil
				}
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if !state.ProfileExists(appRoot, args[0]) {
			return newUserError("profile %q not found", args[0])
		}
		return os.WriteFile(markerPath, []byte(args[0]), 0o644)
	},
}
