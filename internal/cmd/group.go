package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/state"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	GroupID: GroupOrg,
	Short:   "Manage the session group tree",
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd, groupCreateCmd, groupDeleteCmd, groupMoveCmd)
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups depth-first, alphabetical within a parent",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		for _, fg := range state.FlattenGroups(a.Store.Groups()) {
			fmt.Printf("%s%s\n", strings.Repeat("  ", fg.Depth), fg.Name)
		}
		return nil
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create PATH",
	Short: "Create a group and any missing ancestors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		a.Store.CreateGroup(args[0])
		return a.save()
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete PATH",
	Short: "Delete a group and its descendants, clearing member sessions' group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		if !state.GroupExists(a.Store.Groups(), args[0]) {
			return newUserError("group %q does not exist", args[0])
		}
		a.Store.DeleteGroup(args[0])
		return a.save()
	},
}

var groupMoveCmd = &cobra.Command{
	Use:   "move OLD_PATH NEW_PATH",
	Short: "Rename a group subtree, moving its member sessions along with it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, "")
		if err != nil {
			return err
		}
		if !state.GroupExists(a.Store.Groups(), args[0]) {
			return newUserError("group %q does not exist", args[0])
		}
		a.Store.MoveGroup(args[0], args[1])
		return a.save()
	},
}
