// Package cmd implements the CLI surface (§6 "CLI surface"): one
// *cobra.Command var per subcommand, registered onto rootCmd from each
// file's init(), matching the teacher's internal/cmd package shape.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/constants"
)

// Command groups, used purely for --help layout.
const (
	GroupSession = "session"
	GroupOrg     = "org"
	GroupAdmin   = "admin"
)

var profileFlag string

var rootCmd = &cobra.Command{
	Use:           "aoe",
	Short:         "Manage concurrent AI coding-agent sessions in tmux",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", constants.DefaultProfileName, "profile to operate on")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSession, Title: "Session commands:"},
		&cobra.Group{ID: GroupOrg, Title: "Organization commands:"},
		&cobra.Group{ID: GroupAdmin, Title: "Admin commands:"},
	)
}

// Execute runs the CLI, mapping errors to the §7 exit-code taxonomy: a
// *userError surfaces with exit 1, anything else is treated as fatal
// (exit 2). main.go calls this directly.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if _, ok := err.(*userError); ok {
			return 1
		}
		return 2
	}
	return 0
}

// userError marks an error that should exit 1 rather than 2 (§7 "User
// errors"). Wrap with newUserError at the point the mistake is detected,
// e.g. unknown session id, duplicate title, path not in a git repo.
type userError struct{ err error }

func (e *userError) Error() string { return e.err.Error() }
func (e *userError) Unwrap() error { return e.err }

func newUserError(format string, args ...any) error {
	return &userError{err: fmt.Errorf(format, args...)}
}
