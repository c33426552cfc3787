// Command aoe is the agent-of-empires CLI: a terminal workspace manager
// for multiple concurrent AI coding-agent sessions running in tmux.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/agent-of-empires/aoe/internal/cmd"
	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/migrate"
)

func main() {
	if err := runMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(cmd.Execute())
}

// runMigrations applies every pending schema migration before any command
// touches app_root (§4.9). A migration failure is fatal (§7).
func runMigrations() error {
	appRoot, err := config.AppRoot()
	if err != nil {
		return fmt.Errorf("resolving app root: %w", err)
	}

	known := []string{appRoot}
	if runtime.GOOS == "linux" {
		if home, err := os.UserHomeDir(); err == nil {
			known = append(known, filepath.Join(home, ".agent-of-empires"))
		}
	}

	return migrate.Run(known, appRoot)
}
