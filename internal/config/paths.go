package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/agent-of-empires/aoe/internal/constants"
)

// AppRoot returns the application's on-disk root, per §6:
// Linux: $XDG_CONFIG_HOME/agent-of-empires or ~/.config/agent-of-empires.
// macOS/other: ~/.agent-of-empires.
func AppRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "linux" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, constants.AppDirName), nil
	}
	return filepath.Join(home, "."+constants.AppDirName), nil
}

// ProfileDir returns the per-profile directory under app_root.
func ProfileDir(appRoot, profile string) string {
	return filepath.Join(appRoot, constants.ProfilesDirName, profile)
}

// GlobalConfigPath returns app_root/config.toml.
func GlobalConfigPath(appRoot string) string {
	return filepath.Join(appRoot, constants.GlobalConfigFile)
}

// ProfileConfigPath returns <profile_dir>/config.toml.
func ProfileConfigPath(appRoot, profile string) string {
	return filepath.Join(ProfileDir(appRoot, profile), constants.ProfileConfigFile)
}

// RepoConfigPath returns <repo>/.agent-of-empires/config.toml, the repo
// override location consulted only when the repo is trust-verified.
func RepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, "."+constants.AppDirName, "config.toml")
}
