package migrate

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/agent-of-empires/aoe/internal/constants"
)

// legacyHomeDir returns the pre-XDG data location on Linux:
// ~/.agent-of-empires, which the app used before adopting
// $XDG_CONFIG_HOME/agent-of-empires.
func legacyHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+constants.AppDirName), nil
}

// migrateLegacyHomeToXDG moves legacy ~/.agent-of-empires data to the
// target XDG data dir on Linux (§4.9 "Migration v1 (example)"). It
// detects "already migrated" via target-dir presence, so it is safe to
// run again on restart (§4.9 "MUST detect already migrated via
// target-dir presence").
func migrateLegacyHomeToXDG(targetDir string) error {
	if runtime.GOOS != "linux" {
		return nil
	}
	if _, err := os.Stat(targetDir); err == nil {
		return nil // already migrated
	}
	legacy, err := legacyHomeDir()
	if err != nil {
		return err
	}
	if legacy == targetDir {
		return nil
	}
	if _, err := os.Stat(legacy); err != nil {
		if os.IsNotExist(err) {
			return nil // nothing to migrate
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(targetDir), 0o755); err != nil {
		return err
	}
	return os.Rename(legacy, targetDir)
}

func init() {
	Register(Migration{
		Version: 1,
		Name:    "move-legacy-home-to-xdg",
		Run:     migrateLegacyHomeToXDG,
	})
}
