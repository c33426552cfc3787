package state

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/agent-of-empires/aoe/internal/config"
)

// ListProfiles returns every profile name found under app_root/profiles,
// sorted. The default profile is included only if its directory exists.
func ListProfiles(appRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(appRoot, "profiles"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateProfile creates the on-disk directory for a new profile. It is
// idempotent: an existing profile directory is left untouched.
func CreateProfile(appRoot, name string) error {
	return os.MkdirAll(config.ProfileDir(appRoot, name), 0o755)
}

// DeleteProfile removes a profile's entire directory, including its
// sessions.json and config.toml. Callers are responsible for stopping any
// live sessions first; this is a pure filesystem operation.
func DeleteProfile(appRoot, name string) error {
	return os.RemoveAll(config.ProfileDir(appRoot, name))
}

// ProfileExists reports whether a profile directory has been created.
func ProfileExists(appRoot, name string) bool {
	info, err := os.Stat(config.ProfileDir(appRoot, name))
	return err == nil && info.IsDir()
}

// SessionsPath returns the sessions.json path for a profile.
func SessionsPath(appRoot, profile string) string {
	return filepath.Join(config.ProfileDir(appRoot, profile), "sessions.json")
}

// LoadProfile opens (or initializes) a profile's Store.
func LoadProfile(appRoot, profile string) (*Store, error) {
	if err := CreateProfile(appRoot, profile); err != nil {
		return nil, err
	}
	return Load(SessionsPath(appRoot, profile))
}
