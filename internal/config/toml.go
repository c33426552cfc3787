package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/agent-of-empires/aoe/internal/util"
)

// LoadOverride reads a config.toml override file. A missing file is not an
// error: it simply means no overrides are set at that layer.
func LoadOverride(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Override{}, nil
		}
		return nil, err
	}
	var o Override
	if _, err := toml.Decode(string(data), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// SaveOverride writes a config.toml override file atomically.
func SaveOverride(path string, o *Override) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o644)
}

// globalToOverride builds the shape written for app_root/config.toml: the
// resolved defaults expressed the same way an override would be, so the
// first-run file is just "everything explicitly set".
func globalToOverride(c Config) *Override {
	interval := c.Updates.CheckInterval.String()
	return &Override{
		Theme:    &ThemeOverride{Name: strPtr(c.Theme.Name)},
		Updates:  &UpdatesOverride{CheckEnabled: boolPtr(c.Updates.CheckEnabled), CheckInterval: strPtr(interval)},
		Worktree: &WorktreeOverride{PathTemplate: strPtr(c.Worktree.PathTemplate), CleanupOnDelete: boolPtr(c.Worktree.CleanupOnDelete), DefaultCreateNew: boolPtr(c.Worktree.DefaultCreateNew)},
		Sandbox: &SandboxOverride{
			Enabled:           boolPtr(c.Sandbox.Enabled),
			DefaultImage:      strPtr(c.Sandbox.DefaultImage),
			Environment:       c.Sandbox.Environment,
			EnvironmentValues: c.Sandbox.EnvironmentValues,
			CPULimit:          strPtr(c.Sandbox.CPULimit),
			MemoryLimit:       strPtr(c.Sandbox.MemoryLimit),
			DockerVolumes:     c.Sandbox.DockerVolumes,
		},
		Tmux:    &TmuxOverride{StatusBar: boolPtr(c.Tmux.StatusBar), Mouse: boolPtr(c.Tmux.Mouse), SocketDir: strPtr(c.Tmux.SocketDir)},
		Session: &SessionOverride{DefaultTool: strPtr(c.Session.DefaultTool), YoloModeDefault: boolPtr(c.Session.YoloModeDefault), WaitForAgentReady: boolPtr(c.Session.WaitForAgentReady)},
		Hooks:   &HooksOverride{OnLaunch: c.Hooks.OnLaunch},
	}
}

// InitGlobal writes a first-run app_root/config.toml containing the
// compiled-in defaults, unless one already exists.
func InitGlobal(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return SaveOverride(path, globalToOverride(Default()))
}

// LoadGlobal reads app_root/config.toml and merges it over the compiled-in
// defaults (global overrides are unconditionally applied; there is no
// parent above global).
func LoadGlobal(path string) (Config, error) {
	o, err := LoadOverride(path)
	if err != nil {
		return Config{}, err
	}
	out := Default()
	applyOverride(&out, o)
	return out, nil
}
