// Package config implements the three-tier configuration layering described
// in §4.8: global defaults, profile overrides, and trust-gated repo
// overrides, merged field-by-field into a resolved Config.
package config

import "time"

// Config is the fully resolved, merged configuration used by the rest of
// the system. Every field has a concrete value after merging.
type Config struct {
	Theme    ThemeConfig
	Updates  UpdatesConfig
	Worktree WorktreeConfig
	Sandbox  SandboxConfig
	Tmux     TmuxConfig
	Session  SessionConfig
	Hooks    HooksConfig
}

// ThemeConfig controls TUI theming. The TUI itself is out of scope (§1);
// this section only carries the value through the config layers so repo
// and profile overrides round-trip correctly.
type ThemeConfig struct {
	Name string
}

// UpdatesConfig controls the startup update-check ping.
type UpdatesConfig struct {
	CheckEnabled  bool
	CheckInterval time.Duration
}

// WorktreeConfig controls git worktree behavior (§4.6).
type WorktreeConfig struct {
	// PathTemplate supports {repo-name}, {branch}, {session-id}.
	PathTemplate     string
	CleanupOnDelete  bool
	DefaultCreateNew bool
}

// SandboxConfig controls the sandbox orchestrator (§4.5).
type SandboxConfig struct {
	Enabled           bool
	DefaultImage       string
	Environment        []string          // host env keys forwarded into containers
	EnvironmentValues  map[string]string // explicit key=value entries, may reference $VAR
	CPULimit           string
	MemoryLimit        string
	DockerVolumes      []string // host:container[:ro] entries, always mounted
}

// TmuxConfig controls multiplexer-adapter behavior.
type TmuxConfig struct {
	StatusBar bool
	Mouse     bool
	SocketDir string
}

// SessionConfig controls session-engine defaults.
type SessionConfig struct {
	DefaultTool       string
	YoloModeDefault   bool
	WaitForAgentReady bool
}

// HooksConfig lists on-launch hook commands, applied per §4.5 ("On-launch
// hooks"). Global and profile hooks always apply; repo hooks only apply
// when the repo is trusted.
type HooksConfig struct {
	OnLaunch []string
}

// Default returns the compiled-in global defaults, used to initialize a
// fresh app_root/config.toml on first run.
func Default() Config {
	return Config{
		Theme: ThemeConfig{Name: "default"},
		Updates: UpdatesConfig{
			CheckEnabled:  true,
			CheckInterval: 24 * time.Hour,
		},
		Worktree: WorktreeConfig{
			PathTemplate:     "{repo-name}-{branch}",
			CleanupOnDelete:  true,
			DefaultCreateNew: false,
		},
		Sandbox: SandboxConfig{
			Enabled:           false,
			DefaultImage:      "",
			Environment:       []string{"TERM", "COLORTERM", "FORCE_COLOR", "NO_COLOR"},
			EnvironmentValues: map[string]string{},
			DockerVolumes:     nil,
		},
		Tmux: TmuxConfig{
			StatusBar: true,
			Mouse:     true,
		},
		Session: SessionConfig{
			DefaultTool:       "claude",
			YoloModeDefault:   false,
			WaitForAgentReady: true,
		},
		Hooks: HooksConfig{},
	}
}
