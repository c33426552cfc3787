package config

import "time"

// Override mirrors Config but every field is optional: a nil/zero-value
// pointer means "inherit from the parent layer". This is what profile and
// repo config.toml files deserialize into.
//
// Per §9 ("Config override clearing"): writing a value equal to the
// parent's current value clears the override, so edits don't freeze at an
// older global value once the global later changes. ClearIfEqual
// implements that rule for each sub-config.
type Override struct {
	Theme    *ThemeOverride    `toml:"theme,omitempty"`
	Updates  *UpdatesOverride  `toml:"updates,omitempty"`
	Worktree *WorktreeOverride `toml:"worktree,omitempty"`
	Sandbox  *SandboxOverride  `toml:"sandbox,omitempty"`
	Tmux     *TmuxOverride     `toml:"tmux,omitempty"`
	Session  *SessionOverride  `toml:"session,omitempty"`
	Hooks    *HooksOverride    `toml:"hooks,omitempty"`
}

type ThemeOverride struct {
	Name *string `toml:"name,omitempty"`
}

type UpdatesOverride struct {
	CheckEnabled  *bool   `toml:"check_enabled,omitempty"`
	CheckInterval *string `toml:"check_interval,omitempty"` // Go duration string, e.g. "48h"
}

type WorktreeOverride struct {
	PathTemplate     *string `toml:"path_template,omitempty"`
	CleanupOnDelete  *bool   `toml:"cleanup_on_delete,omitempty"`
	DefaultCreateNew *bool   `toml:"default_create_new,omitempty"`
}

type SandboxOverride struct {
	Enabled           *bool             `toml:"enabled,omitempty"`
	DefaultImage      *string           `toml:"default_image,omitempty"`
	Environment       []string          `toml:"environment,omitempty"`
	EnvironmentValues map[string]string `toml:"environment_values,omitempty"`
	CPULimit          *string           `toml:"cpu_limit,omitempty"`
	MemoryLimit       *string           `toml:"memory_limit,omitempty"`
	DockerVolumes     []string          `toml:"docker_volumes,omitempty"`
}

type TmuxOverride struct {
	StatusBar *bool   `toml:"status_bar,omitempty"`
	Mouse     *bool   `toml:"mouse,omitempty"`
	SocketDir *string `toml:"socket_dir,omitempty"`
}

type SessionOverride struct {
	DefaultTool       *string `toml:"default_tool,omitempty"`
	YoloModeDefault   *bool   `toml:"yolo_mode_default,omitempty"`
	WaitForAgentReady *bool   `toml:"wait_for_agent_ready,omitempty"`
}

type HooksOverride struct {
	OnLaunch []string `toml:"on_launch,omitempty"`
}

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string  { return &s }

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringMapEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func sandboxOverrideEmpty(o *SandboxOverride) bool {
	return o.Enabled == nil && o.DefaultImage == nil && o.Environment == nil &&
		o.EnvironmentValues == nil && o.CPULimit == nil && o.MemoryLimit == nil &&
		o.DockerVolumes == nil
}

// ClearIfEqual nils out override fields that now equal the parent's
// resolved value, implementing the "writing a value equal to the parent
// clears the override" rule from §9. Called after a user edits a
// profile/repo override through the CLI or TUI.
func (o *Override) ClearIfEqual(parent Config) {
	if o == nil {
		return
	}
	if o.Theme != nil {
		if o.Theme.Name != nil && *o.Theme.Name == parent.Theme.Name {
			o.Theme.Name = nil
		}
		if *o.Theme == (ThemeOverride{}) {
			o.Theme = nil
		}
	}
	if o.Updates != nil {
		if o.Updates.CheckEnabled != nil && *o.Updates.CheckEnabled == parent.Updates.CheckEnabled {
			o.Updates.CheckEnabled = nil
		}
		if o.Updates.CheckInterval != nil {
			if d, err := time.ParseDuration(*o.Updates.CheckInterval); err == nil && d == parent.Updates.CheckInterval {
				o.Updates.CheckInterval = nil
			}
		}
		if *o.Updates == (UpdatesOverride{}) {
			o.Updates = nil
		}
	}
	if o.Worktree != nil {
		if o.Worktree.PathTemplate != nil && *o.Worktree.PathTemplate == parent.Worktree.PathTemplate {
			o.Worktree.PathTemplate = nil
		}
		if o.Worktree.CleanupOnDelete != nil && *o.Worktree.CleanupOnDelete == parent.Worktree.CleanupOnDelete {
			o.Worktree.CleanupOnDelete = nil
		}
		if o.Worktree.DefaultCreateNew != nil && *o.Worktree.DefaultCreateNew == parent.Worktree.DefaultCreateNew {
			o.Worktree.DefaultCreateNew = nil
		}
		if *o.Worktree == (WorktreeOverride{}) {
			o.Worktree = nil
		}
	}
	if o.Session != nil {
		if o.Session.DefaultTool != nil && *o.Session.DefaultTool == parent.Session.DefaultTool {
			o.Session.DefaultTool = nil
		}
		if o.Session.YoloModeDefault != nil && *o.Session.YoloModeDefault == parent.Session.YoloModeDefault {
			o.Session.YoloModeDefault = nil
		}
		if o.Session.WaitForAgentReady != nil && *o.Session.WaitForAgentReady == parent.Session.WaitForAgentReady {
			o.Session.WaitForAgentReady = nil
		}
		if *o.Session == (SessionOverride{}) {
			o.Session = nil
		}
	}
	if o.Sandbox != nil {
		if o.Sandbox.Enabled != nil && *o.Sandbox.Enabled == parent.Sandbox.Enabled {
			o.Sandbox.Enabled = nil
		}
		if o.Sandbox.DefaultImage != nil && *o.Sandbox.DefaultImage == parent.Sandbox.DefaultImage {
			o.Sandbox.DefaultImage = nil
		}
		if o.Sandbox.Environment != nil && stringSliceEqual(o.Sandbox.Environment, parent.Sandbox.Environment) {
			o.Sandbox.Environment = nil
		}
		if o.Sandbox.EnvironmentValues != nil && stringMapEqual(o.Sandbox.EnvironmentValues, parent.Sandbox.EnvironmentValues) {
			o.Sandbox.EnvironmentValues = nil
		}
		if o.Sandbox.CPULimit != nil && *o.Sandbox.CPULimit == parent.Sandbox.CPULimit {
			o.Sandbox.CPULimit = nil
		}
		if o.Sandbox.MemoryLimit != nil && *o.Sandbox.MemoryLimit == parent.Sandbox.MemoryLimit {
			o.Sandbox.MemoryLimit = nil
		}
		if o.Sandbox.DockerVolumes != nil && stringSliceEqual(o.Sandbox.DockerVolumes, parent.Sandbox.DockerVolumes) {
			o.Sandbox.DockerVolumes = nil
		}
		if sandboxOverrideEmpty(o.Sandbox) {
			o.Sandbox = nil
		}
	}
	if o.Tmux != nil {
		if o.Tmux.StatusBar != nil && *o.Tmux.StatusBar == parent.Tmux.StatusBar {
			o.Tmux.StatusBar = nil
		}
		if o.Tmux.Mouse != nil && *o.Tmux.Mouse == parent.Tmux.Mouse {
			o.Tmux.Mouse = nil
		}
		if o.Tmux.SocketDir != nil && *o.Tmux.SocketDir == parent.Tmux.SocketDir {
			o.Tmux.SocketDir = nil
		}
		if *o.Tmux == (TmuxOverride{}) {
			o.Tmux = nil
		}
	}
	if o.Hooks != nil {
		if o.Hooks.OnLaunch != nil && stringSliceEqual(o.Hooks.OnLaunch, parent.Hooks.OnLaunch) {
			o.Hooks.OnLaunch = nil
		}
		if o.Hooks.OnLaunch == nil {
			o.Hooks = nil
		}
	}
}
