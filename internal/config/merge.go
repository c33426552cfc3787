package config

import "time"

// Merge resolves the three config layers per §4.8: "profile value if set,
// otherwise global; repo value if set and repo trusted, otherwise profile."
func Merge(global Config, profile *Override, repo *Override, repoTrusted bool) Config {
	out := global
	applyOverride(&out, profile)
	if repoTrusted {
		applyOverride(&out, repo)
	}
	return out
}

func applyOverride(c *Config, o *Override) {
	if o == nil {
		return
	}
	if o.Theme != nil {
		if o.Theme.Name != nil {
			c.Theme.Name = *o.Theme.Name
		}
	}
	if o.Updates != nil {
		if o.Updates.CheckEnabled != nil {
			c.Updates.CheckEnabled = *o.Updates.CheckEnabled
		}
		if o.Updates.CheckInterval != nil {
			if d, err := time.ParseDuration(*o.Updates.CheckInterval); err == nil {
				c.Updates.CheckInterval = d
			}
		}
	}
	if o.Worktree != nil {
		if o.Worktree.PathTemplate != nil {
			c.Worktree.PathTemplate = *o.Worktree.PathTemplate
		}
		if o.Worktree.CleanupOnDelete != nil {
			c.Worktree.CleanupOnDelete = *o.Worktree.CleanupOnDelete
		}
		if o.Worktree.DefaultCreateNew != nil {
			c.Worktree.DefaultCreateNew = *o.Worktree.DefaultCreateNew
		}
	}
	if o.Sandbox != nil {
		if o.Sandbox.Enabled != nil {
			c.Sandbox.Enabled = *o.Sandbox.Enabled
		}
		if o.Sandbox.DefaultImage != nil {
			c.Sandbox.DefaultImage = *o.Sandbox.DefaultImage
		}
		if o.Sandbox.Environment != nil {
			c.Sandbox.Environment = o.Sandbox.Environment
		}
		if o.Sandbox.EnvironmentValues != nil {
			merged := make(map[string]string, len(c.Sandbox.EnvironmentValues)+len(o.Sandbox.EnvironmentValues))
			for k, v := range c.Sandbox.EnvironmentValues {
				merged[k] = v
			}
			for k, v := range o.Sandbox.EnvironmentValues {
				merged[k] = v
			}
			c.Sandbox.EnvironmentValues = merged
		}
		if o.Sandbox.CPULimit != nil {
			c.Sandbox.CPULimit = *o.Sandbox.CPULimit
		}
		if o.Sandbox.MemoryLimit != nil {
			c.Sandbox.MemoryLimit = *o.Sandbox.MemoryLimit
		}
		if o.Sandbox.DockerVolumes != nil {
			c.Sandbox.DockerVolumes = o.Sandbox.DockerVolumes
		}
	}
	if o.Tmux != nil {
		if o.Tmux.StatusBar != nil {
			c.Tmux.StatusBar = *o.Tmux.StatusBar
		}
		if o.Tmux.Mouse != nil {
			c.Tmux.Mouse = *o.Tmux.Mouse
		}
		if o.Tmux.SocketDir != nil {
			c.Tmux.SocketDir = *o.Tmux.SocketDir
		}
	}
	if o.Session != nil {
		if o.Session.DefaultTool != nil {
			c.Session.DefaultTool = *o.Session.DefaultTool
		}
		if o.Session.YoloModeDefault != nil {
			c.Session.YoloModeDefault = *o.Session.YoloModeDefault
		}
		if o.Session.WaitForAgentReady != nil {
			c.Session.WaitForAgentReady = *o.Session.WaitForAgentReady
		}
	}
	if o.Hooks != nil && len(o.Hooks.OnLaunch) > 0 {
		c.Hooks.OnLaunch = append(append([]string{}, c.Hooks.OnLaunch...), o.Hooks.OnLaunch...)
	}
}
