package sandbox

import (
	"path/filepath"

	"github.com/agent-of-empires/aoe/internal/agent"
)

// agentMount is the static per-agent host/container config mapping (§4.5
// points 1, 3, 5, 6), grounded on the original's AGENT_CONFIG_MOUNTS table
// (session/instance.rs): only agents with an entry there get their host
// config synced into the sandbox and mounted into the container. cursor
// has no entry in the original and is intentionally absent here too.
type agentMount struct {
	hostRel         string
	containerSuffix string
	cfg             AgentHostConfig
}

var agentMounts = map[agent.Tool]agentMount{
	agent.Claude: {
		hostRel:         ".claude",
		containerSuffix: ".claude",
		cfg: AgentHostConfig{
			SkipEntries:   []string{"projects"},
			RecursiveDirs: []string{"plugins", "skills"},
			PreserveFiles: []string{".credentials.json"},
			KeychainFile:  ".credentials.json",
			HomeSeedFiles: map[string]string{
				".claude.json": `{"hasCompletedOnboarding":true}`,
			},
		},
	},
	agent.OpenCode: {
		hostRel:         ".local/share/opencode",
		containerSuffix: ".local/share/opencode",
	},
	agent.Codex: {
		hostRel:         ".codex",
		containerSuffix: ".codex",
	},
	agent.Gemini: {
		hostRel:         ".gemini",
		containerSuffix: ".gemini",
	},
	agent.Vibe: {
		hostRel:         ".vibe",
		containerSuffix: ".vibe",
	},
}

// HostConfigFor returns the AgentHostConfig for tool (its HostDir resolved
// under homeDir) and the path suffix (relative to the container home) its
// sandbox dir mounts at. ok is false for agents with no sandboxed config
// directory (cursor, shell).
func HostConfigFor(tool agent.Tool, homeDir string) (cfg AgentHostConfig, containerSuffix string, ok bool) {
	m, found := agentMounts[tool]
	if !found {
		return AgentHostConfig{}, "", false
	}
	cfg = m.cfg
	cfg.HostDir = filepath.Join(homeDir, m.hostRel)
	return cfg, m.containerSuffix, true
}
