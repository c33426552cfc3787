// Package agent holds the process-constant table of supported coding-agent
// CLIs: canonical name, binary, YOLO/auto-approve encoding, instruction
// injection template, availability probe, and status detector (§3 "Agent
// definition", §6 "Agent registry").
package agent

import (
	"fmt"
	"os/exec"

	"github.com/agent-of-empires/aoe/internal/status"
)

// Tool is a canonical agent identifier, or "shell" for a plain shell pane.
type Tool string

const (
	Claude   Tool = "claude"
	OpenCode Tool = "opencode"
	Vibe     Tool = "vibe"
	Codex    Tool = "codex"
	Gemini   Tool = "gemini"
	Cursor   Tool = "cursor"
	Shell    Tool = "shell"
)

// YOLOKind is how an agent encodes "skip all permission prompts".
type YOLOKind int

const (
	// YOLONone means the agent has no YOLO encoding (e.g. shell).
	YOLONone YOLOKind = iota
	// YOLOFlag appends YOLOValue as a CLI argument.
	YOLOFlag
	// YOLOEnv sets an environment variable; YOLOValue is "KEY=VALUE".
	YOLOEnv
)

// Definition is the process-constant record for one agent (§3).
type Definition struct {
	// Name is the canonical tool identifier.
	Name Tool
	// Binary is the executable name looked up on PATH.
	Binary string
	// Aliases are alternative names users may type for --tool.
	Aliases []string
	// YOLOKind/YOLOValue encode the auto-approve mode from §6's table.
	YOLOKind  YOLOKind
	YOLOValue string
	// InstructionFlagTemplate, if non-empty, contains "{ESC}" where the
	// escaped custom instruction is substituted (§6: claude, codex only).
	InstructionFlagTemplate string
	// SetCommandDefault indicates whether a new Instance should default
	// command = Binary (true for all CLI agents; false for bespoke
	// commands some hosts may prefer).
	SetCommandDefault bool
	// HostLaunchSupported is false for container-only agents.
	HostLaunchSupported bool
	// ContainerEnv lists env vars injected into the agent's container
	// regardless of session-local extra_env_*.
	ContainerEnv map[string]string
	// KeychainService names a macOS keychain service to probe for this
	// agent's credential (§4.5 point 4). Empty means no keychain lookup.
	KeychainService string
	// Detector maps pane text to a Status. Required for every agent —
	// register panics without one, and TestRegistryCompleteness in
	// agent_test.go checks every registered agent.
	Detector status.Detector
	// AvailabilityProbe reports whether the agent binary is usable on
	// this host. Defaults to a `which <binary>` exit-code check unless
	// overridden (vibe uses `binary --version`, per §6).
	AvailabilityProbe func() bool
}

var registry = map[Tool]*Definition{}

func register(d *Definition) {
	if d.Detector == nil {
		panic(fmt.Sprintf("agent: %s registered without a status detector", d.Name))
	}
	if d.AvailabilityProbe == nil {
		bin := d.Binary
		d.AvailabilityProbe = func() bool { return whichExists(bin) }
	}
	registry[d.Name] = d
}

func whichExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

// Get returns the Definition for a canonical tool name, or nil.
func Get(name Tool) *Definition {
	return registry[name]
}

// All returns every registered Definition, in a stable order.
func All() []*Definition {
	order := []Tool{Claude, OpenCode, Vibe, Codex, Gemini, Cursor}
	out := make([]*Definition, 0, len(order))
	for _, t := range order {
		if d, ok := registry[t]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Resolve looks up a tool by canonical name or alias, case-sensitive (tool
// identifiers are always lowercase per §3).
func Resolve(nameOrAlias string) (*Definition, error) {
	if d, ok := registry[Tool(nameOrAlias)]; ok {
		return d, nil
	}
	for _, d := range registry {
		for _, a := range d.Aliases {
			if a == nameOrAlias {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("unknown agent tool %q", nameOrAlias)
}

func init() {
	register(claudeDefinition())
	register(openCodeDefinition())
	register(vibeDefinition())
	register(codexDefinition())
	register(geminiDefinition())
	register(cursorDefinition())
}
