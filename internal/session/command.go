package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/sandbox"
	"github.com/agent-of-empires/aoe/internal/state"
)

// buildToolInvocation builds the bare CLI invocation for an instance's
// agent — binary plus YOLO flag plus instruction-injection flag — before
// any container wrapping or Ctrl-Z suppression (§4.10 start() step 2, §6
// "Agent registry").
func buildToolInvocation(inst *state.Instance, def *agent.Definition, yolo bool) string {
	if inst.Command != "" {
		return inst.Command
	}
	if def == nil {
		return ""
	}

	parts := []string{def.Binary}
	if yolo && def.YOLOKind == agent.YOLOFlag {
		parts = append(parts, def.YOLOValue)
	}
	if def.InstructionFlagTemplate != "" && inst.SandboxInfo != nil && inst.SandboxInfo.CustomInstruction != "" {
		escaped := config.DoubleQuoteEscape(inst.SandboxInfo.CustomInstruction)
		flag := strings.Replace(def.InstructionFlagTemplate, "{ESC}", escaped, 1)
		parts = append(parts, flag)
	}
	return strings.Join(parts, " ")
}

// toolEnv returns the env-var-encoded YOLO setting for agents that use
// YOLOEnv (§6: opencode), merged with the agent's container env.
func toolEnv(def *agent.Definition, yolo bool) map[string]string {
	env := map[string]string{}
	for k, v := range def.ContainerEnv {
		env[k] = v
	}
	if yolo && def.YOLOKind == agent.YOLOEnv {
		if i := strings.IndexByte(def.YOLOValue, '='); i >= 0 {
			env[def.YOLOValue[:i]] = def.YOLOValue[i+1:]
		}
	}
	return env
}

// buildDockerExecCommand builds the `docker exec -it -e K="V" ... NAME
// CMD...` string run as a sandboxed pane's initial command (§4.5
// "Environment resolution... interpolated into a shell command string").
// Env values are escaped via config.DoubleQuoteEscape; the exec-prefix
// binary itself carries no shell escaping (raw argv, §4.4).
func buildDockerExecCommand(execBinary, containerName string, env map[string]string, toolCmd string) string {
	var b strings.Builder
	b.WriteString(execBinary)
	b.WriteString(" exec -it")
	for _, k := range sortedEnvKeys(env) {
		fmt.Fprintf(&b, " -e %s=%s", k, config.DoubleQuoteEscape(env[k]))
	}
	b.WriteString(" ")
	b.WriteString(containerName)
	b.WriteString(" ")
	b.WriteString(toolCmd)
	return b.String()
}

func sortedEnvKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildCommand resolves the full pane command for an instance: the bare
// tool invocation for a host-launched session, or the docker-exec-wrapped
// invocation for a sandboxed one, always finished with the Ctrl-Z
// suppression wrapper (§4.10 start() step 2, §4.5 "Ctrl-Z suppression").
func BuildCommand(inst *state.Instance, resolvedEnv map[string]string, execBinary string) (string, error) {
	def := agent.Get(inst.Tool)
	if inst.Tool != agent.Shell && def == nil {
		return "", fmt.Errorf("unknown agent tool %q", inst.Tool)
	}

	yolo := inst.SandboxInfo != nil && inst.SandboxInfo.YoloMode

	if inst.Tool == agent.Shell {
		if inst.Command != "" {
			return sandbox.WrapCtrlZSuppression(inst.Command), nil
		}
		return "", nil
	}

	toolCmd := buildToolInvocation(inst, def, yolo)

	if inst.SandboxInfo == nil || !inst.SandboxInfo.Enabled {
		return sandbox.WrapCtrlZSuppression(toolCmd), nil
	}

	env := config.MergeEnv(toolEnv(def, yolo), resolvedEnv)
	dockerCmd := buildDockerExecCommand(execBinary, inst.SandboxInfo.ContainerName, env, toolCmd)
	return sandbox.WrapCtrlZSuppression(dockerCmd), nil
}
