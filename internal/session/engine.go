// Package session composes the multiplexer, container runtime, sandbox
// orchestrator, git worktree adapter, and persistent store into the
// Instance's lifecycle operations (§4.10).
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/constants"
	"github.com/agent-of-empires/aoe/internal/container"
	"github.com/agent-of-empires/aoe/internal/gitwt"
	"github.com/agent-of-empires/aoe/internal/procutil"
	"github.com/agent-of-empires/aoe/internal/sandbox"
	"github.com/agent-of-empires/aoe/internal/state"
	"github.com/agent-of-empires/aoe/internal/status"
	"github.com/agent-of-empires/aoe/internal/tmux"
)

// Engine composes every adapter the Instance's public contract needs.
// One Engine is shared across every Instance in a profile; per-instance
// mutation serialization is the caller's responsibility (§5 "Ordering
// guarantees").
type Engine struct {
	Tmux      *tmux.Tmux
	Runtime   container.Runtime
	AppRoot   string
	ExecBinary string // "docker" or "container", matches Runtime
	Config    config.Config
}

// NewEngine wires an Engine from a resolved Config and app root.
func NewEngine(t *tmux.Tmux, rt container.Runtime, execBinary, appRoot string, cfg config.Config) *Engine {
	return &Engine{Tmux: t, Runtime: rt, AppRoot: appRoot, ExecBinary: execBinary, Config: cfg}
}

// AgentPaneName, TerminalPaneName, ContainerTerminalPaneName derive the
// three pane kinds' deterministic names (§4.1).
func AgentPaneName(inst *state.Instance) string {
	return tmux.PaneName(constants.PanePrefixAgent, inst.Title, inst.ID)
}
func TerminalPaneName(inst *state.Instance) string {
	return tmux.PaneName(constants.PanePrefixTerminal, inst.Title, inst.ID)
}
func ContainerTerminalPaneName(inst *state.Instance) string {
	return tmux.PaneName(constants.PanePrefixContainer, inst.Title, inst.ID)
}

// Start brings up an Instance's pane (and container, if sandboxed). No-op
// if the pane already exists (§4.10 "start(size?)").
func (e *Engine) Start(ctx context.Context, inst *state.Instance) error {
	name := AgentPaneName(inst)
	exists, err := e.Tmux.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	e.runOnLaunchHooks(ctx, inst)

	workingDir := inst.ProjectPath
	if inst.SandboxInfo != nil && inst.SandboxInfo.Enabled {
		wd, err := e.ensureContainer(ctx, inst)
		if err != nil {
			return fmt.Errorf("ensuring container: %w", err)
		}
		workingDir = wd
	}

	env := e.resolveEnvironment(inst)
	command, err := BuildCommand(inst, env, e.ExecBinary)
	if err != nil {
		return err
	}

	if err := e.Tmux.Create(name, workingDir, command); err != nil {
		return fmt.Errorf("%w", err)
	}
	e.Tmux.ApplyDisplayOptions(name, e.Config.Tmux.StatusBar, e.Config.Tmux.Mouse,
		sandbox.Truncate(inst.Title, constants.DisplayTitleMaxLen))

	inst.MarkStarted()
	inst.Touch()
	return nil
}

// ensureContainer makes sure inst's sandbox container exists and is
// running, pulling the image and computing volumes/env along the way
// (§4.10 start() step 2). Returns the in-container working directory.
func (e *Engine) ensureContainer(ctx context.Context, inst *state.Instance) (string, error) {
	name := inst.SandboxInfo.ContainerName
	running, err := e.Runtime.IsContainerRunning(ctx, name)
	if err != nil {
		return "", err
	}
	if !running {
		if err := e.Runtime.EnsureImage(ctx, inst.SandboxInfo.Image); err != nil {
			return "", err
		}
	}

	exists, err := e.Runtime.DoesContainerExist(ctx, name)
	if err != nil {
		return "", err
	}

	mount, err := sandbox.ComputeProjectMount(inst.ProjectPath)
	if err != nil {
		return "", err
	}

	sandboxVolumes := e.prepareAgentSandbox(inst)

	if !exists {
		def := agent.Get(inst.Tool)
		cfg := container.Config{
			WorkingDir:  mount.WorkingDir,
			Volumes:     append([]container.Volume{mount.Volume}, sandboxVolumes...),
			Environment: toKV(e.resolveEnvironment(inst)),
			CPULimit:    e.Config.Sandbox.CPULimit,
			MemoryLimit: e.Config.Sandbox.MemoryLimit,
		}
		if def != nil {
			for k, v := range def.ContainerEnv {
				cfg.Environment = append(cfg.Environment, container.KV{Key: k, Value: v})
			}
		}
		id, err := e.Runtime.CreateContainer(ctx, name, inst.SandboxInfo.Image, cfg)
		if err != nil {
			return "", err
		}
		inst.SandboxInfo.ContainerID = id
		running = false
	}
	if !running {
		if err := e.Runtime.StartContainer(ctx, name); err != nil {
			return "", err
		}
	}
	return mount.WorkingDir, nil
}

// prepareAgentSandbox seeds/refreshes inst's shared agent sandbox dir from
// the host config, extracts a macOS Keychain credential if the agent has
// one, and returns the volumes that mount the result into the container
// (§4.10 start() step 2, §4.5 points 1-6). Agents with no AGENT_CONFIG_MOUNTS
// entry (cursor, shell) get no sandbox dir and no volumes. Every failure
// here is a warning, not an abort: a missing/unsynced config dir means a
// fresh login prompt inside the container, not a broken session (§7
// "transient errors").
func (e *Engine) prepareAgentSandbox(inst *state.Instance) []container.Volume {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: resolving home directory for sandbox sync: %v\n", err)
		return nil
	}

	cfg, containerSuffix, ok := sandbox.HostConfigFor(inst.Tool, home)
	if !ok {
		return nil
	}

	dir := sandbox.Dir(e.AppRoot, inst.Tool)
	if err := sandbox.EnsureSandboxDir(dir, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: seeding sandbox dir for %s: %v\n", inst.Tool, err)
		return nil
	}
	for _, warning := range sandbox.SyncAgentConfig(dir, cfg) {
		fmt.Fprintf(os.Stderr, "Warning: syncing %s config: %v\n", inst.Tool, warning)
	}

	if cfg.KeychainFile != "" {
		if def := agent.Get(inst.Tool); def != nil && def.KeychainService != "" {
			if secret, err := sandbox.ExtractKeychainSecret(def.KeychainService); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: extracting keychain credential for %s: %v\n", inst.Tool, err)
			} else if secret != "" {
				dest := filepath.Join(dir, cfg.KeychainFile)
				if err := os.WriteFile(dest, []byte(secret), 0o600); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: writing keychain credential for %s: %v\n", inst.Tool, err)
				}
			}
		}
	}

	volumes := []container.Volume{{
		Host:      dir,
		Container: filepath.Join(constants.ContainerHome, containerSuffix),
	}}
	volumes = append(volumes, sandbox.HomeBindMounts(dir, constants.ContainerHome, cfg.HomeSeedFiles)...)
	return volumes
}

func toKV(env map[string]string) []container.KV {
	out := make([]container.KV, 0, len(env))
	for _, k := range sortedEnvKeys(env) {
		out = append(out, container.KV{Key: k, Value: env[k]})
	}
	return out
}

// resolveEnvironment merges the four §4.5 environment sources for inst.
func (e *Engine) resolveEnvironment(inst *state.Instance) map[string]string {
	src := config.EnvSource{
		SandboxKeys: e.Config.Sandbox.Environment,
		Values:      e.Config.Sandbox.EnvironmentValues,
		HostEnv:     config.HostEnviron(),
	}
	if inst.SandboxInfo != nil {
		src.ExtraKeys = inst.SandboxInfo.ExtraEnvKeys
		merged := map[string]string{}
		for k, v := range src.Values {
			merged[k] = v
		}
		for k, v := range inst.SandboxInfo.ExtraEnvValues {
			merged[k] = v
		}
		src.Values = merged
	}
	return config.ResolveEnvironment(src)
}

// runOnLaunchHooks runs configured on-launch hooks. Failures are logged as
// warnings and never abort launch (§4.5 "On-launch hooks", §7 "Transient
// errors").
func (e *Engine) runOnLaunchHooks(ctx context.Context, inst *state.Instance) {
	for _, h := range e.Config.Hooks.OnLaunch {
		if err := e.runHook(ctx, inst, h); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: on-launch hook %q failed: %v\n", h, err)
		}
	}
}

func (e *Engine) runHook(ctx context.Context, inst *state.Instance, hookCmd string) error {
	if inst.SandboxInfo != nil && inst.SandboxInfo.Enabled {
		_, err := e.Runtime.Exec(ctx, inst.SandboxInfo.ContainerName, []string{"sh", "-c", hookCmd})
		return err
	}
	return runHostCommand(ctx, inst.ProjectPath, hookCmd)
}

// Restart kills then starts an Instance's pane, pausing briefly in
// between (§4.10 "restart(size?)").
func (e *Engine) Restart(ctx context.Context, inst *state.Instance) error {
	if err := e.Kill(inst); err != nil {
		return err
	}
	time.Sleep(constants.RestartPause)
	return e.Start(ctx, inst)
}

// Kill kills the agent pane if it exists. It never touches the container
// or worktree (§4.10 "kill()").
func (e *Engine) Kill(inst *state.Instance) error {
	return e.Tmux.Kill(AgentPaneName(inst))
}

// CaptureOutputWithSize delegates to the multiplexer (§4.10).
func (e *Engine) CaptureOutputWithSize(inst *state.Instance, lines int) (string, error) {
	return e.Tmux.CapturePane(AgentPaneName(inst), lines)
}

// UpdateStatus honors the Starting grace window and Error latch before
// invoking status inference (§4.3, §4.10 "update_status()").
func (e *Engine) UpdateStatus(inst *state.Instance) status.Status {
	now := time.Now()

	if inst.Status == state.StatusStarting && now.Sub(inst.LastStartTime()) < constants.StartingGrace {
		return status.Starting
	}
	if inst.Status == state.StatusError && now.Sub(inst.LastErrorCheck()) < constants.ErrorLatch {
		return status.Error
	}

	name := AgentPaneName(inst)
	exists, err := e.Tmux.Exists(name)
	if err != nil || !exists {
		inst.Status = state.StatusError
		inst.SetLastError("pane not found")
		return status.Error
	}

	capture, _ := e.Tmux.CapturePane(name, 50)
	foregroundIsTool := e.isForegroundTool(name)

	def := agent.Get(inst.Tool)
	var detector status.Detector
	if def != nil {
		detector = def.Detector
	}
	result := status.Infer(exists, capture, detector, foregroundIsTool)

	inst.Status = fromInferredStatus(result)
	if result == status.Error {
		inst.SetLastError("agent error banner detected")
	}
	return result
}

// isForegroundTool reports whether the pane's foreground process is still
// the pane's own main process — i.e. the agent CLI itself rather than a
// subcommand the user launched inside it (§4.3 "foreground PID
// disambiguates").
func (e *Engine) isForegroundTool(paneName string) bool {
	panePID, ok := e.Tmux.GetPanePID(paneName)
	if !ok {
		return false
	}
	fgPID, ok := procutil.GetForegroundPID(panePID)
	if !ok {
		return false
	}
	return fgPID == panePID
}

func fromInferredStatus(s status.Status) state.Status {
	switch s {
	case status.Starting:
		return state.StatusStarting
	case status.Running:
		return state.StatusRunning
	case status.Waiting:
		return state.StatusWaiting
	case status.Error:
		return state.StatusError
	case status.Deleting:
		return state.StatusDeleting
	default:
		return state.StatusIdle
	}
}

// Delete tears down every resource owned by inst: the pane(s), the
// worktree if cleanup_on_delete is set, and the container if sandboxing
// is enabled (§4.10 "On delete"). Persisting the removal from the store
// is the caller's responsibility.
func (e *Engine) Delete(ctx context.Context, inst *state.Instance) error {
	_ = e.Tmux.Kill(AgentPaneName(inst))
	_ = e.Tmux.Kill(TerminalPaneName(inst))
	_ = e.Tmux.Kill(ContainerTerminalPaneName(inst))

	if inst.WorktreeInfo != nil && inst.WorktreeInfo.CleanupOnDelete {
		g := gitwt.New(inst.WorktreeInfo.MainRepoPath)
		if err := g.RemoveWorktree(inst.ProjectPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: removing worktree %s: %v\n", inst.ProjectPath, err)
		}
	}

	if inst.SandboxInfo != nil && inst.SandboxInfo.Enabled {
		if err := e.Runtime.StopContainer(ctx, inst.SandboxInfo.ContainerName); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: stopping container %s: %v\n", inst.SandboxInfo.ContainerName, err)
		}
		if err := e.Runtime.Remove(ctx, inst.SandboxInfo.ContainerName, true); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: removing container %s: %v\n", inst.SandboxInfo.ContainerName, err)
		}
	}
	return nil
}

// StartTerminalPane starts the paired plain-shell pane for inst, the same
// lifecycle as the agent pane but under the "aoe_term_" prefix (§4.10
// "Helpers for paired terminal... panes").
func (e *Engine) StartTerminalPane(inst *state.Instance) error {
	name := TerminalPaneName(inst)
	if exists, err := e.Tmux.Exists(name); err != nil {
		return err
	} else if exists {
		return nil
	}
	workingDir := inst.ProjectPath
	if err := e.Tmux.Create(name, workingDir, ""); err != nil {
		return err
	}
	if inst.TerminalInfo == nil {
		inst.TerminalInfo = &state.TerminalInfo{}
	}
	inst.TerminalInfo.Created = true
	inst.TerminalInfo.CreatedAt = time.Now().UTC()
	return nil
}

// KillTerminalPane kills the paired plain-shell pane.
func (e *Engine) KillTerminalPane(inst *state.Instance) error {
	return e.Tmux.Kill(TerminalPaneName(inst))
}

// StartContainerTerminalPane starts a shell pane execing into inst's
// sandbox container, under the "aoe_cterm_" prefix.
func (e *Engine) StartContainerTerminalPane(inst *state.Instance) error {
	if inst.SandboxInfo == nil || !inst.SandboxInfo.Enabled {
		return fmt.Errorf("instance %s has no sandbox container", inst.ID)
	}
	name := ContainerTerminalPaneName(inst)
	if exists, err := e.Tmux.Exists(name); err != nil {
		return err
	} else if exists {
		return nil
	}
	argv := e.Runtime.ExecCommand(inst.SandboxInfo.ContainerName)
	command := joinArgv(append(argv, "sh"))
	return e.Tmux.Create(name, inst.ProjectPath, command)
}

func joinArgv(argv []string) string {
	out := ""
	for i, a := range argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func runHostCommand(ctx context.Context, dir, command string) error {
	return runShell(ctx, dir, command)
}
