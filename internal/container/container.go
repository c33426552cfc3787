// Package container abstracts the two sandbox runtimes (Docker and
// Apple's `container` CLI) behind a single interface, the same way
// internal/tmux wraps a single multiplexer binary (§4.4).
package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/agent-of-empires/aoe/internal/constants"
)

// Sentinel errors classified from a runtime's stderr text.
var (
	ErrContainerAlreadyExists = errors.New("container already exists")
	ErrImageNotFound          = errors.New("image not found")
	ErrDaemonNotRunning       = errors.New("container daemon not running")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrCreateFailed           = errors.New("container creation failed")
)

// Volume is a bind mount from a host path into the container.
type Volume struct {
	Host      string
	Container string
	ReadOnly  bool
}

// NamedVolume is a runtime-managed (non-bind) volume.
type NamedVolume struct {
	Name      string
	Container string
}

// Config describes everything needed to create a sandbox container. The
// adapter honors every field; it does not dictate exact flag layout (§4.4).
type Config struct {
	WorkingDir   string
	Volumes      []Volume
	NamedVolumes []NamedVolume
	Environment  []KV
	CPULimit     string
	MemoryLimit  string
}

// KV is an ordered environment entry (ordering matters for reproducible
// `docker exec` argv in tests).
type KV struct {
	Key, Value string
}

// ContainerName derives the runtime container name for a session id, per
// §4.4: "aoe-sandbox-" + id[:8].
func ContainerName(id string) string {
	short := id
	if len(short) > constants.IDShortLen {
		short = short[:constants.IDShortLen]
	}
	return constants.ContainerNamePrefix + short
}

// Runtime is the uniform container operations surface. Docker and Apple's
// `container` CLI each get a concrete implementation.
type Runtime interface {
	DoesContainerExist(ctx context.Context, name string) (bool, error)
	IsContainerRunning(ctx context.Context, name string) (bool, error)
	CreateContainer(ctx context.Context, name, image string, cfg Config) (string, error)
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	Remove(ctx context.Context, name string, force bool) error
	ExecCommand(name string) []string
	Exec(ctx context.Context, name string, argv []string) (string, error)
	EnsureImage(ctx context.Context, image string) error
	EnsureNamedVolume(ctx context.Context, name string) error
}

// runHelper executes binary with args, capturing stdout/stderr separately.
func runHelper(ctx context.Context, binary string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

func classifyCreateError(stderr string) error {
	switch {
	case strings.Contains(stderr, "already in use"), strings.Contains(stderr, "already exists"):
		return ErrContainerAlreadyExists
	case strings.Contains(stderr, "No such image"), strings.Contains(stderr, "manifest unknown"), strings.Contains(stderr, "not found"):
		return ErrImageNotFound
	case strings.Contains(stderr, "Cannot connect to the Docker daemon"), strings.Contains(stderr, "daemon is not running"):
		return ErrDaemonNotRunning
	case strings.Contains(stderr, "permission denied"):
		return ErrPermissionDenied
	}
	if stderr != "" {
		return fmt.Errorf("%w: %s", ErrCreateFailed, stderr)
	}
	return ErrCreateFailed
}

func buildRunArgs(binary, name, image string, cfg Config) []string {
	args := []string{"run", "-d", "--name", name, "-w", cfg.WorkingDir}
	for _, v := range cfg.Volumes {
		spec := v.Host + ":" + v.Container
		if v.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}
	for _, v := range cfg.NamedVolumes {
		args = append(args, "-v", v.Name+":"+v.Container)
	}
	for _, kv := range cfg.Environment {
		args = append(args, "-e", kv.Key+"="+kv.Value)
	}
	if cfg.CPULimit != "" {
		args = append(args, "--cpus", cfg.CPULimit)
	}
	if cfg.MemoryLimit != "" {
		args = append(args, "-m", cfg.MemoryLimit)
	}
	args = append(args, image, "sleep", "infinity")
	return args
}

// dockerRuntime implements Runtime against the docker(1) CLI.
type dockerRuntime struct{ binary string }

// NewDocker returns a Runtime backed by the docker CLI.
func NewDocker() Runtime { return &dockerRuntime{binary: "docker"} }

func (d *dockerRuntime) DoesContainerExist(ctx context.Context, name string) (bool, error) {
	_, stderr, err := runHelper(ctx, d.binary, "container", "inspect", name)
	if err != nil {
		if strings.Contains(stderr, "No such container") {
			return false, nil
		}
		return false, fmt.Errorf("docker container inspect: %s", stderr)
	}
	return true, nil
}

func (d *dockerRuntime) IsContainerRunning(ctx context.Context, name string) (bool, error) {
	out, stderr, err := runHelper(ctx, d.binary, "container", "inspect", "-f", "{{.State.Running}}", name)
	if err != nil {
		if strings.Contains(stderr, "No such container") {
			return false, nil
		}
		return false, fmt.Errorf("docker container inspect: %s", stderr)
	}
	running, _ := strconv.ParseBool(out)
	return running, nil
}

func (d *dockerRuntime) CreateContainer(ctx context.Context, name, image string, cfg Config) (string, error) {
	args := buildRunArgs(d.binary, name, image, cfg)
	out, stderr, err := runHelper(ctx, d.binary, args...)
	if err != nil {
		return "", classifyCreateError(stderr)
	}
	return out, nil
}

func (d *dockerRuntime) StartContainer(ctx context.Context, name string) error {
	_, stderr, err := runHelper(ctx, d.binary, "start", name)
	if err != nil {
		return fmt.Errorf("docker start: %s", stderr)
	}
	return nil
}

func (d *dockerRuntime) StopContainer(ctx context.Context, name string) error {
	_, stderr, err := runHelper(ctx, d.binary, "stop", name)
	if err != nil {
		return fmt.Errorf("docker stop: %s", stderr)
	}
	return nil
}

func (d *dockerRuntime) Remove(ctx context.Context, name string, force bool) error {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, name)
	_, stderr, err := runHelper(ctx, d.binary, args...)
	if err != nil && !strings.Contains(stderr, "No such container") {
		return fmt.Errorf("docker rm: %s", stderr)
	}
	return nil
}

func (d *dockerRuntime) ExecCommand(name string) []string {
	return []string{d.binary, "exec", "-it", name}
}

func (d *dockerRuntime) Exec(ctx context.Context, name string, argv []string) (string, error) {
	args := append([]string{"exec", name}, argv...)
	out, stderr, err := runHelper(ctx, d.binary, args...)
	if err != nil {
		return "", fmt.Errorf("docker exec: %s", stderr)
	}
	return out, nil
}

func (d *dockerRuntime) EnsureImage(ctx context.Context, image string) error {
	_, stderr, err := runHelper(ctx, d.binary, "pull", image)
	if err != nil {
		return classifyCreateError(stderr)
	}
	return nil
}

func (d *dockerRuntime) EnsureNamedVolume(ctx context.Context, name string) error {
	_, _, err := runHelper(ctx, d.binary, "volume", "inspect", name)
	if err == nil {
		return nil
	}
	_, stderr, err := runHelper(ctx, d.binary, "volume", "create", name)
	if err != nil {
		return fmt.Errorf("docker volume create: %s", stderr)
	}
	return nil
}

// appleRuntime implements Runtime against macOS's `container` CLI. It
// shares argv shape with docker for every subcommand this adapter uses.
type appleRuntime struct{ dockerRuntime }

// NewAppleContainer returns a Runtime backed by Apple's `container` CLI.
func NewAppleContainer() Runtime {
	return &appleRuntime{dockerRuntime{binary: "container"}}
}

// Detect picks a Runtime and its matching exec binary name, preferring
// Apple's `container` CLI on macOS when present (probed the same way
// internal/agent probes tool availability) and falling back to Docker
// everywhere else.
func Detect() (Runtime, string) {
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("container"); err == nil {
			return NewAppleContainer(), "container"
		}
	}
	return NewDocker(), "docker"
}
