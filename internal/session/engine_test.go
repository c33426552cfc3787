package session

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/constants"
	"github.com/agent-of-empires/aoe/internal/state"
	"github.com/agent-of-empires/aoe/internal/status"
	"github.com/agent-of-empires/aoe/internal/tmux"
)

func requireTmux(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not available")
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tx := tmux.NewTmux("aoe-session-test-" + t.Name())
	return NewEngine(tx, nil, "docker", t.TempDir(), config.Default())
}

func TestStartAndKillHostShellSession(t *testing.T) {
	requireTmux(t)
	e := newTestEngine(t)
	inst := state.New("hostshell", t.TempDir())
	inst.Tool = agent.Shell

	if err := e.Start(context.Background(), inst); err != nil {
		t.Fatal(err)
	}
	exists, err := e.Tmux.Exists(AgentPaneName(inst))
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected pane to exist after Start")
	}

	if err := e.Kill(inst); err != nil {
		t.Fatal(err)
	}
	exists, err = e.Tmux.Exists(AgentPaneName(inst))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected pane to be gone after Kill")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	requireTmux(t)
	e := newTestEngine(t)
	inst := state.New("idempotent", t.TempDir())
	inst.Tool = agent.Shell

	if err := e.Start(context.Background(), inst); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(context.Background(), inst); err != nil {
		t.Fatal(err)
	}
	_ = e.Kill(inst)
}

func TestUpdateStatusStartingGrace(t *testing.T) {
	inst := state.New("grace", "/tmp")
	inst.MarkStarted()

	e := &Engine{Tmux: tmux.NewTmux("aoe-grace-test"), Config: config.Default()}
	got := e.UpdateStatus(inst)
	if got != status.Starting {
		t.Fatalf("got %v, want Starting within grace window", got)
	}
}

func TestUpdateStatusErrorLatch(t *testing.T) {
	inst := state.New("latch", "/tmp")
	inst.Status = state.StatusError
	inst.SetLastError("boom")

	e := &Engine{Tmux: tmux.NewTmux("aoe-latch-test-nonexistent"), Config: config.Default()}
	got := e.UpdateStatus(inst)
	if got != status.Error {
		t.Fatalf("got %v, want Error within latch window", got)
	}
}

func TestUpdateStatusGraceExpiresIntoError(t *testing.T) {
	requireTmux(t)
	inst := state.New("expired", "/tmp")
	// Force the grace window to have already elapsed by marking started
	// far enough in the past, without a live pane behind it.
	inst.Status = state.StatusStarting
	inst.SetLastError("")
	e := &Engine{Tmux: tmux.NewTmux("aoe-expired-test"), Config: config.Default()}

	time.Sleep(constants.StartingGrace + 10*time.Millisecond)
	got := e.UpdateStatus(inst)
	if got != status.Error {
		t.Fatalf("got %v, want Error once grace window elapses with no pane", got)
	}
}
