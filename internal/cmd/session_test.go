package cmd

import (
	"path/filepath"
	"testing"

	"github.com/agent-of-empires/aoe/internal/state"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	store, err := state.Load(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return &app{Store: store}
}

func TestResolveInstanceByFullID(t *testing.T) {
	a := newTestApp(t)
	inst := state.New("demo", "/tmp/demo")
	if err := a.Store.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := resolveInstance(a, inst.ID)
	if err != nil {
		t.Fatalf("resolveInstance: %v", err)
	}
	if got.ID != inst.ID {
		t.Errorf("got id %s, want %s", got.ID, inst.ID)
	}
}

func TestResolveInstanceByShortID(t *testing.T) {
	a := newTestApp(t)
	inst := state.New("demo", "/tmp/demo")
	if err := a.Store.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := resolveInstance(a, inst.IDShort())
	if err != nil {
		t.Fatalf("resolveInstance: %v", err)
	}
	if got.ID != inst.ID {
		t.Errorf("got id %s, want %s", got.ID, inst.ID)
	}
}

func TestResolveInstanceUnknown(t *testing.T) {
	a := newTestApp(t)
	if _, err := resolveInstance(a, "nosuchsession"); err == nil {
		t.Error("expected error for unknown session id")
	}
}

func TestSessionCmd_SubcommandsRegistered(t *testing.T) {
	want := []string{"start", "stop", "restart", "attach", "show", "current", "import"}
	got := map[string]bool{}
	for _, sub := range sessionCmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("session subcommand %q not registered", name)
		}
	}
}

func TestSessionStopCmd_HasKillAlias(t *testing.T) {
	found := false
	for _, alias := range sessionStopCmd.Aliases {
		if alias == "kill" {
			found = true
		}
	}
	if !found {
		t.Error(`sessionStopCmd missing "kill" alias`)
	}
}
