package tmux

import (
	"os/exec"
	"testing"
)

func TestSanitizeTitleTruncatesAndReplaces(t *testing.T) {
	got := SanitizeTitle("hello world!!/weird")
	if len(got) > 20 {
		t.Fatalf("SanitizeTitle result too long: %q", got)
	}
	want := "hello_world___weird"
	if got != want {
		t.Fatalf("SanitizeTitle = %q, want %q", got, want)
	}
}

func TestSanitizeTitleLongInputTruncatesTo20(t *testing.T) {
	input := ""
	for i := 0; i < 100; i++ {
		input += "a"
	}
	got := SanitizeTitle(input)
	if len(got) != 20 {
		t.Fatalf("SanitizeTitle(100 chars) length = %d, want 20", len(got))
	}
}

func TestPaneNameFormat(t *testing.T) {
	got := PaneName("aoe_", "My Session!", "0123456789abcdef")
	want := "aoe_My_Session__01234567"
	if got != want {
		t.Fatalf("PaneName = %q, want %q", got, want)
	}
}

func TestValidateName(t *testing.T) {
	if err := validateName("aoe_foo-1"); err != nil {
		t.Fatalf("validateName rejected a valid name: %v", err)
	}
	if err := validateName("has spaces"); err == nil {
		t.Fatalf("validateName accepted a name with a space")
	}
	if err := validateName(""); err == nil {
		t.Fatalf("validateName accepted empty name")
	}
}

func requireTmux(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not available")
	}
}

func TestCreateExistsKillLifecycle(t *testing.T) {
	requireTmux(t)
	tm := NewTmux("aoe-test-lifecycle")
	defer tm.run("kill-server")

	name := "aoe_test_lifecycle"
	if exists, err := tm.Exists(name); err != nil || exists {
		t.Fatalf("Exists before create = %v, %v; want false, nil", exists, err)
	}

	if err := tm.Create(name, "", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tm.Kill(name)

	if exists, err := tm.Exists(name); err != nil || !exists {
		t.Fatalf("Exists after create = %v, %v; want true, nil", exists, err)
	}

	// Create is idempotent.
	if err := tm.Create(name, "", ""); err != nil {
		t.Fatalf("repeat Create should be a no-op: %v", err)
	}

	if err := tm.Kill(name); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if exists, err := tm.Exists(name); err != nil || exists {
		t.Fatalf("Exists after kill = %v, %v; want false, nil", exists, err)
	}

	// Kill of a non-existent session is a no-op, not an error.
	if err := tm.Kill(name); err != nil {
		t.Fatalf("Kill on already-gone session returned error: %v", err)
	}
}

func TestRenameNoOpWhenMissing(t *testing.T) {
	requireTmux(t)
	tm := NewTmux("aoe-test-rename")
	defer tm.run("kill-server")

	if err := tm.Rename("aoe_nonexistent", "aoe_new"); err != nil {
		t.Fatalf("Rename of missing session should no-op: %v", err)
	}
}

func TestCapturePaneEmptyWhenMissing(t *testing.T) {
	requireTmux(t)
	tm := NewTmux("aoe-test-capture")
	defer tm.run("kill-server")

	got, err := tm.CapturePane("aoe_nonexistent", 10)
	if err != nil || got != "" {
		t.Fatalf("CapturePane(missing) = %q, %v; want \"\", nil", got, err)
	}
}

func TestGetPanePIDLiveSession(t *testing.T) {
	requireTmux(t)
	tm := NewTmux("aoe-test-panepid")
	defer tm.run("kill-server")

	name := "aoe_test_panepid"
	if err := tm.Create(name, "", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer tm.Kill(name)

	pid, ok := tm.GetPanePID(name)
	if !ok || pid == 0 {
		t.Fatalf("GetPanePID = %d, %v; want nonzero, true", pid, ok)
	}
}
