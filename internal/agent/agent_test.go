package agent

import (
	"testing"

	"github.com/agent-of-empires/aoe/internal/status"
)

func TestRegistryCompleteness(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("All() returned %d agents, want 6", len(all))
	}
	for _, d := range all {
		if d.Detector == nil {
			t.Fatalf("agent %q has no Detector", d.Name)
		}
		if d.YOLOKind == YOLONone {
			t.Fatalf("agent %q has no YOLO encoding", d.Name)
		}
		if d.Binary == "" {
			t.Fatalf("agent %q has no Binary", d.Name)
		}
	}
}

func TestGetAndResolve(t *testing.T) {
	if Get(Claude) == nil {
		t.Fatalf("Get(Claude) returned nil")
	}
	if Get(Tool("nonexistent")) != nil {
		t.Fatalf("Get(nonexistent) should be nil")
	}

	d, err := Resolve("claude-code")
	if err != nil || d.Name != Claude {
		t.Fatalf("Resolve(alias) = %v, %v; want claude def", d, err)
	}

	d, err = Resolve("codex")
	if err != nil || d.Name != Codex {
		t.Fatalf("Resolve(canonical) = %v, %v; want codex def", d, err)
	}

	if _, err := Resolve("not-a-tool"); err == nil {
		t.Fatalf("Resolve(unknown) expected error")
	}
}

func TestOpenCodeUsesEnvYOLO(t *testing.T) {
	d := Get(OpenCode)
	if d.YOLOKind != YOLOEnv {
		t.Fatalf("opencode YOLOKind = %v, want YOLOEnv", d.YOLOKind)
	}
	if d.YOLOValue != `OPENCODE_PERMISSION={"*":"allow"}` {
		t.Fatalf("unexpected opencode YOLOValue: %q", d.YOLOValue)
	}
}

func TestClaudeInstructionTemplateHasEscPlaceholder(t *testing.T) {
	d := Get(Claude)
	if d.InstructionFlagTemplate == "" {
		t.Fatalf("claude should have an instruction flag template")
	}
	if !contains(d.InstructionFlagTemplate, "{ESC}") {
		t.Fatalf("instruction template %q missing {ESC} placeholder", d.InstructionFlagTemplate)
	}
}

func TestVibeAvailabilityProbeOverridden(t *testing.T) {
	d := Get(Vibe)
	if d.AvailabilityProbe == nil {
		t.Fatalf("vibe should have an AvailabilityProbe")
	}
}

func TestClaudeDetectorRunningOnEscToInterrupt(t *testing.T) {
	d := Get(Claude)
	lines := []string{"some output", "⏵⏵ bypass permissions on · esc to interrupt"}
	if got := d.Detector(lines, true); got != status.Running {
		t.Fatalf("claude detector = %v, want Running", got)
	}
}

func TestClaudeDetectorWaitingAtPrompt(t *testing.T) {
	d := Get(Claude)
	lines := []string{"done.", "> "}
	if got := d.Detector(lines, true); got != status.Waiting {
		t.Fatalf("claude detector = %v, want Waiting", got)
	}
}

func TestClaudeDetectorErrorBanner(t *testing.T) {
	d := Get(Claude)
	lines := []string{"Connection error: timed out"}
	if got := d.Detector(lines, true); got != status.Error {
		t.Fatalf("claude detector = %v, want Error", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
