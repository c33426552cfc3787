package session

import (
	"strings"
	"testing"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/state"
)

func TestBuildCommandHostClaudeCtrlZWrap(t *testing.T) {
	inst := state.New("t", "/tmp/p")
	inst.Tool = agent.Claude

	got, err := BuildCommand(inst, nil, "docker")
	if err != nil {
		t.Fatal(err)
	}
	want := `bash -c 'stty susp undef; exec claude'`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildCommandYoloFlag(t *testing.T) {
	inst := state.New("t", "/tmp/p")
	inst.Tool = agent.Claude
	inst.SandboxInfo = &state.SandboxInfo{Enabled: false, YoloMode: true}

	got, err := BuildCommand(inst, nil, "docker")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "--dangerously-skip-permissions") {
		t.Fatalf("expected yolo flag in %q", got)
	}
}

func TestBuildCommandMultilineInstructionEscape(t *testing.T) {
	inst := state.New("t", "/tmp/p")
	inst.Tool = agent.Claude
	inst.SandboxInfo = &state.SandboxInfo{CustomInstruction: "First.\nSecond."}

	got, err := BuildCommand(inst, nil, "docker")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("result must not contain a literal newline: %q", got)
	}
	if !strings.Contains(got, `"First.\nSecond."`) {
		t.Fatalf("expected escaped instruction in %q", got)
	}
}

func TestBuildCommandSandboxedDockerExec(t *testing.T) {
	inst := state.New("t", "/tmp/p")
	inst.Tool = agent.Claude
	inst.SandboxInfo = &state.SandboxInfo{Enabled: true, ContainerName: "aoe-sandbox-abcd1234"}

	got, err := BuildCommand(inst, map[string]string{"TERM": "xterm"}, "docker")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "docker exec -it") {
		t.Fatalf("expected docker exec prefix in %q", got)
	}
	if !strings.Contains(got, `-e TERM="xterm"`) {
		t.Fatalf("expected escaped env flag in %q", got)
	}
	if !strings.Contains(got, "aoe-sandbox-abcd1234") {
		t.Fatalf("expected container name in %q", got)
	}
}

func TestBuildCommandShellNoCommand(t *testing.T) {
	inst := state.New("t", "/tmp/p")
	got, err := BuildCommand(inst, nil, "docker")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty command for bare shell instance, got %q", got)
	}
}
