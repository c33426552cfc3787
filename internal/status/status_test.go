package status

import "testing"

func TestInferPaneGone(t *testing.T) {
	if got := Infer(false, "anything", nil, false); got != Error {
		t.Fatalf("Infer(paneExists=false) = %v, want Error", got)
	}
}

func TestInferEmptyCapture(t *testing.T) {
	if got := Infer(true, "   \n\n", nil, false); got != Idle {
		t.Fatalf("Infer(empty capture) = %v, want Idle", got)
	}
}

func TestInferDelegatesToDetector(t *testing.T) {
	called := false
	det := func(lines []string, foregroundIsTool bool) Status {
		called = true
		if !foregroundIsTool {
			return Idle
		}
		return Running
	}
	if got := Infer(true, "some output", det, true); got != Running {
		t.Fatalf("Infer = %v, want Running", got)
	}
	if !called {
		t.Fatalf("detector was not invoked")
	}
}

func TestLastNonBlankLine(t *testing.T) {
	if got := LastNonBlankLine([]string{"a", "b", "   ", ""}); got != "b" {
		t.Fatalf("LastNonBlankLine = %q, want b", got)
	}
	if got := LastNonBlankLine([]string{"", "  "}); got != "" {
		t.Fatalf("LastNonBlankLine of all-blank = %q, want empty", got)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		Idle: "Idle", Starting: "Starting", Running: "Running",
		Waiting: "Waiting", Error: "Error", Deleting: "Deleting",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
