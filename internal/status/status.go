// Package status maps a pane's scraped text, its agent tool identifier,
// and the foreground PID into a semantic Status, per §4.3.
package status

import "strings"

// Status is the lifecycle state of a session's pane.
type Status int

const (
	// Idle is the default state: no agent activity, or a bare shell prompt.
	Idle Status = iota
	// Starting is held unconditionally for a grace window after start().
	Starting
	// Running means the agent is actively streaming output.
	Running
	// Waiting means the agent is idle at a prompt, awaiting user input.
	Waiting
	// Error means the pane is gone, or an agent-specific error banner was
	// seen on the last scan.
	Error
	// Deleting is a transient UI marker while async deletion completes.
	Deleting
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	case Error:
		return "Error"
	case Deleting:
		return "Deleting"
	default:
		return "Unknown"
	}
}

// Detector maps the last ~50 lines of pane capture plus whether the
// foreground process is the agent tool itself (vs. a user-run subcommand)
// to a Status. Every agent definition in the registry MUST supply one
// (§4.3: "the registry refuses to enumerate a tool without one").
type Detector func(lines []string, foregroundIsTool bool) Status

// Infer applies the tie-break rules from §4.3 before delegating to the
// per-agent detector:
//   - pane doesn't exist -> Error
//   - empty capture -> Idle
//   - otherwise -> detector(lines, foregroundIsTool)
func Infer(paneExists bool, capture string, detector Detector, foregroundIsTool bool) Status {
	if !paneExists {
		return Error
	}
	trimmed := strings.TrimSpace(capture)
	if trimmed == "" {
		return Idle
	}
	if detector == nil {
		return Idle
	}
	lines := strings.Split(capture, "\n")
	return detector(lines, foregroundIsTool)
}

// LastNonBlankLine returns the last non-empty (after trimming) line of a
// pane capture, or "" if every line is blank. Detectors commonly match
// this line against a known error banner (§4.3 tie-break).
func LastNonBlankLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

// ContainsAny reports whether any of the needles appears in haystack
// (case-sensitive substring search — agent pane banners are fixed ASCII
// text, not locale-sensitive).
func ContainsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
