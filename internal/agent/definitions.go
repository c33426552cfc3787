package agent

import (
	"os/exec"
	"strings"

	"github.com/agent-of-empires/aoe/internal/status"
)

// promptSuffixes mirrors the set of characters a bare shell or a waiting
// agent leaves at the end of its last line.
var promptSuffixes = []string{">", "$", "%", "#", "❯"}

func endsWithPromptSuffix(line string) bool {
	trimmed := strings.TrimRight(line, " ")
	for _, s := range promptSuffixes {
		if strings.HasSuffix(trimmed, s) {
			return true
		}
	}
	return false
}

func errorBannerDetector(banners ...string) func(lines []string) bool {
	return func(lines []string) bool {
		return status.ContainsAny(status.LastNonBlankLine(lines), banners...)
	}
}

// claudeDefinition grounds its detector on the teacher's status-bar
// substring check ("esc to interrupt" while busy, absent while idle).
func claudeDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("API Error", "Connection error", "rate_limit_error")
	return &Definition{
		Name:                    Claude,
		Binary:                  "claude",
		Aliases:                 []string{"claude-code", "cc"},
		YOLOKind:                YOLOFlag,
		YOLOValue:               "--dangerously-skip-permissions",
		InstructionFlagTemplate: "--append-system-prompt {ESC}",
		SetCommandDefault:       true,
		HostLaunchSupported:     true,
		ContainerEnv: map[string]string{
			"CLAUDE_CONFIG_DIR": "/home/agent/.claude",
		},
		KeychainService: "Claude Code-credentials",
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			last := status.LastNonBlankLine(lines)
			if strings.Contains(last, "esc to interrupt") {
				return status.Running
			}
			if !foregroundIsTool {
				return status.Idle
			}
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}

// openCodeDefinition encodes YOLO via environment variable, per §6.
func openCodeDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("Error:", "panic:")
	return &Definition{
		Name:                OpenCode,
		Binary:              "opencode",
		YOLOKind:            YOLOEnv,
		YOLOValue:           `OPENCODE_PERMISSION={"*":"allow"}`,
		SetCommandDefault:   true,
		HostLaunchSupported: true,
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			if !foregroundIsTool {
				return status.Idle
			}
			last := status.LastNonBlankLine(lines)
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}

// vibeDefinition's availability probe uses `vibe --version` rather than
// `which vibe`, per §6: the binary may be a shell function wrapper that
// `which` cannot see.
func vibeDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("Error:", "failed:")
	return &Definition{
		Name:                Vibe,
		Binary:              "vibe",
		YOLOKind:            YOLOFlag,
		YOLOValue:           "--agent auto-approve",
		SetCommandDefault:   true,
		HostLaunchSupported: true,
		AvailabilityProbe: func() bool {
			return exec.Command("vibe", "--version").Run() == nil
		},
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			if !foregroundIsTool {
				return status.Idle
			}
			last := status.LastNonBlankLine(lines)
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}

func codexDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("stream error", "failed to connect")
	return &Definition{
		Name:                    Codex,
		Binary:                  "codex",
		YOLOKind:                YOLOFlag,
		YOLOValue:               "--dangerously-bypass-approvals-and-sandbox",
		InstructionFlagTemplate: "--config developer_instructions={ESC}",
		SetCommandDefault:       true,
		HostLaunchSupported:     true,
		ContainerEnv: map[string]string{
			"CODEX_HOME": "/home/agent/.codex",
		},
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			if !foregroundIsTool {
				return status.Idle
			}
			last := status.LastNonBlankLine(lines)
			if strings.Contains(last, "Esc to interrupt") {
				return status.Running
			}
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}

func geminiDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("RESOURCE_EXHAUSTED", "PERMISSION_DENIED")
	return &Definition{
		Name:                Gemini,
		Binary:              "gemini",
		YOLOKind:            YOLOFlag,
		YOLOValue:           "--approval-mode yolo",
		SetCommandDefault:   true,
		HostLaunchSupported: true,
		ContainerEnv: map[string]string{
			"GEMINI_CONFIG_DIR": "/home/agent/.gemini",
		},
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			if !foregroundIsTool {
				return status.Idle
			}
			last := status.LastNonBlankLine(lines)
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}

func cursorDefinition() *Definition {
	hasErrorBanner := errorBannerDetector("Error:", "Unauthorized")
	return &Definition{
		Name:                Cursor,
		Binary:              "agent",
		YOLOKind:            YOLOFlag,
		YOLOValue:           "--yolo",
		SetCommandDefault:   true,
		HostLaunchSupported: true,
		Detector: func(lines []string, foregroundIsTool bool) status.Status {
			if hasErrorBanner(lines) {
				return status.Error
			}
			if !foregroundIsTool {
				return status.Idle
			}
			last := status.LastNonBlankLine(lines)
			if endsWithPromptSuffix(last) {
				return status.Waiting
			}
			return status.Running
		},
	}
}
