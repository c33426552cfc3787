package session

import (
	"context"
	"os/exec"
)

// runShell executes a host on-launch hook command in dir (§4.5 "On-launch
// hooks"). Hook stdout/stderr are discarded; only the error (if any) is
// surfaced to the caller, which logs it as a warning and never aborts
// launch.
func runShell(ctx context.Context, dir, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	return cmd.Run()
}
