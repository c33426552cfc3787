package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agent-of-empires/aoe/internal/constants"
)

var memoryLimitRe = regexp.MustCompile(`^\d+[bkmgBKMG]?$`)

// dockerVolumeRe matches "host:container" or "host:container:ro".
var dockerVolumeRe = regexp.MustCompile(`^[^:]+:[^:]+(:ro)?$`)

// ValidationError describes one failed validation rule, surfaced as a
// §7 user error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the rules in §4.8 and returns every violation found.
// Called before any save of a global/profile/repo config.
func Validate(c Config) []error {
	var errs []error

	if c.Sandbox.MemoryLimit != "" && !memoryLimitRe.MatchString(c.Sandbox.MemoryLimit) {
		errs = append(errs, &ValidationError{
			Field:   "sandbox.memory_limit",
			Message: fmt.Sprintf("%q does not match /^\\d+[bkmgBKMG]?$/", c.Sandbox.MemoryLimit),
		})
	}

	for _, v := range c.Sandbox.DockerVolumes {
		if !dockerVolumeRe.MatchString(v) {
			errs = append(errs, &ValidationError{
				Field:   "sandbox.docker_volumes",
				Message: fmt.Sprintf("%q must be host:container or host:container:ro", v),
			})
		}
	}

	if c.Updates.CheckInterval < constants.MinUpdateCheckInterval {
		errs = append(errs, &ValidationError{
			Field:   "updates.check_interval",
			Message: fmt.Sprintf("must be >= %s", constants.MinUpdateCheckInterval),
		})
	}

	if strings.TrimSpace(c.Worktree.PathTemplate) != "" && !hasNonTemplateChar(c.Worktree.PathTemplate) {
		errs = append(errs, &ValidationError{
			Field:   "worktree.path_template",
			Message: "must contain at least one non-template character",
		})
	}

	return errs
}

// hasNonTemplateChar reports whether s has at least one character outside
// of the {repo-name}/{branch}/{session-id} template placeholders.
func hasNonTemplateChar(s string) bool {
	stripped := s
	for _, tpl := range []string{"{repo-name}", "{branch}", "{session-id}"} {
		stripped = strings.ReplaceAll(stripped, tpl, "")
	}
	return stripped != ""
}
