// Package state defines the Instance/Group entities and the per-profile
// JSON store that persists them (§3 "Entities", §4.7 "Persistent State").
package state

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/constants"
)

// Status mirrors status.Status as a persisted string without importing
// internal/status directly (which infers it, but doesn't need to know
// about persistence). The session engine is the glue that translates
// between the two.
type Status string

const (
	StatusIdle     Status = "Idle"
	StatusStarting Status = "Starting"
	StatusRunning  Status = "Running"
	StatusWaiting  Status = "Waiting"
	StatusError    Status = "Error"
	StatusDeleting Status = "Deleting"
)

// WorktreeInfo records the git worktree backing a session, if any (§3).
type WorktreeInfo struct {
	Branch         string    `json:"branch"`
	MainRepoPath   string    `json:"main_repo_path"`
	ManagedByUs    bool      `json:"managed_by_us"`
	CreatedAt      time.Time `json:"created_at"`
	CleanupOnDelete bool     `json:"cleanup_on_delete"`
}

// SandboxInfo records the per-session container, if sandboxing is enabled
// (§3).
type SandboxInfo struct {
	Enabled           bool     `json:"enabled"`
	ContainerID       string   `json:"container_id,omitempty"`
	Image             string   `json:"image"`
	ContainerName     string   `json:"container_name"`
	YoloMode          bool     `json:"yolo_mode"`
	ExtraEnvKeys      []string `json:"extra_env_keys,omitempty"`
	ExtraEnvValues    map[string]string `json:"extra_env_values,omitempty"`
	CustomInstruction string   `json:"custom_instruction,omitempty"`
}

// TerminalInfo marks a paired plain-shell pane (§3).
type TerminalInfo struct {
	Created   bool      `json:"created"`
	CreatedAt time.Time `json:"created_at"`
}

// Instance is one session: a project directory paired with a multiplexer
// pane and optional container (§3).
type Instance struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ProjectPath     string    `json:"project_path"`
	GroupPath       string    `json:"group_path"`
	ParentSessionID string    `json:"parent_session_id,omitempty"`
	Tool            agent.Tool `json:"tool"`
	Command         string    `json:"command,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	LastAccessedAt  time.Time `json:"last_accessed_at"`

	WorktreeInfo *WorktreeInfo `json:"worktree_info,omitempty"`
	SandboxInfo  *SandboxInfo  `json:"sandbox_info,omitempty"`
	TerminalInfo *TerminalInfo `json:"terminal_info,omitempty"`

	// Runtime shadow fields: never persisted (§3 "Non-persisted runtime
	// shadow"). Reconstructed fresh on every load.
	lastErrorCheck time.Time `json:"-"`
	lastStartTime  time.Time `json:"-"`
	lastError      string    `json:"-"`
}

// NewID returns a fresh 16-hex-char opaque identifier: a random UUID with
// dashes stripped, truncated (§3, §8 property 2).
func NewID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:constants.IDLen]
}

// New creates an Instance with a fresh id and the given title/path,
// defaulting tool to "shell" and status to Idle (§4.10 "new(title, path)").
func New(title, projectPath string) *Instance {
	now := time.Now().UTC()
	return &Instance{
		ID:             NewID(),
		Title:          title,
		ProjectPath:    projectPath,
		Tool:           agent.Shell,
		Status:         StatusIdle,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// IDShort returns the first constants.IDShortLen hex chars of the id, used
// in pane and container names.
func (i *Instance) IDShort() string {
	if len(i.ID) <= constants.IDShortLen {
		return i.ID
	}
	return i.ID[:constants.IDShortLen]
}

// Touch updates LastAccessedAt to now.
func (i *Instance) Touch() {
	i.LastAccessedAt = time.Now().UTC()
}

// SetLastError records the runtime (non-persisted) last error text and the
// instant it was observed.
func (i *Instance) SetLastError(msg string) {
	i.lastError = msg
	i.lastErrorCheck = time.Now()
}

// LastError returns the non-persisted last error text.
func (i *Instance) LastError() string { return i.lastError }

// LastErrorCheck returns when the last error was observed.
func (i *Instance) LastErrorCheck() time.Time { return i.lastErrorCheck }

// MarkStarted records the instant start() was invoked, for the Starting
// grace window (§4.3).
func (i *Instance) MarkStarted() {
	i.lastStartTime = time.Now()
	i.Status = StatusStarting
}

// LastStartTime returns when start() was last invoked.
func (i *Instance) LastStartTime() time.Time { return i.lastStartTime }

// SearchText returns a cached lowercase string used for fuzzy filtering in
// the TUI (out of scope here, but the field is part of the non-persisted
// runtime shadow per §3).
func (i *Instance) SearchText() string {
	return strings.ToLower(i.Title + " " + i.ProjectPath + " " + i.GroupPath)
}

// Validate checks the §3 invariants that are cheap to check locally
// (cross-instance invariants like parent existence are checked by Store).
func (i *Instance) Validate() error {
	if len(i.ID) != constants.IDLen {
		return errInvalidID
	}
	if i.SandboxInfo != nil && i.SandboxInfo.Enabled {
		if i.SandboxInfo.Image == "" || i.SandboxInfo.ContainerName == "" {
			return errSandboxMissingFields
		}
	}
	if i.WorktreeInfo != nil && i.WorktreeInfo.CleanupOnDelete && !i.WorktreeInfo.ManagedByUs {
		return errCleanupWithoutManaged
	}
	return nil
}
