// Package constants defines shared timing and naming constants used
// throughout agent of empires. Centralizing these magic values keeps the
// multiplexer, status-inference, and session-engine packages consistent
// with each other.
package constants

import "time"

// Timing constants for session lifecycle and status inference.
const (
	// StartingGrace is how long a freshly started Instance reports Starting
	// unconditionally, regardless of what the pane actually shows.
	StartingGrace = 3 * time.Second

	// ErrorLatch is how long an Instance stays latched in Error once
	// observed, without re-scanning the pane.
	ErrorLatch = 30 * time.Second

	// SessionCacheAge is the maximum staleness tolerated by the multiplexer's
	// process-wide session-listing cache before a refresh is forced.
	SessionCacheAge = 2 * time.Second

	// ProcessKillGrace is the pause between SIGTERM and SIGKILL when tearing
	// down a process tree.
	ProcessKillGrace = 75 * time.Millisecond

	// RestartPause is the pause between kill and start during restart().
	RestartPause = 100 * time.Millisecond

	// UpdateCheckTimeout bounds the startup update-check ping.
	UpdateCheckTimeout = 5 * time.Second

	// StatusPollInterval is how often the status poller worker re-scans
	// every instance.
	StatusPollInterval = 500 * time.Millisecond

	// InputPollInterval is the UI loop's input-poll timeout.
	InputPollInterval = 50 * time.Millisecond

	// DiskReconcileInterval is how often the UI reconciles external edits
	// to sessions.json made by another process.
	DiskReconcileInterval = 5 * time.Second

	// MinUpdateCheckInterval is the minimum allowed updates.check_interval.
	MinUpdateCheckInterval = 1 * time.Hour
)

// Pane-name prefixes. See §4.1: prefix + sanitized_title[:20] + "_" + id[:8].
const (
	PanePrefixAgent     = "aoe_"
	PanePrefixTerminal  = "aoe_term_"
	PanePrefixContainer = "aoe_cterm_"
)

// Container naming.
const (
	// ContainerNamePrefix precedes the first 8 hex chars of an Instance id.
	ContainerNamePrefix = "aoe-sandbox-"
)

// Application directory and file names (see §6, on-disk layout).
const (
	AppDirName          = "agent-of-empires"
	GlobalConfigFile    = "config.toml"
	UpdateCacheFile     = "update_cache.json"
	SchemaVersionFile   = ".schema_version"
	ProfilesDirName     = "profiles"
	ProfileSessionsFile = "sessions.json"
	ProfileConfigFile   = "config.toml"

	// DefaultProfileName is used whenever no profile is passed explicitly.
	DefaultProfileName = "default"
)

// SanitizedTitleMaxLen is the truncation length for sanitized session titles
// used in pane names (§4.1, §8 boundary test).
const SanitizedTitleMaxLen = 20

// DisplayTitleMaxLen bounds the pane title tmux shows in a terminal's tab or
// window-list bar (set-titles-string), wider than SanitizedTitleMaxLen since
// it isn't also used to build a pane name.
const DisplayTitleMaxLen = 40

// ContainerHome is the sandboxed agent's home directory inside every
// session container, matching the *_CONFIG_DIR/*_HOME env vars in
// internal/agent's Definitions (e.g. CLAUDE_CONFIG_DIR=/home/agent/.claude).
const ContainerHome = "/home/agent"

// IDShortLen is the number of hex characters of an Instance id used in
// derived names (pane names, container names).
const IDShortLen = 8

// IDLen is the full length of an Instance id (§3).
const IDLen = 16
