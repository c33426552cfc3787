// Package sandbox computes volume mounts and syncs per-agent host
// configuration into shared sandbox directories bind-mounted into every
// session container (§4.5).
package sandbox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/container"
)

// Dir returns the shared-per-agent sandbox directory: one per agent, not
// per session, so agents that write runtime files (permission approvals,
// caches) accumulate state across containers (§4.5 point 1).
func Dir(appRoot string, tool agent.Tool) string {
	return filepath.Join(appRoot, "sandbox", string(tool))
}

// AgentHostConfig describes where an agent keeps its host-side config and
// how the sandbox orchestrator should treat it (§4.5 points 3, 5, 6).
type AgentHostConfig struct {
	// HostDir is the agent's config directory on the host (e.g. ~/.claude).
	HostDir string

	// SeedFiles are static files the system installs into the sandbox dir
	// on first create. Never overwritten once present (§4.5 point 3).
	SeedFiles map[string]string // relative path -> content

	// PreserveFiles are credential files that migrations or in-container
	// auth may have written; never overwritten by a host-config refresh
	// even though they may also exist on the host (§4.5 point 3, §8 S2).
	PreserveFiles []string // relative paths, e.g. ".credentials.json"

	// SkipEntries are top-level names never copied from the host dir.
	SkipEntries []string

	// RecursiveDirs are subdirectory names copied recursively; every other
	// subdirectory is skipped (§4.5 point 5), e.g. "plugins", "skills".
	RecursiveDirs []string

	// HomeSeedFiles are written into the sandbox dir root (not the agent
	// subdir) and bind-mounted at /<home>/<filename> in the container
	// (§4.5 point 6), e.g. ".claude.json".
	HomeSeedFiles map[string]string

	// KeychainFile, if non-empty, is the sandbox-dir-relative path a
	// macOS Keychain credential is written to (§4.5 point 4), refreshed
	// on every sync rather than write-once like PreserveFiles.
	KeychainFile string
}

// EnsureSandboxDir creates dir and writes any seed files that are not
// already present (write-once, §4.5 point 3).
func EnsureSandboxDir(dir string, cfg AgentHostConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for rel, content := range cfg.SeedFiles {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil {
			continue // write-once: already present
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	for rel, content := range cfg.HomeSeedFiles {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func isSkipped(name string, skip []string) bool {
	for _, s := range skip {
		if s == name {
			return true
		}
	}
	return false
}

func isRecursiveDir(name string, dirs []string) bool {
	for _, d := range dirs {
		if d == name {
			return true
		}
	}
	return false
}

// SyncAgentConfig refreshes dir from cfg.HostDir so credentials changed on
// the host (e.g. `claude login`) are picked up on every container start
// (§4.5 point 2), while never clobbering preserve files already present in
// dir (§4.5 point 3, §8 property 5 / S2).
//
// Per-file copy failures are collected and returned as a slice of
// warnings, never aborting the sync (§7 "transient errors... config sync file copy
// failure (per-file skip)").
func SyncAgentConfig(dir string, cfg AgentHostConfig) []error {
	var warnings []error
	entries, err := os.ReadDir(cfg.HostDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []error{fmt.Errorf("reading host config dir %s: %w", cfg.HostDir, err)}
	}

	preserve := make(map[string]bool, len(cfg.PreserveFiles))
	for _, p := range cfg.PreserveFiles {
		preserve[p] = true
	}

	for _, e := range entries {
		name := e.Name()
		if isSkipped(name, cfg.SkipEntries) {
			continue
		}
		src := filepath.Join(cfg.HostDir, name)
		dst := filepath.Join(dir, name)

		if e.IsDir() {
			if !isRecursiveDir(name, cfg.RecursiveDirs) {
				continue
			}
			if err := copyDirRecursive(src, dst, preserve, ""); err != nil {
				warnings = append(warnings, fmt.Errorf("copying %s: %w", name, err))
			}
			continue
		}

		if preserve[name] {
			if _, err := os.Stat(dst); err == nil {
				continue // preserve file already present: never overwritten
			}
		}
		if err := copyFileFollowingSymlinks(src, dst); err != nil {
			warnings = append(warnings, fmt.Errorf("copying %s: %w", name, err))
		}
	}
	return warnings
}

func copyDirRecursive(src, dst string, preserve map[string]bool, relPrefix string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		rel := filepath.Join(relPrefix, e.Name())
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := copyDirRecursive(s, d, preserve, rel); err != nil {
				return err
			}
			continue
		}
		if preserve[rel] {
			if _, err := os.Stat(d); err == nil {
				continue
			}
		}
		if err := copyFileFollowingSymlinks(s, d); err != nil {
			return err
		}
	}
	return nil
}

func copyFileFollowingSymlinks(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// HomeBindMounts returns the bind mounts for an agent's home-level seed
// files (§4.5 point 6): dir/<filename> -> /<home>/<filename>.
func HomeBindMounts(dir, containerHome string, homeFiles map[string]string) []container.Volume {
	var out []container.Volume
	for rel := range homeFiles {
		out = append(out, container.Volume{
			Host:      filepath.Join(dir, rel),
			Container: filepath.Join(containerHome, rel),
		})
	}
	return out
}

// WrapCtrlZSuppression wraps an agent command so Ctrl-Z cannot suspend a
// tmux-hosted process, which has no job-control parent to resume it
// (§4.5 "Ctrl-Z suppression", §8 S3): `bash -c 'stty susp undef; exec
// <cmd>'` unbinds the terminal's suspend character before exec.
func WrapCtrlZSuppression(cmd string) string {
	return fmt.Sprintf("bash -c 'stty susp undef; exec %s'", cmd)
}
