// Package gitwt wraps `git worktree` subcommands, following the same
// subprocess-wrapping idiom as internal/tmux: build argv, capture
// stdout/stderr separately, classify failures into sentinel errors (§4.6).
package gitwt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel errors, classified from git's stderr text.
var (
	ErrBranchNotFound        = errors.New("branch not found")
	ErrWorktreeAlreadyExists = errors.New("worktree already exists")
	ErrNotAGitRepo           = errors.New("not a git repository")
)

// branchSanitizeRe matches characters that are illegal (or merely awkward)
// in a filesystem path component derived from a branch name.
var branchSanitizeRe = regexp.MustCompile(`[/@#\\:*?"<>|]`)

// SanitizeBranch replaces path-hostile branch-name characters with '-',
// per §4.6's compute_path substitution rule.
func SanitizeBranch(branch string) string {
	return branchSanitizeRe.ReplaceAllString(branch, "-")
}

// Git wraps worktree operations for a single repository, rooted at repoDir
// (any path inside the repo — git resolves upward).
type Git struct {
	repoDir string
}

// New returns a Git wrapper rooted at repoDir.
func New(repoDir string) *Git {
	return &Git{repoDir: repoDir}
}

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.repoDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrapError(err, stderr.String(), args)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)
	switch {
	case strings.Contains(stderr, "did not match any file(s) known to git"),
		strings.Contains(stderr, "not a valid branch"),
		strings.Contains(stderr, "invalid reference"):
		return ErrBranchNotFound
	case strings.Contains(stderr, "already exists"):
		return ErrWorktreeAlreadyExists
	case strings.Contains(stderr, "not a git repository"):
		return ErrNotAGitRepo
	}
	if stderr != "" {
		return fmt.Errorf("git %s: %s", args[0], stderr)
	}
	return fmt.Errorf("git %s: %w", args[0], err)
}

// IsGitRepo discovers a repository rooted at or above path.
func IsGitRepo(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--is-inside-work-tree")
	return cmd.Run() == nil
}

// FindMainRepo returns the repository's main work-dir. For a bare repo's
// worktree, that is the bare repo's parent directory (§4.6).
func FindMainRepo(path string) (string, error) {
	commonDir, err := New(path).run("rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(commonDir) {
		commonDir = filepath.Join(path, commonDir)
	}
	commonDir = filepath.Clean(commonDir)

	// Check whether the common dir itself (the repository's actual git
	// storage, not path's working tree) is bare. Running
	// --is-bare-repository from a linked worktree's own path always
	// reports "false" — a worktree's working tree is never bare, even
	// when the repo its commits live in is. Passing --git-dir=commonDir
	// targets the query at the storage directory explicitly.
	isBare, err := New(path).run("--git-dir="+commonDir, "rev-parse", "--is-bare-repository")
	if err == nil && isBare == "true" {
		return filepath.Dir(commonDir), nil
	}
	if filepath.Base(commonDir) == ".git" {
		return filepath.Dir(commonDir), nil
	}
	return commonDir, nil
}

// branchExists reports whether a local branch with this name exists.
func (g *Git) branchExists(branch string) bool {
	_, err := g.run("rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// CreateWorktree adds a worktree at path for branch. If createBranch is
// false, branch must already exist or this fails with ErrBranchNotFound.
// If true, the branch is created from current HEAD. A pre-existing path
// fails with ErrWorktreeAlreadyExists.
func (g *Git) CreateWorktree(branch, path string, createBranch bool) error {
	if _, err := os.Stat(path); err == nil {
		return ErrWorktreeAlreadyExists
	}

	if createBranch {
		_, err := g.run("worktree", "add", "-b", branch, path)
		return err
	}
	if !g.branchExists(branch) {
		return fmt.Errorf("%w: %q", ErrBranchNotFound, branch)
	}
	_, err := g.run("worktree", "add", path, branch)
	return err
}

// Worktree describes one entry from `git worktree list`.
type Worktree struct {
	Path   string
	Branch string
	Commit string
}

// ListWorktrees returns every worktree, including the main work-dir.
func (g *Git) ListWorktrees() ([]Worktree, error) {
	out, err := g.run("worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var worktrees []Worktree
	var current Worktree
	flush := func() {
		if current.Path != "" {
			worktrees = append(worktrees, current)
			current = Worktree{}
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			flush()
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		}
	}
	flush()
	return worktrees, nil
}

// RemoveWorktree removes a worktree at path.
func (g *Git) RemoveWorktree(path string) error {
	_, err := g.run("worktree", "remove", path)
	return err
}

// ComputePath resolves a worktree path from a template containing
// "{repo-name}", "{branch}" (sanitized), and "{session-id}" placeholders.
// An already-absolute result passes through; a relative one resolves
// against mainRepoPath (§4.6).
func ComputePath(template, mainRepoPath, branch, sessionIDShort string) string {
	repoName := filepath.Base(mainRepoPath)
	resolved := strings.NewReplacer(
		"{repo-name}", repoName,
		"{branch}", SanitizeBranch(branch),
		"{session-id}", sessionIDShort,
	).Replace(template)

	if filepath.IsAbs(resolved) {
		return filepath.Clean(resolved)
	}
	return filepath.Clean(filepath.Join(mainRepoPath, resolved))
}
