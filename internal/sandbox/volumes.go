package sandbox

import (
	"os"
	"path/filepath"

	"github.com/agent-of-empires/aoe/internal/container"
	"github.com/agent-of-empires/aoe/internal/gitwt"
)

// ProjectMount is the resolved volume + working directory for a session's
// project directory (§4.5 "Volume layout for the project dir").
type ProjectMount struct {
	Volume     container.Volume
	WorkingDir string
}

// ComputeProjectMount decides what to bind-mount for projectPath.
//
// For non-git paths and normal git repos: mount projectPath itself at
// /workspace/<basename>, with that as the working dir.
//
// For a bare-repo worktree (projectPath's main repo is a bare repo): mount
// the ENTIRE bare repo, with the working dir set to the worktree's
// subdirectory inside it, so `git` inside the container can reach the
// object database (§4.5, §8 S1).
func ComputeProjectMount(projectPath string) (ProjectMount, error) {
	base := filepath.Base(filepath.Clean(projectPath))
	standard := ProjectMount{
		Volume:     container.Volume{Host: projectPath, Container: "/workspace/" + base},
		WorkingDir: "/workspace/" + base,
	}

	if !gitwt.IsGitRepo(projectPath) {
		return standard, nil
	}

	mainRepo, err := gitwt.FindMainRepo(projectPath)
	if err != nil {
		return standard, nil
	}
	mainRepo = canonicalize(mainRepo)
	projectCanon := canonicalize(projectPath)

	if !isBareRepoLayout(mainRepo, projectPath) {
		return standard, nil
	}

	// The worktree's subpath inside the bare repo's parent, preserved
	// inside the container mount.
	rel, err := filepath.Rel(mainRepo, projectCanon)
	if err != nil || rel == "." || rel == ".." || len(rel) >= 2 && rel[:2] == ".." {
		return standard, nil
	}

	repoBase := filepath.Base(mainRepo)
	containerRoot := "/workspace/" + repoBase
	return ProjectMount{
		Volume:     container.Volume{Host: mainRepo, Container: containerRoot},
		WorkingDir: filepath.Join(containerRoot, rel),
	}, nil
}

// isBareRepoLayout reports whether mainRepo (the resolved main work-dir
// for projectPath) differs from projectPath's own parent in a way that
// indicates projectPath is a worktree of a bare repo rather than a
// standard repo's own directory. FindMainRepo already resolves bare repos
// to the bare repo's parent directory, so the signal is simply: the main
// repo root is an ancestor of, but not equal to, projectPath, AND
// projectPath is not itself inside a ".git"-bearing directory tree rooted
// at mainRepo (i.e. it's a worktree, not the repo's own working copy).
func isBareRepoLayout(mainRepo, projectPath string) bool {
	mainRepo = canonicalize(mainRepo)
	projectPath = canonicalize(projectPath)
	if mainRepo == projectPath {
		return false
	}
	rel, err := filepath.Rel(mainRepo, projectPath)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || hasDotDotPrefix(rel) {
		return false
	}
	if fi, err := os.Stat(filepath.Join(mainRepo, ".git")); err == nil && fi.IsDir() {
		return false
	}
	return true
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.'
}

// canonicalize resolves symlinks so paths like macOS's /var -> /private/var
// compare equal (§4.6 "compare canonicalized paths to handle symlinks").
func canonicalize(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}
