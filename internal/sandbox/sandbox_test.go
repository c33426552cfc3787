package sandbox

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestSyncAgentConfigPreservesCredentials(t *testing.T) {
	host := t.TempDir()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(host, ".credentials.json"), []byte(`{"token":"stale"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".credentials.json"), []byte(`{"token":"container"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := AgentHostConfig{HostDir: host, PreserveFiles: []string{".credentials.json"}}
	if warnings := SyncAgentConfig(dir, cfg); len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	got, err := os.ReadFile(filepath.Join(dir, ".credentials.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"token":"container"}` {
		t.Fatalf("preserve file was overwritten: got %s", got)
	}
}

func TestSyncAgentConfigCopiesNewFiles(t *testing.T) {
	host := t.TempDir()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(host, "settings.json"), []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(host, "plugins", "foo"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(host, "plugins", "foo", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(host, "cache"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(host, "cache", "skip.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := AgentHostConfig{HostDir: host, RecursiveDirs: []string{"plugins"}}
	if warnings := SyncAgentConfig(dir, cfg); len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Fatalf("settings.json not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plugins", "foo", "f.txt")); err != nil {
		t.Fatalf("plugins not recursively copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); !os.IsNotExist(err) {
		t.Fatalf("non-listed subdirectory should be skipped, got err=%v", err)
	}
}

func TestEnsureSandboxDirWriteOnceSeedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "agentdir")
	cfg := AgentHostConfig{SeedFiles: map[string]string{"onboarding.json": `{"hasCompletedOnboarding":true}`}}

	if err := EnsureSandboxDir(dir, cfg); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "onboarding.json")
	if err := os.WriteFile(path, []byte("modified by container"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureSandboxDir(dir, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "modified by container" {
		t.Fatalf("seed file should not be rewritten once present, got %q", got)
	}
}

func TestWrapCtrlZSuppressionExactString(t *testing.T) {
	got := WrapCtrlZSuppression("claude")
	want := `bash -c 'stty susp undef; exec claude'`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestComputeProjectMountBareRepoWorktree(t *testing.T) {
	requireGit(t)

	// A bare repo needs a commit before `worktree add` can check out a
	// branch, so the bare layout is cloned from a one-commit source repo.
	root := t.TempDir()
	src := filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	runGit(t, src, "init", "-b", "main")
	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, src, "add", ".")
	runGit(t, src, "commit", "-m", "initial")

	bare := filepath.Join(root, "repo", ".bare")
	runGit(t, root, "clone", "--bare", src, bare)

	worktreePath := filepath.Join(root, "repo", "main")
	runGit(t, bare, "worktree", "add", worktreePath, "main")
	if _, err := os.Stat(worktreePath); err != nil {
		t.Fatalf("worktree not created: %v", err)
	}

	mount, err := ComputeProjectMount(worktreePath)
	if err != nil {
		t.Fatal(err)
	}
	if mount.WorkingDir != filepath.Join("/workspace/repo", "main") {
		t.Fatalf("WorkingDir = %q, want /workspace/repo/main", mount.WorkingDir)
	}
	if mount.Volume.Host != canonicalize(filepath.Join(root, "repo")) {
		t.Fatalf("Volume.Host = %q, want canonical %q", mount.Volume.Host, filepath.Join(root, "repo"))
	}
}

func TestComputeProjectMountNormalRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")

	mount, err := ComputeProjectMount(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := "/workspace/" + filepath.Base(dir)
	if mount.WorkingDir != want {
		t.Fatalf("WorkingDir = %q, want %q", mount.WorkingDir, want)
	}
}
