package config

import (
	"testing"
	"time"
)

func TestResolveEnvValue(t *testing.T) {
	host := map[string]string{"HOME": "/home/alice"}

	got, ok := ResolveEnvValue("$$HOME", host)
	if !ok || got != "$HOME" {
		t.Fatalf("ResolveEnvValue($$HOME) = %q, %v; want $HOME, true", got, ok)
	}

	if _, ok := ResolveEnvValue("$UNSET_VAR", host); ok {
		t.Fatalf("ResolveEnvValue($UNSET_VAR) expected not-ok")
	}

	got, ok = ResolveEnvValue("$HOME", host)
	if !ok || got != "/home/alice" {
		t.Fatalf("ResolveEnvValue($HOME) = %q, %v; want /home/alice, true", got, ok)
	}

	got, ok = ResolveEnvValue("literal", host)
	if !ok || got != "literal" {
		t.Fatalf("ResolveEnvValue(literal) = %q, %v; want literal, true", got, ok)
	}
}

func TestDoubleQuoteEscape(t *testing.T) {
	got := DoubleQuoteEscape("First.\nSecond.")
	want := "\"First.\\nSecond.\""
	if got != want {
		t.Fatalf("DoubleQuoteEscape = %q, want %q", got, want)
	}
	for _, c := range []byte{'"', '\n'} {
		for i := 1; i < len(got)-1; i++ {
			if got[i] == c && got[i-1] != '\\' {
				t.Fatalf("unescaped %q found in %q", c, got)
			}
		}
	}
}

func TestMergeLayering(t *testing.T) {
	global := Default()
	global.Updates.CheckEnabled = true
	global.Updates.CheckInterval = 24 * time.Hour

	profile := &Override{
		Updates: &UpdatesOverride{CheckInterval: strPtr("48h")},
	}

	resolved := Merge(global, profile, nil, false)
	if !resolved.Updates.CheckEnabled {
		t.Fatalf("expected inherited CheckEnabled=true from global")
	}
	if resolved.Updates.CheckInterval != 48*time.Hour {
		t.Fatalf("expected profile override of 48h, got %s", resolved.Updates.CheckInterval)
	}
}

func TestMergeRepoUntrusted(t *testing.T) {
	global := Default()
	repo := &Override{Session: &SessionOverride{DefaultTool: strPtr("codex")}}

	resolved := Merge(global, nil, repo, false)
	if resolved.Session.DefaultTool == "codex" {
		t.Fatalf("untrusted repo override must not apply")
	}

	resolved = Merge(global, nil, repo, true)
	if resolved.Session.DefaultTool != "codex" {
		t.Fatalf("trusted repo override must apply")
	}
}

func TestValidateMemoryLimit(t *testing.T) {
	c := Default()
	c.Sandbox.MemoryLimit = "512m"
	if errs := Validate(c); len(errs) != 0 {
		t.Fatalf("valid memory limit rejected: %v", errs)
	}

	c.Sandbox.MemoryLimit = "bogus"
	if errs := Validate(c); len(errs) == 0 {
		t.Fatalf("invalid memory limit accepted")
	}
}

func TestValidateDockerVolumes(t *testing.T) {
	c := Default()
	c.Sandbox.DockerVolumes = []string{"/host:/container:ro", "/host2:/container2"}
	if errs := Validate(c); len(errs) != 0 {
		t.Fatalf("valid volumes rejected: %v", errs)
	}
	c.Sandbox.DockerVolumes = []string{"not-a-volume"}
	if errs := Validate(c); len(errs) == 0 {
		t.Fatalf("invalid volume accepted")
	}
}

func TestValidateUpdateInterval(t *testing.T) {
	c := Default()
	c.Updates.CheckInterval = 30 * time.Minute
	if errs := Validate(c); len(errs) == 0 {
		t.Fatalf("sub-hour interval should fail validation")
	}
}

func TestValidatePathTemplate(t *testing.T) {
	c := Default()
	c.Worktree.PathTemplate = "{repo-name}-{branch}"
	if errs := Validate(c); len(errs) != 0 {
		t.Fatalf("valid template rejected: %v", errs)
	}
	c.Worktree.PathTemplate = "{repo-name}{branch}{session-id}"
	if errs := Validate(c); len(errs) == 0 {
		t.Fatalf("all-template path should fail validation")
	}
}

func TestOverrideClearIfEqual(t *testing.T) {
	global := Default()
	o := &Override{Session: &SessionOverride{DefaultTool: strPtr(global.Session.DefaultTool)}}
	o.ClearIfEqual(global)
	if o.Session != nil {
		t.Fatalf("override equal to parent should be cleared")
	}
}
