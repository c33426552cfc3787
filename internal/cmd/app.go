package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/config"
	"github.com/agent-of-empires/aoe/internal/container"
	"github.com/agent-of-empires/aoe/internal/gitwt"
	"github.com/agent-of-empires/aoe/internal/session"
	"github.com/agent-of-empires/aoe/internal/state"
	"github.com/agent-of-empires/aoe/internal/tmux"
)

// app bundles everything a command handler needs: the resolved config,
// the profile's store, and a session engine wired against the host's
// container runtime. Built fresh per-invocation, matching the teacher's
// per-command workspace/config resolution in internal/cmd/status.go.
type app struct {
	AppRoot string
	Profile string
	Config  config.Config
	Store   *state.Store
	Engine  *session.Engine
}

// repoRootOrEmpty returns the git repo root for dir, or "" if dir is not
// inside a git repo. Used to decide whether a repo-level config.toml
// override applies (§4.8).
func repoRootOrEmpty(dir string) string {
	root, err := gitwt.FindMainRepo(dir)
	if err != nil {
		return ""
	}
	return root
}

// loadApp resolves app_root, loads the profile named by --profile (or, when
// the flag is not given, the one recorded by `profile default NAME`), and
// wires a session engine against it.
func loadApp(cmd *cobra.Command, repoRoot string) (*app, error) {
	appRoot, err := config.AppRoot()
	if err != nil {
		return nil, err
	}
	profile := profileFlag
	if f := cmd.Flag("profile"); f == nil || !f.Changed {
		if data, err := os.ReadFile(filepath.Join(appRoot, profileDefaultMarkerName)); err == nil {
			if name := strings.TrimSpace(string(data)); name != "" {
				profile = name
			}
		}
	}

	cfg, err := config.Load(appRoot, profile, repoRoot)
	if err != nil {
		return nil, err
	}

	store, err := state.LoadProfile(appRoot, profile)
	if err != nil {
		return nil, err
	}

	rt, execBinary := container.Detect()
	tx := tmux.NewTmux(cfg.Tmux.SocketDir)
	engine := session.NewEngine(tx, rt, execBinary, appRoot, cfg)

	return &app{AppRoot: appRoot, Profile: profile, Config: cfg, Store: store, Engine: engine}, nil
}

// save whole-file-replaces the profile's sessions.json (§5 "Persistent
// save is always a whole-file replace").
func (a *app) save() error {
	return a.Store.Save()
}
