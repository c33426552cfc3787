package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agent-of-empires/aoe/internal/agent"
	"github.com/agent-of-empires/aoe/internal/gitwt"
	"github.com/agent-of-empires/aoe/internal/state"
)

var (
	addTitle      string
	addGroup      string
	addCommand    string
	addParent     string
	addBranch     string
	addNewBranch  bool
	addLaunchNow  bool
)

var addCmd = &cobra.Command{
	Use:     "add [PATH]",
	GroupID: GroupSession,
	Short:   "Create a session for a project directory",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "session title (defaults to directory name)")
	addCmd.Flags().StringVarP(&addGroup, "group", "g", "", "group path, e.g. work/ui")
	addCmd.Flags().StringVarP(&addCommand, "command", "c", "", "shell command to run instead of the default tool")
	addCmd.Flags().StringVarP(&addParent, "parent", "P", "", "parent session id")
	addCmd.Flags().StringVarP(&addBranch, "branch", "w", "", "create a worktree on this branch")
	addCmd.Flags().BoolVarP(&addNewBranch, "branch-new", "b", false, "create the branch if it doesn't exist")
	addCmd.Flags().BoolVarP(&addLaunchNow, "launch", "l", false, "start the session's pane immediately")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd, repoRootOrEmpty(absPath))
	if err != nil {
		return err
	}

	title := addTitle
	if title == "" {
		title = filepath.Base(absPath)
	}

	inst := state.New(title, absPath)
	inst.GroupPath = addGroup
	inst.ParentSessionID = addParent

	if addCommand != "" {
		inst.Tool = agent.Shell
		inst.Command = addCommand
	} else if a.Config.Session.DefaultTool != "" {
		def, err := agent.Resolve(a.Config.Session.DefaultTool)
		if err != nil {
			return newUserError("%v", err)
		}
		inst.Tool = def.Name
	}

	if addBranch != "" {
		if err := attachWorktree(a, inst, absPath); err != nil {
			return err
		}
	}

	if err := a.Store.Add(inst); err != nil {
		return newUserError("%v", err)
	}

	if addLaunchNow {
		if err := a.Engine.Start(context.Background(), inst); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}
	}

	if err := a.save(); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	fmt.Printf("%s  %s  %s\n", inst.ID, inst.Title, inst.ProjectPath)
	return nil
}

// attachWorktree resolves a worktree path for inst from the configured
// template, creates it via git, and records WorktreeInfo (§4.6, §4.10).
func attachWorktree(a *app, inst *state.Instance, repoPath string) error {
	mainRepo, err := gitwt.FindMainRepo(repoPath)
	if err != nil {
		return newUserError("path %q is not in a git repo: %w", repoPath, err)
	}

	wtPath := gitwt.ComputePath(a.Config.Worktree.PathTemplate, mainRepo, addBranch, inst.IDShort())
	g := gitwt.New(mainRepo)
	if err := g.CreateWorktree(addBranch, wtPath, addNewBranch); err != nil {
		return newUserError("%v", err)
	}

	inst.ProjectPath = wtPath
	inst.WorktreeInfo = &state.WorktreeInfo{
		Branch:          addBranch,
		MainRepoPath:    mainRepo,
		ManagedByUs:     true,
		CreatedAt:       inst.CreatedAt,
		CleanupOnDelete: a.Config.Worktree.CleanupOnDelete,
	}
	return nil
}
