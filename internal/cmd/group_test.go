package cmd

import "testing"

func TestGroupCmd_SubcommandsRegistered(t *testing.T) {
	want := []string{"list", "create", "delete", "move"}
	got := map[string]bool{}
	for _, sub := range groupCmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("group subcommand %q not registered", name)
		}
	}
}

func TestProfileCmd_SubcommandsRegistered(t *testing.T) {
	want := []string{"list", "create", "delete", "default"}
	got := map[string]bool{}
	for _, sub := range profileCmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("profile subcommand %q not registered", name)
		}
	}
}
