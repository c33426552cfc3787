package cmd

import "testing"

func TestRootCmd_HasGroups(t *testing.T) {
	want := map[string]bool{GroupSession: false, GroupOrg: false, GroupAdmin: false}
	for _, g := range rootCmd.Groups() {
		want[g.ID] = true
	}
	for id, found := range want {
		if !found {
			t.Errorf("group %q not registered on rootCmd", id)
		}
	}
}

func TestRootCmd_ProfileFlagDefault(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("profile")
	if f == nil {
		t.Fatal("--profile flag not registered")
	}
	if f.DefValue != "default" {
		t.Errorf("--profile default = %q, want %q", f.DefValue, "default")
	}
}

func TestUserError_ExitCode(t *testing.T) {
	err := newUserError("bad thing: %s", "oops")
	if err.Error() != "bad thing: oops" {
		t.Errorf("Error() = %q", err.Error())
	}
	if _, ok := err.(*userError); !ok {
		t.Fatal("newUserError did not return a *userError")
	}
}

func TestRootCmd_TopLevelCommandsRegistered(t *testing.T) {
	want := []string{"add", "list", "session", "group", "profile", "tmux", "uninstall"}
	got := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("top-level command %q not registered on rootCmd", name)
		}
	}
}
