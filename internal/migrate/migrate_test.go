package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCurrentVersionMissingIsZero(t *testing.T) {
	dir := t.TempDir()
	v, err := CurrentVersion(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("got %d, want 0", v)
	}
}

func TestWriteAndReadVersion(t *testing.T) {
	dir := t.TempDir()
	if err := WriteVersion(dir, 3); err != nil {
		t.Fatal(err)
	}
	v, err := CurrentVersion(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v != 3 {
		t.Fatalf("got %d, want 3", v)
	}
}

func TestRunAppliesOnlyNewerMigrations(t *testing.T) {
	saved := registry
	registry = nil
	defer func() { registry = saved }()

	var ran []int
	Register(Migration{Version: 1, Name: "one", Run: func(string) error { ran = append(ran, 1); return nil }})
	Register(Migration{Version: 2, Name: "two", Run: func(string) error { ran = append(ran, 2); return nil }})

	dir := t.TempDir()
	if err := WriteVersion(dir, 1); err != nil {
		t.Fatal(err)
	}

	if err := Run([]string{dir}, dir); err != nil {
		t.Fatal(err)
	}
	if len(ran) != 1 || ran[0] != 2 {
		t.Fatalf("ran = %v, want only [2]", ran)
	}
	v, _ := CurrentVersion(dir)
	if v != 2 {
		t.Fatalf("final version = %d, want 2", v)
	}
}

func TestRegisterOutOfOrderPanics(t *testing.T) {
	saved := registry
	registry = nil
	defer func() { registry = saved }()

	Register(Migration{Version: 2, Name: "two", Run: func(string) error { return nil }})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic registering an out-of-order version")
		}
	}()
	Register(Migration{Version: 1, Name: "one", Run: func(string) error { return nil }})
}

func TestMigrateLegacyHomeDetectsAlreadyMigrated(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	// target already exists: must be a no-op regardless of legacy state.
	if err := migrateLegacyHomeToXDG(target); err != nil {
		t.Fatal(err)
	}
}
