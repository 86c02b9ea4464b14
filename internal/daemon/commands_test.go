package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cindyd.pid")

	if _, err := readPID(path); err == nil {
		t.Fatal("expected error for missing pid file")
	}

	if err := os.WriteFile(path, []byte("1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 1234 {
		t.Fatalf("pid = %d, want 1234", pid)
	}

	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Fatal("expected error for malformed pid file")
	}
}

func TestProcessAlive(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Fatal("own process should be alive")
	}
	// PIDs above the default kernel max are never valid.
	if processAlive(1 << 30) {
		t.Fatal("absurd pid should not be alive")
	}
}
