package imports

import (
	"os"
	"testing"
)

func TestFileStoreSaveAndRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	path, err := store.Save("session-a", []byte("workbook bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "workbook bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Remove("session-a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file gone, stat err: %v", err)
	}
	// Idempotent: a second remove is not an error.
	if err := store.Remove("session-a"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestFileStoreSessionScopedPaths(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if store.Path("a") == store.Path("b") {
		t.Fatalf("sessions must not share a path")
	}
}
