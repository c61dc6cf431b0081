package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, 0, func(string) {}); err == nil {
		t.Error("expected error for empty file list")
	}
	if _, err := New([]string{"a.csv"}, 0, nil); err == nil {
		t.Error("expected error for nil callback")
	}
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 1)
	w, err := New([]string{path}, 50*time.Millisecond, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		if p != abs {
			t.Errorf("changed path: expected %q, got %q", abs, p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.csv")
	other := filepath.Join(dir, "other.csv")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	changed := make(chan string, 1)
	w, err := New([]string{watched}, 50*time.Millisecond, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("y\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		t.Errorf("unexpected callback for unwatched file: %q", p)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{path}, 0, func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
