package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebouncer_Coalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 1)

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("last callback = %d, want 5", last.Load())
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("calls after Stop = %d, want 0", calls.Load())
	}
}

func TestFileWatcher_ShouldProcess(t *testing.T) {
	fw := &FileWatcher{config: DefaultConfig()}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "yaml write", event: fsnotify.Event{Name: "decls/a.yaml", Op: fsnotify.Write}, want: true},
		{name: "json create", event: fsnotify.Event{Name: "decls/a.JSON", Op: fsnotify.Create}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}},
		{name: "hidden", event: fsnotify.Event{Name: "decls/.a.yaml.swp", Op: fsnotify.Write}},
		{name: "other extension", event: fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcess(tt.event); got != tt.want {
				t.Errorf("shouldProcess(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestFileWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "decls.yaml")
	if err := os.WriteFile(file, []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig(dir)
	cfg.Debounce = 20 * time.Millisecond
	fw, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- fw.Watch(ctx, func(path string) error {
			changed <- path
			return nil
		})
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(file, []byte("- {property: color, value: red}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if filepath.Base(path) != "decls.yaml" {
			t.Errorf("changed path = %q", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change callback")
	}

	if err := fw.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestFileWatcher_MissingPath(t *testing.T) {
	fw, err := New(DefaultConfig(filepath.Join(t.TempDir(), "missing")), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Stop()

	if err := fw.Watch(context.Background(), func(string) error { return nil }); err == nil {
		t.Error("expected error for missing path")
	}
}
