package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"resumelens/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestWatcherTriggersAfterChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	writeFile(t, file, "original")

	var fired atomic.Int32
	logger, _ := errors.New("error")

	fw, err := NewFileWatcher(file, 20*time.Millisecond, func() {
		fired.Add(1)
	}, logger)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		if err := fw.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	// Mod time granularity can hide an immediate rewrite.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, file, "changed")

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("callback never fired after file change")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcherRequiresExistingFile(t *testing.T) {
	logger, _ := errors.New("error")

	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing.pdf"), time.Millisecond, func() {}, logger)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	if err := fw.Start(); err == nil {
		t.Error("expected Start to fail for a missing file")
		_ = fw.Stop()
	}
}

func TestWatcherStartStop(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	writeFile(t, file, "content")

	logger, _ := errors.New("error")
	fw, err := NewFileWatcher(file, time.Millisecond, func() {}, logger)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	if fw.IsRunning() {
		t.Error("watcher running before Start")
	}
	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !fw.IsRunning() {
		t.Error("watcher not running after Start")
	}
	if err := fw.Start(); err == nil {
		t.Error("expected second Start to fail")
	}
	if err := fw.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if fw.IsRunning() {
		t.Error("watcher still running after Stop")
	}
	if err := fw.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}
