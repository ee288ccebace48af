package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfport/shelfport/pkg/log"
)

func TestConfigWatcherAppliesPacing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`pacing = "1s"`), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := newTestRunner(t, RunnerConfig{InputPath: "unused.json", Pacing: time.Second}, newStubDriver())

	reload := func(p string) (time.Duration, error) {
		b, err := os.ReadFile(p)
		if err != nil {
			return 0, err
		}
		if string(b) == `pacing = "250ms"` {
			return 250 * time.Millisecond, nil
		}
		return time.Second, nil
	}

	watcher := NewConfigWatcher(path, runner, reload, log.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(path, []byte(`pacing = "250ms"`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if runner.Pacing() == 250*time.Millisecond {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("pacing = %v, update never applied", runner.Pacing())
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`pacing = "1s"`), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := newTestRunner(t, RunnerConfig{InputPath: "unused.json", Pacing: time.Second}, newStubDriver())

	reload := func(string) (time.Duration, error) {
		return 250 * time.Millisecond, nil
	}

	watcher := NewConfigWatcher(path, runner, reload, log.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if runner.Pacing() != time.Second {
		t.Errorf("pacing = %v, changed by an unrelated file", runner.Pacing())
	}
}
