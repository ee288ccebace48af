package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shelfport/shelfport/internal/ports"
)

// ConfigWatcher watches the config file during a run and re-applies the
// tunable settings (currently the pacing delay) when it changes. Edits to
// anything else take effect on the next run.
type ConfigWatcher struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	runner        *Runner
	reload        func(path string) (time.Duration, error)
	logger        ports.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// NewConfigWatcher creates a watcher for the given config file. reload
// re-parses the file and returns the pacing it now specifies.
func NewConfigWatcher(path string, runner *Runner, reload func(path string) (time.Duration, error), logger ports.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		path:          path,
		debounceDelay: 100 * time.Millisecond,
		runner:        runner,
		reload:        reload,
		logger:        logger,
	}
}

// Start begins watching. It returns immediately; the watch loop runs until
// Stop or context cancellation.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(cw.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	cw.cancel = cancel

	cw.wg.Add(1)
	go cw.watchLoop(watchCtx, watcher)
	return nil
}

// Stop ends the watch loop and waits for it.
func (cw *ConfigWatcher) Stop() {
	if cw.cancel != nil {
		cw.cancel()
	}
	cw.wg.Wait()
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer cw.wg.Done()
	defer watcher.Close()

	target := filepath.Base(cw.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cw.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watch error", ports.Err(err))
		}
	}
}

// debounceReload coalesces the event bursts editors produce on save.
func (cw *ConfigWatcher) debounceReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounce != nil {
		cw.debounce.Stop()
	}
	cw.debounce = time.AfterFunc(cw.debounceDelay, cw.applyReload)
}

func (cw *ConfigWatcher) applyReload() {
	pacing, err := cw.reload(cw.path)
	if err != nil {
		cw.logger.Warn("config reload failed", ports.Err(err))
		return
	}
	cw.runner.SetPacing(pacing)
}
