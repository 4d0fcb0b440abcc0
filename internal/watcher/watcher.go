package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// defaultDebounce coalesces the burst of events an editor save produces.
const defaultDebounce = 250 * time.Millisecond

// ReloadFunc is called with the config path after its contents change.
type ReloadFunc func(path string)

// ConfigWatcher watches a config file and calls reload when its contents change.
type ConfigWatcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration

	mu      sync.Mutex
	hash    string
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewConfigWatcher constructs a ConfigWatcher for path.
func NewConfigWatcher(path string, reload ReloadFunc) (*ConfigWatcher, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("config watcher: empty path")
	}
	if reload == nil {
		return nil, fmt.Errorf("config watcher: nil reload func")
	}
	return &ConfigWatcher{path: filepath.Clean(path), reload: reload, debounce: defaultDebounce}, nil
}

// Start begins watching. The parent directory is watched so that atomic
// rename-on-save editors are picked up.
func (w *ConfigWatcher) Start(ctx context.Context) error {
	if w == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	fsw, errNew := fsnotify.NewWatcher()
	if errNew != nil {
		return fmt.Errorf("config watcher: create: %w", errNew)
	}
	if errAdd := fsw.Add(filepath.Dir(w.path)); errAdd != nil {
		_ = fsw.Close()
		return fmt.Errorf("config watcher: watch %s: %w", filepath.Dir(w.path), errAdd)
	}
	w.hash, _ = fileHash(w.path)
	w.watcher = fsw

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(runCtx, fsw)
	}()

	log.Infof("config watcher started (path=%s)", w.path)
	return nil
}

// Stop ends watching and waits for the loop to exit.
func (w *ConfigWatcher) Stop() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	fsw, cancel := w.watcher, w.cancel
	w.watcher, w.cancel = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var errClose error
	if fsw != nil {
		errClose = fsw.Close()
	}
	w.wg.Wait()
	return errClose
}

func (w *ConfigWatcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case errWatch, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.WithError(errWatch).Warn("config watcher: fsnotify error")
		case <-fire:
			fire = nil
			w.check()
		}
	}
}

// check calls reload when the file hash differs from the last seen one.
func (w *ConfigWatcher) check() {
	hash, errHash := fileHash(w.path)
	if errHash != nil {
		if !errors.Is(errHash, os.ErrNotExist) {
			log.WithError(errHash).Warn("config watcher: read config failed")
		}
		return
	}

	w.mu.Lock()
	changed := hash != w.hash
	w.hash = hash
	w.mu.Unlock()
	if !changed {
		return
	}
	log.Infof("config watcher: %s changed, reloading", w.path)
	w.reload(w.path)
}

func fileHash(path string) (string, error) {
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		return "", errRead
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
