package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Holder keeps the current programme and swaps it on reload.
type Holder struct {
	current atomic.Pointer[Program]
}

// NewHolder returns a holder serving p.
func NewHolder(p *Program) *Holder {
	h := &Holder{}
	h.current.Store(p)
	return h
}

// Get returns the current programme.
func (h *Holder) Get() *Program {
	return h.current.Load()
}

// Reload reads path and swaps it in. On error the previous programme stays.
func (h *Holder) Reload(path string) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	h.current.Store(p)
	return nil
}

// Watch reloads path whenever it changes until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func (h *Holder) Watch(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(DefaultDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				if err := h.Reload(abs); err != nil {
					logger.Warn("program reload failed, keeping previous", "path", abs, "error", err)
					continue
				}
				logger.Info("program reloaded", "path", abs)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("program watcher error", "error", err)
			}
		}
	}()
	return nil
}
