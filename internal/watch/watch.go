// Package watch monitors a directory for new slide decks and hands them
// to a conversion handler, so decks dropped into a folder are converted
// without manual invocation.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"slidecast/internal/logger"
)

// Handler converts one newly detected deck.
type Handler func(ctx context.Context, sourcePath string) error

// Watcher monitors one directory with a bounded number of concurrent
// conversions.
type Watcher struct {
	inputDir string
	handler  Handler
	watcher  *fsnotify.Watcher

	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher on inputDir. maxConcurrent bounds how many decks
// convert at once.
func New(inputDir string, handler Handler, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		watcher:   fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks, dispatching a conversion for every deck created under the
// watched directory, until ctx is cancelled. In-flight conversions are
// drained before returning.
func (w *Watcher) Start(ctx context.Context) error {
	logger.Info("watching %s for slide decks", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			logger.Info("waiting for in-flight conversions")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create || !IsDeckFile(event.Name) {
				continue
			}
			logger.Info("new deck detected: %s", event.Name)

			// Give the writer a moment to finish the file.
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()
					if err := w.handler(ctx, path); err != nil {
						logger.Error("conversion of %s failed: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("watcher error: %v", err)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// IsDeckFile reports whether path looks like a convertible slide deck.
func IsDeckFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx", ".ppt", ".odp":
		return true
	}
	return false
}
