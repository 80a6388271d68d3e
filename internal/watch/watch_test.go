package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestIsDeckFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"talk.pptx", true},
		{"old.PPT", true},
		{"slides.odp", true},
		{"movie.mp4", false},
		{"notes.txt", false},
		{"archive.pptx.bak", false},
	}
	for _, tt := range tests {
		if got := IsDeckFile(tt.path); got != tt.want {
			t.Errorf("IsDeckFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherDispatchesNewDecks(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var handled []string
	done := make(chan struct{}, 1)

	w, err := New(dir, func(ctx context.Context, path string) error {
		mu.Lock()
		handled = append(handled, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watcher a moment to arm before creating files.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "deck.pptx"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(handled) != 1 || handled[0] != "deck.pptx" {
		t.Errorf("handled = %v, want [deck.pptx]", handled)
	}
}
