package models

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the per-run temporary directory tree holding every
// intermediate artifact. It is deleted wholesale after a successful run
// when cleanup is enabled, and always preserved on failure.
type Workspace struct {
	Root       string
	ImageDir   string
	AudioDir   string
	CaptionDir string
	ClipDir    string
}

// NewWorkspace creates the workspace directories under baseDir, keyed by
// the deck name and a short run ID so concurrent runs never collide.
func NewWorkspace(baseDir, deckStem, runID string) (*Workspace, error) {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	root := filepath.Join(baseDir, "work", fmt.Sprintf("%s_%s", deckStem, short))

	w := &Workspace{
		Root:       root,
		ImageDir:   filepath.Join(root, "images"),
		AudioDir:   filepath.Join(root, "audio"),
		CaptionDir: filepath.Join(root, "captions"),
		ClipDir:    filepath.Join(root, "clips"),
	}

	for _, dir := range []string{w.ImageDir, w.AudioDir, w.CaptionDir, w.ClipDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create workspace directory %s: %w", dir, err)
		}
	}
	return w, nil
}

// Remove deletes the whole workspace tree.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Root)
}
