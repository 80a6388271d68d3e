package services

import (
	"context"

	"slidecast/internal/subtitle"
	"slidecast/models"
)

// DocumentExporter renders a deck's slides to images and extracts the
// per-slide speaker notes. Implementations wrap a concrete conversion
// engine and are selected at startup.
type DocumentExporter interface {
	// Name identifies the engine for diagnostics.
	Name() string
	// Available reports whether the engine can be located.
	Available() error
	// Export writes one image per slide into imageDir and returns their
	// paths in slide order.
	Export(ctx context.Context, sourcePath, imageDir string) ([]string, error)
	// ExtractNotes returns one notes string per slide, empty when a slide
	// has none.
	ExtractNotes(sourcePath string) ([]string, error)
}

// SpeechSynthesizer converts notes text into a speech audio clip.
type SpeechSynthesizer interface {
	Available() error
	// Synthesize writes speech for text to outPath and returns the clip
	// duration in seconds.
	Synthesize(ctx context.Context, text, outPath string) (float64, error)
}

// CaptionAligner converts a narration clip into timestamped caption cues
// relative to the clip's own start. Cues with unusable timing are dropped;
// the count of dropped cues is reported so the caller can record it.
type CaptionAligner interface {
	Available() error
	Align(ctx context.Context, audioPath string) (track subtitle.Track, dropped int, err error)
}

// ClipAssembler renders one slide's image and narration into a video clip
// whose duration is max(narration duration, minimum display duration).
type ClipAssembler interface {
	Assemble(ctx context.Context, imagePath string, narration models.NarrationClip, clipPath string) (*models.SlideClip, error)
}

// Compositor concatenates the surviving slide clips and burns the global
// caption track onto the result.
type Compositor interface {
	Compose(ctx context.Context, deck *models.Deck, srtPath, outPath string) error
}
