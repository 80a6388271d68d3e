package models

import (
	"slidecast/internal/subtitle"
)

// Deck is the ordered collection of slides for one conversion run. It is
// the single source of truth during per-slide processing: workers receive
// a slide index and write results back through the controller's
// accumulator, never through shared aggregate state.
type Deck struct {
	SourcePath string
	Slides     []Slide
}

// Slide is one slide's record, created at export time and progressively
// enriched by the later stages. Indices are 0-based, contiguous and
// never reordered.
type Slide struct {
	Index     int
	Notes     string
	ImagePath string

	Narration NarrationClip
	Cues      subtitle.Track
	Clip      *SlideClip
}

// NarrationClip is a slide's synthesized speech. Empty notes produce a
// zero-duration clip with no file, not a missing clip.
type NarrationClip struct {
	SlideIndex int
	Path       string
	Duration   float64 // seconds
}

// Silent reports whether the clip carries no audible narration.
func (c NarrationClip) Silent() bool {
	return c.Path == "" || c.Duration <= 0
}

// SlideClip is a slide's rendered video segment. Its duration is always
// at least the narration duration, so narration is never truncated.
type SlideClip struct {
	SlideIndex int
	Path       string
	Duration   float64 // seconds
}

// NewDeck builds a deck from exported images and extracted notes. When
// the counts disagree the deck is truncated to the shorter list, keeping
// image/notes pairs aligned.
func NewDeck(sourcePath string, imagePaths, notes []string) *Deck {
	n := len(imagePaths)
	if len(notes) < n {
		n = len(notes)
	}

	slides := make([]Slide, n)
	for i := 0; i < n; i++ {
		slides[i] = Slide{
			Index:     i,
			Notes:     notes[i],
			ImagePath: imagePaths[i],
		}
	}

	return &Deck{
		SourcePath: sourcePath,
		Slides:     slides,
	}
}

// AssembledClips returns the clips of slides that survived assembly, in
// slide order.
func (d *Deck) AssembledClips() []*SlideClip {
	clips := make([]*SlideClip, 0, len(d.Slides))
	for i := range d.Slides {
		if d.Slides[i].Clip != nil {
			clips = append(clips, d.Slides[i].Clip)
		}
	}
	return clips
}
