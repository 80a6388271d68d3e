package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDeckAlignsImagesAndNotes(t *testing.T) {
	deck := NewDeck("deck.pptx",
		[]string{"1.png", "2.png", "3.png"},
		[]string{"first", "", "third"},
	)

	if len(deck.Slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(deck.Slides))
	}
	for i, s := range deck.Slides {
		if s.Index != i {
			t.Errorf("slide %d has index %d", i, s.Index)
		}
	}
	if deck.Slides[1].Notes != "" {
		t.Errorf("slide 1 notes = %q, want empty", deck.Slides[1].Notes)
	}
}

func TestNewDeckTruncatesToShorterList(t *testing.T) {
	deck := NewDeck("deck.pptx",
		[]string{"1.png", "2.png"},
		[]string{"a", "b", "c", "d"},
	)
	if len(deck.Slides) != 2 {
		t.Errorf("got %d slides, want 2", len(deck.Slides))
	}
}

func TestAssembledClipsSkipsExcludedSlides(t *testing.T) {
	deck := NewDeck("deck.pptx",
		[]string{"1.png", "2.png", "3.png"},
		[]string{"a", "b", "c"},
	)
	deck.Slides[0].Clip = &SlideClip{SlideIndex: 0, Path: "0.mp4", Duration: 3}
	deck.Slides[2].Clip = &SlideClip{SlideIndex: 2, Path: "2.mp4", Duration: 4}

	clips := deck.AssembledClips()
	if len(clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(clips))
	}
	if clips[0].SlideIndex != 0 || clips[1].SlideIndex != 2 {
		t.Errorf("clip order wrong: %v, %v", clips[0].SlideIndex, clips[1].SlideIndex)
	}
}

func TestNarrationClipSilent(t *testing.T) {
	if !(NarrationClip{}).Silent() {
		t.Error("empty clip should be silent")
	}
	if (NarrationClip{Path: "a.wav", Duration: 2.0}).Silent() {
		t.Error("clip with audio should not be silent")
	}
}

func TestRunStateMachine(t *testing.T) {
	run := NewRun("deck.pptx")

	if run.ID == "" {
		t.Error("expected non-empty run ID")
	}
	if run.State() != StateInitialized {
		t.Errorf("initial state = %s", run.State())
	}

	run.SetState(StateExporting)
	run.SetState(StatePerSlideProcessing)
	run.SetState(StateComposing)
	run.SetState(StateCompleted)
	if run.State() != StateCompleted {
		t.Errorf("state = %s, want completed", run.State())
	}

	// terminal states are sticky
	run.SetState(StateFailed)
	if run.State() != StateCompleted {
		t.Error("terminal state must not change")
	}
}

func TestRunDegradedTracking(t *testing.T) {
	run := NewRun("deck.pptx")

	run.AddDiagnostic("synthesize", 1, StatusFailed, "engine exited 1")
	if run.Degraded() {
		t.Error("failed diagnostic alone should not mark run degraded")
	}

	run.AddDiagnostic("synthesize", 1, StatusDegraded, "substituted silence")
	if !run.Degraded() {
		t.Error("degraded diagnostic should mark the run")
	}

	diags := run.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}
	if diags[1].SlideIndex != 1 || diags[1].Status != StatusDegraded {
		t.Errorf("unexpected diagnostic %+v", diags[1])
	}
}

func TestConversionResultExitCode(t *testing.T) {
	tests := []struct {
		name   string
		result ConversionResult
		want   int
	}{
		{"completed", ConversionResult{State: StateCompleted}, ExitCompleted},
		{"degraded", ConversionResult{State: StateCompleted, Degraded: true}, ExitDegraded},
		{"failed", ConversionResult{State: StateFailed, Err: ErrExportFailed}, ExitFailed},
	}
	for _, tt := range tests {
		if got := tt.result.ExitCode(); got != tt.want {
			t.Errorf("%s: ExitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIsRunFatal(t *testing.T) {
	fatal := []error{
		ErrExportEngineUnavailable, ErrSourceUnreadable, ErrExportFailed,
		ErrCompositionFailed, ErrAllSlidesFailed, ErrCancelled,
	}
	for _, err := range fatal {
		if !IsRunFatal(err) {
			t.Errorf("%v should be run-fatal", err)
		}
	}

	local := []error{ErrSynthesisFailed, ErrAlignmentFailed, ErrAssemblyFailed, ErrInvalidCueTiming}
	for _, err := range local {
		if IsRunFatal(err) {
			t.Errorf("%v should be slide-local", err)
		}
	}
}

func TestWorkspaceLifecycle(t *testing.T) {
	base := t.TempDir()

	w, err := NewWorkspace(base, "deck", "0123456789abcdef")
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}

	for _, dir := range []string{w.ImageDir, w.AudioDir, w.CaptionDir, w.ClipDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("missing workspace dir %s", dir)
		}
	}
	if filepath.Base(w.Root) != "deck_01234567" {
		t.Errorf("workspace root name = %s", filepath.Base(w.Root))
	}

	if err := w.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(w.Root); !os.IsNotExist(err) {
		t.Error("workspace should be gone after Remove")
	}
}
