package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/worker"
	"slidecast/models"
)

// Stage names used in events and diagnostics.
const (
	StageRun         = "run"
	StageExport      = "export"
	StageSynthesis   = "synthesis"
	StageAlignment   = "alignment"
	StageAssembly    = "assembly"
	StageComposition = "composition"
	StageCleanup     = "cleanup"
)

// Pipeline drives one or more conversion runs: export, per-slide fan-out,
// composition, cleanup. The zero value is not usable; construct with
// NewPipeline.
type Pipeline struct {
	cfg        *config.Settings
	ffmpeg     *FFmpegService
	exporter   DocumentExporter
	synth      SpeechSynthesizer
	aligner    CaptionAligner
	assembler  ClipAssembler
	compositor Compositor

	eventFn models.EventFunc
}

// NewPipeline wires the default service implementations from the settings.
func NewPipeline(cfg *config.Settings) *Pipeline {
	ffmpeg := NewFFmpegService(cfg)
	return &Pipeline{
		cfg:        cfg,
		ffmpeg:     ffmpeg,
		exporter:   NewLibreOfficeExporter(cfg),
		synth:      NewEdgeTTSService(cfg, ffmpeg),
		aligner:    NewWhisperService(cfg),
		assembler:  NewFFmpegAssembler(cfg, ffmpeg),
		compositor: NewFFmpegCompositor(cfg, ffmpeg),
	}
}

// SetEventFunc registers the progress sink. It must be set before Run and
// must be safe for concurrent calls from slide workers.
func (p *Pipeline) SetEventFunc(fn models.EventFunc) {
	p.eventFn = fn
}

// CheckDependencies probes every external engine and returns its
// availability, keyed by engine name. A nil value means usable.
func (p *Pipeline) CheckDependencies() map[string]error {
	return map[string]error{
		"export engine": p.exporter.Available(),
		"ffmpeg":        p.ffmpeg.CheckInstalled(),
		"edge-tts":      p.synth.Available(),
		"whisper":       p.aligner.Available(),
	}
}

// RunAsync starts a conversion on its own goroutine and delivers the
// terminal result on the returned channel, so an interactive caller is
// never blocked.
func (p *Pipeline) RunAsync(ctx context.Context, sourcePath string) <-chan *models.ConversionResult {
	ch := make(chan *models.ConversionResult, 1)
	go func() {
		ch <- p.Run(ctx, sourcePath)
		close(ch)
	}()
	return ch
}

// Run converts one slide deck into a narrated, captioned video. It always
// returns a terminal ConversionResult; errors are folded into it rather
// than returned separately.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) *models.ConversionResult {
	run := models.NewRun(sourcePath)
	stem := deckStem(sourcePath)
	p.emit(run, StageRun, models.NoSlide, models.StatusStarted, sourcePath)

	if err := p.exporter.Available(); err != nil {
		return p.fail(run, nil, err)
	}

	ws, err := models.NewWorkspace(p.cfg.OutputDir, stem, run.ID)
	if err != nil {
		return p.fail(run, nil, fmt.Errorf("%w: %v", models.ErrExportFailed, err))
	}

	// Exporting
	run.SetState(models.StateExporting)
	p.emit(run, StageExport, models.NoSlide, models.StatusStarted, "")

	images, err := p.exporter.Export(ctx, sourcePath, ws.ImageDir)
	if err != nil {
		return p.fail(run, ws, p.cancelledOr(ctx, err))
	}
	notes, err := p.exporter.ExtractNotes(sourcePath)
	if err != nil {
		return p.fail(run, ws, err)
	}
	if len(notes) == 0 && len(images) > 0 {
		// odp and legacy ppt decks can carry notes the exporter cannot
		// read; the whole video would silently come out narration-free.
		run.AddDiagnostic(StageExport, models.NoSlide, models.StatusDegraded,
			fmt.Sprintf("no speaker notes readable from %s, all slides will be silent",
				filepath.Base(sourcePath)))
	}
	if len(notes) > len(images) {
		run.AddDiagnostic(StageExport, models.NoSlide, models.StatusDegraded,
			fmt.Sprintf("%d notes for %d rendered slides, extra notes dropped", len(notes), len(images)))
	}
	for len(notes) < len(images) {
		notes = append(notes, "")
	}

	deck := models.NewDeck(sourcePath, images, notes)
	if len(deck.Slides) == 0 {
		return p.fail(run, ws, fmt.Errorf("%w: deck has no slides", models.ErrExportFailed))
	}
	p.emit(run, StageExport, models.NoSlide, models.StatusSucceeded,
		fmt.Sprintf("%d slides", len(deck.Slides)))

	// PerSlideProcessing
	run.SetState(models.StatePerSlideProcessing)

	// An unavailable synthesis or alignment engine degrades every slide
	// the same way one failed call would, without hammering a missing
	// binary once per slide.
	synthErr := p.synth.Available()
	alignErr := p.aligner.Available()
	if synthErr != nil {
		run.AddDiagnostic(StageSynthesis, models.NoSlide, models.StatusDegraded,
			fmt.Sprintf("synthesis engine unavailable, all slides silent: %v", synthErr))
	}
	if alignErr != nil {
		run.AddDiagnostic(StageAlignment, models.NoSlide, models.StatusDegraded,
			fmt.Sprintf("alignment engine unavailable, no captions: %v", alignErr))
	}

	results := worker.Run(ctx, deck.Slides, p.cfg.Workers,
		func(ctx context.Context, job worker.Job[models.Slide]) (models.Slide, error) {
			return p.processSlide(ctx, run, ws, job.Data, synthErr == nil, alignErr == nil)
		},
		func(completed, total int) {
			logger.Info("slides processed: %d/%d", completed, total)
		},
	)
	if ctx.Err() != nil {
		return p.fail(run, ws, fmt.Errorf("%w: %v", models.ErrCancelled, ctx.Err()))
	}
	for _, r := range results {
		if r.Err != nil {
			return p.fail(run, ws, p.cancelledOr(ctx, r.Err))
		}
		deck.Slides[r.Index] = r.Value
	}
	if len(deck.AssembledClips()) == 0 {
		return p.fail(run, ws, fmt.Errorf("%w: no slide produced a clip", models.ErrAllSlidesFailed))
	}

	// Composing
	run.SetState(models.StateComposing)
	p.emit(run, StageComposition, models.NoSlide, models.StatusStarted, "")

	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		return p.fail(run, ws, fmt.Errorf("%w: %v", models.ErrCompositionFailed, err))
	}
	videoPath := filepath.Join(p.cfg.OutputDir, stem+"_video.mp4")
	srtPath := filepath.Join(ws.CaptionDir, stem+".srt")
	if err := p.compositor.Compose(ctx, deck, srtPath, videoPath); err != nil {
		return p.fail(run, ws, p.cancelledOr(ctx, err))
	}
	p.emit(run, StageComposition, models.NoSlide, models.StatusSucceeded, videoPath)

	// Cleaning
	run.SetState(models.StateCleaning)
	workspacePath := ws.Root
	if p.cfg.CleanupOnSuccess {
		if err := ws.Remove(); err != nil {
			run.AddDiagnostic(StageCleanup, models.NoSlide, models.StatusDegraded,
				fmt.Sprintf("workspace not removed: %v", err))
		} else {
			workspacePath = ""
		}
	}

	run.SetState(models.StateCompleted)
	status := models.StatusSucceeded
	if run.Degraded() {
		status = models.StatusDegraded
	}
	p.emit(run, StageRun, models.NoSlide, status, videoPath)

	return &models.ConversionResult{
		RunID:         run.ID,
		VideoPath:     videoPath,
		State:         run.State(),
		Degraded:      run.Degraded(),
		Diagnostics:   run.Diagnostics(),
		WorkspacePath: workspacePath,
	}
}

// processSlide runs the synthesis, alignment and assembly sub-pipeline for
// one slide. Slide-local failures degrade the slide (silence, missing
// captions, or clip exclusion) and never return an error; only
// cancellation propagates.
func (p *Pipeline) processSlide(ctx context.Context, run *models.Run, ws *models.Workspace, slide models.Slide, synthOK, alignOK bool) (models.Slide, error) {
	idx := slide.Index
	p.emit(run, StageSynthesis, idx, models.StatusStarted, "")

	slide.Narration = models.NarrationClip{SlideIndex: idx}
	text := strings.TrimSpace(slide.Notes)
	switch {
	case text == "":
		// Silent slide, not a degradation.
	case !synthOK:
		p.record(run, StageSynthesis, idx, models.StatusDegraded, "engine unavailable, substituting silence")
	default:
		audioPath := filepath.Join(ws.AudioDir, fmt.Sprintf("slide_%03d.wav", idx))
		duration, err := p.synth.Synthesize(ctx, text, audioPath)
		if err != nil {
			if ctx.Err() != nil {
				return slide, ctx.Err()
			}
			p.record(run, StageSynthesis, idx, models.StatusDegraded,
				fmt.Sprintf("substituting silence: %v", err))
		} else {
			slide.Narration = models.NarrationClip{SlideIndex: idx, Path: audioPath, Duration: duration}
			p.emit(run, StageSynthesis, idx, models.StatusSucceeded,
				fmt.Sprintf("%.2fs", duration))
		}
	}

	slide.Cues = nil
	if !slide.Narration.Silent() {
		if !alignOK {
			p.record(run, StageAlignment, idx, models.StatusDegraded, "engine unavailable, no captions")
		} else {
			track, dropped, err := p.aligner.Align(ctx, slide.Narration.Path)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return slide, ctx.Err()
				}
				p.record(run, StageAlignment, idx, models.StatusDegraded,
					fmt.Sprintf("no captions: %v", err))
			case dropped > 0:
				slide.Cues = track
				p.record(run, StageAlignment, idx, models.StatusDegraded,
					fmt.Sprintf("%d cues with invalid timing dropped", dropped))
			default:
				slide.Cues = track
				p.emit(run, StageAlignment, idx, models.StatusSucceeded,
					fmt.Sprintf("%d cues", len(track)))
			}
		}
	}

	p.emit(run, StageAssembly, idx, models.StatusStarted, "")
	clipPath := filepath.Join(ws.ClipDir, fmt.Sprintf("clip_%03d.mp4", idx))
	clip, err := p.assembleWithRetry(ctx, slide.ImagePath, slide.Narration, clipPath)
	if err != nil {
		if ctx.Err() != nil {
			return slide, ctx.Err()
		}
		p.record(run, StageAssembly, idx, models.StatusDegraded,
			fmt.Sprintf("clip excluded from composite: %v", err))
		return slide, nil
	}
	slide.Clip = clip
	p.emit(run, StageAssembly, idx, models.StatusSucceeded, fmt.Sprintf("%.2fs", clip.Duration))
	return slide, nil
}

// assembleWithRetry retries a failed assembly once before giving the
// slide up.
func (p *Pipeline) assembleWithRetry(ctx context.Context, imagePath string, narration models.NarrationClip, clipPath string) (*models.SlideClip, error) {
	clip, err := p.assembler.Assemble(ctx, imagePath, narration, clipPath)
	for attempt := 0; err != nil && ctx.Err() == nil && attempt < config.AssemblyRetries; attempt++ {
		logger.Warn("assembly of %s failed, retrying: %v", filepath.Base(clipPath), err)
		select {
		case <-time.After(config.AssemblyRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		clip, err = p.assembler.Assemble(ctx, imagePath, narration, clipPath)
	}
	return clip, err
}

// fail drives the run to the Failed state. The workspace is always
// preserved on failure regardless of the cleanup setting.
func (p *Pipeline) fail(run *models.Run, ws *models.Workspace, err error) *models.ConversionResult {
	stage := stageForError(run.State())
	run.AddDiagnostic(stage, models.NoSlide, models.StatusFailed, err.Error())
	run.SetState(models.StateFailed)
	p.emit(run, StageRun, models.NoSlide, models.StatusFailed, err.Error())

	workspacePath := ""
	if ws != nil {
		workspacePath = ws.Root
	}
	return &models.ConversionResult{
		RunID:         run.ID,
		State:         models.StateFailed,
		Degraded:      run.Degraded(),
		Diagnostics:   run.Diagnostics(),
		WorkspacePath: workspacePath,
		Err:           err,
	}
}

// cancelledOr maps an error to Cancelled when the context drove it.
func (p *Pipeline) cancelledOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", models.ErrCancelled, ctx.Err())
	}
	return err
}

func stageForError(state models.RunState) string {
	switch state {
	case models.StateExporting:
		return StageExport
	case models.StatePerSlideProcessing:
		return StageAssembly
	case models.StateComposing:
		return StageComposition
	default:
		return StageRun
	}
}

// record adds a diagnostic and emits the matching event.
func (p *Pipeline) record(run *models.Run, stage string, slideIndex int, status models.EventStatus, detail string) {
	run.AddDiagnostic(stage, slideIndex, status, detail)
	p.emit(run, stage, slideIndex, status, detail)
}

func (p *Pipeline) emit(run *models.Run, stage string, slideIndex int, status models.EventStatus, detail string) {
	if slideIndex == models.NoSlide {
		logger.Debug("run %s %s %s %s", run.ID[:8], stage, status, detail)
	} else {
		logger.Debug("run %s %s slide %d %s %s", run.ID[:8], stage, slideIndex, status, detail)
	}
	if p.eventFn == nil {
		return
	}
	p.eventFn(models.Event{
		RunID:      run.ID,
		Stage:      stage,
		SlideIndex: slideIndex,
		Status:     status,
		Detail:     detail,
	})
}
