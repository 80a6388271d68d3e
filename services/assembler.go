package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"slidecast/internal/config"
	"slidecast/models"
)

// ClipDuration decides how long a slide stays on screen: the narration
// length, but never shorter than the minimum display duration.
func ClipDuration(narrationSeconds, minSeconds float64) float64 {
	if narrationSeconds > minSeconds {
		return narrationSeconds
	}
	return minSeconds
}

// FFmpegAssembler turns one slide image plus its narration into a
// self-contained video clip.
type FFmpegAssembler struct {
	ffmpeg      *FFmpegService
	width       int
	fps         int
	minDuration float64
}

// NewFFmpegAssembler builds an assembler with the configured video
// geometry.
func NewFFmpegAssembler(cfg *config.Settings, ffmpeg *FFmpegService) *FFmpegAssembler {
	return &FFmpegAssembler{
		ffmpeg:      ffmpeg,
		width:       cfg.VideoWidth,
		fps:         cfg.FrameRate,
		minDuration: cfg.MinSlideDuration,
	}
}

// Assemble renders the slide image into a still clip and muxes the
// narration onto it. Silent slides get an all-silence audio track so
// every clip carries identical stream layouts for concatenation.
func (a *FFmpegAssembler) Assemble(ctx context.Context, imagePath string, narration models.NarrationClip, clipPath string) (*models.SlideClip, error) {
	duration := ClipDuration(narration.Duration, a.minDuration)

	dir := filepath.Dir(clipPath)
	base := filepath.Base(clipPath)
	stillPath := filepath.Join(dir, "still_"+base)

	if err := a.ffmpeg.CreateStillClip(ctx, imagePath, duration, a.width, a.fps, stillPath); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAssemblyFailed, err)
	}
	defer os.Remove(stillPath)

	var err error
	if narration.Silent() {
		err = a.ffmpeg.AddSilentAudio(ctx, stillPath, duration, clipPath)
	} else {
		err = a.ffmpeg.MuxClipAudio(ctx, stillPath, narration.Path, duration, clipPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAssemblyFailed, err)
	}

	return &models.SlideClip{
		SlideIndex: narration.SlideIndex,
		Path:       clipPath,
		Duration:   duration,
	}, nil
}
