package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/subtitle"
	"slidecast/models"
)

// BuildCaptionTrack merges the per-slide cue tracks into one deck-level
// track. Each slide's cues are normalized (time-ordered, overlaps
// repaired) and clamped to its clip window, then shifted by the total
// duration of the clips before it, so the merged track is globally
// non-overlapping and time-ordered regardless of what the aligner
// produced. Slides excluded from assembly contribute neither time nor
// cues.
func BuildCaptionTrack(deck *models.Deck) subtitle.Track {
	var merged subtitle.Track
	offset := 0.0
	for _, slide := range deck.Slides {
		if slide.Clip == nil {
			continue
		}
		window := subtitle.SecondsToDuration(slide.Clip.Duration)
		shifted := slide.Cues.
			Normalized().
			ClampedTo(window).
			Shifted(subtitle.SecondsToDuration(offset))
		merged = append(merged, shifted...)
		offset += slide.Clip.Duration
	}
	return merged.Renumbered()
}

// FFmpegCompositor concatenates the slide clips and burns the merged
// caption track into the final video.
type FFmpegCompositor struct {
	ffmpeg *FFmpegService
	style  string
}

// NewFFmpegCompositor builds a compositor with the configured subtitle
// style.
func NewFFmpegCompositor(cfg *config.Settings, ffmpeg *FFmpegService) *FFmpegCompositor {
	return &FFmpegCompositor{
		ffmpeg: ffmpeg,
		style:  cfg.SubtitleStyle,
	}
}

// compositeScratchPath places the pre-burn concat result in the clip
// directory, inside the run's workspace, never in the shared output
// directory where concurrent runs would collide.
func compositeScratchPath(clips []*models.SlideClip) string {
	return filepath.Join(filepath.Dir(clips[0].Path), "composite.mp4")
}

// Compose concatenates the deck's assembled clips into outPath. When the
// merged caption track has cues, it is written to srtPath and burned in;
// an empty track skips the burn step entirely.
func (c *FFmpegCompositor) Compose(ctx context.Context, deck *models.Deck, srtPath, outPath string) error {
	clips := deck.AssembledClips()
	if len(clips) == 0 {
		return fmt.Errorf("%w: no clips to compose", models.ErrCompositionFailed)
	}

	paths := make([]string, len(clips))
	for i, clip := range clips {
		paths[i] = clip.Path
	}

	concatPath := compositeScratchPath(clips)
	if err := c.ffmpeg.ConcatClips(ctx, paths, concatPath); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCompositionFailed, err)
	}
	defer os.Remove(concatPath)

	track := BuildCaptionTrack(deck)
	if len(track) == 0 {
		logger.Info("no captions to burn, writing video without subtitles")
		if err := moveFile(concatPath, outPath); err != nil {
			return fmt.Errorf("%w: %v", models.ErrCompositionFailed, err)
		}
		return nil
	}

	if err := subtitle.WriteSRTFile(srtPath, track); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCompositionFailed, err)
	}

	if err := c.ffmpeg.BurnSubtitles(ctx, concatPath, srtPath, c.style, outPath); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCompositionFailed, err)
	}
	return nil
}
