package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/subtitle"
	"slidecast/internal/tool"
	"slidecast/models"
)

// WhisperService produces time-aligned caption cues for a narration WAV by
// running whisper-cli with SRT output.
type WhisperService struct {
	whisper   *tool.Tool
	modelPath string
}

// NewWhisperService resolves whisper-cli and the model file from the
// settings. The model path defaults to ~/.whisper/models/ggml-<model>.bin.
func NewWhisperService(cfg *config.Settings) *WhisperService {
	modelDir := cfg.WhisperModelDir
	if modelDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			modelDir = filepath.Join(home, ".whisper", "models")
		}
	}
	model := cfg.WhisperModel
	if model == "" {
		model = "base"
	}
	return &WhisperService{
		whisper:   tool.New("whisper-cli", cfg.WhisperPath, cfg.WhisperTimeout),
		modelPath: filepath.Join(modelDir, "ggml-"+model+".bin"),
	}
}

// Available reports whether whisper-cli and its model file are usable.
func (s *WhisperService) Available() error {
	if err := s.whisper.Available(); err != nil {
		return err
	}
	if _, err := os.Stat(s.modelPath); err != nil {
		return fmt.Errorf("whisper model not found at %s", s.modelPath)
	}
	return nil
}

// Align transcribes the narration audio and returns its cue track in
// slide-local time. Cues whose timing is invalid are dropped rather than
// failing the slide; the dropped count is reported so the caller can mark
// the run degraded.
func (s *WhisperService) Align(ctx context.Context, audioPath string) (subtitle.Track, int, error) {
	outBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	srtPath := outBase + ".srt"

	_, err := s.whisper.Run(ctx,
		"-m", s.modelPath,
		"-f", audioPath,
		"-osrt",
		"-of", outBase,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrAlignmentFailed, err)
	}

	track, err := subtitle.ParseSRTFile(srtPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrAlignmentFailed, err)
	}

	valid := make(subtitle.Track, 0, len(track))
	dropped := 0
	for _, cue := range track {
		if !cue.Valid() || cue.IsEmpty() {
			dropped++
			logger.Warn("dropping invalid cue %d in %s (%s --> %s)",
				cue.Index, filepath.Base(srtPath),
				subtitle.FormatTimestamp(cue.Start), subtitle.FormatTimestamp(cue.End))
			continue
		}
		valid = append(valid, cue)
	}
	// Engines occasionally emit overlapping segments; cues leave the
	// aligner time-ordered and non-overlapping.
	return valid.Normalized().Renumbered(), dropped, nil
}
