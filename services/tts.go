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
	"slidecast/internal/tool"
	"slidecast/models"
)

// DefaultVoice is used when the configuration does not name one.
const DefaultVoice = "en-US-AriaNeural"

// EdgeTTSService synthesizes narration with the edge-tts CLI. Output is
// converted to mono WAV so whisper and ffmpeg downstream see a uniform
// format.
type EdgeTTSService struct {
	edgeTTS *tool.Tool
	ffmpeg  *FFmpegService
	voice   string
	rate    string
}

// NewEdgeTTSService resolves edge-tts from the settings.
func NewEdgeTTSService(cfg *config.Settings, ffmpeg *FFmpegService) *EdgeTTSService {
	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	rate := cfg.SpeechRate
	if rate == "" {
		rate = "+0%"
	}
	return &EdgeTTSService{
		edgeTTS: tool.New("edge-tts", cfg.TTSPath, cfg.TTSTimeout),
		ffmpeg:  ffmpeg,
		voice:   voice,
		rate:    rate,
	}
}

// Available reports whether edge-tts can be invoked.
func (s *EdgeTTSService) Available() error {
	return s.edgeTTS.Available()
}

// Synthesize converts text to a WAV file at outPath and returns the audio
// duration in seconds. Transient synthesis failures are retried with a
// linear backoff before the slide is given up on.
func (s *EdgeTTSService) Synthesize(ctx context.Context, text, outPath string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty narration text", models.ErrSynthesisFailed)
	}

	// edge-tts mangles shell-significant characters on the command line,
	// so the text goes through a file.
	textFile, err := os.CreateTemp(filepath.Dir(outPath), "narration-*.txt")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrSynthesisFailed, err)
	}
	textPath := textFile.Name()
	defer os.Remove(textPath)
	if _, err := textFile.WriteString(text); err != nil {
		textFile.Close()
		return 0, fmt.Errorf("%w: %v", models.ErrSynthesisFailed, err)
	}
	textFile.Close()

	mp3Path := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".mp3"
	defer os.Remove(mp3Path)

	var lastErr error
	for attempt := 1; attempt <= config.TTSMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		_, lastErr = s.edgeTTS.Run(ctx,
			"--file", textPath,
			"--voice", s.voice,
			"--rate="+s.rate,
			"--write-media", mp3Path,
		)
		if lastErr == nil {
			break
		}
		if attempt < config.TTSMaxAttempts {
			logger.Warn("edge-tts attempt %d failed, retrying: %v", attempt, lastErr)
			select {
			case <-time.After(time.Duration(attempt) * config.TTSRetryBackoff):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrSynthesisFailed, lastErr)
	}

	if info, err := os.Stat(mp3Path); err != nil || info.Size() == 0 {
		return 0, fmt.Errorf("%w: edge-tts produced no audio", models.ErrSynthesisFailed)
	}

	if err := s.ffmpeg.ConvertToWAV(ctx, mp3Path, outPath); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrSynthesisFailed, err)
	}

	duration, err := s.ffmpeg.Duration(ctx, outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrSynthesisFailed, err)
	}
	return duration, nil
}
