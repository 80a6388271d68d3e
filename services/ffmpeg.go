package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/tool"
)

// FFmpegService wraps the ffmpeg and ffprobe executables for every media
// operation in the pipeline. Probe results are cached per path since the
// assembler and compositor ask for the same durations repeatedly.
type FFmpegService struct {
	ffmpeg  *tool.Tool
	ffprobe *tool.Tool

	mu        sync.RWMutex
	durations map[string]float64
}

// NewFFmpegService resolves ffmpeg/ffprobe from the settings.
func NewFFmpegService(cfg *config.Settings) *FFmpegService {
	return &FFmpegService{
		ffmpeg:    tool.New("ffmpeg", cfg.FFmpegPath, cfg.FFmpegTimeout),
		ffprobe:   tool.New("ffprobe", cfg.FFprobePath, cfg.FFmpegTimeout),
		durations: make(map[string]float64),
	}
}

// CheckInstalled verifies ffmpeg is available.
func (s *FFmpegService) CheckInstalled() error {
	return s.ffmpeg.Available()
}

// Duration returns the duration of a media file in seconds.
func (s *FFmpegService) Duration(ctx context.Context, path string) (float64, error) {
	s.mu.RLock()
	cached, ok := s.durations[path]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	out, err := s.ffprobe.Run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe duration of %s: %w", filepath.Base(path), err)
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration of %s: %w", filepath.Base(path), err)
	}

	s.mu.Lock()
	s.durations[path] = duration
	s.mu.Unlock()
	return duration, nil
}

// ConvertToWAV converts an audio file to mono WAV at the pipeline's
// sample rate.
func (s *FFmpegService) ConvertToWAV(ctx context.Context, inputPath, outputPath string) error {
	_, err := s.ffmpeg.Run(ctx,
		"-i", inputPath,
		"-ar", fmt.Sprint(config.AudioSampleRate),
		"-ac", fmt.Sprint(config.AudioChannels),
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("convert %s to wav: %w", filepath.Base(inputPath), err)
	}
	return nil
}

// CreateStillClip renders a single image into a silent video of the given
// duration. The image is scaled to the target width and padded to 16:9.
func (s *FFmpegService) CreateStillClip(ctx context.Context, imagePath string, duration float64, width, fps int, outputPath string) error {
	height := width * 9 / 16
	vf := fmt.Sprintf(
		"scale=%d:-2:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,format=yuv420p,fps=%d",
		width, width, height, fps,
	)

	_, err := s.ffmpeg.Run(ctx,
		"-loop", "1",
		"-framerate", fmt.Sprint(fps),
		"-i", imagePath,
		"-vf", vf,
		"-t", fmt.Sprintf("%.3f", duration),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("render still clip for %s: %w", filepath.Base(imagePath), err)
	}
	return nil
}

// MuxClipAudio muxes narration audio onto a silent clip. The audio is
// silence-padded to the clip duration so it never ends early, and trimmed
// so audio and video durations agree to within a frame.
func (s *FFmpegService) MuxClipAudio(ctx context.Context, videoPath, audioPath string, duration float64, outputPath string) error {
	_, err := s.ffmpeg.Run(ctx,
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		"-af", "apad",
		"-t", fmt.Sprintf("%.3f", duration),
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("mux audio %s: %w", filepath.Base(audioPath), err)
	}
	return nil
}

// AddSilentAudio attaches an all-silence audio track to a silent clip, so
// narrated and narration-less clips stay stream-compatible for concat.
func (s *FFmpegService) AddSilentAudio(ctx context.Context, videoPath string, duration float64, outputPath string) error {
	_, err := s.ffmpeg.Run(ctx,
		"-i", videoPath,
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", config.AudioSampleRate),
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		"-t", fmt.Sprintf("%.3f", duration),
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("add silent audio to %s: %w", filepath.Base(videoPath), err)
	}
	return nil
}

// concatListPath places the concat list next to the clips themselves.
// The clips live in the run's workspace, so concurrent runs writing to
// the same output directory never share scratch files.
func concatListPath(clipPaths []string) string {
	return filepath.Join(filepath.Dir(clipPaths[0]), "concat_list.txt")
}

// ConcatClips concatenates video clips in order. Stream copy is tried
// first to avoid re-encoding; when the clips' parameters disagree, the
// concat is normalized through a single re-encode.
func (s *FFmpegService) ConcatClips(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	listPath := concatListPath(clipPaths)
	var list strings.Builder
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		list.WriteString(fmt.Sprintf("file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`)))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	copyArgs := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}
	if _, err := s.ffmpeg.Run(ctx, copyArgs...); err == nil {
		return nil
	} else if ctx.Err() != nil {
		return err
	} else {
		logger.Warn("stream-copy concat failed, re-encoding: %v", err)
	}

	reencodeArgs := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-y",
		outputPath,
	}
	if _, err := s.ffmpeg.Run(ctx, reencodeArgs...); err != nil {
		return fmt.Errorf("concat clips: %w", err)
	}
	return nil
}

// BurnSubtitles renders the SRT track into the video pixels using the
// subtitles filter. style is passed through as force_style.
func (s *FFmpegService) BurnSubtitles(ctx context.Context, videoPath, srtPath, style, outputPath string) error {
	vf := fmt.Sprintf("subtitles='%s'", escapeFilterPath(srtPath))
	if style != "" {
		vf += fmt.Sprintf(":force_style='%s'", style)
	}

	_, err := s.ffmpeg.Run(ctx,
		"-i", videoPath,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "22",
		"-c:a", "copy",
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("burn subtitles: %w", err)
	}
	return nil
}

// escapeFilterPath escapes a path for use inside an ffmpeg filtergraph.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.ReplaceAll(p, `:`, `\:`)
	return p
}

// moveFile renames src to dst, falling back to copy+remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
