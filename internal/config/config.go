// Package config loads the flat settings store consumed by the pipeline.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings is the immutable configuration value for one conversion run.
// It is loaded once at startup and passed explicitly into the pipeline;
// there is no process-wide mutable configuration state.
type Settings struct {
	OutputDir        string
	CleanupOnSuccess bool
	LogLevel         string

	// External tool paths. Bare names are resolved through PATH.
	ExportEnginePath string
	PDFRenderPath    string
	FFmpegPath       string
	FFprobePath      string
	TTSPath          string
	WhisperPath      string

	// Speech recognition
	WhisperModelDir string
	WhisperModel    string

	// Speech synthesis (pass-through to the engine)
	SpeechRate string
	Voice      string

	// Video output
	VideoWidth       int
	FrameRate        int
	MinSlideDuration float64
	SubtitleStyle    string

	// Concurrency
	Workers int

	// Per-invocation timeouts
	ExportTimeout  time.Duration
	TTSTimeout     time.Duration
	WhisperTimeout time.Duration
	FFmpegTimeout  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "./output")
	v.SetDefault("cleanup_on_success", true)
	v.SetDefault("log_level", "info")

	v.SetDefault("export_engine_path", "soffice")
	v.SetDefault("pdf_render_path", "pdftoppm")
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "ffprobe")
	v.SetDefault("tts_path", "edge-tts")
	v.SetDefault("whisper_path", "whisper-cli")

	v.SetDefault("whisper_model_dir", "")
	v.SetDefault("whisper_model", "base")

	v.SetDefault("speech_rate", "+0%")
	v.SetDefault("voice", "")

	v.SetDefault("video_width", 1280)
	v.SetDefault("frame_rate", 24)
	v.SetDefault("min_slide_duration", 3.0)
	v.SetDefault("subtitle_style", "FontName=Arial,FontSize=24")

	v.SetDefault("workers", 2)

	v.SetDefault("export_timeout", 2*time.Minute)
	v.SetDefault("tts_timeout", time.Minute)
	v.SetDefault("whisper_timeout", 30*time.Minute)
	v.SetDefault("ffmpeg_timeout", 10*time.Minute)
}

// Load reads settings from the given file. An empty path loads defaults
// plus any slidecast.yaml found in the working directory. Values are
// coerced to their target types; no further validation is performed here.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	} else {
		v.SetConfigName("slidecast")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	return fromViper(v), nil
}

// Default returns the built-in settings without reading any file.
func Default() *Settings {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Settings {
	return &Settings{
		OutputDir:        v.GetString("output_dir"),
		CleanupOnSuccess: v.GetBool("cleanup_on_success"),
		LogLevel:         v.GetString("log_level"),

		ExportEnginePath: v.GetString("export_engine_path"),
		PDFRenderPath:    v.GetString("pdf_render_path"),
		FFmpegPath:       v.GetString("ffmpeg_path"),
		FFprobePath:      v.GetString("ffprobe_path"),
		TTSPath:          v.GetString("tts_path"),
		WhisperPath:      v.GetString("whisper_path"),

		WhisperModelDir: v.GetString("whisper_model_dir"),
		WhisperModel:    v.GetString("whisper_model"),

		SpeechRate: v.GetString("speech_rate"),
		Voice:      v.GetString("voice"),

		VideoWidth:       v.GetInt("video_width"),
		FrameRate:        v.GetInt("frame_rate"),
		MinSlideDuration: v.GetFloat64("min_slide_duration"),
		SubtitleStyle:    v.GetString("subtitle_style"),

		Workers: v.GetInt("workers"),

		ExportTimeout:  v.GetDuration("export_timeout"),
		TTSTimeout:     v.GetDuration("tts_timeout"),
		WhisperTimeout: v.GetDuration("whisper_timeout"),
		FFmpegTimeout:  v.GetDuration("ffmpeg_timeout"),
	}
}
