package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "./output" {
		t.Errorf("OutputDir = %q, want ./output", cfg.OutputDir)
	}
	if !cfg.CleanupOnSuccess {
		t.Error("CleanupOnSuccess should default to true")
	}
	if cfg.VideoWidth != 1280 {
		t.Errorf("VideoWidth = %d, want 1280", cfg.VideoWidth)
	}
	if cfg.FrameRate != 24 {
		t.Errorf("FrameRate = %d, want 24", cfg.FrameRate)
	}
	if cfg.MinSlideDuration != 3.0 {
		t.Errorf("MinSlideDuration = %v, want 3.0", cfg.MinSlideDuration)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.SpeechRate != "+0%" {
		t.Errorf("SpeechRate = %q, want +0%%", cfg.SpeechRate)
	}
	if cfg.WhisperModel != "base" {
		t.Errorf("WhisperModel = %q, want base", cfg.WhisperModel)
	}
	if cfg.TTSTimeout != time.Minute {
		t.Errorf("TTSTimeout = %v, want 1m", cfg.TTSTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
output_dir: /tmp/videos
cleanup_on_success: false
voice: zh-CN-XiaoxiaoNeural
workers: 4
min_slide_duration: 5.5
export_timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.OutputDir != "/tmp/videos" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.CleanupOnSuccess {
		t.Error("CleanupOnSuccess should be false")
	}
	if cfg.Voice != "zh-CN-XiaoxiaoNeural" {
		t.Errorf("Voice = %q", cfg.Voice)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.MinSlideDuration != 5.5 {
		t.Errorf("MinSlideDuration = %v", cfg.MinSlideDuration)
	}
	if cfg.ExportTimeout != 30*time.Second {
		t.Errorf("ExportTimeout = %v", cfg.ExportTimeout)
	}
	// Unset keys keep their defaults.
	if cfg.VideoWidth != 1280 {
		t.Errorf("VideoWidth = %d, want default 1280", cfg.VideoWidth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/settings.yaml"); err == nil {
		t.Error("missing explicit settings file should fail")
	}
}
