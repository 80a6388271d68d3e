package config

import "time"

// Assembly retry policy. A failed clip assembly is retried once before the
// slide is excluded from the composite.
const (
	AssemblyRetries    = 1
	AssemblyRetryDelay = time.Second
)

// TTS engine retry policy (network-backed synthesis is flaky).
const (
	TTSMaxAttempts  = 3
	TTSRetryBackoff = 2 * time.Second
)

// Frame tolerance used when comparing media durations. One frame at the
// lowest supported frame rate keeps duration checks stable across tools.
const DurationTolerance = 50 * time.Millisecond

// PDF render resolution for slide images.
const ExportDPI = 150

// Audio parameters for narration clips. 24kHz mono is what the synthesis
// engine emits after conversion; recognition downsamples internally.
const (
	AudioSampleRate = 24000
	AudioChannels   = 1
)
