package models

import "errors"

// Error taxonomy for a conversion run. Export and composition errors are
// run-fatal; synthesis, alignment and assembly errors are slide-local and
// recoverable through degraded output.
var (
	ErrExportEngineUnavailable = errors.New("export engine unavailable")
	ErrSourceUnreadable        = errors.New("source document unreadable")
	ErrExportFailed            = errors.New("slide export failed")

	ErrSynthesisFailed  = errors.New("speech synthesis failed")
	ErrAlignmentFailed  = errors.New("caption alignment failed")
	ErrInvalidCueTiming = errors.New("invalid cue timing")
	ErrAssemblyFailed   = errors.New("clip assembly failed")

	ErrCompositionFailed = errors.New("composition failed")
	ErrAllSlidesFailed   = errors.New("all slides failed assembly")

	ErrCancelled = errors.New("run cancelled")
)

// IsRunFatal reports whether err aborts the whole run rather than
// degrading a single slide.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrExportEngineUnavailable) ||
		errors.Is(err, ErrSourceUnreadable) ||
		errors.Is(err, ErrExportFailed) ||
		errors.Is(err, ErrCompositionFailed) ||
		errors.Is(err, ErrAllSlidesFailed) ||
		errors.Is(err, ErrCancelled)
}
