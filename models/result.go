package models

// Exit codes for the CLI surface.
const (
	ExitCompleted = 0
	ExitFailed    = 1
	ExitDegraded  = 2
)

// ConversionResult is the terminal artifact of one run. It is immutable
// once produced.
type ConversionResult struct {
	RunID         string
	VideoPath     string
	State         RunState
	Degraded      bool
	Diagnostics   []Diagnostic
	WorkspacePath string // empty when the workspace was cleaned up
	Err           error
}

// Success reports whether the run produced a playable video.
func (r *ConversionResult) Success() bool {
	return r.State == StateCompleted
}

// ExitCode maps the result onto the process exit status: 0 for a clean
// completion, 2 for completion with degraded slides, 1 for failure.
func (r *ConversionResult) ExitCode() int {
	switch {
	case r.State != StateCompleted:
		return ExitFailed
	case r.Degraded:
		return ExitDegraded
	default:
		return ExitCompleted
	}
}
