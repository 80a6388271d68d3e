package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunState is the controller's state machine position.
type RunState string

const (
	StateInitialized        RunState = "initialized"
	StateExporting          RunState = "exporting"
	StatePerSlideProcessing RunState = "per_slide_processing"
	StateComposing          RunState = "composing"
	StateCleaning           RunState = "cleaning"
	StateCompleted          RunState = "completed"
	StateFailed             RunState = "failed"
)

// Terminal reports whether the state machine can advance further.
func (s RunState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// EventStatus is the status field of a progress event.
type EventStatus string

const (
	StatusStarted   EventStatus = "started"
	StatusSucceeded EventStatus = "succeeded"
	StatusDegraded  EventStatus = "degraded"
	StatusFailed    EventStatus = "failed"
)

// NoSlide marks an event or diagnostic that is not tied to one slide.
const NoSlide = -1

// Event is one structured progress notification for the front-end or log
// subsystem.
type Event struct {
	RunID      string
	Stage      string
	SlideIndex int
	Status     EventStatus
	Detail     string
}

// EventFunc consumes progress events. Implementations must be safe for
// concurrent calls from slide workers.
type EventFunc func(Event)

// Diagnostic is one recorded per-stage observation, kept for the final
// ConversionResult.
type Diagnostic struct {
	Stage      string
	SlideIndex int
	Status     EventStatus
	Detail     string
	Time       time.Time
}

// Run tracks one conversion's identity, state and diagnostics. The
// diagnostics list is append-only and guarded; slide workers share it.
type Run struct {
	ID         string
	SourcePath string
	CreatedAt  time.Time

	mu          sync.Mutex
	state       RunState
	diagnostics []Diagnostic
	degraded    bool
}

// NewRun creates a run in the Initialized state.
func NewRun(sourcePath string) *Run {
	return &Run{
		ID:         uuid.New().String(),
		SourcePath: sourcePath,
		CreatedAt:  time.Now(),
		state:      StateInitialized,
	}
}

// State returns the current state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetState advances the state machine. Transitions out of a terminal
// state are ignored.
func (r *Run) SetState(s RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return
	}
	r.state = s
}

// AddDiagnostic appends one diagnostic entry. A degraded entry also marks
// the whole run as degraded.
func (r *Run) AddDiagnostic(stage string, slideIndex int, status EventStatus, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Stage:      stage,
		SlideIndex: slideIndex,
		Status:     status,
		Detail:     detail,
		Time:       time.Now(),
	})
	if status == StatusDegraded {
		r.degraded = true
	}
}

// Degraded reports whether any slide lost narration, captions or its clip.
func (r *Run) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Run) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}
