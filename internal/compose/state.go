package compose

import (
	"errors"
	"sync"
	"time"

	"github.com/kozaktomas/photo-press/internal/render"
)

// Status of an export lifecycle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

var (
	// ErrNoPhotos rejects an export of an empty sequence before any work
	// starts.
	ErrNoPhotos = errors.New("no photos to export")

	// ErrExportInFlight rejects a second export while one is running. The
	// request is refused, never queued.
	ErrExportInFlight = errors.New("an export is already running")
)

// State tracks one project's export lifecycle: Idle -> Generating ->
// Succeeded or Failed. Begin is the re-entrancy gate; a failed export
// keeps no intermediate output.
type State struct {
	mu         sync.Mutex
	status     Status
	artifact   *render.Artifact
	report     *Report
	errMessage string
	startedAt  time.Time
	finishedAt time.Time
}

// Snapshot is a point-in-time copy of an export state.
type Snapshot struct {
	Status     Status           `json:"status"`
	Artifact   *render.Artifact `json:"artifact,omitempty"`
	Report     *Report          `json:"report,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"started_at,omitzero"`
	FinishedAt time.Time        `json:"finished_at,omitzero"`
}

// NewState returns an idle export state.
func NewState() *State {
	return &State{status: StatusIdle}
}

// Begin moves the state to Generating, clearing previous results. While an
// export is running it returns ErrExportInFlight.
func (s *State) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusGenerating {
		return ErrExportInFlight
	}
	s.status = StatusGenerating
	s.artifact = nil
	s.report = nil
	s.errMessage = ""
	s.startedAt = time.Now()
	s.finishedAt = time.Time{}
	return nil
}

// Succeed records the finished artifact and report.
func (s *State) Succeed(artifact *render.Artifact, report *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusSucceeded
	s.artifact = artifact
	s.report = report
	s.finishedAt = time.Now()
}

// Fail records a user-facing message and discards any intermediate output.
// The underlying cause belongs in the log, not here.
func (s *State) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.artifact = nil
	s.report = nil
	s.errMessage = message
	s.finishedAt = time.Now()
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Status:     s.status,
		Artifact:   s.artifact,
		Report:     s.report,
		Error:      s.errMessage,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

// Artifact returns the produced document, or nil before a successful
// export.
func (s *State) Artifact() *render.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// Status returns the current lifecycle phase.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
