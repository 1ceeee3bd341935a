// Package pipeline describes progress events emitted while parsing files.
package pipeline

import "time"

// Stage describes one step applied to a file.
type Stage string

const (
	// StageLoad reads and decodes the file.
	StageLoad Stage = "load"
	// StageTree builds the block tree.
	StageTree Stage = "tree"
	// StageExtract classifies top-level blocks into typed values.
	StageExtract Stage = "extract"
	// StageStats counts objects for the summary.
	StageStats Stage = "stats"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished.
	StatusDone   Status = "done"
	StatusCached Status = "cached"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Terminal reports whether no further events follow for the file.
func (e Event) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusCached || e.Status == StatusError
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; files are processed in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends ev to sink when sink is non-nil.
func Emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Status: StatusQueued})
	}
}
