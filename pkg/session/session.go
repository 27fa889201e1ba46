// Package session defines the import session audit record: one row per
// pipeline run, tracking its lifecycle from processing to a terminal state.
package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an import session.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Kind identifies what triggered the pipeline run.
type Kind string

const (
	KindFileCSV  Kind = "csv"
	KindFileJSON Kind = "json"
	KindBatch    Kind = "batch"
)

// Session is one pipeline run. A session is created with StatusProcessing
// and moves to StatusCompleted or StatusFailed exactly once; it is never
// re-opened.
type Session struct {
	ID       uuid.UUID
	Kind     Kind
	Source   string
	Filename string

	Status  Status
	Summary string
	Errors  []string
	// Detail carries the run's result snapshot as opaque structured data.
	Detail json.RawMessage

	StartedAt  time.Time
	FinishedAt *time.Time
}

// New builds a fresh processing session.
func New(kind Kind, source, filename string) *Session {
	return &Session{
		ID:       uuid.New(),
		Kind:     kind,
		Source:   source,
		Filename: filename,
		Status:   StatusProcessing,
	}
}

// Outcome is the terminal state written when a session closes.
type Outcome struct {
	Summary string
	Errors  []string
	Detail  json.RawMessage
}
