package subtitle

import (
	"errors"
	"time"
)

// represents single subtitle entry
type Entry struct {
	Number int
	Start  time.Duration
	End    time.Duration
	Text   string
}

// Duration returns how long the entry stays on screen.
func (e Entry) Duration() time.Duration {
	return e.End - e.Start
}

// represents transcribed audio segment before it becomes an entry
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Diagnostic records why a record was skipped or flagged. Record is the
// 1-based position of the record the diagnostic refers to.
type Diagnostic struct {
	Record  int
	Message string
}

// interface for turning transcribed segments into display entries
type Generator interface {
	Generate(segments []Segment) ([]Entry, error)
}

var (
	// ErrEmptyFile reports a file holding nothing but whitespace.
	ErrEmptyFile = errors.New("subtitle file is empty")

	// ErrNoEntries reports non-empty input from which no record
	// parsed successfully.
	ErrNoEntries = errors.New("no valid subtitle entries found")
)
