// Package diag records pipeline events to an append-only diagnostic log.
// Recording is best effort: a sink never returns an error to its caller.
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Sink receives diagnostic events, one message per event.
type Sink interface {
	Record(msg string)
}

// Recordf formats a message and records it to s. A nil sink discards it.
func Recordf(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	s.Record(fmt.Sprintf(format, args...))
}

// Discard is a sink that drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(string) {}

// WriteError describes a failed write to the diagnostic log.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("diag: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileSink writes timestamped lines to a log file. The file is truncated
// on the first event recorded by the sink and appended to afterwards.
type FileSink struct {
	path   string
	stderr io.Writer

	mu       sync.Mutex
	started  bool
	reported bool
	failures int
	logger   *log.Logger
}

// NewFileSink returns a sink writing to path. Nothing is touched on disk
// until the first event.
func NewFileSink(path string) *FileSink {
	s := &FileSink{path: path, stderr: os.Stderr}
	s.logger = log.New(fileWriter{s}, "", log.LstdFlags)
	return s
}

// Path returns the log file path.
func (s *FileSink) Path() string { return s.path }

// Failures returns the number of events that could not be written.
func (s *FileSink) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Record appends msg to the log. Write failures are counted and reported
// to stderr once; they are never returned.
func (s *FileSink) Record(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.logger.Output(2, msg); err != nil {
		s.failures++
		if !s.reported {
			s.reported = true
			fmt.Fprintf(s.stderr, "%v (further diagnostic write errors suppressed)\n", err)
		}
	}
}

// fileWriter opens the log for each line so that no descriptor outlives
// the event. Called with s.mu held.
type fileWriter struct {
	s *FileSink
}

func (w fileWriter) Write(p []byte) (int, error) {
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !w.s.started {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(w.s.path, flag, 0o644)
	if err != nil {
		return 0, &WriteError{Path: w.s.path, Err: err}
	}
	w.s.started = true
	n, err := f.Write(p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, &WriteError{Path: w.s.path, Err: err}
	}
	return n, nil
}

// Recorder keeps events in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

// Record appends msg.
func (r *Recorder) Record(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded events in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// Tee returns a sink that forwards every event to each of sinks.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Record(msg string) {
	for _, s := range t {
		if s != nil {
			s.Record(msg)
		}
	}
}
