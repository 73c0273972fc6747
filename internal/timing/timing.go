// Package timing measures named operation durations and reports them
// to the screen, the structured log, or both.
package timing

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Span tracks one named measurement from Start until Stop.
type Span struct {
	name    string
	start   time.Time
	screen  io.Writer
	logger  *slog.Logger
	stopped bool
	elapsed time.Duration
	now     func() time.Time
}

// Option adjusts where a span reports its elapsed time.
type Option func(*Span)

// WithScreen reports the elapsed time to w when the span stops.
func WithScreen(w io.Writer) Option {
	return func(s *Span) { s.screen = w }
}

// WithLogger records the elapsed time on logger when the span stops.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Span) { s.logger = logger }
}

func withClock(now func() time.Time) Option {
	return func(s *Span) { s.now = now }
}

// Start begins measuring a named operation.
func Start(name string, opts ...Option) *Span {
	s := &Span{name: name, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// Stop ends the measurement and reports it once. Further calls return
// the original elapsed time without reporting again.
func (s *Span) Stop() time.Duration {
	if s.stopped {
		return s.elapsed
	}
	s.stopped = true
	s.elapsed = s.now().Sub(s.start)

	rounded := s.elapsed.Round(time.Millisecond)
	if s.screen != nil {
		fmt.Fprintf(s.screen, "%s took %s\n", s.name, rounded)
	}
	if s.logger != nil {
		s.logger.Info("operation timed", "name", s.name, "elapsed", rounded.String())
	}
	return s.elapsed
}
