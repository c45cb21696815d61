// Package diag collects user-facing diagnostics reported by passes.
//
// Diagnostics describe problems in the program being compiled. Reporting
// one never stops a traversal, unless the sink is configured to abort
// after the first error or after a maximum number of errors. Aborting
// raises a panic carrying an *errors.Error with [errors.ErrCodeAborted],
// which the pass runner converts back into an error.
//
// # Usage
//
//	sink := diag.NewSink(diag.WithMaxErrors(20))
//	sink.Errorf(n, errors.ErrCodeUnresolved, "unknown name %q", name)
//	if err := sink.Err(); err != nil {
//	    // err is a *multierror.Error listing every error diagnostic
//	}
package diag

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Code     errors.Code
	Node     string // Kind#id of the offending node, empty if none
	Source   ir.SourceInfo
	Message  string
}

// String renders the diagnostic as "file:line:col: severity: message".
// The node name stands in for a missing source location.
func (d Diagnostic) String() string {
	loc := d.Node
	if d.Source.IsValid() {
		loc = d.Source.String()
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// Err returns the diagnostic as a coded error.
func (d Diagnostic) Err() error {
	return errors.New(d.Code, "%s", d.String())
}

// Option configures a Sink.
type Option func(*Sink)

// WithLogger logs every diagnostic to l. By default diagnostics are only
// collected.
func WithLogger(l *log.Logger) Option {
	return func(s *Sink) { s.logger = l }
}

// WithFailFast aborts on the first error diagnostic.
func WithFailFast(failFast bool) Option {
	return func(s *Sink) { s.failFast = failFast }
}

// WithMaxErrors aborts once n error diagnostics were reported. Zero
// means no limit.
func WithMaxErrors(n int) Option {
	return func(s *Sink) { s.maxErrors = n }
}

// Sink collects diagnostics. It is safe for concurrent use.
type Sink struct {
	mu        sync.Mutex
	logger    *log.Logger
	failFast  bool
	maxErrors int
	diags     []Diagnostic
	errs      int
}

// NewSink creates an empty sink.
func NewSink(opts ...Option) *Sink {
	s := &Sink{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Errorf reports an error at n. n may be nil.
func (s *Sink) Errorf(n ir.Node, code errors.Code, format string, args ...any) {
	s.report(SeverityError, n, code, format, args...)
}

// Warnf reports a warning at n.
func (s *Sink) Warnf(n ir.Node, code errors.Code, format string, args ...any) {
	s.report(SeverityWarning, n, code, format, args...)
}

// Infof reports an informational note at n.
func (s *Sink) Infof(n ir.Node, code errors.Code, format string, args ...any) {
	s.report(SeverityInfo, n, code, format, args...)
}

func (s *Sink) report(sev Severity, n ir.Node, code errors.Code, format string, args ...any) {
	d := Diagnostic{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		d.Node = ir.Dbp(n)
		d.Source = n.Source()
	}

	s.mu.Lock()
	s.diags = append(s.diags, d)
	abort := false
	if sev == SeverityError {
		s.errs++
		abort = s.failFast || (s.maxErrors > 0 && s.errs >= s.maxErrors)
	}
	errs := s.errs
	s.mu.Unlock()

	if s.logger != nil {
		switch sev {
		case SeverityError:
			s.logger.Error(d.Message, "code", code, "at", d.location())
		case SeverityWarning:
			s.logger.Warn(d.Message, "code", code, "at", d.location())
		default:
			s.logger.Info(d.Message, "code", code, "at", d.location())
		}
	}
	if abort {
		panic(errors.Wrap(errors.ErrCodeAborted, d.Err(), "compilation aborted after %d error(s)", errs))
	}
}

func (d Diagnostic) location() string {
	if d.Source.IsValid() {
		return d.Source.String()
	}
	return d.Node
}

// Diagnostics returns a copy of everything reported so far, in order.
func (s *Sink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Diagnostic(nil), s.diags...)
}

// Len returns the number of diagnostics of any severity.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diags)
}

// ErrorCount returns the number of error diagnostics.
func (s *Sink) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Err returns the error diagnostics as a *multierror.Error, or nil if
// there are none.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result *multierror.Error
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			result = multierror.Append(result, d.Err())
		}
	}
	return result.ErrorOrNil()
}

// Reset drops all diagnostics.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = nil
	s.errs = 0
}

var (
	mu          sync.RWMutex
	defaultSink = NewSink()
)

// Default returns the process-wide sink used by passes constructed
// without one.
func Default() *Sink {
	mu.RLock()
	defer mu.RUnlock()
	return defaultSink
}

// SetDefault replaces the process-wide sink. A nil sink restores a fresh
// empty one.
func SetDefault(s *Sink) {
	mu.Lock()
	defer mu.Unlock()
	if s == nil {
		s = NewSink()
	}
	defaultSink = s
}
