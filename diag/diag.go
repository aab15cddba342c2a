// Package diag defines the diagnostics boundary of the CSS parser.
//
// The parser never aborts on malformed input. Every recoverable problem is
// reported as an Event to a Handler supplied by the caller, and the parse
// continues with the recovery policy of the construct that failed.
package diag

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/cssom/locator"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Severity classifies an Event.
type Severity int

const (
	// SeverityWarning is informational and accompanies a recovery action.
	SeverityWarning Severity = iota
	// SeverityError is recoverable; parsing continues.
	SeverityError
	// SeverityFatal means parsing must stop.
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Kind is the error taxonomy.
type Kind int

const (
	// KindSyntax: a production failed to match.
	KindSyntax Kind = iota
	// KindPosition: @charset or @import ordering was violated.
	KindPosition
	// KindSemantic: a well-formed construct carries an invalid argument.
	KindSemantic
	// KindUnterminated: end of input inside a block, string or comment.
	KindUnterminated
	// KindInfo is used for warnings that describe a recovery action.
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindPosition:
		return "position"
	case KindSemantic:
		return "semantic"
	case KindUnterminated:
		return "unterminated"
	case KindInfo:
		return "info"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one diagnostic.
type Event struct {
	Severity Severity
	Kind     Kind
	Message  string
	Locator  locator.Locator
}

// Error implements error so strict callers can return an Event directly.
func (e Event) Error() string {
	if e.Locator.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Locator)
}

// Handler receives diagnostics.
type Handler interface {
	Warning(Event)
	Error(Event)
	FatalError(Event)
}

// Report dispatches e to the Handler method matching its severity.
func Report(h Handler, e Event) {
	if h == nil {
		return
	}
	switch e.Severity {
	case SeverityWarning:
		h.Warning(e)
	case SeverityFatal:
		h.FatalError(e)
	default:
		h.Error(e)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Warning(Event)    {}
func (Discard) Error(Event)      {}
func (Discard) FatalError(Event) {}

// Collector records events in arrival order. It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) add(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *Collector) Warning(e Event) {
	e.Severity = SeverityWarning
	c.add(e)
}

func (c *Collector) Error(e Event) {
	e.Severity = SeverityError
	c.add(e)
}

func (c *Collector) FatalError(e Event) {
	e.Severity = SeverityFatal
	c.add(e)
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Collector) count(s Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Severity == s {
			n++
		}
	}
	return n
}

func (c *Collector) WarningCount() int { return c.count(SeverityWarning) }
func (c *Collector) ErrorCount() int   { return c.count(SeverityError) }
func (c *Collector) FatalCount() int   { return c.count(SeverityFatal) }

// HasErrors reports whether any error or fatal event was recorded.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0 || c.FatalCount() > 0
}

// FirstError returns the first error or fatal event, or nil.
func (c *Collector) FirstError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.Severity != SeverityWarning {
			return e
		}
	}
	return nil
}

func (c *Collector) messages(s Severity) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var parts []string
	for _, e := range c.events {
		if e.Severity == s {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, " ")
}

// Warnings concatenates warning messages separated by a space.
func (c *Collector) Warnings() string { return c.messages(SeverityWarning) }

// Errors concatenates error messages separated by a space.
func (c *Collector) Errors() string { return c.messages(SeverityError) }

// Fatals concatenates fatal messages separated by a space.
func (c *Collector) Fatals() string { return c.messages(SeverityFatal) }

// Reset forgets all recorded events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// Multi fans events out to several handlers.
type Multi []Handler

func (m Multi) Warning(e Event) {
	for _, h := range m {
		h.Warning(e)
	}
}

func (m Multi) Error(e Event) {
	for _, h := range m {
		h.Error(e)
	}
}

func (m Multi) FatalError(e Event) {
	for _, h := range m {
		h.FatalError(e)
	}
}

// LogHandler writes events to a zap logger.
type LogHandler struct {
	logger *zap.Logger
	trace  bool
}

// NewLogHandler returns a handler logging each event at the level of its
// severity. A nil logger discards.
func NewLogHandler(l *zap.Logger) *LogHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogHandler{logger: l.Named("css")}
}

// NewTraceHandler returns a handler logging every event at debug level
// with its severity as a field, for callers that report events to users
// some other way.
func NewTraceHandler(l *zap.Logger) *LogHandler {
	h := NewLogHandler(l)
	h.trace = true
	return h
}

func fields(e Event) []zap.Field {
	fs := []zap.Field{
		zap.String("kind", e.Kind.String()),
		zap.Int("line", e.Locator.Line),
		zap.Int("column", e.Locator.Column),
	}
	if e.Locator.URI != "" {
		fs = append(fs, zap.String("uri", e.Locator.URI))
	}
	return fs
}

func (h *LogHandler) write(level zapcore.Level, sev Severity, e Event, extra ...zap.Field) {
	if h.trace {
		level = zapcore.DebugLevel
		extra = append(extra, zap.String("severity", sev.String()))
	}
	if ce := h.logger.Check(level, e.Message); ce != nil {
		ce.Write(append(fields(e), extra...)...)
	}
}

func (h *LogHandler) Warning(e Event) {
	h.write(zapcore.WarnLevel, SeverityWarning, e)
}

func (h *LogHandler) Error(e Event) {
	h.write(zapcore.ErrorLevel, SeverityError, e)
}

func (h *LogHandler) FatalError(e Event) {
	h.write(zapcore.ErrorLevel, SeverityFatal, e, zap.Bool("fatal", true))
}
