// Package notify provides user-visible diagnostics for the chest rule engine.
//
// Notices are fire-and-forget: the engine never consumes a return value, so
// a Notifier can be a UI toast, a log line, or nothing at all.
package notify

import (
	"go.uber.org/zap"
)

// Notifier receives user-facing diagnostics.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Severity classifies a notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is one recorded diagnostic.
type Notice struct {
	Severity Severity
	Message  string
}

// Nop discards every notice. Used in non-interactive contexts.
type Nop struct{}

func (Nop) Info(string)    {}
func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Recorder keeps notices in order. Not safe for concurrent use; the engine
// runs single-threaded per store.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Info(msg string)    { r.add(SeverityInfo, msg) }
func (r *Recorder) Success(msg string) { r.add(SeveritySuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(SeverityError, msg) }

func (r *Recorder) add(sev Severity, msg string) {
	r.Notices = append(r.Notices, Notice{Severity: sev, Message: msg})
}

// Count returns how many notices of the given severity were recorded.
func (r *Recorder) Count(sev Severity) int {
	n := 0
	for _, notice := range r.Notices {
		if notice.Severity == sev {
			n++
		}
	}
	return n
}

// Reset drops recorded notices.
func (r *Recorder) Reset() {
	r.Notices = nil
}

// Logger forwards notices to a zap logger. Errors are user-input problems,
// not system failures, so they log at warn level.
type Logger struct {
	log *zap.Logger
}

// NewLogger wraps logger. A nil logger behaves like Nop.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{log: logger.Named("notice")}
}

func (l *Logger) Info(msg string) {
	l.log.Info(msg, zap.String("severity", string(SeverityInfo)))
}

func (l *Logger) Success(msg string) {
	l.log.Info(msg, zap.String("severity", string(SeveritySuccess)))
}

func (l *Logger) Error(msg string) {
	l.log.Warn(msg, zap.String("severity", string(SeverityError)))
}
