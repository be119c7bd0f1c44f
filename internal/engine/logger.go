package engine

import "log"

// Logger is the debug-trace sink the orchestrator and its helpers write to
// when Options.Debug is set. Swapping this out (rather than scattering raw
// fmt.Printf calls, as the teacher does) keeps the default disabled state
// guaranteed side-effect-free (§7).
type Logger interface {
	Debugf(format string, args ...interface{})
}

// nopLogger discards every message; it's the default when Debug is false.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// stdLogger wraps the standard library logger with a "DEBUG: " prefix,
// matching the teacher's fmt.Printf("DEBUG: ...") idiom.
type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...interface{}) {
	log.Printf("DEBUG: "+format, args...)
}

func newLogger(debug bool) Logger {
	if debug {
		return stdLogger{}
	}
	return nopLogger{}
}
