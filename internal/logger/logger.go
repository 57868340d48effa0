package logger

import (
	"io"
	"log"
	"os"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Logger wraps the standard log.Logger with verbose-only output
type Logger struct {
	*log.Logger
	verbose bool
}

// New creates a new logger writing to stdout
func New() *Logger {
	return NewWriter(os.Stdout)
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// SetVerbose enables Debugf output
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Verbose reports whether Debugf output is enabled
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Debugf logs only in verbose mode
func (l *Logger) Debugf(format string, v ...any) {
	if !l.verbose {
		return
	}
	l.Printf(format, v...)
}
