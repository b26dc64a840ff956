package logger

import (
	"io"
	"log"
	"os"
)

// Logger is a levelled wrapper around the standard log.Logger.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

// New creates a logger writing to stdout with the component in brackets,
// e.g. "[posting] INFO: ...".
func New(component string) *Logger {
	return NewWithWriter(os.Stdout, component)
}

func NewWithWriter(w io.Writer, component string) *Logger {
	prefix := "[" + component + "] "
	flags := log.LstdFlags | log.Lmsgprefix
	return &Logger{
		info:  log.New(w, prefix+"INFO: ", flags),
		warn:  log.New(w, prefix+"WARN: ", flags),
		error: log.New(w, prefix+"ERROR: ", flags),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "")
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.info.Printf(format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.warn.Printf(format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.error.Printf(format, v...)
}
