// Package jsonlog writes structured, leveled log entries as one JSON object per line.
// Entries below the logger's minimum severity are discarded.
package jsonlog

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelFatal
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	case "OFF":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("jsonlog: unknown level %q", s)
}

// Logger writes entries at or above minLevel to out. Loggers derived with With
// share the parent's writer and mutex.
type Logger struct {
	out      io.Writer
	minLevel Level
	mu       *sync.Mutex
	fields   map[string]string
}

// New returns a logger which writes entries at or above minLevel to out.
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{
		out:      out,
		minLevel: minLevel,
		mu:       &sync.Mutex{},
	}
}

// With returns a logger that adds properties to every entry it writes.
func (l *Logger) With(properties map[string]string) *Logger {
	fields := make(map[string]string, len(l.fields)+len(properties))
	maps.Copy(fields, l.fields)
	maps.Copy(fields, properties)
	return &Logger{
		out:      l.out,
		minLevel: l.minLevel,
		mu:       l.mu,
		fields:   fields,
	}
}

func (l *Logger) print(level Level, message string, properties map[string]string) (int, error) {
	if level < l.minLevel {
		return 0, nil
	}
	if len(l.fields) > 0 {
		merged := maps.Clone(l.fields)
		maps.Copy(merged, properties)
		properties = merged
	}
	aux := struct {
		Level      string            `json:"level"`
		Time       string            `json:"time"`
		Message    string            `json:"message"`
		Properties map[string]string `json:"properties,omitempty"`
		Trace      string            `json:"trace,omitempty"`
	}{
		Level:      level.String(),
		Time:       time.Now().UTC().Format(time.RFC3339),
		Message:    message,
		Properties: properties,
	}
	if level >= LevelError {
		aux.Trace = string(debug.Stack())
	}
	line, err := json.Marshal(aux)
	if err != nil {
		line = []byte(LevelError.String() + ": unable to marshal log message: " + err.Error())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(append(line, '\n'))
}

// Write lets the logger serve as the http.Server error log. Each call is
// written as an ERROR entry.
func (l *Logger) Write(message []byte) (n int, err error) {
	return l.print(LevelError, strings.TrimSpace(string(message)), nil)
}

// PrintDebug writes an entry at the DEBUG level.
func (l *Logger) PrintDebug(message string, properties map[string]string) {
	l.print(LevelDebug, message, properties)
}

// PrintInfo writes an entry at the INFO level.
func (l *Logger) PrintInfo(message string, properties map[string]string) {
	l.print(LevelInfo, message, properties)
}

// PrintError writes an entry at the ERROR level.
func (l *Logger) PrintError(err error, properties map[string]string) {
	l.print(LevelError, err.Error(), properties)
}

// PrintFatal writes an entry at the FATAL level. The caller decides whether to exit.
func (l *Logger) PrintFatal(err error, properties map[string]string) {
	l.print(LevelFatal, err.Error(), properties)
}
