package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
}

type logfmtLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	fields []Field
}

func New(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &logfmtLogger{mu: &sync.Mutex{}, out: out, level: level}
}

// NewFile appends to the log file at path, creating parent directories as
// needed. The returned closer flushes nothing; callers close it on shutdown.
func NewFile(path string, level Level) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(file, level), file, nil
}

func Nop() Logger {
	return &logfmtLogger{mu: &sync.Mutex{}, out: io.Discard, level: Error + 1}
}

func (l *logfmtLogger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

func (l *logfmtLogger) With(fields ...Field) Logger {
	if l == nil {
		return Nop()
	}
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &logfmtLogger{mu: l.mu, out: l.out, level: l.level, fields: combined}
}

func (l *logfmtLogger) Debug(msg string, fields ...Field) { l.emit(Debug, msg, fields) }
func (l *logfmtLogger) Info(msg string, fields ...Field)  { l.emit(Info, msg, fields) }
func (l *logfmtLogger) Warn(msg string, fields ...Field)  { l.emit(Warn, msg, fields) }
func (l *logfmtLogger) Error(msg string, fields ...Field) { l.emit(Error, msg, fields) }

func (l *logfmtLogger) emit(level Level, msg string, fields []Field) {
	if !l.Enabled(level) {
		return
	}
	var line strings.Builder
	writePair(&line, "ts", time.Now().UTC().Format(time.RFC3339Nano))
	line.WriteByte(' ')
	writePair(&line, "level", level.String())
	line.WriteByte(' ')
	writePair(&line, "msg", msg)
	for _, field := range l.fields {
		line.WriteByte(' ')
		writePair(&line, field.Key, field.Value)
	}
	for _, field := range fields {
		line.WriteByte(' ')
		writePair(&line, field.Key, field.Value)
	}
	line.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line.String())
}

func writePair(line *strings.Builder, key string, value any) {
	line.WriteString(key)
	line.WriteByte('=')
	line.WriteString(formatValue(value))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(v)
	case error:
		return quoteIfNeeded(v.Error())
	case time.Duration:
		return quoteIfNeeded(v.String())
	case fmt.Stringer:
		return quoteIfNeeded(v.String())
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return quoteIfNeeded(fmt.Sprintf("%v", v))
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, " \t\n\r\"=") {
		return strconv.Quote(value)
	}
	return value
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}
