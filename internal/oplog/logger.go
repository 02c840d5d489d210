// Package oplog writes the append-only operational log: one JSON object per
// line recording each workflow step with its timestamp and severity. The log
// is a side channel for audit and is never read back by relbump.
package oplog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"
)

// Logger is a zap logger bound to a log file and a run identifier.
type Logger struct {
	*zap.Logger
	RunID string
	file  *os.File
}

// New opens path for appending, creating it and its parent directory when
// missing, and returns a JSON logger at logLevel. Every entry carries the
// run_id field. Level "none" or an empty path yields a no-op logger that
// still has a run id.
func New(path, logLevel string) (*Logger, error) {
	runID := uuid.NewString()
	if logLevel == LogLevelNone || path == "" {
		return &Logger{Logger: zap.NewNop(), RunID: runID}, nil
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", logLevel, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.NewAtomicLevelAt(lvl))
	logger := zap.New(core).With(zap.String("run_id", runID))

	return &Logger{Logger: logger, RunID: runID, file: f}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), RunID: uuid.NewString()}
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
