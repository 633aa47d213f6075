package clog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// ContextLogger multiplexes apex/log loggers by context name. The
// global context always exists; scrape and build runs register a
// context per run ID so one batch can be traced in its own file.
type ContextLogger struct {
	GlobalLogger   *log.Logger
	ContextLoggers sync.Map
}

const GlobalLoggerCtx = "global"

func NewContextLogger(globalLoggerWriter io.WriteCloser) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: &log.Logger{
			Handler: NewHandler(globalLoggerWriter),
			Level:   log.InfoLevel,
		},
	}
}

func (l *ContextLogger) AddLoggingContext(ctx string, w io.WriteCloser) {
	logger := &log.Logger{
		Handler: NewHandler(w),
		Level:   log.InfoLevel,
	}
	l.ContextLoggers.Store(ctx, logger)
}

// AddRunLoggingContext opens logs/run-<runID>.log under dataDir and
// registers it as the logging context for that run.
func (l *ContextLogger) AddRunLoggingContext(dataDir, runID string) error {
	logsDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating logs dir %s", logsDir)
	}

	path := filepath.Join(logsDir, fmt.Sprintf("run-%s.log", runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening run log %s", path)
	}

	l.AddLoggingContext(runID, f)
	return nil
}

func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	logger, ok := l.ContextLoggers.LoadAndDelete(ctx)
	if !ok {
		return
	}

	handler := loggerInterfaceToHandler(logger)
	handler.Close()
}

func (l *ContextLogger) SetLevel(ctx string, level log.Level) {
	switch ctx {
	case GlobalLoggerCtx:
		l.GlobalLogger.Level = level
	default:
		clogger := l.getContextLogger(ctx)
		if clogger != nil {
			clogger.Level = level
		}
	}
}

func (l *ContextLogger) SetGlobalLoggerLevel(level log.Level) {
	l.SetLevel(GlobalLoggerCtx, level)
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	l.SetLevel(ctx, level)

	return nil
}

func (l *ContextLogger) SetGlobalLoggerLevelFromString(s string) error {
	return l.SetLevelFromString(GlobalLoggerCtx, s)
}

func (l *ContextLogger) SetOutput(ctx string, w io.WriteCloser) error {
	handler := l.getContextLoggerHandler(ctx)
	if handler == nil {
		return fmt.Errorf("no such context %s", ctx)
	}

	handler.SetOutput(w)
	return nil
}

func (l *ContextLogger) SetGlobalOutput(w io.WriteCloser) error {
	return l.SetOutput(GlobalLoggerCtx, w)
}

// UsingCtx returns an entry writing to the named context, falling back
// to the global logger when the context was never registered.
func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	logger := l.getContextLogger(ctx)
	if logger == nil {
		return l.GlobalLogger.WithField("ctx", ctx)
	}
	return logger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.UsingCtx(GlobalLoggerCtx)
}

func (l *ContextLogger) getContextLogger(ctx string) *log.Logger {
	logger, ok := l.ContextLoggers.Load(ctx)
	if !ok {
		return nil
	}

	return castToLogger(logger)
}

func castToLogger(logger interface{}) *log.Logger {
	clogger, ok := logger.(*log.Logger)
	if !ok {
		return nil
	}

	return clogger
}

func loggerInterfaceToHandler(logger interface{}) *Handler {
	clogger := castToLogger(logger)
	if clogger == nil {
		return nil
	}

	h, ok := clogger.Handler.(*Handler)
	if !ok {
		return nil
	}

	return h
}

func (l *ContextLogger) getContextLoggerHandler(ctx string) *Handler {
	clogger := l.getContextLogger(ctx)
	return loggerInterfaceToHandler(clogger)
}
