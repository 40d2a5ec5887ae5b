// Package logging holds the logger contract mqlog uses for its own
// diagnostics (configuration warnings, transport lifecycle). It is separate
// from the log records mqlog forwards.
package logging

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/hashicorp/go-hclog"
)

// LogFields represents structured logging key/value pairs.
type LogFields map[string]any

// LevelTrace is the slog level used for Trace messages.
const LevelTrace = slog.LevelDebug - 4

// ServiceLogger is the minimal logging contract required by mqlog. It maps
// onto Watermill's logging needs plus a warning level for recoverable
// configuration problems.
type ServiceLogger interface {
	With(fields LogFields) ServiceLogger
	Debug(msg string, fields LogFields)
	Info(msg string, fields LogFields)
	Warn(msg string, err error, fields LogFields)
	Error(msg string, err error, fields LogFields)
	Trace(msg string, fields LogFields)
}

// NewSlogServiceLogger wraps a slog.Logger so it satisfies the ServiceLogger
// interface.
func NewSlogServiceLogger(log *slog.Logger) ServiceLogger {
	if log == nil {
		panic("mqlog: slog logger cannot be nil")
	}
	return &slogServiceLogger{log: log}
}

// NewWatermillServiceLogger wraps an existing Watermill LoggerAdapter.
// Watermill has no warning level, so warnings are logged as errors.
func NewWatermillServiceLogger(logger watermill.LoggerAdapter) ServiceLogger {
	if logger == nil {
		panic("mqlog: watermill logger cannot be nil")
	}
	return &watermillServiceLogger{inner: logger}
}

// NewHCLogServiceLogger wraps a go-hclog logger.
func NewHCLogServiceLogger(logger hclog.Logger) ServiceLogger {
	if logger == nil {
		panic("mqlog: hclog logger cannot be nil")
	}
	return &hclogServiceLogger{log: logger}
}

// NopServiceLogger discards everything.
func NopServiceLogger() ServiceLogger {
	return NewWatermillServiceLogger(watermill.NopLogger{})
}

type slogServiceLogger struct {
	log *slog.Logger
}

func (s *slogServiceLogger) With(fields LogFields) ServiceLogger {
	if len(fields) == 0 {
		return s
	}
	return &slogServiceLogger{log: s.log.With(fieldArgs(fields, nil)...)}
}

func (s *slogServiceLogger) Debug(msg string, fields LogFields) {
	s.log.Debug(msg, fieldArgs(fields, nil)...)
}

func (s *slogServiceLogger) Info(msg string, fields LogFields) {
	s.log.Info(msg, fieldArgs(fields, nil)...)
}

func (s *slogServiceLogger) Warn(msg string, err error, fields LogFields) {
	s.log.Warn(msg, fieldArgs(fields, err)...)
}

func (s *slogServiceLogger) Error(msg string, err error, fields LogFields) {
	s.log.Error(msg, fieldArgs(fields, err)...)
}

func (s *slogServiceLogger) Trace(msg string, fields LogFields) {
	s.log.Log(context.Background(), LevelTrace, msg, fieldArgs(fields, nil)...)
}

type watermillServiceLogger struct {
	inner watermill.LoggerAdapter
}

func (w *watermillServiceLogger) With(fields LogFields) ServiceLogger {
	return &watermillServiceLogger{inner: w.inner.With(toWatermillFields(fields))}
}

func (w *watermillServiceLogger) Debug(msg string, fields LogFields) {
	w.inner.Debug(msg, toWatermillFields(fields))
}

func (w *watermillServiceLogger) Info(msg string, fields LogFields) {
	w.inner.Info(msg, toWatermillFields(fields))
}

func (w *watermillServiceLogger) Warn(msg string, err error, fields LogFields) {
	w.inner.Error(msg, err, toWatermillFields(fields))
}

func (w *watermillServiceLogger) Error(msg string, err error, fields LogFields) {
	w.inner.Error(msg, err, toWatermillFields(fields))
}

func (w *watermillServiceLogger) Trace(msg string, fields LogFields) {
	w.inner.Trace(msg, toWatermillFields(fields))
}

type hclogServiceLogger struct {
	log hclog.Logger
}

func (h *hclogServiceLogger) With(fields LogFields) ServiceLogger {
	if len(fields) == 0 {
		return h
	}
	return &hclogServiceLogger{log: h.log.With(fieldArgs(fields, nil)...)}
}

func (h *hclogServiceLogger) Debug(msg string, fields LogFields) {
	h.log.Debug(msg, fieldArgs(fields, nil)...)
}

func (h *hclogServiceLogger) Info(msg string, fields LogFields) {
	h.log.Info(msg, fieldArgs(fields, nil)...)
}

func (h *hclogServiceLogger) Warn(msg string, err error, fields LogFields) {
	h.log.Warn(msg, fieldArgs(fields, err)...)
}

func (h *hclogServiceLogger) Error(msg string, err error, fields LogFields) {
	h.log.Error(msg, fieldArgs(fields, err)...)
}

func (h *hclogServiceLogger) Trace(msg string, fields LogFields) {
	h.log.Trace(msg, fieldArgs(fields, nil)...)
}

type serviceLoggerAdapter struct {
	base ServiceLogger
}

// NewWatermillAdapter converts a ServiceLogger into a Watermill LoggerAdapter
// so transports log through the same logger.
func NewWatermillAdapter(log ServiceLogger) watermill.LoggerAdapter {
	if log == nil {
		panic("mqlog: ServiceLogger cannot be nil")
	}
	return &serviceLoggerAdapter{base: log}
}

func (s *serviceLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	s.base.Error(msg, err, fromWatermillFields(fields))
}

func (s *serviceLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	s.base.Info(msg, fromWatermillFields(fields))
}

func (s *serviceLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	s.base.Debug(msg, fromWatermillFields(fields))
}

func (s *serviceLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	s.base.Trace(msg, fromWatermillFields(fields))
}

func (s *serviceLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &serviceLoggerAdapter{base: s.base.With(fromWatermillFields(fields))}
}

// fieldArgs flattens fields into alternating key/value arguments in key
// order, followed by the error under "error" when present.
func fieldArgs(fields LogFields, err error) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	args := make([]any, 0, 2*len(keys)+2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	if err != nil {
		args = append(args, "error", err)
	}
	return args
}

func toWatermillFields(fields LogFields) watermill.LogFields {
	if len(fields) == 0 {
		return nil
	}
	return watermill.LogFields(fields)
}

func fromWatermillFields(fields watermill.LogFields) LogFields {
	if len(fields) == 0 {
		return nil
	}
	return LogFields(fields)
}
