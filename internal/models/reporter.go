package models

import "go.uber.org/zap"

// LogReporter reports load failures to a zap logger.
type LogReporter struct {
	log *zap.Logger
}

// NewLogReporter creates a reporter writing to log.
func NewLogReporter(log *zap.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// Report logs the failure at error level.
func (r *LogReporter) Report(id string, err error) {
	r.log.Error("model loading error", zap.String("id", id), zap.Error(err))
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(id string, err error)

// Report calls f(id, err).
func (f ReporterFunc) Report(id string, err error) {
	f(id, err)
}
