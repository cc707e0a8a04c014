package server

import (
	"go.opencensus.io/trace"

	"go.viam.com/detectd/logging"
)

// spanLogger exports finished spans as debug log lines.
type spanLogger struct {
	logger logging.Logger
}

func newSpanLogger(logger logging.Logger) *spanLogger {
	return &spanLogger{logger: logger}
}

func (sl *spanLogger) ExportSpan(s *trace.SpanData) {
	fields := []interface{}{
		"trace_id", s.TraceID.String(),
		"span_id", s.SpanID.String(),
		"duration", s.EndTime.Sub(s.StartTime),
	}
	if s.ParentSpanID != (trace.SpanID{}) {
		fields = append(fields, "parent_id", s.ParentSpanID.String())
	}
	if s.Code != 0 {
		fields = append(fields, "code", s.Code, "message", s.Message)
	}
	sl.logger.Debugw(s.Name, fields...)
}
