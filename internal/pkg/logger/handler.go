package logger

import (
	"context"
	log "log/slog"
)

// logstashHandler 本地全部输出，只有带 trace_id 的记录（请求、定时任务、消费者）才上报 Logstash
type logstashHandler struct {
	local  log.Handler
	remote log.Handler
}

func newLogstashHandler(local, remote log.Handler) log.Handler {
	return &logstashHandler{local: local, remote: remote}
}

func (s *logstashHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.local.Enabled(ctx, level)
}

func (s *logstashHandler) Handle(ctx context.Context, r log.Record) error {
	if err := s.local.Handle(ctx, r); err != nil {
		return err
	}
	if !hasTraceID(r) {
		return nil
	}
	// Logstash 断开不影响本地日志
	_ = s.remote.Handle(ctx, r)
	return nil
}

func (s *logstashHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &logstashHandler{local: s.local.WithAttrs(attrs), remote: s.remote.WithAttrs(attrs)}
}

func (s *logstashHandler) WithGroup(name string) log.Handler {
	return &logstashHandler{local: s.local.WithGroup(name), remote: s.remote.WithGroup(name)}
}

func hasTraceID(r log.Record) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			found = true
			return false
		}
		return true
	})
	return found
}
