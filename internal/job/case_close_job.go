package job

import (
	"Gavel/internal/pkg/logger"
	"Gavel/internal/service"
	"context"
	log "log/slog"
	"time"
)

// CaseCloseJob 定时关闭投票截止的案件并通知作者
type CaseCloseJob struct {
	lifecycleSvc service.CaseLifecycleService
	timeout      time.Duration
}

func NewCaseCloseJob(lifecycleSvc service.CaseLifecycleService, timeout time.Duration) *CaseCloseJob {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &CaseCloseJob{
		lifecycleSvc: lifecycleSvc,
		timeout:      timeout,
	}
}

func (s *CaseCloseJob) Run() {
	ctx, cancel := context.WithTimeout(logger.NewTraceContext(context.Background(), "job-case-close"), s.timeout)
	defer cancel()
	s.RunContext(ctx)
}

// RunContext 执行一次关闭任务
func (s *CaseCloseJob) RunContext(ctx context.Context) {
	start := time.Now()
	res, err := s.lifecycleSvc.CloseExpired(ctx)
	if err != nil {
		log.ErrorContext(ctx, "case close job failed", "err", err)
		return
	}
	if res.Matched == 0 {
		return
	}
	log.InfoContext(ctx, "case close job finished",
		"matched", res.Matched,
		"closed", res.Closed,
		"failed_batch", res.FailedBatch,
		"notified", res.Notified,
		"notify_failed", res.NotifyFailed,
		"cost", time.Since(start).String(),
	)
}
