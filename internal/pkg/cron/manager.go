package cron

import (
	"Gavel/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	closeSpec    string
	caseCloseJob *job.CaseCloseJob
}

func NewCronManager(closeSpec string, caseCloseJob *job.CaseCloseJob) *Manager {
	return &Manager{
		// 上一轮未结束时跳过本轮，避免同一批案件被并发关闭
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(slogCronLogger{}), cron.SkipIfStillRunning(slogCronLogger{})),
		),
		closeSpec:    closeSpec,
		caseCloseJob: caseCloseJob,
	}
}

// Start 注册案件关闭任务并启动调度，表达式非法时返回错误
func (s *Manager) Start() error {
	if _, err := s.engine.AddJob(s.closeSpec, s.caseCloseJob); err != nil {
		return err
	}
	log.Info("Cron 定时任务引擎启动", "close_spec", s.closeSpec)
	s.engine.Start()
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
