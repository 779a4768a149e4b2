package trigger

import (
	"Gavel/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
)

// HandleFunc 针对单个案件的处理逻辑，需幂等
type HandleFunc func(ctx context.Context, caseID uint64) error

// Pool 进程内的异步变更触发器，同一案件排队期间的重复触发会合并
type Pool struct {
	handle  HandleFunc
	workers int
	queue   chan uint64

	mu      sync.Mutex
	pending map[uint64]struct{}
	stopped bool
}

func NewPool(workers, buffer int, handle HandleFunc) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &Pool{
		handle:  handle,
		workers: workers,
		queue:   make(chan uint64, buffer),
		pending: make(map[uint64]struct{}),
	}
}

// CaseChanged 非阻塞入队，队列满或 Start 已退出时在调用方协程内直接处理
func (p *Pool) CaseChanged(ctx context.Context, caseID uint64) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.run(context.WithoutCancel(ctx), caseID)
		return
	}
	if _, ok := p.pending[caseID]; ok {
		p.mu.Unlock()
		return
	}
	select {
	case p.queue <- caseID:
		p.pending[caseID] = struct{}{}
		p.mu.Unlock()
		return
	default:
	}
	p.mu.Unlock()

	log.WarnContext(ctx, "trigger queue full, handling inline", "case_id", caseID)
	p.run(context.WithoutCancel(ctx), caseID)
}

// Start 启动 worker，ctx 取消后处理完队列中剩余的任务再返回，之后的触发全部同步执行
func (p *Pool) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case caseID := <-p.queue:
					p.done(caseID)
					p.run(logger.NewTraceContext(context.Background(), "trigger"), caseID)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	log.Info("local change trigger started", "workers", p.workers)
	wg.Wait()

	// 置位与入队都在锁内，置位之后队列不会再增长
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.drain()

	log.Info("local change trigger stopped")
	return nil
}

func (p *Pool) drain() {
	for {
		select {
		case caseID := <-p.queue:
			p.done(caseID)
			p.run(logger.NewTraceContext(context.Background(), "trigger"), caseID)
		default:
			return
		}
	}
}

// done 出队即移除标记，处理期间的新变更会再次入队
func (p *Pool) done(caseID uint64) {
	p.mu.Lock()
	delete(p.pending, caseID)
	p.mu.Unlock()
}

func (p *Pool) run(ctx context.Context, caseID uint64) {
	if err := p.handle(ctx, caseID); err != nil {
		log.ErrorContext(ctx, "change trigger handle failed", "case_id", caseID, "err", err)
	}
}
