package service

import (
	"Gavel/internal/model"
	"Gavel/internal/repository"
	"context"
	log "log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultCloseBatchSize  = 500
	defaultPushConcurrency = 8
)

// CloseResult 单次关闭任务的统计
type CloseResult struct {
	Matched      int
	Closed       int
	FailedBatch  int
	Notified     int
	NotifyFailed int
}

type CaseLifecycleService interface {
	// CloseExpired 关闭已到期的 OPEN 案件，按批次原子提交，提交后逐个通知作者
	CloseExpired(ctx context.Context) (*CloseResult, error)
}

type caseLifecycleServiceImpl struct {
	txRunner        repository.TxRunner
	caseRepo        repository.CaseRepo
	notifier        VerdictNotifier
	clock           Clock
	batchSize       int
	pushConcurrency int
}

func NewCaseLifecycleService(
	txRunner repository.TxRunner,
	caseRepo repository.CaseRepo,
	notifier VerdictNotifier,
	clock Clock,
	batchSize int,
	pushConcurrency int,
) CaseLifecycleService {
	if batchSize <= 0 {
		batchSize = defaultCloseBatchSize
	}
	if pushConcurrency <= 0 {
		pushConcurrency = defaultPushConcurrency
	}
	return &caseLifecycleServiceImpl{
		txRunner:        txRunner,
		caseRepo:        caseRepo,
		notifier:        notifier,
		clock:           clock,
		batchSize:       batchSize,
		pushConcurrency: pushConcurrency,
	}
}

func (s *caseLifecycleServiceImpl) CloseExpired(ctx context.Context) (*CloseResult, error) {
	expired, err := s.caseRepo.FindExpiredOpenCases(ctx, s.clock.Now())
	if err != nil {
		log.ErrorContext(ctx, "query expired cases failed", "err", err)
		return nil, err
	}

	res := &CloseResult{Matched: len(expired)}
	if len(expired) == 0 {
		return res, nil
	}

	for start := 0; start < len(expired); start += s.batchSize {
		end := min(start+s.batchSize, len(expired))
		closed, err := s.closeBatch(ctx, expired[start:end])
		if err != nil {
			res.FailedBatch++
			log.ErrorContext(ctx, "close case batch failed", "from_id", expired[start].ID, "size", end-start, "err", err)
			continue
		}
		res.Closed += len(closed)

		// 状态已提交，通知失败不回滚，进程在此处中断则本批通知丢失
		notified, failed := s.notifyAuthors(ctx, closed)
		res.Notified += notified
		res.NotifyFailed += failed
	}

	log.InfoContext(ctx, "expired cases closed",
		"matched", res.Matched,
		"closed", res.Closed,
		"failed_batch", res.FailedBatch,
		"notified", res.Notified,
		"notify_failed", res.NotifyFailed,
	)
	return res, nil
}

// closeBatch 一个批次内全部关闭或全部不变，已被其它任务关闭的案件会被跳过
func (s *caseLifecycleServiceImpl) closeBatch(ctx context.Context, batch []*model.Case) ([]*model.Case, error) {
	ids := make([]uint64, 0, len(batch))
	for _, c := range batch {
		ids = append(ids, c.ID)
	}

	var openIDs []uint64
	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		caseRepo := s.caseRepo.WithTx(tx)
		var err error
		openIDs, err = caseRepo.FilterOpenIDs(ctx, ids)
		if err != nil {
			return err
		}
		n, err := caseRepo.CloseOpenCases(ctx, openIDs)
		if err != nil {
			return err
		}
		if n != int64(len(openIDs)) {
			return repository.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	open := make(map[uint64]struct{}, len(openIDs))
	for _, id := range openIDs {
		open[id] = struct{}{}
	}
	closed := make([]*model.Case, 0, len(openIDs))
	for _, c := range batch {
		if _, ok := open[c.ID]; ok {
			c.Status = model.CaseStatusClosed
			closed = append(closed, c)
		}
	}
	return closed, nil
}

// notifyAuthors 每个作者一次独立尝试，错误只记录
func (s *caseLifecycleServiceImpl) notifyAuthors(ctx context.Context, closed []*model.Case) (int, int) {
	if s.notifier == nil {
		return 0, 0
	}

	var notified, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.pushConcurrency)

	for _, c := range closed {
		if c.AuthorID == 0 {
			continue
		}
		g.Go(func() error {
			if err := s.notifier.NotifyCaseClosed(ctx, c); err != nil {
				failed.Add(1)
				log.WarnContext(ctx, "verdict notification failed", "case_id", c.ID, "author_id", c.AuthorID, "err", err)
				return nil
			}
			notified.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(notified.Load()), int(failed.Load())
}
