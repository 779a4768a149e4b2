package repository

import (
	"context"
	log "log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrVersionConflict 乐观锁版本不匹配，事务整体重试
	ErrVersionConflict = errors.New("optimistic version conflict")
	// ErrTxContention 重试次数耗尽仍然冲突
	ErrTxContention = errors.New("transaction contention exhausted retries")
)

const (
	defaultTxAttempts = 5
	txRetryBackoff    = 20 * time.Millisecond
)

// TxRunner 在事务内执行读-改-写，遇到版本冲突时整体重放
type TxRunner interface {
	Run(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type TxRunnerImpl struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

func NewTxRunner(db *gorm.DB, maxAttempts int) TxRunner {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxAttempts
	}
	return &TxRunnerImpl{db: db, maxAttempts: maxAttempts, backoff: txRetryBackoff}
}

func (s *TxRunnerImpl) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	for attempt := 1; ; attempt++ {
		err := s.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
		if attempt >= s.maxAttempts {
			log.WarnContext(ctx, "transaction retries exhausted", "attempts", attempt)
			return errors.Wrapf(ErrTxContention, "gave up after %d attempts", attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
}

// updateWithVersion 仅当版本号未变时写入，并递增版本号
func updateWithVersion(tx *gorm.DB, table string, id uint64, version int64, cols map[string]any) error {
	cols["version"] = version + 1
	cols["updated_at"] = time.Now()
	result := tx.Table(table).
		Where("id = ? AND version = ?", id, version).
		Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
