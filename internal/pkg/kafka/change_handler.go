package kafka

import (
	"Gavel/internal/pkg/consts"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// Recomputer 热度全量重算
type Recomputer interface {
	Recompute(ctx context.Context, caseID uint64) (int, error)
}

// ChangeHandler 消费 votes / case_comments 表的 binlog，行新增或删除时重算所属案件热度
type ChangeHandler struct {
	table      string
	recomputer Recomputer
}

func NewVoteChangeHandler(r Recomputer) *ChangeHandler {
	return &ChangeHandler{table: "votes", recomputer: r}
}

func NewCommentChangeHandler(r Recomputer) *ChangeHandler {
	return &ChangeHandler{table: "case_comments", recomputer: r}
}

func (s *ChangeHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("change consumer setup", "table", s.table)
	return nil
}

func (s *ChangeHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("change consumer cleanup", "table", s.table)
	return nil
}

func (s *ChangeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("change consumer consume claim", "table", s.table, "topic", claim.Topic(), "partition", claim.Partition())
	return pullMessageBatch(session, claim, s.logic)
}

func (s *ChangeHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, s.table)
	if err != nil {
		// 无法处理的消息直接跳过，避免阻塞分区
		if errors.Is(err, ErrTableMismatch) || errors.Is(err, ErrEmptyData) {
			return nil
		}
		log.WarnContext(ctx, "skip malformed canal message", "table", s.table, "err", err)
		return nil
	}

	if canalMsg.IsDDL || (canalMsg.Type != consts.INSERT && canalMsg.Type != consts.DELETE) {
		return nil
	}

	for _, caseID := range canalMsg.CaseIDs() {
		if _, err = s.recomputer.Recompute(ctx, caseID); err != nil {
			return err
		}
	}
	return nil
}
