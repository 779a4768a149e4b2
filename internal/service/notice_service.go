package service

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/model"
	"Gavel/internal/pkg/mongo"
	"Gavel/internal/pkg/push"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	mongov1 "go.mongodb.org/mongo-driver/mongo"
)

// VerdictNotifier 案件关闭后通知作者
type VerdictNotifier interface {
	NotifyCaseClosed(ctx context.Context, c *model.Case) error
}

type NoticeService interface {
	VerdictNotifier
	ListNotices(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NoticeDTO, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, noticeID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type noticeServiceImpl struct {
	noticeRepo mongo.NoticeRepo
	sender     push.Sender
	linkBase   string
}

func NewNoticeService(noticeRepo mongo.NoticeRepo, sender push.Sender, linkBase string) NoticeService {
	return &noticeServiceImpl{
		noticeRepo: noticeRepo,
		sender:     sender,
		linkBase:   linkBase,
	}
}

// NotifyCaseClosed 先写站内信再推送，站内信失败不影响推送，返回值只反映推送结果
func (s *noticeServiceImpl) NotifyCaseClosed(ctx context.Context, c *model.Case) error {
	link := push.CaseLink(s.linkBase, c.ID)
	title := fmt.Sprintf("「%s」投票已结束，快来看看判决", c.Title)

	if s.noticeRepo != nil {
		err := s.noticeRepo.CreateNotice(ctx, &mongo.NoticeModel{
			ReceiverID: c.AuthorID,
			Type:       mongo.NoticeTypeCaseClosed,
			TargetID:   c.ID,
			Content:    title,
			Payload:    map[string]any{"url": link},
		})
		if err != nil {
			log.WarnContext(ctx, "verdict notice insert failed", "case_id", c.ID, "err", err)
		}
	}

	if s.sender == nil {
		return nil
	}
	return s.sender.SendPush(ctx, strconv.FormatUint(c.AuthorID, 10), push.Message{
		Title:  title,
		CaseID: c.ID,
		URL:    link,
	})
}

func (s *noticeServiceImpl) ListNotices(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NoticeDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	list, err := s.noticeRepo.ListNotices(ctx, userID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoticeDTO, 0, len(list))
	for _, m := range list {
		d := &dto.NoticeDTO{}
		if err = copier.Copy(d, m); err != nil {
			return nil, err
		}
		d.ID = m.ID.Hex()
		d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
		res = append(res, d)
	}
	return res, nil
}

func (s *noticeServiceImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	return s.noticeRepo.CountUnread(ctx, userID)
}

func (s *noticeServiceImpl) MarkRead(ctx context.Context, userID uint64, noticeID string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	err := s.noticeRepo.MarkAsRead(ctx, userID, noticeID)
	if errors.Is(err, mongov1.ErrNoDocuments) {
		return ErrNoticeNotFound
	}
	return err
}

func (s *noticeServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	return s.noticeRepo.MarkAllAsRead(ctx, userID)
}
