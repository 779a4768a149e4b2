package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoticeRepo interface {
	CreateNotice(ctx context.Context, notice *NoticeModel) error
	ListNotices(ctx context.Context, userID uint64, limit, offset int64) ([]*NoticeModel, error)
	MarkAsRead(ctx context.Context, userID uint64, noticeID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

type noticeRepoImpl struct {
	col *mongo.Collection
}

func NewNoticeRepo(db *mongo.Database) NoticeRepo {
	return &noticeRepoImpl{
		col: db.Collection(noticeCollection),
	}
}

func (s *noticeRepoImpl) CreateNotice(ctx context.Context, notice *NoticeModel) error {
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now()
	}
	_, err := s.col.InsertOne(ctx, notice)
	return err
}

// ListNotices 按时间倒序分页
func (s *noticeRepoImpl) ListNotices(ctx context.Context, userID uint64, limit, offset int64) ([]*NoticeModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, bson.M{"receiver_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*NoticeModel, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *noticeRepoImpl) MarkAsRead(ctx context.Context, userID uint64, noticeID string) error {
	objectID, err := primitive.ObjectIDFromHex(noticeID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": objectID, "receiver_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *noticeRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"receiver_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (s *noticeRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"receiver_id": userID, "is_read": false})
}
