package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const noticeCollection = "sys_box"

// 通知类型
const (
	NoticeTypeCaseClosed int8 = 1 // 案件投票结束，判决已出
)

// NoticeModel 站内通知，案件关闭时写给作者
type NoticeModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	Type       int8               `bson:"type" json:"type"`
	TargetID   uint64             `bson:"target_id" json:"targetId"` // 案件ID
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
