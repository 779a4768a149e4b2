package model

import (
	"time"
)

type CaseComment struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	CaseID        uint64    `gorm:"not null;index:idx_case_id" json:"caseId"`
	UserID        uint64    `gorm:"not null" json:"userId"`
	ParentID      uint64    `gorm:"not null;default:0;index:idx_parent_id" json:"parentId"` // 0表示直接评论案件
	ReplyToUserID uint64    `gorm:"not null;default:0" json:"replyToUserId"`
	Content       string    `gorm:"type:varchar(1000);not null" json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (CaseComment) TableName() string {
	return "case_comments"
}

func (c *CaseComment) IsReply() bool {
	return c.ParentID != 0
}
