package model

import (
	"time"
)

type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "OPEN"
	CaseStatusClosed CaseStatus = "CLOSED"
)

// Case 用户发起的争议帖
type Case struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	AuthorID      uint64     `gorm:"not null;index:idx_author_id" json:"authorId"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Status        CaseStatus `gorm:"type:varchar(10);not null;default:'OPEN';index:idx_status_vote_end,priority:1" json:"status"`
	GuiltyCount   int        `gorm:"not null;default:0" json:"guiltyCount"`
	InnocentCount int        `gorm:"not null;default:0" json:"innocentCount"`
	CommentCount  int        `gorm:"not null;default:0" json:"commentCount"`
	HotScore      int        `gorm:"not null;default:0;index:idx_hot_score" json:"hotScore"`
	IsHotListed   bool       `gorm:"type:tinyint(1);not null;default:0" json:"isHotListed"`
	VoteEndAt     time.Time  `gorm:"not null;index:idx_status_vote_end,priority:2" json:"voteEndAt"`
	Version       int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Case) TableName() string {
	return "cases"
}
