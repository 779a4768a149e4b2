package model

import (
	"time"
)

type VoteType string

const (
	VoteGuilty   VoteType = "GUILTY"
	VoteInnocent VoteType = "INNOCENT"
)

// Vote 每个 (case, user) 至多一条，创建后不可修改
type Vote struct {
	CaseID    uint64    `gorm:"primaryKey" json:"caseId"`
	UserID    uint64    `gorm:"primaryKey;index:idx_user_id" json:"userId"`
	VoteType  VoteType  `gorm:"type:varchar(10);not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Vote) TableName() string {
	return "votes"
}
