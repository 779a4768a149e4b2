package model

import (
	"time"
)

const PointTypeEarn = "EARN"

// PointHistory 积分流水，只追加
type PointHistory struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_user_created,priority:1" json:"userId"`
	Type      string    `gorm:"type:varchar(10);not null" json:"type"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt time.Time `gorm:"index:idx_user_created,priority:2" json:"createdAt"`
}

func (PointHistory) TableName() string {
	return "point_histories"
}
