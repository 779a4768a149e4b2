package model

import (
	"time"
)

type User struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	Nickname        string     `gorm:"type:varchar(50);not null;default:''" json:"nickname"`
	Points          int64      `gorm:"not null;default:0" json:"points"`
	IsLevel0Claimed bool       `gorm:"type:tinyint(1);not null;default:0" json:"isLevel0Claimed"`
	DailyStats      DailyStats `gorm:"embedded;embeddedPrefix:daily_" json:"dailyStats"`
	Version         int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
