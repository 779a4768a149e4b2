package model

// DailyStats 用户当日行为计数，跨日后在第一次读写时惰性清零
type DailyStats struct {
	LastActiveDate  string `gorm:"type:varchar(10);not null;default:''" json:"lastActiveDate"`
	VoteCount       int    `gorm:"not null;default:0" json:"voteCount"`
	CommentCount    int    `gorm:"not null;default:0" json:"commentCount"`
	PostCount       int    `gorm:"not null;default:0" json:"postCount"`
	IsLevel1Claimed bool   `gorm:"type:tinyint(1);not null;default:0" json:"isLevel1Claimed"`
	IsLevel2Claimed bool   `gorm:"type:tinyint(1);not null;default:0" json:"isLevel2Claimed"`
}

// Effective 返回 today 视角下的计数，日期不一致时所有计数与领取标记归零
// reset 表示是否发生了跨日清零
func (d DailyStats) Effective(today string) (stats DailyStats, reset bool) {
	if d.LastActiveDate == today {
		return d, false
	}
	return DailyStats{LastActiveDate: today}, true
}

// Columns 整体写回 daily_* 列，避免 gorm 对零值字段的忽略
func (d DailyStats) Columns() map[string]any {
	return map[string]any{
		"daily_last_active_date":  d.LastActiveDate,
		"daily_vote_count":        d.VoteCount,
		"daily_comment_count":     d.CommentCount,
		"daily_post_count":        d.PostCount,
		"daily_is_level1_claimed": d.IsLevel1Claimed,
		"daily_is_level2_claimed": d.IsLevel2Claimed,
	}
}
