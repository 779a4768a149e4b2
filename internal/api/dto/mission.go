package dto

// ClaimRewardReq 领取任务奖励
type ClaimRewardReq struct {
	MissionType string `json:"mission_type" binding:"required"`
}

// ClaimRewardDTO 领取结果
type ClaimRewardDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reward  int64  `json:"reward"`
	Points  int64  `json:"points"`
	CaseID  uint64 `json:"case_id,omitempty"` // LEVEL_3 对应的案件
}

// MissionStatusDTO 当日任务进度，跨日未活跃时计数显示为 0
type MissionStatusDTO struct {
	Today           string `json:"today"`
	Points          int64  `json:"points"`
	VoteCount       int    `json:"vote_count"`
	CommentCount    int    `json:"comment_count"`
	PostCount       int    `json:"post_count"`
	IsLevel0Claimed bool   `json:"is_level0_claimed"`
	IsLevel1Claimed bool   `json:"is_level1_claimed"`
	IsLevel2Claimed bool   `json:"is_level2_claimed"`
	HotListEligible int64  `json:"hot_list_eligible"`
}

// PointHistoryDTO 积分流水
type PointHistoryDTO struct {
	ID        uint64 `json:"id"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}
