package dto

// CreateCaseReq 发起案件，VoteHours 为空时默认 24 小时
type CreateCaseReq struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content" binding:"required,max=5000"`
	VoteHours int    `json:"vote_hours" binding:"omitempty,min=1,max=168"`
}

// CaseDTO 案件详情
type CaseDTO struct {
	ID            uint64 `json:"id"`
	AuthorID      uint64 `json:"author_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	GuiltyCount   int    `json:"guilty_count"`
	InnocentCount int    `json:"innocent_count"`
	CommentCount  int    `json:"comment_count"`
	HotScore      int    `json:"hot_score"`
	VoteEndAt     string `json:"vote_end_at"`
	CreatedAt     string `json:"created_at"`
}
