package dto

// VoteReq 投票，一经投出不可修改
type VoteReq struct {
	VoteType string `json:"vote_type" binding:"required,oneof=GUILTY INNOCENT"`
}

// CommentCreateReq 评论或回复
type CommentCreateReq struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentCreatedDTO 新建评论的ID
type CommentCreatedDTO struct {
	CommentID uint64 `json:"comment_id"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID            uint64 `json:"id"`
	CaseID        uint64 `json:"case_id"`
	UserID        uint64 `json:"user_id"`
	ParentID      uint64 `json:"parent_id"`
	ReplyToUserID uint64 `json:"reply_to_user_id"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
}
