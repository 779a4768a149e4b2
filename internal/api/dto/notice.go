package dto

// NoticeDTO 站内通知
type NoticeDTO struct {
	ID        string         `json:"id"`
	Type      int8           `json:"type"` // 1-案件判决已出
	TargetID  uint64         `json:"target_id"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

// NoticeUnreadDTO 未读数返回
type NoticeUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// NoticeReadReq 标记单条已读
type NoticeReadReq struct {
	ID string `json:"id" binding:"required"`
}
