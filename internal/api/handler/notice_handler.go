package handler

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/pkg/response"
	"Gavel/internal/service"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	noticeSvc service.NoticeService
}

func NewNoticeHandler(noticeSvc service.NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeSvc: noticeSvc,
	}
}

func (s *NoticeHandler) ListNotices(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.noticeSvc.ListNotices(c.Request.Context(), c.GetUint64("user_id"), page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *NoticeHandler) GetUnreadCount(c *gin.Context) {
	count, err := s.noticeSvc.CountUnread(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.NoticeUnreadDTO{UnreadCount: count})
}

func (s *NoticeHandler) MarkRead(c *gin.Context) {
	var req dto.NoticeReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.noticeSvc.MarkRead(c.Request.Context(), c.GetUint64("user_id"), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoticeHandler) MarkAllRead(c *gin.Context) {
	if err := s.noticeSvc.MarkAllRead(c.Request.Context(), c.GetUint64("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
