package handler

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/pkg/response"
	"Gavel/internal/service"

	"github.com/gin-gonic/gin"
)

type CaseActionHandler struct {
	actionSvc service.CaseActionService
}

func NewCaseActionHandler(actionSvc service.CaseActionService) *CaseActionHandler {
	return &CaseActionHandler{
		actionSvc: actionSvc,
	}
}

// Vote 对案件投票，每人每案一次
func (s *CaseActionHandler) Vote(c *gin.Context) {
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrVoteTypeInvalid)
		return
	}

	if err := s.actionSvc.AddVote(c.Request.Context(), caseID, c.GetUint64("user_id"), req.VoteType); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CaseActionHandler) CreateComment(c *gin.Context) {
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	id, err := s.actionSvc.AddComment(c.Request.Context(), caseID, c.GetUint64("user_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CommentCreatedDTO{CommentID: id})
}

// CreateReply 回复评论
func (s *CaseActionHandler) CreateReply(c *gin.Context) {
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	parentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	id, err := s.actionSvc.AddReply(c.Request.Context(), caseID, parentID, c.GetUint64("user_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CommentCreatedDTO{CommentID: id})
}

func (s *CaseActionHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.actionSvc.DeleteComment(c.Request.Context(), c.GetUint64("user_id"), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
