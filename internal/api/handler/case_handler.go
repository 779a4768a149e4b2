package handler

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/pkg/response"
	"Gavel/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	caseSvc   service.CaseService
	actionSvc service.CaseActionService
}

func NewCaseHandler(caseSvc service.CaseService, actionSvc service.CaseActionService) *CaseHandler {
	return &CaseHandler{
		caseSvc:   caseSvc,
		actionSvc: actionSvc,
	}
}

// CreateCase 发起案件
func (s *CaseHandler) CreateCase(c *gin.Context) {
	var req dto.CreateCaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.caseSvc.CreateCase(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CaseHandler) GetCase(c *gin.Context) {
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.caseSvc.GetCase(c.Request.Context(), caseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListHotCases 热门案件榜
func (s *CaseHandler) ListHotCases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := s.caseSvc.ListHotCases(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListComments 案件评论列表，按时间正序
func (s *CaseHandler) ListComments(c *gin.Context) {
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.actionSvc.ListComments(c.Request.Context(), caseID, page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
