package handler

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/pkg/response"
	"Gavel/internal/service"

	"github.com/gin-gonic/gin"
)

type MissionHandler struct {
	missionSvc service.MissionService
}

func NewMissionHandler(missionSvc service.MissionService) *MissionHandler {
	return &MissionHandler{
		missionSvc: missionSvc,
	}
}

// ClaimReward 领取任务奖励
func (s *MissionHandler) ClaimReward(c *gin.Context) {
	var req dto.ClaimRewardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.missionSvc.ClaimReward(c.Request.Context(), c.GetUint64("user_id"), req.MissionType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMissionStatus 当日任务进度
func (s *MissionHandler) GetMissionStatus(c *gin.Context) {
	res, err := s.missionSvc.GetMissionStatus(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListPointHistory 积分流水
func (s *MissionHandler) ListPointHistory(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.missionSvc.ListPointHistory(c.Request.Context(), c.GetUint64("user_id"), page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
