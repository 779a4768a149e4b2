package handler

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/pkg/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径中的正整数ID
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func bindPage(c *gin.Context) (*dto.PageReq, error) {
	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, err
	}
	if err := util.ValidateDTO(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
