package api

import "Gavel/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler       *handler.AuthHandler
	MissionHandler    *handler.MissionHandler
	CaseHandler       *handler.CaseHandler
	CaseActionHandler *handler.CaseActionHandler
	NoticeHandler     *handler.NoticeHandler
}
