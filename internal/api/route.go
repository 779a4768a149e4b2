package api

import (
	"Gavel/internal/api/middleware"
	"Gavel/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由层依赖
type RouterOptions struct {
	AllowedOrigins []string
	Blacklist      middleware.RevokedChecker
}

func SetupRouter(group *HandlersGroup, opts *RouterOptions) *gin.Engine {
	if opts == nil {
		opts = &RouterOptions{}
	}
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.AuditMiddleware())
	logger.SetupGin(r)

	auth := middleware.AuthMiddleware(opts.Blacklist)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		authGroup.Use(auth)
		{
			authGroup.POST("/logout", group.AuthHandler.Logout)
		}

		missionGroup := apiGroup.Group("/missions")
		missionGroup.Use(auth)
		{
			missionGroup.POST("/claim", group.MissionHandler.ClaimReward)
			missionGroup.GET("/status", group.MissionHandler.GetMissionStatus)
			missionGroup.GET("/points", group.MissionHandler.ListPointHistory)
		}

		caseGroup := apiGroup.Group("/cases")
		{
			// 无需登录即可访问的接口
			caseGroup.GET("/hot", group.CaseHandler.ListHotCases)
			caseGroup.GET("/:case_id", group.CaseHandler.GetCase)
			caseGroup.GET("/:case_id/comments", group.CaseHandler.ListComments)

			authCaseGroup := caseGroup.Group("")
			authCaseGroup.Use(auth)
			{
				authCaseGroup.POST("", group.CaseHandler.CreateCase)
				authCaseGroup.POST("/:case_id/vote", group.CaseActionHandler.Vote)
				authCaseGroup.POST("/:case_id/comments", group.CaseActionHandler.CreateComment)
				authCaseGroup.POST("/:case_id/comments/:comment_id/replies", group.CaseActionHandler.CreateReply)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(auth)
		{
			commentGroup.DELETE("/:comment_id", group.CaseActionHandler.DeleteComment)
		}

		noticeGroup := apiGroup.Group("/notices")
		noticeGroup.Use(auth)
		{
			noticeGroup.GET("", group.NoticeHandler.ListNotices)
			noticeGroup.GET("/unread", group.NoticeHandler.GetUnreadCount)
			noticeGroup.PUT("/read", group.NoticeHandler.MarkRead)
			noticeGroup.PUT("/read-all", group.NoticeHandler.MarkAllRead)
		}
	}

	return r
}
