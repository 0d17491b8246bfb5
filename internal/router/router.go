package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"TeatimeAuthority/internal/handler"
	"TeatimeAuthority/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/signup", handler.SignUp)
		auth.POST("/signin", handler.SignIn)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetMyProfile)
		users.PATCH("/me", handler.UpdateMyProfile)
		users.GET("/search", handler.SearchUsers)
		users.GET("/:user_id", handler.GetUserProfile)
	}

	// 茶歇提交路由
	submissions := v1.Group("/submissions")
	submissions.Use(middleware.AuthMiddleware())
	{
		submissions.GET("/today", handler.GetTodaySubmission)
		submissions.POST("/today", middleware.SubmissionRateLimitMiddleware(), handler.SubmitTea)
		submissions.POST("/today/cancel", handler.CancelSubmission)
		submissions.GET("/today/progress", handler.GetVerificationProgress)
		submissions.GET("/history", handler.GetSubmissionHistory)
	}

	// 罚款与捐赠路由
	fines := v1.Group("/fines")
	fines.Use(middleware.AuthMiddleware())
	{
		fines.GET("", handler.ListFines)
		fines.GET("/:fine_id", handler.GetFine)
		fines.POST("/:fine_id/pay", handler.PayFine)
		fines.POST("/:fine_id/donations", middleware.DonationRateLimitMiddleware(), handler.SubmitDonation)
	}

	// 慈善机构列表不需要鉴权
	v1.GET("/charities", handler.ListCharities)

	// 茶照社交路由
	teas := v1.Group("/teas")
	teas.Use(middleware.AuthMiddleware())
	{
		teas.GET("/feed", handler.GetFeed)
		teas.POST("/:post_id/like", handler.LikeTeaPost)
		teas.DELETE("/:post_id/like", handler.UnlikeTeaPost)
		teas.POST("/:post_id/comments", handler.CreateComment)
		teas.GET("/:post_id/comments", handler.ListComments)
	}

	// 好友关系路由
	friends := v1.Group("/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", handler.ListFriends)
		friends.GET("/requests", handler.ListFriendRequests)
		friends.POST("/requests", handler.SendFriendRequest)
		friends.POST("/requests/:user_id/accept", handler.AcceptFriendRequest)
		friends.POST("/requests/:user_id/decline", handler.DeclineFriendRequest)
		friends.DELETE("/:user_id", handler.RemoveFriend)
	}

	// 通知路由
	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handler.ListNotifications)
		notifications.GET("/unread-count", handler.GetUnreadCount)
		notifications.POST("/read-all", handler.MarkAllNotificationsRead)
		notifications.POST("/:notification_id/read", handler.MarkNotificationRead)
	}

	// 图片上传
	images := v1.Group("/images")
	images.Use(middleware.AuthMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		images.POST("", handler.UploadImage)
	}
}
