package main

import (
	"github.com/gin-gonic/gin"
	"vnbank.backend/internal/interfaces/http/handlers"
	"vnbank.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	accountHandler      *handlers.AccountHandler
	transferHandler     *handlers.TransferHandler
	reminderHandler     *handlers.ReminderHandler
	notificationHandler *handlers.NotificationHandler
	userHandler         *handlers.UserHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Account routes (protected)
		accounts := v1.Group("/accounts")
		accounts.Use(d.authMiddleware)
		{
			accounts.GET("", d.accountHandler.ListMine)
			accounts.GET("/:id", d.accountHandler.Get)
			accounts.GET("/:id/history", d.accountHandler.History)
			accounts.POST("/:id/deposit", d.accountHandler.Deposit)
			accounts.POST("/:id/withdraw", d.accountHandler.Withdraw)
			accounts.PUT("/:id/status", middleware.RequireStaff(), d.accountHandler.SetStatus)
		}

		// Transfer routes (protected)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", middleware.IdempotencyKeyMiddleware(), d.transferHandler.Transfer)
		}

		// Reminder routes (protected)
		reminders := v1.Group("/reminders")
		reminders.Use(d.authMiddleware)
		{
			reminders.GET("", d.reminderHandler.List)
			reminders.POST("", d.reminderHandler.Create)
			reminders.GET("/all", middleware.RequireAdmin(), d.reminderHandler.ListAll)
			reminders.DELETE("/:id", d.reminderHandler.Delete)
		}

		// Notification routes (protected)
		notifications := v1.Group("/notifications")
		notifications.Use(d.authMiddleware)
		{
			notifications.GET("", d.notificationHandler.List)
			notifications.POST("/read-all", d.notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", d.notificationHandler.MarkRead)
		}

		// User directory (staff and admin)
		users := v1.Group("/users")
		users.Use(d.authMiddleware, middleware.RequireStaff())
		{
			users.GET("", d.userHandler.List)
			users.POST("", d.userHandler.Create)
			users.GET("/:id", d.userHandler.Get)
			users.PUT("/:id", d.userHandler.Update)
			users.DELETE("/:id", d.userHandler.Delete)
			users.GET("/:id/accounts", d.accountHandler.ListForUser)
			users.POST("/:id/accounts", d.accountHandler.OpenForUser)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireStaff())
		{
			admin.GET("/accounts", d.accountHandler.ListAll)
		}
	}
}
