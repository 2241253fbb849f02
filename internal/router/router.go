package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskbuddy/backend/api/handler"
)

type Handlers struct {
	User     *apiHandler.UserHandler
	Task     *apiHandler.TaskHandler
	Buddy    *apiHandler.BuddyHandler
	Chat     *apiHandler.ChatHandler
	Reminder *apiHandler.ReminderHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Directory registration (auth is external to this service)
	r.POST("/api/v1/users", handlers.User.CreateUser)

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.CompleteTask))
	r.POST("/api/v1/tasks/{id}/celebrate", authMiddleware(handlers.Task.CelebrateTask))
	r.POST("/api/v1/tasks/{id}/subtasks", authMiddleware(handlers.Task.AddSubTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/v1/buddies", authMiddleware(handlers.Buddy.GetBuddies))
	r.POST("/api/v1/buddies/ensure", authMiddleware(handlers.Buddy.EnsurePaired))
	r.GET("/api/v1/buddies/requests", authMiddleware(handlers.Buddy.GetRequests))
	r.POST("/api/v1/buddies/requests", authMiddleware(handlers.Buddy.SendRequest))
	r.PUT("/api/v1/buddies/requests/{id}", authMiddleware(handlers.Buddy.RespondRequest))
	r.DELETE("/api/v1/buddies/{id}", authMiddleware(handlers.Buddy.RemoveBuddy))

	r.GET("/api/v1/chat/{buddyId}/{taskId}", authMiddleware(handlers.Chat.GetConversation))
	r.POST("/api/v1/chat", authMiddleware(handlers.Chat.PostMessage))
	r.GET("/api/v1/unread", authMiddleware(handlers.Chat.GetUnread))

	r.GET("/api/v1/reminders/{taskId}", authMiddleware(handlers.Reminder.GetBestTime))

	return r
}
