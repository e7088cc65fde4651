package routes

import (
	"github.com/gin-gonic/gin"

	"llm-gateway/internal/interfaces/httpserver/handlers/chathandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/modelhandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/userhandler"
)

// APIRoute mounts the public gateway surface under /api.
type APIRoute struct {
	chatHandler  *chathandler.ChatHandler
	modelHandler *modelhandler.ModelHandler
	userHandler  *userhandler.UserHandler
}

func NewAPIRoute(
	chatHandler *chathandler.ChatHandler,
	modelHandler *modelhandler.ModelHandler,
	userHandler *userhandler.UserHandler,
) *APIRoute {
	return &APIRoute{
		chatHandler:  chatHandler,
		modelHandler: modelHandler,
		userHandler:  userHandler,
	}
}

func (r *APIRoute) RegisterRouter(router *gin.RouterGroup) {
	api := router.Group("api")

	api.GET("/models", r.modelHandler.GetModels)
	api.GET("/ping", r.modelHandler.Ping)

	api.POST("/chat", r.chatHandler.Chat)
	api.POST("/chat/vision", r.chatHandler.ChatVision)

	api.POST("/users", r.userHandler.AddUser)
	api.DELETE("/users/:username", r.userHandler.DeleteUser)
	api.PUT("/users/:username", r.userHandler.UpdateUser)
	api.POST("/users/validate", r.userHandler.ValidateUser)
}
