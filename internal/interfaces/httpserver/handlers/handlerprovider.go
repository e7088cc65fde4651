package handlers

import (
	"github.com/google/wire"

	"llm-gateway/internal/interfaces/httpserver/handlers/chathandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/modelhandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/userhandler"
)

var HandlerProvider = wire.NewSet(
	chathandler.NewChatHandler,
	modelhandler.NewModelHandler,
	userhandler.NewUserHandler,
)
