package routes

import (
	"github.com/google/wire"

	"llm-gateway/internal/interfaces/httpserver/handlers"
)

var RouteProvider = wire.NewSet(
	handlers.HandlerProvider,
	NewAPIRoute,
)
