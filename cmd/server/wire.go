//go:build wireinject

package main

import (
	"github.com/google/wire"

	"llm-gateway/internal/config"
	"llm-gateway/internal/domain"
	"llm-gateway/internal/infrastructure"
	"llm-gateway/internal/interfaces/httpserver"
	"llm-gateway/internal/interfaces/httpserver/routes"
)

func CreateApplication(cfg *config.Config) (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		httpserver.NewHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
