package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"llm-gateway/internal/config"
	"llm-gateway/internal/domain/model"
	"llm-gateway/internal/domain/provider"
	"llm-gateway/internal/infrastructure/database"
	"llm-gateway/internal/infrastructure/database/dbschema"
	"llm-gateway/internal/infrastructure/database/repository/userrepo"
	"llm-gateway/internal/infrastructure/inference"
	"llm-gateway/internal/infrastructure/logger"
)

var InfrastructureProvider = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideConnector,
	ProvideResolver,
	userrepo.NewUserGormRepository,
)

func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

func ProvideRegistry(cfg *config.Config, log zerolog.Logger) *model.Registry {
	return model.NewRegistry(cfg.ModelsConfigPath, log)
}

func ProvideConnector(registry *model.Registry, cfg *config.Config) *database.Connector {
	return database.NewConnector(registry, cfg.AutoMigrate, dbschema.Migrate)
}

func ProvideResolver(cfg *config.Config, log zerolog.Logger) provider.Resolver {
	return inference.NewFactory(log, cfg.HTTPTimeout)
}
