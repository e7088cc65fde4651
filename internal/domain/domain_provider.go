package domain

import (
	"github.com/google/wire"

	"llm-gateway/internal/domain/user"
)

var ServiceProvider = wire.NewSet(
	user.NewService,
)
