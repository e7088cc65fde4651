package modelhandler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"llm-gateway/internal/domain/model"
	"llm-gateway/internal/interfaces/httpserver/responses"
)

const serviceDisplayName = "Multi-Provider LLM API"

// ModelHandler exposes the model catalog and service liveness.
type ModelHandler struct {
	registry *model.Registry
	log      zerolog.Logger
}

func NewModelHandler(registry *model.Registry, log zerolog.Logger) *ModelHandler {
	return &ModelHandler{
		registry: registry,
		log:      log,
	}
}

// GetModels handles GET /api/models. Models are returned in catalog file
// order.
func (h *ModelHandler) GetModels(reqCtx *gin.Context) {
	models, err := h.registry.List(reqCtx.Request.Context())
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load model catalog")
		return
	}
	reqCtx.JSON(200, responses.ModelsResponse{
		Models: models,
		Count:  len(models),
	})
}

// Ping handles GET /api/ping.
func (h *ModelHandler) Ping(reqCtx *gin.Context) {
	reqCtx.JSON(200, responses.PingResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceDisplayName,
	})
}
