package chathandler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"llm-gateway/internal/domain/model"
	"llm-gateway/internal/domain/provider"
	"llm-gateway/internal/infrastructure/metrics"
	"llm-gateway/internal/interfaces/httpserver/requests"
	"llm-gateway/internal/interfaces/httpserver/responses"
	"llm-gateway/internal/utils/platformerrors"
)

// ChatHandler serves text and vision completions by resolving the catalog
// model and dispatching to the matching provider adapter.
type ChatHandler struct {
	registry *model.Registry
	resolver provider.Resolver
	log      zerolog.Logger
}

func NewChatHandler(registry *model.Registry, resolver provider.Resolver, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		registry: registry,
		resolver: resolver,
		log:      log,
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(reqCtx *gin.Context) {
	var req requests.ChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"Request body must be valid JSON with prompt and modelId fields",
			"9c2e5b80-4d17-4f63-a8b9-1e6d0c3f7a25")
		return
	}

	m, ok := h.resolveModel(reqCtx, req.ModelID)
	if !ok {
		return
	}

	p, err := h.resolver.GetProvider(reqCtx.Request.Context(), m.ProviderName)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to resolve provider")
		return
	}

	start := time.Now()
	text, err := p.GenerateText(reqCtx.Request.Context(), req.Prompt, m.ModelName, m.EffectiveTemperature())
	if err != nil {
		metrics.RecordProviderError(m.ProviderName, platformerrors.TypeOf(err))
		responses.HandleError(reqCtx, err, "text generation failed")
		return
	}
	metrics.RecordGeneration(m.ModelID, m.ProviderName, "text", time.Since(start).Seconds())

	reqCtx.JSON(200, responses.ChatResponse{
		Response:     text,
		ModelID:      m.ModelID,
		ProviderName: m.ProviderName,
	})
}

// ChatVision handles POST /api/chat/vision.
func (h *ChatHandler) ChatVision(reqCtx *gin.Context) {
	var req requests.VisionRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"Request body must be valid JSON with prompt, imageContent and modelId fields",
			"0d7f3a94-6b28-4e51-9c07-5a1e8d2b6f40")
		return
	}

	m, ok := h.resolveModel(reqCtx, req.ModelID)
	if !ok {
		return
	}

	// Catalog gate before any provider involvement.
	if !m.SupportsVision {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("model %q does not support vision input", m.ModelID),
			"1e9a4c57-8f30-4b26-a6d1-3c5b7e0d9f82")
		return
	}

	mediaType := req.ImageMediaType
	if mediaType == "" {
		mediaType = provider.DefaultImageMediaType
	}

	p, err := h.resolver.GetProvider(reqCtx.Request.Context(), m.ProviderName)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to resolve provider")
		return
	}

	start := time.Now()
	text, err := p.GenerateWithImage(reqCtx.Request.Context(), req.Prompt, req.ImageContent,
		m.ModelName, m.EffectiveTemperature(), mediaType)
	if err != nil {
		metrics.RecordProviderError(m.ProviderName, platformerrors.TypeOf(err))
		responses.HandleError(reqCtx, err, "vision generation failed")
		return
	}
	metrics.RecordGeneration(m.ModelID, m.ProviderName, "vision", time.Since(start).Seconds())

	reqCtx.JSON(200, responses.ChatResponse{
		Response:     text,
		ModelID:      m.ModelID,
		ProviderName: m.ProviderName,
	})
}

// resolveModel looks up the catalog entry and writes the error response
// itself when the lookup fails or misses.
func (h *ChatHandler) resolveModel(reqCtx *gin.Context, modelID string) (*model.Model, bool) {
	m, err := h.registry.GetByID(reqCtx.Request.Context(), modelID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load model catalog")
		return nil, false
	}
	if m == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model %q not found", modelID),
			"2f0b5d68-9a41-4c37-b7e2-4d6c8f1a0b93")
		return nil, false
	}
	reqCtx.Set("model", m.ModelID)
	return m, true
}
