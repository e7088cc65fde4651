package responses

import "llm-gateway/internal/domain/model"

// ChatResponse carries one completed generation. ProviderName echoes the
// catalog's configured provider string for the resolved model.
type ChatResponse struct {
	Response     string `json:"response"`
	ModelID      string `json:"modelId"`
	ProviderName string `json:"providerName"`
}

type ModelsResponse struct {
	Models []model.Model `json:"models"`
	Count  int           `json:"count"`
}

type PingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}
