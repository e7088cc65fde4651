package inference

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"llm-gateway/internal/utils/httpclients"
	"llm-gateway/internal/utils/platformerrors"
)

const (
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

// anthropicRequest is the Messages API request envelope.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text-only prompts and a block list for
	// multimodal prompts.
	Content any `json:"content"`
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicProvider serves the Anthropic Messages API over a resty client.
type AnthropicProvider struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewAnthropicProvider reads ANTHROPIC_API_KEY from the environment and
// builds the authenticated client.
func NewAnthropicProvider(ctx context.Context, log zerolog.Logger, timeout time.Duration) (*AnthropicProvider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"ANTHROPIC_API_KEY environment variable is not set",
			nil,
			"c7d3e8f1-5a20-4b69-8c47-9e1f2d6b0a85",
		)
	}

	client := httpclients.NewClient("AnthropicClient", timeout)
	client.SetBaseURL(anthropicBaseURL)
	client.SetHeader("X-API-Key", apiKey)
	client.SetHeader("Anthropic-Version", anthropicVersion)

	return newAnthropicProviderWithClient(client, log), nil
}

func newAnthropicProviderWithClient(client *resty.Client, log zerolog.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		client: client,
		log:    log.With().Str("provider", "Anthropic").Logger(),
	}
}

func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error) {
	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("text generation")

	return p.createMessage(ctx, anthropicRequest{
		Model:       modelName,
		MaxTokens:   anthropicMaxTokens,
		Temperature: temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
}

func (p *AnthropicProvider) GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error) {
	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("vision generation")

	// Image block first, then text block. The order is part of the wire
	// contract and must not be changed.
	blocks := []anthropicContentBlock{
		{Type: "image", Source: anthropicImageSourceFromContent(imageContent, imageMediaType)},
		{Type: "text", Text: prompt},
	}

	return p.createMessage(ctx, anthropicRequest{
		Model:       modelName,
		MaxTokens:   anthropicMaxTokens,
		Temperature: temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: blocks},
		},
	})
}

func (p *AnthropicProvider) createMessage(ctx context.Context, request anthropicRequest) (string, error) {
	var (
		result anthropicResponse
		apiErr anthropicErrorResponse
	)

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", providerCallError(ctx, "Anthropic", err)
	}
	if resp.IsError() {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("Anthropic generation failed: %s (%s)", apiErr.Error.Message, resp.Status()),
			nil,
			"f2a8b5d1-6c94-4e37-8b05-3d7e9c1f4a62",
		)
	}

	// Concatenate only the text blocks, in the order the vendor returned
	// them; tool-use or other block types are ignored.
	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// anthropicImageSourceFromContent selects the url source for http(s)
// references and the base64 source otherwise.
func anthropicImageSourceFromContent(imageContent, imageMediaType string) *anthropicImageSource {
	if strings.HasPrefix(imageContent, "http") {
		return &anthropicImageSource{Type: "url", URL: imageContent}
	}
	mediaType := imageMediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	return &anthropicImageSource{
		Type:      "base64",
		MediaType: mediaType,
		Data:      imageContent,
	}
}
