package inference

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"llm-gateway/internal/utils/platformerrors"
)

// OpenAIProvider serves the OpenAI Chat Completions API through the official
// client types.
type OpenAIProvider struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewOpenAIProvider reads OPENAI_API_KEY from the environment and builds the
// authenticated client. A missing key is a configuration error; the factory
// will retry construction on the next resolution.
func NewOpenAIProvider(ctx context.Context, log zerolog.Logger, timeout time.Duration) (*OpenAIProvider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"OPENAI_API_KEY environment variable is not set",
			nil,
			"3f8c2a61-7b94-4d05-8e12-a6f0b9c4d573",
		)
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return newOpenAIProviderWithConfig(cfg, log), nil
}

func newOpenAIProviderWithConfig(cfg openai.ClientConfig, log zerolog.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		log:    log.With().Str("provider", "OpenAI").Logger(),
	}
}

func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error) {
	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("text generation")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", providerCallError(ctx, "OpenAI", err)
	}
	return chatCompletionText(ctx, "OpenAI", resp)
}

func (p *OpenAIProvider) GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error) {
	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("vision generation")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURLFromContent(imageContent, imageMediaType),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", providerCallError(ctx, "OpenAI", err)
	}
	return chatCompletionText(ctx, "OpenAI", resp)
}

// imageURLFromContent passes URLs through untouched and wraps base64 payloads
// into a data URI with the given media type.
func imageURLFromContent(imageContent, imageMediaType string) string {
	if strings.HasPrefix(imageContent, "http") {
		return imageContent
	}
	mediaType := imageMediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, imageContent)
}

// chatCompletionText extracts the first choice's message content.
func chatCompletionText(ctx context.Context, vendor string, resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s returned no choices", vendor),
			nil,
			"e49b0c72-1d35-4f86-a2b9-6c8e5d0f3a14",
		)
	}
	return resp.Choices[0].Message.Content, nil
}

// providerCallError wraps a vendor SDK failure as an EXTERNAL platform error.
func providerCallError(ctx context.Context, vendor string, err error) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal,
		fmt.Sprintf("%s generation failed", vendor),
		err,
		"",
	)
}
