package inference

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"llm-gateway/internal/utils/platformerrors"
)

const defaultAzureAPIVersion = "2024-10-21"

// AzureOpenAIProvider serves Azure-hosted OpenAI deployments. The wire shapes
// are identical to OpenAI's; the model name is the Azure deployment name and
// authentication uses the api-key header handled by the Azure client config.
type AzureOpenAIProvider struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewAzureOpenAIProvider reads AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT,
// and AZURE_OPENAI_API_VERSION (optional) from the environment.
func NewAzureOpenAIProvider(ctx context.Context, log zerolog.Logger, timeout time.Duration) (*AzureOpenAIProvider, error) {
	apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
	endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	apiVersion := os.Getenv("AZURE_OPENAI_API_VERSION")
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}

	if apiKey == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"AZURE_OPENAI_API_KEY environment variable is not set",
			nil,
			"a1f4d9c0-3e72-4b58-96d1-8b2c5f0e7a36",
		)
	}
	if endpoint == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"AZURE_OPENAI_ENDPOINT environment variable is not set",
			nil,
			"b8e2c5a7-0f91-4d36-a4c8-2d7e6b1f9a50",
		)
	}

	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	cfg.APIVersion = apiVersion
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &AzureOpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		log:    log.With().Str("provider", "Azure OpenAI").Logger(),
	}, nil
}

func (p *AzureOpenAIProvider) GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error) {
	p.log.Info().Str("deployment", modelName).Float32("temperature", temperature).Msg("text generation")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", providerCallError(ctx, "Azure OpenAI", err)
	}
	return chatCompletionText(ctx, "Azure OpenAI", resp)
}

func (p *AzureOpenAIProvider) GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error) {
	p.log.Info().Str("deployment", modelName).Float32("temperature", temperature).Msg("vision generation")

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
		return "", providerCallError(ctx, "Azure OpenAI", err)
	}
	return chatCompletionText(ctx, "Azure OpenAI", resp)
}
