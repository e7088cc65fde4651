package inference

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/zerolog"

	"llm-gateway/internal/utils/platformerrors"
)

const (
	bedrockService       = "bedrock"
	bedrockMaxTokens     = 4096
	defaultBedrockRegion = "us-east-1"
)

// metaModelPrefix marks Bedrock's Meta Llama family, which rejects vision
// input regardless of what the model catalog claims.
const metaModelPrefix = "meta."

// bedrockMIMEFormats maps MIME types to the Converse API's short format
// tokens. Unknown types fall back to png.
var bedrockMIMEFormats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type bedrockConverseRequest struct {
	Messages        []bedrockMessage       `json:"messages"`
	InferenceConfig bedrockInferenceConfig `json:"inferenceConfig"`
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Text  string             `json:"text,omitempty"`
	Image *bedrockImageBlock `json:"image,omitempty"`
}

type bedrockImageBlock struct {
	Format string             `json:"format"`
	Source bedrockImageSource `json:"source"`
}

type bedrockImageSource struct {
	// Bytes marshals to the base64 string the Converse REST API expects.
	Bytes []byte `json:"bytes"`
}

type bedrockInferenceConfig struct {
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type bedrockConverseResponse struct {
	Output struct {
		Message struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

type bedrockErrorResponse struct {
	Message string `json:"message"`
}

// BedrockProvider serves the AWS Bedrock Converse API with SigV4-signed REST
// calls, covering both Anthropic and Meta model families through the unified
// request shape.
type BedrockProvider struct {
	httpClient *http.Client
	creds      aws.CredentialsProvider
	region     string
	endpoint   string
	log        zerolog.Logger
}

// NewBedrockProvider reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and
// AWS_REGION (default us-east-1) from the environment.
func NewBedrockProvider(ctx context.Context, log zerolog.Logger, timeout time.Duration) (*BedrockProvider, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultBedrockRegion
	}

	if accessKey == "" || secretKey == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables must be set",
			nil,
			"d5b9e2c7-8f30-4a61-b4d8-7c2f0e5a9b16",
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"failed to load AWS configuration",
			err,
			"e1c7a4f9-2b58-4d06-9e73-5a0d8b3c6f24",
		)
	}

	return &BedrockProvider{
		httpClient: &http.Client{Timeout: timeout},
		creds:      cfg.Credentials,
		region:     region,
		endpoint:   fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region),
		log:        log.With().Str("provider", "AWS Bedrock").Str("region", region).Logger(),
	}, nil
}

func (p *BedrockProvider) GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error) {
	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("text generation")

	request := bedrockConverseRequest{
		Messages: []bedrockMessage{
			{Role: "user", Content: []bedrockContentBlock{{Text: prompt}}},
		},
		InferenceConfig: bedrockInferenceConfig{
			Temperature: temperature,
			MaxTokens:   bedrockMaxTokens,
		},
	}

	return p.converse(ctx, modelName, request)
}

func (p *BedrockProvider) GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error) {
	// The Meta family rejects vision input at the vendor; refuse before any
	// network call, independent of the catalog's supportsVision flag.
	if strings.HasPrefix(modelName, metaModelPrefix) {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("model %q does not support image/vision input", modelName),
			nil,
			"a9f5c0d2-7e14-4b83-8c69-1d3b6e8f2a07",
		)
	}

	p.log.Info().Str("model", modelName).Float32("temperature", temperature).Msg("vision generation")

	// Converse does not accept URLs or data URIs; the payload must be raw
	// bytes (re-encoded as base64 by the JSON layer).
	imageBytes, err := base64.StdEncoding.DecodeString(imageContent)
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			"imageContent is not valid base64 data",
			err,
			"b4e8d1a6-0c59-4f27-9a38-6e2d5c7b0f91",
		)
	}

	request := bedrockConverseRequest{
		Messages: []bedrockMessage{
			{
				Role: "user",
				Content: []bedrockContentBlock{
					{Image: &bedrockImageBlock{
						Format: bedrockImageFormat(imageMediaType),
						Source: bedrockImageSource{Bytes: imageBytes},
					}},
					{Text: prompt},
				},
			},
		},
		InferenceConfig: bedrockInferenceConfig{
			Temperature: temperature,
			MaxTokens:   bedrockMaxTokens,
		},
	}

	return p.converse(ctx, modelName, request)
}

// converse signs and executes one Converse call and returns the concatenated
// text blocks of the reply.
func (p *BedrockProvider) converse(ctx context.Context, modelName string, request bedrockConverseRequest) (string, error) {
	jsonBody, err := json.Marshal(request)
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"marshal Bedrock request",
			err,
			"",
		)
	}

	endpoint := fmt.Sprintf("%s/model/%s/converse", p.endpoint, url.PathEscape(modelName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", providerCallError(ctx, "AWS Bedrock", err)
	}

	if err := p.signRequest(ctx, req, jsonBody); err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", providerCallError(ctx, "AWS Bedrock", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", providerCallError(ctx, "AWS Bedrock", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr bedrockErrorResponse
		_ = json.Unmarshal(body, &apiErr)
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("AWS Bedrock generation failed: %s (status %d)", apiErr.Message, resp.StatusCode),
			nil,
			"c0a6f3e8-5d21-4b97-8e04-2f9b7d1c5a63",
		)
	}

	var result bedrockConverseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"decode Bedrock response",
			err,
			"",
		)
	}

	var sb strings.Builder
	for _, block := range result.Output.Message.Content {
		sb.WriteString(block.Text)
	}
	return sb.String(), nil
}

// signRequest applies AWS Signature V4 over the request with the payload's
// SHA-256 hash.
func (p *BedrockProvider) signRequest(ctx context.Context, req *http.Request, body []byte) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hash := sha256.Sum256(body)
	bodyHash := hex.EncodeToString(hash[:])

	creds, err := p.creds.Retrieve(ctx)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"failed to retrieve AWS credentials",
			err,
			"f7d2b9c4-1e68-4a35-b0d7-8c5f3e0a6b92",
		)
	}

	signer := v4.NewSigner()
	if err := signer.SignHTTP(ctx, creds, req, bodyHash, bedrockService, p.region, time.Now()); err != nil {
		return providerCallError(ctx, "AWS Bedrock", err)
	}
	return nil
}

// bedrockImageFormat maps a MIME type to the Converse format token.
func bedrockImageFormat(imageMediaType string) string {
	if format, ok := bedrockMIMEFormats[imageMediaType]; ok {
		return format
	}
	return "png"
}
