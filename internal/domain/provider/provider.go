// Package provider defines the capability contract every vendor adapter
// implements. The contract is deliberately narrow: synchronous text
// generation and text+image generation, both returning the plain
// concatenated text of the vendor reply.
package provider

import "context"

// DefaultImageMediaType is assumed when a caller omits the image MIME type.
const DefaultImageMediaType = "image/png"

// Provider is implemented once per vendor family. Both operations block
// until the vendor round trip completes; neither streams. Failures are
// platformerrors values: EXTERNAL for vendor call failures, VALIDATION for
// adapter-local capability rejections.
type Provider interface {
	// GenerateText produces a completion for a text-only prompt.
	GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error)

	// GenerateWithImage produces a completion for a text+image prompt.
	// imageContent is either a URL (http/https prefix) or base64 image data;
	// imageMediaType is a MIME type such as "image/png" and may be empty.
	GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error)
}

// Resolver maps a configured provider name to a ready-to-use adapter
// instance. The inference factory is the production implementation; tests
// substitute stubs.
type Resolver interface {
	GetProvider(ctx context.Context, providerName string) (Provider, error)
}
