package inference

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"llm-gateway/internal/domain/provider"
	"llm-gateway/internal/utils/platformerrors"
)

const (
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure openai"
	ProviderAnthropic   = "anthropic"
	ProviderBedrock     = "aws bedrock"
)

var supportedProviders = []string{
	ProviderOpenAI,
	ProviderAzureOpenAI,
	ProviderAnthropic,
	ProviderBedrock,
}

// Factory resolves provider names to singleton adapter instances. Each
// adapter is constructed at most once per process; a failed construction is
// not cached and is retried on the next resolution.
type Factory struct {
	log         zerolog.Logger
	httpTimeout time.Duration

	mu        sync.RWMutex
	providers map[string]provider.Provider
	group     singleflight.Group
}

// NewFactory builds a resolver whose adapters use httpTimeout as the
// outbound vendor call timeout.
func NewFactory(log zerolog.Logger, httpTimeout time.Duration) *Factory {
	return &Factory{
		log:         log,
		httpTimeout: httpTimeout,
		providers:   make(map[string]provider.Provider),
	}
}

// GetProvider returns the adapter for the given name. The name is normalized
// (trimmed, lowercased) before lookup, so "OpenAI" and " openai " resolve to
// the same instance.
func (f *Factory) GetProvider(ctx context.Context, providerName string) (provider.Provider, error) {
	name := normalizeProviderName(providerName)

	f.mu.RLock()
	p, ok := f.providers[name]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	// singleflight collapses concurrent first resolutions of the same name
	// into one construction.
	v, err, _ := f.group.Do(name, func() (any, error) {
		f.mu.RLock()
		existing, ok := f.providers[name]
		f.mu.RUnlock()
		if ok {
			return existing, nil
		}

		built, err := f.build(ctx, name)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		f.providers[name] = built
		f.mu.Unlock()

		f.log.Info().Str("provider", name).Msg("provider instance created")
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(provider.Provider), nil
}

func (f *Factory) build(ctx context.Context, name string) (provider.Provider, error) {
	switch name {
	case ProviderOpenAI:
		return NewOpenAIProvider(ctx, f.log, f.httpTimeout)
	case ProviderAzureOpenAI:
		return NewAzureOpenAIProvider(ctx, f.log, f.httpTimeout)
	case ProviderAnthropic:
		return NewAnthropicProvider(ctx, f.log, f.httpTimeout)
	case ProviderBedrock:
		return NewBedrockProvider(ctx, f.log, f.httpTimeout)
	default:
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported provider %q, supported providers: %s",
				name, strings.Join(supportedProviders, ", ")),
			nil,
			"8a3e6f1d-4c27-4b90-a5e8-0d9b2c7f5e41",
		)
	}
}

// Reset drops all cached instances.
func (f *Factory) Reset() {
	f.mu.Lock()
	f.providers = make(map[string]provider.Provider)
	f.mu.Unlock()
}

func normalizeProviderName(providerName string) string {
	return strings.ToLower(strings.TrimSpace(providerName))
}
