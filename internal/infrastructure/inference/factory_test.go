package inference

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-gateway/internal/utils/platformerrors"
)

func TestFactoryNormalizationReturnsSameInstance(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	f := NewFactory(zerolog.Nop(), time.Minute)
	ctx := context.Background()

	first, err := f.GetProvider(ctx, "openai")
	require.NoError(t, err)

	for _, name := range []string{"OpenAI", " openai ", "OPENAI", "openai"} {
		p, err := f.GetProvider(ctx, name)
		require.NoError(t, err)
		assert.Same(t, first, p, "name %q should resolve to the cached instance", name)
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := NewFactory(zerolog.Nop(), time.Minute)

	_, err := f.GetProvider(context.Background(), "cohere")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	for _, name := range supportedProviders {
		assert.Contains(t, err.Error(), name)
	}
}

func TestFactoryConstructionFailureNotCached(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	f := NewFactory(zerolog.Nop(), time.Minute)
	ctx := context.Background()

	_, err := f.GetProvider(ctx, "openai")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration))

	t.Setenv("OPENAI_API_KEY", "now-set")
	p, err := f.GetProvider(ctx, "openai")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestFactoryConcurrentResolution(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	f := NewFactory(zerolog.Nop(), time.Minute)
	ctx := context.Background()

	const callers = 16
	results := make([]any, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot], errs[slot] = f.GetProvider(ctx, "openai")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestFactoryThreadsTimeoutIntoAdapters(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test-access")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret")
	t.Setenv("AWS_REGION", "us-east-1")

	f := NewFactory(zerolog.Nop(), 9*time.Second)

	p, err := f.GetProvider(context.Background(), "aws bedrock")
	require.NoError(t, err)

	bedrock, ok := p.(*BedrockProvider)
	require.True(t, ok)
	assert.Equal(t, 9*time.Second, bedrock.httpClient.Timeout)
}

func TestFactoryReset(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	f := NewFactory(zerolog.Nop(), time.Minute)
	ctx := context.Background()

	first, err := f.GetProvider(ctx, "openai")
	require.NoError(t, err)

	f.Reset()

	second, err := f.GetProvider(ctx, "openai")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
