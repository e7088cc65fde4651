package inference

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-gateway/internal/utils/platformerrors"
)

func TestImageURLFromContent(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		mediaType string
		want      string
	}{
		{
			name:    "https url passes through",
			content: "https://example.com/cat.png",
			want:    "https://example.com/cat.png",
		},
		{
			name:    "http url passes through",
			content: "http://example.com/cat.png",
			want:    "http://example.com/cat.png",
		},
		{
			name:      "base64 becomes data uri",
			content:   "aGVsbG8=",
			mediaType: "image/jpeg",
			want:      "data:image/jpeg;base64,aGVsbG8=",
		},
		{
			name:    "base64 defaults to png",
			content: "aGVsbG8=",
			want:    "data:image/png;base64,aGVsbG8=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imageURLFromContent(tt.content, tt.mediaType))
		})
	}
}

func TestNewOpenAIProviderMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAIProvider(context.Background(), zerolog.Nop(), time.Minute)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration))
}
