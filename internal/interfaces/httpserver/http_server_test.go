package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-gateway/internal/config"
	"llm-gateway/internal/domain/model"
	"llm-gateway/internal/domain/provider"
	"llm-gateway/internal/domain/user"
	"llm-gateway/internal/interfaces/httpserver/handlers/chathandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/modelhandler"
	"llm-gateway/internal/interfaces/httpserver/handlers/userhandler"
	"llm-gateway/internal/interfaces/httpserver/routes"
	"llm-gateway/internal/utils/platformerrors"
)

const testCatalog = `
models:
  - modelId: gpt-4o
    modelName: gpt-4o-wire-name
    providerName: OpenAI
    temperature: 0.2
    supportsVision: true
  - modelId: text-only
    modelName: text-only-wire
    providerName: Anthropic
    supportsVision: false
`

// stubProvider records the last generation call and returns canned text.
type stubProvider struct {
	lastPrompt    string
	lastModel     string
	lastTemp      float32
	lastMediaType string
	visionCalls   int
}

func (s *stubProvider) GenerateText(ctx context.Context, prompt, modelName string, temperature float32) (string, error) {
	s.lastPrompt = prompt
	s.lastModel = modelName
	s.lastTemp = temperature
	return "stub text", nil
}

func (s *stubProvider) GenerateWithImage(ctx context.Context, prompt, imageContent, modelName string, temperature float32, imageMediaType string) (string, error) {
	s.lastPrompt = prompt
	s.lastModel = modelName
	s.lastTemp = temperature
	s.lastMediaType = imageMediaType
	s.visionCalls++
	return "stub vision", nil
}

// stubResolver hands out one shared stubProvider and counts resolutions.
type stubResolver struct {
	provider *stubProvider
	calls    int
	lastName string
}

func (s *stubResolver) GetProvider(ctx context.Context, providerName string) (provider.Provider, error) {
	s.calls++
	s.lastName = providerName
	return s.provider, nil
}

// fakeUserRepository is the in-memory user store for route tests.
type fakeUserRepository struct {
	users map[string]*user.User
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepository) Create(ctx context.Context, usr *user.User) (*user.User, error) {
	if _, ok := f.users[usr.Username]; ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("user %q already exists", usr.Username), nil, "")
	}
	clone := *usr
	f.users[usr.Username] = &clone
	return usr, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, usr *user.User) (*user.User, error) {
	clone := *usr
	f.users[usr.Username] = &clone
	return usr, nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", username), nil, "")
	}
	delete(f.users, username)
	return nil
}

type testServer struct {
	server   *HTTPServer
	resolver *stubResolver
	provider *stubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))

	log := zerolog.Nop()
	registry := model.NewRegistry(catalogPath, log)

	stub := &stubProvider{}
	resolver := &stubResolver{provider: stub}

	userService := user.NewService(&fakeUserRepository{users: make(map[string]*user.User)})

	apiRoute := routes.NewAPIRoute(
		chathandler.NewChatHandler(registry, resolver, log),
		modelhandler.NewModelHandler(registry, log),
		userhandler.NewUserHandler(userService, log),
	)

	cfg := &config.Config{HTTPPort: 0}
	return &testServer{
		server:   NewHTTPServer(apiRoute, cfg, log),
		resolver: resolver,
		provider: stub,
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChatHappyPath(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/chat", `{"prompt":"hi there","modelId":"gpt-4o"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "stub text", body["response"])
	assert.Equal(t, "gpt-4o", body["modelId"])
	assert.Equal(t, "OpenAI", body["providerName"])

	assert.Equal(t, "OpenAI", ts.resolver.lastName)
	assert.Equal(t, "gpt-4o-wire-name", ts.provider.lastModel)
	assert.InDelta(t, 0.2, ts.provider.lastTemp, 0.0001)
}

func TestChatMissingFields(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/chat", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatUnknownModel(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/chat", `{"prompt":"hi","modelId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, ts.resolver.calls)
}

func TestVisionHappyPathDefaultsMediaType(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/chat/vision",
		`{"prompt":"describe","imageContent":"aGVsbG8=","modelId":"gpt-4o"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "stub vision", body["response"])
	assert.Equal(t, 1, ts.provider.visionCalls)
	assert.Equal(t, "image/png", ts.provider.lastMediaType)
}

func TestVisionRejectedForTextOnlyModel(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/chat/vision",
		`{"prompt":"describe","imageContent":"aGVsbG8=","modelId":"text-only"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, ts.resolver.calls, "resolver must not be consulted for rejected vision requests")
	assert.Zero(t, ts.provider.visionCalls)
}

func TestModelsListInFileOrder(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	models := body["models"].([]any)
	first := models[0].(map[string]any)
	second := models[1].(map[string]any)
	assert.Equal(t, "gpt-4o", first["modelId"])
	assert.Equal(t, "text-only", second["modelId"])
}

func TestPingShape(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Multi-Provider LLM API", body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUserLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/users", `{"username":"alice","password":"pw","isAdmin":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	created := body["user"].(map[string]any)
	assert.Equal(t, "alice", created["username"])
	assert.Equal(t, true, created["isAdmin"])

	// Duplicate username conflicts.
	rec = ts.do(http.MethodPost, "/api/users", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Validate with good and bad credentials.
	rec = ts.do(http.MethodPost, "/api/users/validate", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/users/validate", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Partial update requires at least one field.
	rec = ts.do(http.MethodPut, "/api/users/alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPut, "/api/users/alice", `{"password":"new"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	updated := body["user"].(map[string]any)
	assert.Equal(t, "new", updated["password"])

	rec = ts.do(http.MethodPut, "/api/users/nobody", `{"password":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Delete, then delete again.
	rec = ts.do(http.MethodDelete, "/api/users/alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/users/alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt":"hi","modelId":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-abc-123")
	rec := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-Id"))

	body := decode(t, rec)
	assert.Equal(t, "req-abc-123", body["request_id"])
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
