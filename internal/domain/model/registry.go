package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"llm-gateway/internal/utils/platformerrors"
)

// catalogDocument mirrors the on-disk catalog layout.
type catalogDocument struct {
	Models      []Model           `yaml:"models"`
	UserStorage UserStorageConfig `yaml:"userStorage"`
}

// Registry loads the model catalog document once, caches it for the process
// lifetime, and answers lookups against the cached snapshot. Reload replaces
// the snapshot without blocking in-flight readers; a request already holding
// a snapshot keeps seeing the old data.
type Registry struct {
	path string
	log  zerolog.Logger

	mu     sync.RWMutex
	loaded bool
	doc    *catalogDocument
}

// NewRegistry constructs a registry for the catalog document at path. The
// document is not read until first use.
func NewRegistry(path string, log zerolog.Logger) *Registry {
	return &Registry{path: path, log: log}
}

// List returns all catalog entries in document order.
func (r *Registry) List(ctx context.Context) ([]Model, error) {
	doc, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]Model, len(doc.Models))
	copy(models, doc.Models)
	return models, nil
}

// GetByID returns the catalog entry with the given modelId, or nil when no
// entry matches. The catalog is small and read in document order.
func (r *Registry) GetByID(ctx context.Context, modelID string) (*Model, error) {
	doc, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Models {
		if doc.Models[i].ModelID == modelID {
			m := doc.Models[i]
			return &m, nil
		}
	}
	return nil, nil
}

// UserStorage returns the user store section of the catalog document with
// defaults applied for omitted fields.
func (r *Registry) UserStorage(ctx context.Context) (UserStorageConfig, error) {
	doc, err := r.snapshot(ctx)
	if err != nil {
		return UserStorageConfig{}, err
	}
	cfg := doc.UserStorage
	if cfg.TableName == "" {
		cfg.TableName = "users"
	}
	if cfg.PartitionKey == "" {
		cfg.PartitionKey = "user"
	}
	if cfg.ConnectionStringEnvVar == "" {
		cfg.ConnectionStringEnvVar = "DATABASE_URL"
	}
	return cfg, nil
}

// Reload discards the cached document and re-reads it from disk, returning
// the freshly loaded entries. Reload is not transactional with concurrent
// requests: callers mid-flight may observe either snapshot.
func (r *Registry) Reload(ctx context.Context) ([]Model, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.doc = doc
	r.loaded = true
	r.mu.Unlock()

	models := make([]Model, len(doc.Models))
	copy(models, doc.Models)
	return models, nil
}

// snapshot returns the cached document, loading it on first access. The read
// path takes only the read lock; the load path is double-checked so that
// concurrent first accesses retain exactly one authoritative snapshot.
func (r *Registry) snapshot(ctx context.Context) (*catalogDocument, error) {
	r.mu.RLock()
	if r.loaded {
		doc := r.doc
		r.mu.RUnlock()
		return doc, nil
	}
	r.mu.RUnlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.doc = doc
		r.loaded = true
	}
	return r.doc, nil
}

func (r *Registry) load(ctx context.Context) (*catalogDocument, error) {
	cleanPath := filepath.Clean(r.path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			fmt.Sprintf("read model catalog %q", cleanPath),
			err,
			"1d4f17b8-6a1e-4a57-9f64-0cbe41c2d6a1",
		)
	}

	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			fmt.Sprintf("parse model catalog %q", cleanPath),
			err,
			"8f2b9c44-07ad-4f1d-bb1c-5f1f6f3f9d02",
		)
	}

	r.log.Info().
		Str("path", cleanPath).
		Int("models", len(doc.Models)).
		Msg("loaded model catalog")

	return &doc, nil
}
