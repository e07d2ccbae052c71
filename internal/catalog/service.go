package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/salonworks/pos-terminal/pkg/backend"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
	"github.com/salonworks/pos-terminal/pkg/logger"
)

type catalogSource interface {
	FetchCatalog(ctx context.Context, branchID string) ([]backend.ServiceRecord, []backend.ComboRecord, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogCacheKey(branchID string) string
}

// Service exposes branch-scoped catalog browsing.
type Service interface {
	Browse(ctx context.Context, branchCtx BranchContext, query Query) ([]Item, error)
}

type service struct {
	source   catalogSource
	cache    catalogCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewService builds a catalog service over the backend source with a
// read-through cache in front. The cache is optional.
func NewService(source catalogSource, cache catalogCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &service{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logg,
	}, nil
}

type cachedCatalog struct {
	Services []backend.ServiceRecord `json:"services"`
	Combos   []backend.ComboRecord   `json:"combos"`
}

// Browse loads the raw collections and applies the pure filter. Filtering
// runs client-side on every call so search-as-you-type never refetches.
func (s *service) Browse(ctx context.Context, branchCtx BranchContext, query Query) ([]Item, error) {
	if !query.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid catalog type filter")
	}
	if !branchCtx.Admin && branchCtx.BranchID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch context required")
	}

	raw, err := s.loadCatalog(ctx, branchCtx)
	if err != nil {
		return nil, err
	}

	return Filter(raw.Services, raw.Combos, branchCtx, query), nil
}

func (s *service) loadCatalog(ctx context.Context, branchCtx BranchContext) (*cachedCatalog, error) {
	scope := branchCtx.BranchID
	if branchCtx.Admin {
		scope = ""
	}

	if s.cache != nil {
		key := s.cache.CatalogCacheKey(scope)
		if payload, err := s.cache.Get(ctx, key); err == nil {
			var cached cachedCatalog
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	services, combos, err := s.source.FetchCatalog(ctx, scope)
	if err != nil {
		return nil, err
	}
	raw := &cachedCatalog{Services: services, Combos: combos}

	if s.cache != nil && s.cacheTTL > 0 {
		if encoded, err := json.Marshal(raw); err == nil {
			if err := s.cache.Set(ctx, s.cache.CatalogCacheKey(scope), string(encoded), s.cacheTTL); err != nil && s.logger != nil {
				s.logger.Warn(ctx, "catalog cache write failed")
			}
		}
	}

	return raw, nil
}
