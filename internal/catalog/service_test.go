package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
	pkgerrors "github.com/salonworks/pos-terminal/pkg/errors"
)

type stubSource struct {
	services []backend.ServiceRecord
	combos   []backend.ComboRecord
	err      error
	calls    int
}

func (s *stubSource) FetchCatalog(ctx context.Context, branchID string) ([]backend.ServiceRecord, []backend.ComboRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.services, s.combos, nil
}

type stubCache struct {
	store map[string]string
	sets  int
}

func newStubCache() *stubCache {
	return &stubCache{store: map[string]string{}}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	if payload, ok := c.store[key]; ok {
		return payload, nil
	}
	return "", errors.New("cache miss")
}

func (c *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets++
	c.store[key] = value.(string)
	return nil
}

func (c *stubCache) CatalogCacheKey(branchID string) string {
	if branchID == "" {
		branchID = "all"
	}
	return "pos:catalog:" + branchID
}

func TestNewServiceRequiresSource(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, nil, 0, nil)
	require.Error(t, err)
}

func TestBrowseFiltersFromSource(t *testing.T) {
	t.Parallel()

	source := &stubSource{services: fixtureServices(), combos: fixtureCombos()}
	svc, err := NewService(source, nil, 0, nil)
	require.NoError(t, err)

	items, err := svc.Browse(context.Background(), BranchContext{BranchID: "branch-1"}, Query{Type: enums.TypeFilterAll})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"svc-cut", "cmb-spa"}, itemIDs(items))
}

func TestBrowseRejectsMissingBranch(t *testing.T) {
	t.Parallel()

	source := &stubSource{}
	svc, err := NewService(source, nil, 0, nil)
	require.NoError(t, err)

	_, err = svc.Browse(context.Background(), BranchContext{}, Query{Type: enums.TypeFilterAll})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, source.calls)
}

func TestBrowseRejectsInvalidTypeFilter(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubSource{}, nil, 0, nil)
	require.NoError(t, err)

	_, err = svc.Browse(context.Background(), BranchContext{BranchID: "branch-1"}, Query{Type: enums.TypeFilter("bogus")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestBrowsePopulatesAndReusesCache(t *testing.T) {
	t.Parallel()

	source := &stubSource{services: fixtureServices(), combos: fixtureCombos()}
	cache := newStubCache()
	svc, err := NewService(source, cache, 30*time.Second, nil)
	require.NoError(t, err)

	branchCtx := BranchContext{BranchID: "branch-1"}
	_, err = svc.Browse(context.Background(), branchCtx, Query{Type: enums.TypeFilterAll})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)
	require.Equal(t, 1, cache.sets)

	// Second browse with a different query refilters the cached payload.
	items, err := svc.Browse(context.Background(), branchCtx, Query{Search: "haircut", Type: enums.TypeFilterAll})
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	require.Len(t, items, 1)
	assert.Equal(t, "svc-cut", items[0].ID)
}

func TestBrowseCachedPayloadRoundTrips(t *testing.T) {
	t.Parallel()

	stock := 2
	cached := cachedCatalog{
		Combos: []backend.ComboRecord{{
			ID:        "cmb-cached",
			Name:      "Cached Bundle",
			Price:     decimal.NewFromInt(120),
			BranchIDs: []string{"branch-9"},
			Status:    enums.ComboStatusActive,
			Stock:     &stock,
		}},
	}
	encoded, err := json.Marshal(cached)
	require.NoError(t, err)

	cache := newStubCache()
	cache.store[cache.CatalogCacheKey("branch-9")] = string(encoded)

	source := &stubSource{err: errors.New("source should not be hit")}
	svc, err := NewService(source, cache, time.Minute, nil)
	require.NoError(t, err)

	items, err := svc.Browse(context.Background(), BranchContext{BranchID: "branch-9"}, Query{Type: enums.TypeFilterAll})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "cmb-cached", items[0].ID)
	assert.True(t, items[0].FinalPrice.Equal(decimal.NewFromInt(120)))
	assert.Zero(t, source.calls)
}

func TestBrowsePropagatesSourceFailure(t *testing.T) {
	t.Parallel()

	source := &stubSource{err: pkgerrors.New(pkgerrors.CodeDependency, "catalog upstream unavailable")}
	svc, err := NewService(source, nil, 0, nil)
	require.NoError(t, err)

	_, err = svc.Browse(context.Background(), BranchContext{Admin: true}, Query{Type: enums.TypeFilterAll})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
