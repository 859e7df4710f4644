package spotlight

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/simple-lms/console/pkg/types"
)

// Item is a single search hit.
type Item struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Link   string `json:"link"`
	Module string `json:"-"`
}

// DataSource produces candidate items for a query.
type DataSource interface {
	Items(ctx context.Context) ([]Item, error)
}

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc func(ctx context.Context) ([]Item, error)

func (f DataSourceFunc) Items(ctx context.Context) ([]Item, error) {
	return f(ctx)
}

type Spotlight interface {
	Register(sources ...DataSource)
	Find(ctx context.Context, q string, limit int) ([]Item, error)
}

// New returns a Spotlight that hides items of modules checker denies.
func New(checker types.PermissionChecker) Spotlight {
	return &spotlight{checker: checker}
}

type spotlight struct {
	mu      sync.RWMutex
	sources []DataSource
	checker types.PermissionChecker
}

func (s *spotlight) Register(sources ...DataSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, sources...)
}

// Find ranks items by fuzzy distance to q; ties keep source order.
func (s *spotlight) Find(ctx context.Context, q string, limit int) ([]Item, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Item{}, nil
	}
	s.mu.RLock()
	sources := append([]DataSource(nil), s.sources...)
	s.mu.RUnlock()

	var candidates []Item
	for _, src := range sources {
		items, err := src.Items(ctx)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.Module != "" && s.checker != nil && !s.checker.Can(ctx, it.Module, "view") {
				continue
			}
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return []Item{}, nil
	}

	words := make([]string, len(candidates))
	for i, it := range candidates {
		words[i] = it.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	result := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, candidates[rank.OriginalIndex])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
