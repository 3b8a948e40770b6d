package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/pagination"
	"github.com/mnavarro-dev/storefront-backend/pkg/redis"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
	"github.com/mnavarro-dev/storefront-backend/pkg/upstream"
)

// AllCategories is the pseudo-category matching every product.
const AllCategories = "All"

// Fetcher retrieves one upstream catalog page. Nil means no upstream is
// configured and the bundled seed catalog serves instead.
type Fetcher interface {
	FetchCatalog(ctx context.Context, page int) (*upstream.CatalogPage, error)
}

// Page is one catalog listing response: the filtered items plus the category
// chips derived from the unfiltered page.
type Page struct {
	Items      []types.Product `json:"items"`
	Page       int             `json:"page"`
	LastPage   int             `json:"lastPage"`
	Category   string          `json:"category"`
	Categories []string        `json:"categories"`
}

// Service serves the paginated, category-filterable product listing.
type Service interface {
	List(ctx context.Context, page int, category string) (*Page, error)
}

type service struct {
	fetcher Fetcher
	cache   *redis.Client
	cfg     config.CatalogConfig
	logg    *logger.Logger
}

// NewService builds the catalog service. fetcher may be nil.
func NewService(fetcher Fetcher, cache *redis.Client, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{fetcher: fetcher, cache: cache, cfg: cfg, logg: logg}, nil
}

func (s *service) List(ctx context.Context, page int, category string) (*Page, error) {
	page = pagination.NormalizePage(page)
	category = strings.TrimSpace(category)

	source, err := s.loadPage(ctx, page)
	if err != nil {
		return nil, err
	}

	items := source.Items
	if category != "" && !strings.EqualFold(category, AllCategories) {
		filtered := make([]types.Product, 0, len(items))
		for _, product := range items {
			if strings.EqualFold(product.Category, category) {
				filtered = append(filtered, product)
			}
		}
		items = filtered
	} else {
		category = AllCategories
	}

	return &Page{
		Items:      items,
		Page:       page,
		LastPage:   source.LastPage,
		Category:   category,
		Categories: deriveCategories(source.Items),
	}, nil
}

// loadPage serves from the redis page cache first, then the upstream, then
// the seed catalog. An upstream failure degrades to seed data rather than
// erroring, matching the storefront's read-mostly tolerance.
func (s *service) loadPage(ctx context.Context, page int) (*upstream.CatalogPage, error) {
	if s.fetcher == nil {
		return s.seedPage(page), nil
	}

	key := s.cache.CatalogPageKey(page)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var decoded upstream.CatalogPage
		if unmarshalErr := json.Unmarshal([]byte(cached), &decoded); unmarshalErr == nil {
			return &decoded, nil
		}
		s.logg.Warn(ctx, "discarding malformed catalog cache entry")
	} else if !redis.IsMiss(err) {
		s.logg.Error(ctx, "read catalog cache", err)
	}

	fetched, err := s.fetcher.FetchCatalog(ctx, page)
	if err != nil {
		s.logg.Error(ctx, "fetch catalog page, serving seed data", err)
		return s.seedPage(page), nil
	}

	if encoded, err := json.Marshal(fetched); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), s.cfg.CacheTTL); err != nil {
			s.logg.Error(ctx, "write catalog cache", err)
		}
	}
	return fetched, nil
}

func (s *service) seedPage(page int) *upstream.CatalogPage {
	seed := SeedProducts()
	size := pagination.NormalizeSize(s.cfg.PageSize)
	start, end := pagination.Bounds(len(seed), pagination.Params{Page: page, Size: size})
	return &upstream.CatalogPage{
		Items:    seed[start:end],
		LastPage: pagination.LastPage(len(seed), size),
	}
}

// deriveCategories lists the distinct categories in first-seen order,
// prefixed with the pseudo-category that matches everything.
func deriveCategories(items []types.Product) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, product := range items {
		if product.Category == "" || seen[product.Category] {
			continue
		}
		seen[product.Category] = true
		out = append(out, product.Category)
	}
	return out
}
