package service

import (
	"context"
	"log"
	"sync"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

// FallbackProducts is the hardcoded backup catalog used whenever the feed
// cannot be fetched, so the storefront never shows zero products.
var FallbackProducts = []models.Product{
	{
		ID:          "1",
		Name:        "Gran Pack Navideño Familiar (Backup)",
		Description: "La solución completa. Incluye vegetales de estación, frutas orgánicas, nueces, pan dulce artesanal y vino orgánico.",
		Price:       58000,
		Category:    "Packs Navidad",
		ImageURL:    "https://images.unsplash.com/photo-1607349913338-fca6f7fc42d1?auto=format&fit=crop&q=80&w=800",
		IsPromo:     true,
		Stock:       15,
		Featured:    true,
	},
	{
		ID:          "2",
		Name:        "Caja Huerta Navideña (Veggie)",
		Description: "Selección premium de verdes, tomates reliquia, zanahorias baby y mix de frutos secos.",
		Price:       32000,
		Category:    "Packs Navidad",
		ImageURL:    "https://images.unsplash.com/photo-1595855709990-c17122031961?auto=format&fit=crop&q=80&w=800",
		Stock:       25,
		Featured:    true,
	},
}

// RefreshStats summarizes a catalog refresh for the admin endpoint.
type RefreshStats struct {
	Source       string     `json:"source"`
	ProductCount int        `json:"productCount"`
	RowErrors    []RowError `json:"rowErrors,omitempty"`
	FeedError    string     `json:"feedError,omitempty"`
}

// CatalogService owns the in-memory catalog snapshot. Products are
// immutable between refreshes; a successful refresh replaces the snapshot
// wholesale, a failed one swaps in the fallback list.
type CatalogService struct {
	feed FeedServiceInterface

	mu       sync.RWMutex
	products []models.Product
	source   string
}

// NewCatalogService creates a CatalogService seeded with the fallback
// catalog, so products are available before the first refresh completes.
func NewCatalogService(feed FeedServiceInterface) *CatalogService {
	return &CatalogService{
		feed:     feed,
		products: FallbackProducts,
		source:   FeedSourceFallback,
	}
}

// Refresh re-fetches the feed and replaces the snapshot. Feed failures are
// logged, never surfaced to shoppers: the fallback catalog takes over.
func (s *CatalogService) Refresh(ctx context.Context) *RefreshStats {
	result, err := s.feed.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  CatalogService: feed fetch failed, using fallback catalog: %v", err)
		s.swap(FallbackProducts, FeedSourceFallback)
		return &RefreshStats{
			Source:       FeedSourceFallback,
			ProductCount: len(FallbackProducts),
			FeedError:    err.Error(),
		}
	}

	s.swap(result.Products, result.Source)
	for _, rowErr := range result.RowErrors {
		log.Printf("⚠️  CatalogService: skipped feed row %d: %s", rowErr.Row, rowErr.Reason)
	}
	log.Printf("✅ CatalogService: loaded %d products from %s (%d rows skipped)",
		len(result.Products), result.Source, len(result.RowErrors))

	return &RefreshStats{
		Source:       result.Source,
		ProductCount: len(result.Products),
		RowErrors:    result.RowErrors,
	}
}

func (s *CatalogService) swap(products []models.Product, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.source = source
}

// Products returns a copy of the current snapshot.
func (s *CatalogService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// ProductsByCategory returns the snapshot filtered by category label.
// An empty category returns everything.
func (s *CatalogService) ProductsByCategory(category string) []models.Product {
	if category == "" {
		return s.Products()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var filtered []models.Product
	for _, p := range s.products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FindProduct looks a product up by id in the current snapshot.
func (s *CatalogService) FindProduct(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Source reports where the current snapshot came from.
func (s *CatalogService) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
