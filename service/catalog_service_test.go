package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

type stubFeed struct {
	result *FeedResult
	err    error
}

func (f *stubFeed) Fetch(ctx context.Context) (*FeedResult, error) {
	return f.result, f.err
}

func TestCatalogServiceSeedsWithFallback(t *testing.T) {
	catalog := NewCatalogService(&stubFeed{err: fmt.Errorf("not called yet")})

	products := catalog.Products()
	require.NotEmpty(t, products, "storefront must never show zero products")
	assert.Equal(t, FeedSourceFallback, catalog.Source())
}

func TestCatalogServiceRefresh(t *testing.T) {
	fresh := []models.Product{
		{ID: "10", Name: "Pan Dulce", Price: 9000, Category: "Despensa", Stock: 30},
		{ID: "11", Name: "Tomates Reliquia", Price: 4000, Category: "Verdura Fresca", Stock: 50},
	}

	t.Run("successful refresh replaces the snapshot wholesale", func(t *testing.T) {
		feed := &stubFeed{result: &FeedResult{
			Products:  fresh,
			Source:    FeedSourceCSV,
			RowErrors: []RowError{{Row: 4, Reason: "missing name"}},
		}}
		catalog := NewCatalogService(feed)

		stats := catalog.Refresh(context.Background())
		assert.Equal(t, FeedSourceCSV, stats.Source)
		assert.Equal(t, 2, stats.ProductCount)
		require.Len(t, stats.RowErrors, 1)

		assert.Equal(t, fresh, catalog.Products())

		p, ok := catalog.FindProduct("11")
		require.True(t, ok)
		assert.Equal(t, "Tomates Reliquia", p.Name)

		_, ok = catalog.FindProduct("1")
		assert.False(t, ok, "fallback products replaced")
	})

	t.Run("failed refresh swaps in the fallback catalog", func(t *testing.T) {
		feed := &stubFeed{result: &FeedResult{Products: fresh, Source: FeedSourceCSV}}
		catalog := NewCatalogService(feed)
		catalog.Refresh(context.Background())

		feed.result, feed.err = nil, fmt.Errorf("connection refused")
		stats := catalog.Refresh(context.Background())

		assert.Equal(t, FeedSourceFallback, stats.Source)
		assert.NotEmpty(t, stats.FeedError)
		assert.Equal(t, FallbackProducts, catalog.Products())
	})
}

func TestCatalogServiceProductsByCategory(t *testing.T) {
	feed := &stubFeed{result: &FeedResult{
		Products: []models.Product{
			{ID: "1", Name: "Pack", Category: "Packs Navidad"},
			{ID: "2", Name: "Acelga", Category: "Verdura Fresca"},
			{ID: "3", Name: "Pan", Category: "Despensa"},
		},
		Source: FeedSourceCSV,
	}}
	catalog := NewCatalogService(feed)
	catalog.Refresh(context.Background())

	assert.Len(t, catalog.ProductsByCategory(""), 3)

	fresh := catalog.ProductsByCategory("Verdura Fresca")
	require.Len(t, fresh, 1)
	assert.Equal(t, "2", fresh[0].ID)

	assert.Empty(t, catalog.ProductsByCategory("Bebidas"))
}

func TestCatalogServiceSnapshotIsolation(t *testing.T) {
	catalog := NewCatalogService(&stubFeed{err: fmt.Errorf("unused")})

	products := catalog.Products()
	products[0].Name = "mutated"

	assert.NotEqual(t, "mutated", catalog.Products()[0].Name, "callers get a copy")
}
