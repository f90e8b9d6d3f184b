package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	t.Run("valid rows", func(t *testing.T) {
		rows := [][]string{
			{"id", "name", "description", "price", "category", "image", "stock", "ispromo", "featured"},
			{"1", "Gran Pack", "Completo", "$58.000", "Packs Navidad", "https://img/1.jpg", "15", "TRUE", "true"},
			{"2", "Caja Huerta", "Veggie", "32000", "", "https://img/2.jpg", "25", "false", "FALSE"},
		}

		products, rowErrors := decodeRows(rows)
		require.Len(t, products, 2)
		assert.Empty(t, rowErrors)

		assert.Equal(t, int64(58000), products[0].Price, "currency-formatted price cell")
		assert.True(t, products[0].IsPromo)
		assert.True(t, products[0].Featured, "flags are case-insensitive")
		assert.Equal(t, 15, products[0].Stock)

		assert.Equal(t, "General", products[1].Category, "empty category defaults")
		assert.False(t, products[1].IsPromo)
	})

	t.Run("bad rows are skipped and reported", func(t *testing.T) {
		rows := [][]string{
			{"id", "name", "price", "stock"},
			{"", "Sin ID", "1000", "5"},
			{"7", "", "1000", "5"},
			{"8", "Bueno", "no-price", "not-a-number"},
			{"8", "Duplicado", "1000", "5"},
			{"", "", "", ""},
		}

		products, rowErrors := decodeRows(rows)
		require.Len(t, products, 1)
		assert.Equal(t, "8", products[0].ID)
		assert.Equal(t, int64(0), products[0].Price, "unparseable price becomes 0")
		assert.Equal(t, 0, products[0].Stock)

		require.Len(t, rowErrors, 3)
		assert.Equal(t, 2, rowErrors[0].Row)
		assert.Equal(t, "missing id", rowErrors[0].Reason)
		assert.Equal(t, "missing name", rowErrors[1].Reason)
		assert.Contains(t, rowErrors[2].Reason, "duplicate id")
	})

	t.Run("header only", func(t *testing.T) {
		products, rowErrors := decodeRows([][]string{{"id", "name"}})
		assert.Empty(t, products)
		assert.Empty(t, rowErrors)
	})
}

func TestParsePrice(t *testing.T) {
	tests := map[string]int64{
		"58000":    58000,
		"$58.000":  58000,
		"$ 2.200":  2200,
		"ARS 1000": 1000,
		"":         0,
		"gratis":   0,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parsePrice(raw), "raw=%q", raw)
	}
}

func TestFeedServiceFetchCSV(t *testing.T) {
	t.Run("fetches and decodes the published export", func(t *testing.T) {
		var gotBuster bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBuster = r.URL.Query().Get("t") != ""
			w.Write([]byte("id,name,price,stock\n1,\"Pack, Familiar\",\"$58.000\",15\n"))
		}))
		defer server.Close()

		feed, err := NewFeedService(context.Background(), FeedConfig{CSVURL: server.URL})
		require.NoError(t, err)

		result, err := feed.Fetch(context.Background())
		require.NoError(t, err)
		assert.True(t, gotBuster, "cache-busting parameter missing")
		assert.Equal(t, FeedSourceCSV, result.Source)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Pack, Familiar", result.Products[0].Name, "quoted CSV fields")
		assert.Equal(t, int64(58000), result.Products[0].Price)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer server.Close()

		feed, err := NewFeedService(context.Background(), FeedConfig{CSVURL: server.URL})
		require.NoError(t, err)

		_, err = feed.Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("no valid products is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("id,name\n,\n"))
		}))
		defer server.Close()

		feed, err := NewFeedService(context.Background(), FeedConfig{CSVURL: server.URL})
		require.NoError(t, err)

		_, err = feed.Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("nothing configured", func(t *testing.T) {
		feed, err := NewFeedService(context.Background(), FeedConfig{})
		require.NoError(t, err)
		_, err = feed.Fetch(context.Background())
		assert.Error(t, err)
	})
}
