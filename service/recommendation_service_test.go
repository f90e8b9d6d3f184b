package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

func recommendationCatalog(t *testing.T) *CatalogService {
	t.Helper()
	feed := &stubFeed{result: &FeedResult{
		Products: []models.Product{
			{ID: "1", Name: "Gran Pack Navideño Familiar", Price: 58000, Stock: 15},
			{ID: "2", Name: "Caja Huerta Navideña (Veggie)", Price: 32000, Stock: 25},
			{ID: "3", Name: "Pan Dulce Artesanal", Price: 9000, Stock: 40},
		},
		Source: FeedSourceCSV,
	}}
	catalog := NewCatalogService(feed)
	catalog.Refresh(context.Background())
	return catalog
}

// geminiStub serves a canned generateContent response.
func geminiStub(t *testing.T, pickJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.NotEmpty(t, r.URL.Query().Get("key"))

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": pickJSON}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestRecommendFallbackHeuristic(t *testing.T) {
	catalog := recommendationCatalog(t)
	// No API key: the deterministic heuristic is the whole path.
	svc := NewRecommendationService(catalog, "")

	t.Run("vegan preference picks the veggie box", func(t *testing.T) {
		rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Guests: "2-4 personas", Preference: "Vegano"})
		require.NoError(t, err)
		assert.Equal(t, "2", rec.Product.ID)
		assert.Equal(t, models.RecommendationSourceFallback, rec.Source)
		assert.NotEmpty(t, rec.Reason)
	})

	t.Run("other preferences pick the family pack", func(t *testing.T) {
		for _, pref := range []string{"Tradicional", "Mix Saludable", ""} {
			rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Preference: pref})
			require.NoError(t, err)
			assert.Equal(t, "1", rec.Product.ID, "preference %q", pref)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		req := models.RecommendationRequest{Preference: "Vegano"}
		first, err := svc.Recommend(context.Background(), req)
		require.NoError(t, err)
		second, err := svc.Recommend(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestRecommendAI(t *testing.T) {
	catalog := recommendationCatalog(t)

	t.Run("valid pick", func(t *testing.T) {
		server := geminiStub(t, `{"recommendedId":"3","reason":"El pan dulce artesanal completa tu mesa."}`)
		defer server.Close()

		svc := NewRecommendationService(catalog, "test-key")
		svc.endpoint = server.URL

		rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Guests: "5-10 personas", Preference: "Tradicional"})
		require.NoError(t, err)
		assert.Equal(t, "3", rec.Product.ID)
		assert.Equal(t, "El pan dulce artesanal completa tu mesa.", rec.Reason)
		assert.Equal(t, models.RecommendationSourceAI, rec.Source)
	})

	t.Run("nonexistent product id falls back", func(t *testing.T) {
		server := geminiStub(t, `{"recommendedId":"999","reason":"no existe"}`)
		defer server.Close()

		svc := NewRecommendationService(catalog, "test-key")
		svc.endpoint = server.URL

		rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Preference: "Vegano"})
		require.NoError(t, err)
		assert.Equal(t, models.RecommendationSourceFallback, rec.Source)
		assert.Equal(t, "2", rec.Product.ID)
	})

	t.Run("malformed pick falls back", func(t *testing.T) {
		server := geminiStub(t, `this is not json`)
		defer server.Close()

		svc := NewRecommendationService(catalog, "test-key")
		svc.endpoint = server.URL

		rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Preference: "Tradicional"})
		require.NoError(t, err)
		assert.Equal(t, models.RecommendationSourceFallback, rec.Source)
	})

	t.Run("server error falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota", http.StatusTooManyRequests)
		}))
		defer server.Close()

		svc := NewRecommendationService(catalog, "test-key")
		svc.endpoint = server.URL

		rec, err := svc.Recommend(context.Background(), models.RecommendationRequest{Preference: "Vegano"})
		require.NoError(t, err)
		assert.Equal(t, models.RecommendationSourceFallback, rec.Source)
	})
}

func TestRecommendEmptyCatalog(t *testing.T) {
	feed := &stubFeed{result: &FeedResult{Products: []models.Product{}, Source: FeedSourceCSV}}
	catalog := NewCatalogService(feed)
	catalog.swap(nil, FeedSourceCSV)

	svc := NewRecommendationService(catalog, "")
	_, err := svc.Recommend(context.Background(), models.RecommendationRequest{})
	assert.Error(t, err)
}
