package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

const (
	geminiEndpoint = "https://generativelanguage.googleapis.com"
	geminiModel    = "gemini-2.5-flash"

	// Shown when the AI path fails and the rule-based pick takes over.
	fallbackReason = "Basado en tu selección, esta es nuestra mejor opción para asegurar una mesa completa."
)

// RecommendationService picks a product for the customer's dinner. The AI
// path asks the Gemini API; every failure mode (missing key, transport
// error, malformed JSON, unknown product id) falls back to a deterministic
// keyword heuristic so the flow never stalls or dead-ends.
type RecommendationService struct {
	catalog  *CatalogService
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewRecommendationService creates a RecommendationService. An empty API
// key disables the AI path entirely.
func NewRecommendationService(catalog *CatalogService, apiKey string) *RecommendationService {
	return &RecommendationService{
		catalog:  catalog,
		apiKey:   apiKey,
		endpoint: geminiEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Recommend returns a product pick plus a short persuasive reason.
func (s *RecommendationService) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.Recommendation, error) {
	products := s.catalog.Products()
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	if s.apiKey == "" {
		return s.fallback(products, req.Preference), nil
	}

	rec, err := s.askGemini(ctx, products, req)
	if err != nil {
		log.Printf("⚠️  RecommendationService: AI recommendation failed, using fallback: %v", err)
		return s.fallback(products, req.Preference), nil
	}
	return rec, nil
}

// Gemini REST payloads (generateContent)
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiPick struct {
	RecommendedID string `json:"recommendedId"`
	Reason        string `json:"reason"`
}

func (s *RecommendationService) askGemini(ctx context.Context, products []models.Product, req models.RecommendationRequest) (*models.Recommendation, error) {
	// Trimmed catalog context to keep the prompt small.
	type productContext struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Desc  string `json:"desc"`
		Price int64  `json:"price"`
		Cat   string `json:"cat"`
	}
	catalogContext := make([]productContext, 0, len(products))
	for _, p := range products {
		catalogContext = append(catalogContext, productContext{
			ID: p.ID, Name: p.Name, Desc: p.Description, Price: p.Price, Cat: p.Category,
		})
	}
	catalogJSON, err := json.Marshal(catalogContext)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog context: %w", err)
	}

	prompt := fmt.Sprintf(`Actúa como un vendedor experto de "Más Orgánicos Express".
Tienes el siguiente catálogo de productos en JSON: %s.

El cliente necesita una cena navideña para: %s.
Su preferencia dietética es: %s.

Tu tarea:
1. Analiza qué producto del catálogo se ajusta mejor.
2. Devuelve un JSON con el ID del producto y una frase vendedora corta y persuasiva (max 20 palabras) explicando por qué es la mejor opción.

Formato de respuesta JSON esperado:
{
  "recommendedId": "ID_DEL_PRODUCTO",
  "reason": "Texto persuasivo aquí"
}`, catalogJSON, req.Guests, req.Preference)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.endpoint, geminiModel, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty AI response")
	}

	var pick geminiPick
	if err := json.Unmarshal([]byte(parsed.Candidates[0].Content.Parts[0].Text), &pick); err != nil {
		return nil, fmt.Errorf("malformed AI pick: %w", err)
	}

	// Validate that the recommended id exists in the current snapshot.
	for _, p := range products {
		if p.ID == pick.RecommendedID {
			return &models.Recommendation{
				Product: p,
				Reason:  pick.Reason,
				Source:  models.RecommendationSourceAI,
			}, nil
		}
	}
	return nil, fmt.Errorf("AI recommended a non-existent product id %q", pick.RecommendedID)
}

// fallback is the deterministic rule-based pick: vegan preferences look for
// the veggie box, everything else looks for the family pack, and the first
// product closes the gap.
func (s *RecommendationService) fallback(products []models.Product, preference string) *models.Recommendation {
	var keywords []string
	if strings.EqualFold(strings.TrimSpace(preference), "Vegano") {
		keywords = []string{"veggie", "huerta"}
	} else {
		keywords = []string{"familiar", "gran pack"}
	}

	pick := products[0]
search:
	for _, p := range products {
		name := strings.ToLower(p.Name)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				pick = p
				break search
			}
		}
	}

	return &models.Recommendation{
		Product: pick,
		Reason:  fallbackReason,
		Source:  models.RecommendationSourceFallback,
	}
}
