package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Feed sources
const (
	FeedSourceSheets   = "sheets"
	FeedSourceCSV      = "csv"
	FeedSourceFallback = "fallback"
)

// RowError reports one spreadsheet row that failed schema validation and
// was skipped. Row numbers are 1-based as seen in the sheet (header is 1).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// FeedResult is the outcome of a successful feed fetch: the decoded
// products plus the rows that were skipped.
type FeedResult struct {
	Products  []models.Product `json:"products"`
	RowErrors []RowError       `json:"rowErrors"`
	Source    string           `json:"source"`
}

// FeedConfig selects the catalog feed source. When SheetID and APIKey are
// both set the Sheets API is used; otherwise the published CSV export URL.
type FeedConfig struct {
	CSVURL     string
	SheetID    string
	SheetRange string
	APIKey     string
}

// FeedService fetches the product spreadsheet and decodes it into typed
// products, accumulating row-level errors instead of injecting bad rows.
type FeedService struct {
	config FeedConfig
	sheets *sheets.Service
	client *http.Client
}

// NewFeedService creates a FeedService. The Sheets client is only built
// when a sheet id and API key are configured.
func NewFeedService(ctx context.Context, config FeedConfig) (*FeedService, error) {
	s := &FeedService{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
	}

	if config.SheetID != "" && config.APIKey != "" {
		sheetsService, err := sheets.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		s.sheets = sheetsService
		log.Printf("📄 FeedService: using Sheets API (spreadsheet %s)", config.SheetID)
	} else if config.CSVURL != "" {
		log.Printf("📄 FeedService: using published CSV export")
	}

	return s, nil
}

// Ensure FeedService implements FeedServiceInterface
var _ FeedServiceInterface = (*FeedService)(nil)

// Fetch retrieves and decodes the feed. Any transport or decode failure
// that leaves zero valid products is an error; the caller substitutes the
// fallback catalog.
func (s *FeedService) Fetch(ctx context.Context) (*FeedResult, error) {
	var (
		rows   [][]string
		source string
		err    error
	)

	switch {
	case s.sheets != nil:
		source = FeedSourceSheets
		rows, err = s.fetchSheetRows(ctx)
	case s.config.CSVURL != "":
		source = FeedSourceCSV
		rows, err = s.fetchCSVRows(ctx)
	default:
		return nil, fmt.Errorf("no catalog feed configured")
	}
	if err != nil {
		return nil, err
	}

	products, rowErrors := decodeRows(rows)
	if len(products) == 0 {
		return nil, fmt.Errorf("feed returned no valid products (%d rows skipped)", len(rowErrors))
	}

	return &FeedResult{Products: products, RowErrors: rowErrors, Source: source}, nil
}

func (s *FeedService) fetchSheetRows(ctx context.Context) ([][]string, error) {
	readRange := s.config.SheetRange
	if readRange == "" {
		readRange = "A:I"
	}

	resp, err := s.sheets.Spreadsheets.Values.Get(s.config.SheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, strings.TrimSpace(fmt.Sprint(cell)))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *FeedService) fetchCSVRows(ctx context.Context) ([][]string, error) {
	// Cache busting: published sheet exports are cached aggressively, so
	// every fetch asks for a fresh copy.
	sep := "?"
	if strings.Contains(s.config.CSVURL, "?") {
		sep = "&"
	}
	url := fmt.Sprintf("%s%st=%d", s.config.CSVURL, sep, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed CSV: %w", err)
	}
	return rows, nil
}

// decodeRows validates the header plus each body row. Bad rows are skipped
// and reported; they never become products.
func decodeRows(rows [][]string) ([]models.Product, []RowError) {
	if len(rows) < 2 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []models.Product
	var rowErrors []RowError
	seen := make(map[string]bool)

	for n, row := range rows[1:] {
		rowNum := n + 2 // 1-based, after the header
		id := field(row, "id")
		name := field(row, "name")

		switch {
		case id == "" && name == "":
			continue // blank row
		case id == "":
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: "missing id"})
			continue
		case name == "":
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: "missing name"})
			continue
		case seen[id]:
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("duplicate id %q", id)})
			continue
		}
		seen[id] = true

		products = append(products, models.Product{
			ID:          id,
			Name:        name,
			Description: field(row, "description"),
			Price:       parsePrice(field(row, "price")),
			Category:    defaultString(field(row, "category"), "General"),
			ImageURL:    field(row, "image"),
			Stock:       parseStock(field(row, "stock")),
			IsPromo:     parseFlag(field(row, "ispromo")),
			Featured:    parseFlag(field(row, "featured")),
		})
	}

	return products, rowErrors
}

// parsePrice tolerates currency-formatted cells like "$58.000" by keeping
// digits only. Unparseable cells become 0 (the product shows but cannot be
// mispriced negative).
func parsePrice(raw string) int64 {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	price, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return price
}

func parseStock(raw string) int {
	stock, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return stock
}

// parseFlag accepts boolean-as-text cells, case-insensitive.
func parseFlag(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "TRUE")
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
