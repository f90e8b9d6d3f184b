package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

const (
	imageCacheDir = "cache/images"
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxImageBytes = 10 << 20
)

// ImageService downscales externally-hosted product images into JPEG
// thumbnails with an on-disk cache. Hosting stays external; this only
// keeps the grid and the recommendation card light.
type ImageService struct {
	client *http.Client
}

// NewImageService creates an ImageService
func NewImageService() *ImageService {
	return &ImageService{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Thumbnail returns the resized JPEG for the product image at the given
// size ("thumb" or "medium", defaulting to thumb).
func (s *ImageService) Thumbnail(ctx context.Context, product models.Product, size string) ([]byte, error) {
	if product.ImageURL == "" {
		return nil, fmt.Errorf("product %s has no image", product.ID)
	}

	maxDim, quality := maxSizeThumb, qualityThumb
	switch size {
	case "", "thumb":
		size = "thumb"
	case "medium":
		maxDim, quality = maxSizeMedium, qualityMedium
	default:
		return nil, fmt.Errorf("unknown image size %q", size)
	}

	cachePath := filepath.Join(imageCacheDir, fmt.Sprintf("product_%s_%s.jpg", product.ID, size))
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	raw, err := s.fetch(ctx, product.ImageURL)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image for product %s: %w", product.ID, err)
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.MkdirAll(imageCacheDir, 0755); err == nil {
		if err := os.WriteFile(cachePath, buf.Bytes(), 0644); err != nil {
			log.Printf("⚠️  ImageService: failed to cache %s: %v", cachePath, err)
		}
	}

	return buf.Bytes(), nil
}

func (s *ImageService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}
