package service

import "context"

// FeedServiceInterface defines the contract for catalog feed fetching
type FeedServiceInterface interface {
	Fetch(ctx context.Context) (*FeedResult, error)
}
