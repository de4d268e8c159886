package port

import (
	"context"

	"valyurag/internal/domain"
)

// Searcher runs one search query against a remote search API.
type Searcher interface {
	Run(ctx context.Context, query string) (domain.SearchResult, error)
}

// ContentFetcher extracts page content for a set of URLs.
// URLs are taken from urls and from each document's url metadata.
type ContentFetcher interface {
	Run(ctx context.Context, urls []string, docs []domain.DocumentRef) ([]domain.ContentRecord, error)
}
