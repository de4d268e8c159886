package valyu

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"valyurag/internal/domain"
	"valyurag/internal/port"
	"valyurag/internal/validate"
)

// SearchAdapter issues one DeepSearch request per Run and maps the results to
// content records. It holds only immutable configuration and is safe for
// concurrent use.
type SearchAdapter struct {
	cfg    domain.SearchConfig
	client *client
}

var _ port.Searcher = (*SearchAdapter)(nil)

type searchRequest struct {
	Query              string  `json:"query"`
	TopK               int     `json:"top_k"`
	SearchType         string  `json:"search_type"`
	RelevanceThreshold float64 `json:"relevance_threshold"`
	MaxPrice           int     `json:"max_price"`
	IsToolCall         bool    `json:"is_tool_call"`
}

type searchResult struct {
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	Content        json.RawMessage `json:"content"`
	Description    string          `json:"description"`
	Source         string          `json:"source"`
	RelevanceScore float64         `json:"relevance_score"`
	Price          float64         `json:"price"`
	Length         float64         `json:"length"`
	DataType       string          `json:"data_type"`
	ImageURL       json.RawMessage `json:"image_url"`
}

// NewSearchAdapter validates cfg and resolves its credential.
func NewSearchAdapter(cfg domain.SearchConfig, opts ...Option) (*SearchAdapter, error) {
	cfg, err := validate.Search(cfg)
	if err != nil {
		return nil, err
	}
	c, err := newClient(cfg.BaseURL, cfg.APIKey, opts)
	if err != nil {
		return nil, err
	}
	return &SearchAdapter{cfg: cfg, client: c}, nil
}

// Config returns the validated configuration.
func (a *SearchAdapter) Config() domain.SearchConfig {
	return a.cfg
}

// Run searches for query. Results keep the API's ordering and are capped at TopK.
func (a *SearchAdapter) Run(ctx context.Context, query string) (domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.SearchResult{}, &domain.InvalidInputError{Field: "query", Reason: "must not be empty"}
	}

	status, body, err := a.client.post(ctx, searchEndpoint, a.cfg.Timeout, a.request(query))
	if err != nil {
		return domain.SearchResult{}, err
	}

	results, remoteErr, err := decodeResults[searchResult](body)
	if err != nil {
		a.client.metrics.observeRequest(searchEndpoint.name, statusError)
		return domain.SearchResult{}, &domain.SearchAPIError{StatusCode: status, Message: err.Error(), Err: err}
	}
	if remoteErr != "" {
		a.client.metrics.observeRequest(searchEndpoint.name, statusError)
		return domain.SearchResult{}, &domain.SearchAPIError{StatusCode: status, Message: a.client.apiKey.Redact(remoteErr)}
	}

	docs := make([]domain.ContentRecord, 0, len(results))
	links := make([]string, 0, len(results))
	for _, r := range results {
		rec, err := r.record()
		if err != nil {
			a.client.metrics.observeRequest(searchEndpoint.name, statusError)
			return domain.SearchResult{}, &domain.SearchAPIError{StatusCode: status, Message: "malformed result content: " + err.Error(), Err: err}
		}
		docs = append(docs, rec)
		if rec.URL != "" {
			links = append(links, rec.URL)
		}
	}
	// Links come from every result before both lists are capped.
	docs = docs[:min(len(docs), a.cfg.TopK)]
	links = links[:min(len(links), a.cfg.TopK)]

	a.client.metrics.observeResults(searchEndpoint.name, len(docs))
	a.client.logger.Debug("valyu search returned documents",
		zap.Int("documents", len(docs)),
		zap.String("query", query),
	)

	return domain.SearchResult{Documents: docs, Links: links}, nil
}

func (a *SearchAdapter) request(query string) searchRequest {
	return searchRequest{
		Query:              query,
		TopK:               a.cfg.TopK,
		SearchType:         string(a.cfg.SearchType),
		RelevanceThreshold: a.cfg.RelevanceThreshold,
		MaxPrice:           a.cfg.MaxPrice,
		IsToolCall:         true,
	}
}

func (r searchResult) record() (domain.ContentRecord, error) {
	content, extracted, err := flattenContent(r.Content)
	if err != nil {
		return domain.ContentRecord{}, err
	}
	return domain.ContentRecord{
		Content:        content,
		URL:            r.URL,
		Title:          r.Title,
		Description:    r.Description,
		Source:         r.Source,
		RelevanceScore: r.RelevanceScore,
		Price:          r.Price,
		Length:         int(r.Length),
		DataType:       dataType(r.DataType),
		ImageURL:       imageURL(r.ImageURL),
		Extracted:      extracted,
	}, nil
}
