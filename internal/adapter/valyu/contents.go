package valyu

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"valyurag/internal/domain"
	"valyurag/internal/port"
	"valyurag/internal/validate"
)

// ContentAdapter extracts page content for a set of URLs with a single Contents request.
type ContentAdapter struct {
	cfg    domain.ContentConfig
	client *client
}

var _ port.ContentFetcher = (*ContentAdapter)(nil)

type contentsRequest struct {
	URLs           []string               `json:"urls"`
	ExtractEffort  string                 `json:"extract_effort,omitempty"`
	ResponseLength *domain.ResponseLength `json:"response_length,omitempty"`
	Summary        *domain.Summary        `json:"summary,omitempty"`
}

type contentResult struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	Content  json.RawMessage `json:"content"`
	Summary  json.RawMessage `json:"summary"`
	Length   float64         `json:"length"`
	Source   string          `json:"source"`
	DataType string          `json:"data_type"`
	ImageURL json.RawMessage `json:"image_url"`
}

// NewContentAdapter validates cfg and resolves its credential.
func NewContentAdapter(cfg domain.ContentConfig, opts ...Option) (*ContentAdapter, error) {
	cfg, err := validate.Content(cfg)
	if err != nil {
		return nil, err
	}
	c, err := newClient(cfg.BaseURL, cfg.APIKey, opts)
	if err != nil {
		return nil, err
	}
	return &ContentAdapter{cfg: cfg, client: c}, nil
}

// Config returns the validated configuration.
func (a *ContentAdapter) Config() domain.ContentConfig {
	return a.cfg
}

// Run fetches content for urls plus the url metadata of docs. When the combined
// set is empty no request is made and an empty slice is returned. A failed
// request fails the whole batch.
func (a *ContentAdapter) Run(ctx context.Context, urls []string, docs []domain.DocumentRef) ([]domain.ContentRecord, error) {
	toFetch := CollectURLs(urls, docs)
	if len(toFetch) == 0 {
		return []domain.ContentRecord{}, nil
	}

	a.client.logger.Debug("valyu contents request", zap.Int("urls", len(toFetch)))

	status, body, err := a.client.post(ctx, contentsEndpoint, a.cfg.Timeout, a.request(toFetch))
	if err != nil {
		return nil, err
	}

	results, remoteErr, err := decodeResults[contentResult](body)
	if err != nil {
		a.client.metrics.observeRequest(contentsEndpoint.name, statusError)
		return nil, &domain.ContentAPIError{StatusCode: status, Message: err.Error(), Err: err}
	}
	if remoteErr != "" {
		a.client.metrics.observeRequest(contentsEndpoint.name, statusError)
		return nil, &domain.ContentAPIError{StatusCode: status, Message: a.client.apiKey.Redact(remoteErr)}
	}

	records := make([]domain.ContentRecord, 0, len(results))
	for _, r := range results {
		rec, err := a.record(r)
		if err != nil {
			a.client.metrics.observeRequest(contentsEndpoint.name, statusError)
			return nil, &domain.ContentAPIError{StatusCode: status, Message: "malformed result content: " + err.Error(), Err: err}
		}
		records = append(records, rec)
	}

	a.client.metrics.observeResults(contentsEndpoint.name, len(records))
	a.client.logger.Debug("valyu contents returned documents",
		zap.Int("documents", len(records)),
		zap.Int("urls", len(toFetch)),
	)

	return records, nil
}

// CollectURLs merges urls with the url metadata of docs, dropping blanks and exact
// duplicates while keeping first-seen order.
func CollectURLs(urls []string, docs []domain.DocumentRef) []string {
	seen := make(map[string]struct{}, len(urls)+len(docs))
	out := make([]string, 0, len(urls)+len(docs))

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	for _, u := range urls {
		add(u)
	}
	for _, d := range docs {
		add(d.URL())
	}
	return out
}

func (a *ContentAdapter) request(urls []string) contentsRequest {
	req := contentsRequest{
		URLs:          urls,
		ExtractEffort: string(a.cfg.ExtractEffort),
	}
	if a.cfg.ResponseLength.IsSet() {
		l := a.cfg.ResponseLength
		req.ResponseLength = &l
	}
	if a.cfg.Summary.IsSet() {
		s := a.cfg.Summary
		req.Summary = &s
	}
	return req
}

func (a *ContentAdapter) record(r contentResult) (domain.ContentRecord, error) {
	raw := r.Content
	summarized := a.cfg.Summary.IsSet()
	if summarized && hasSummary(r.Summary) {
		raw = r.Summary
	}

	content, extracted, err := flattenContent(raw)
	if err != nil {
		return domain.ContentRecord{}, err
	}

	return domain.ContentRecord{
		Content:    content,
		URL:        r.URL,
		Title:      r.Title,
		Source:     r.Source,
		Length:     int(r.Length),
		DataType:   dataType(r.DataType),
		ImageURL:   imageURL(r.ImageURL),
		Extracted:  extracted,
		Summarized: summarized,
	}, nil
}

// hasSummary reports whether the result carries summary text or an extracted object.
func hasSummary(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case '"', '{', '[':
		return !bytes.Equal(raw, []byte(`""`))
	}
	return false
}
