package valyu

import (
	"context"
	"fmt"

	"valyurag/internal/domain"
	"valyurag/internal/port"
)

const (
	SearchComponentName  = "valyu_search"
	ContentComponentName = "valyu_content_fetcher"

	socketQuery     = "query"
	socketURLs      = "urls"
	socketDocuments = "documents"
	socketLinks     = "links"
)

// SearchComponent exposes a SearchAdapter as a pipeline node.
//
// Inputs:  query string
// Outputs: documents []domain.ContentRecord, links []string
type SearchComponent struct {
	adapter port.Searcher
}

var _ port.Component = (*SearchComponent)(nil)

func NewSearchComponent(adapter port.Searcher) *SearchComponent {
	return &SearchComponent{adapter: adapter}
}

func (c *SearchComponent) Name() string { return SearchComponentName }

func (c *SearchComponent) InputSockets() []port.Socket {
	return []port.Socket{{Name: socketQuery, Type: "string"}}
}

func (c *SearchComponent) OutputSockets() []port.Socket {
	return []port.Socket{
		{Name: socketDocuments, Type: "[]domain.ContentRecord"},
		{Name: socketLinks, Type: "[]string"},
	}
}

func (c *SearchComponent) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	query, ok := inputs[socketQuery].(string)
	if !ok {
		return nil, &domain.InvalidInputError{Field: socketQuery, Reason: fmt.Sprintf("expected string, got %T", inputs[socketQuery])}
	}
	res, err := c.adapter.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		socketDocuments: res.Documents,
		socketLinks:     res.Links,
	}, nil
}

// ContentComponent exposes a ContentAdapter as a pipeline node. Both inputs are
// optional; documents may be DocumentRefs or ContentRecords from an upstream search.
//
// Inputs:  urls []string, documents []domain.DocumentRef
// Outputs: documents []domain.ContentRecord
type ContentComponent struct {
	adapter port.ContentFetcher
}

var _ port.Component = (*ContentComponent)(nil)

func NewContentComponent(adapter port.ContentFetcher) *ContentComponent {
	return &ContentComponent{adapter: adapter}
}

func (c *ContentComponent) Name() string { return ContentComponentName }

func (c *ContentComponent) InputSockets() []port.Socket {
	return []port.Socket{
		{Name: socketURLs, Type: "[]string", Optional: true},
		{Name: socketDocuments, Type: "[]domain.DocumentRef", Optional: true},
	}
}

func (c *ContentComponent) OutputSockets() []port.Socket {
	return []port.Socket{{Name: socketDocuments, Type: "[]domain.ContentRecord"}}
}

func (c *ContentComponent) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	urls, err := stringsInput(inputs[socketURLs])
	if err != nil {
		return nil, err
	}
	docs, err := documentsInput(inputs[socketDocuments])
	if err != nil {
		return nil, err
	}

	records, err := c.adapter.Run(ctx, urls, docs)
	if err != nil {
		return nil, err
	}
	return map[string]any{socketDocuments: records}, nil
}

func stringsInput(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, &domain.InvalidInputError{Field: socketURLs, Reason: fmt.Sprintf("element %d: expected string, got %T", i, item)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &domain.InvalidInputError{Field: socketURLs, Reason: fmt.Sprintf("expected []string, got %T", v)}
	}
}

func documentsInput(v any) ([]domain.DocumentRef, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []domain.DocumentRef:
		return t, nil
	case []domain.ContentRecord:
		out := make([]domain.DocumentRef, len(t))
		for i, r := range t {
			out[i] = domain.DocumentRef{Content: r.Content, Meta: r.Meta()}
		}
		return out, nil
	default:
		return nil, &domain.InvalidInputError{Field: socketDocuments, Reason: fmt.Sprintf("expected []domain.DocumentRef, got %T", v)}
	}
}
