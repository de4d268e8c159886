package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"valyurag/internal/domain"
)

type fakeSearcher struct {
	result domain.SearchResult
	err    error
}

func (f *fakeSearcher) Run(_ context.Context, _ string) (domain.SearchResult, error) {
	return f.result, f.err
}

type fakeFetcher struct {
	calls [][]string
	err   error
}

func (f *fakeFetcher) Run(_ context.Context, urls []string, _ []domain.DocumentRef) ([]domain.ContentRecord, error) {
	f.calls = append(f.calls, urls)
	if f.err != nil {
		return nil, f.err
	}
	records := make([]domain.ContentRecord, 0, len(urls))
	for _, u := range urls {
		records = append(records, domain.ContentRecord{URL: u, Content: "body of " + u})
	}
	return records, nil
}

func threeHits() domain.SearchResult {
	return domain.SearchResult{
		Documents: []domain.ContentRecord{{URL: "https://a"}, {URL: "https://b"}, {URL: "https://c"}},
		Links:     []string{"https://a", "https://b", "https://c"},
	}
}

func TestResearch_FetchesTopLinks(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewResearchUseCase(&fakeSearcher{result: threeHits()}, fetcher, nil)

	var stages []ResearchStage
	uc.OnStage(func(s ResearchStage) { stages = append(stages, s) })

	got, err := uc.Research(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	if diff := cmp.Diff([][]string{{"https://a", "https://b"}}, fetcher.calls); diff != "" {
		t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
	}
	if len(got.Contents) != 2 || got.Contents[1].Content != "body of https://b" {
		t.Errorf("unexpected contents: %+v", got.Contents)
	}
	if len(got.Search.Documents) != 3 {
		t.Errorf("expected 3 search documents, got %d", len(got.Search.Documents))
	}
	if diff := cmp.Diff([]ResearchStage{StageSearch, StageFetch}, stages); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}
}

func TestResearch_FetchTopZeroSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewResearchUseCase(&fakeSearcher{result: threeHits()}, fetcher, nil)

	got, err := uc.Research(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetch calls, got %v", fetcher.calls)
	}
	if got.Contents == nil || len(got.Contents) != 0 {
		t.Errorf("expected empty non-nil contents, got %#v", got.Contents)
	}
}

func TestResearch_FetchTopBeyondLinks(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewResearchUseCase(&fakeSearcher{result: threeHits()}, fetcher, nil)

	if _, err := uc.Research(context.Background(), "q", 10); err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(fetcher.calls) != 1 || len(fetcher.calls[0]) != 3 {
		t.Errorf("expected one call with 3 urls, got %v", fetcher.calls)
	}
}

func TestResearch_PropagatesErrors(t *testing.T) {
	searchErr := &domain.SearchAPIError{StatusCode: 500, Message: "boom"}
	uc := NewResearchUseCase(&fakeSearcher{err: searchErr}, &fakeFetcher{}, nil)

	_, err := uc.Research(context.Background(), "q", 1)
	var apiErr *domain.SearchAPIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Fatalf("expected SearchAPIError, got %v", err)
	}

	contentErr := &domain.ContentAPIError{StatusCode: 502, Message: "bad gateway"}
	uc = NewResearchUseCase(&fakeSearcher{result: threeHits()}, &fakeFetcher{err: contentErr}, nil)

	_, err = uc.Research(context.Background(), "q", 1)
	var cErr *domain.ContentAPIError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ContentAPIError, got %v", err)
	}
}
