package usecase

import (
	"context"

	"go.uber.org/zap"

	"valyurag/internal/domain"
	"valyurag/internal/port"
)

// ResearchStage names a step of a research run, for progress reporting.
type ResearchStage string

const (
	StageSearch ResearchStage = "search"
	StageFetch  ResearchStage = "fetch"
)

// ResearchResult combines search hits with the full content fetched for the top links.
type ResearchResult struct {
	Query    string
	Search   domain.SearchResult
	Contents []domain.ContentRecord
}

// ResearchUseCase searches, then fetches full content for the leading links.
type ResearchUseCase struct {
	searcher port.Searcher
	fetcher  port.ContentFetcher
	logger   *zap.Logger
	onStage  func(ResearchStage)
}

// NewResearchUseCase creates a new research use case. A nil logger disables logging.
func NewResearchUseCase(searcher port.Searcher, fetcher port.ContentFetcher, logger *zap.Logger) *ResearchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResearchUseCase{
		searcher: searcher,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// OnStage registers a callback invoked after each completed stage.
func (u *ResearchUseCase) OnStage(fn func(ResearchStage)) {
	u.onStage = fn
}

// Research runs the query and fetches content for the first fetchTop links.
// fetchTop <= 0 skips the fetch stage. Adapter errors are returned unchanged.
func (u *ResearchUseCase) Research(ctx context.Context, query string, fetchTop int) (*ResearchResult, error) {
	found, err := u.searcher.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	u.stageDone(StageSearch)

	result := &ResearchResult{
		Query:    query,
		Search:   found,
		Contents: []domain.ContentRecord{},
	}

	links := found.Links
	if fetchTop < len(links) {
		links = links[:max(fetchTop, 0)]
	}
	if len(links) > 0 {
		contents, err := u.fetcher.Run(ctx, links, nil)
		if err != nil {
			return nil, err
		}
		result.Contents = contents
	}
	u.stageDone(StageFetch)

	u.logger.Info("research complete",
		zap.Int("results", len(found.Documents)),
		zap.Int("fetched", len(result.Contents)),
	)
	return result, nil
}

func (u *ResearchUseCase) stageDone(stage ResearchStage) {
	if u.onStage != nil {
		u.onStage(stage)
	}
}
