package usecase

import (
	"context"
	"fmt"

	"github.com/celebco/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	Cutoff int
	Limit  int
}

// SearchService answers fuzzy name queries against a read-only corpus
type SearchService struct {
	corpus          *domain.Corpus
	matchingService *MatchingService
}

// NewSearchService creates a search service over the given corpus
func NewSearchService(corpus *domain.Corpus, config SearchServiceConfig) *SearchService {
	if corpus == nil {
		corpus = domain.NewCorpus(nil)
	}

	return &SearchService{
		corpus: corpus,
		matchingService: NewMatchingService(MatchConfig{
			Cutoff: config.Cutoff,
			Limit:  config.Limit,
		}),
	}
}

// Search looks up records whose names resemble the raw query.
// Flow: sanitize -> fuzzy match -> resolve records
func (s *SearchService) Search(ctx context.Context, rawQuery string) (*domain.SearchResponse, error) {
	query := Sanitize(rawQuery)
	if query == "" {
		return nil, fmt.Errorf("%w: %q sanitized to empty", domain.ErrInvalidQuery, rawQuery)
	}

	matches, err := s.matchingService.Match(ctx, query, s.corpus.Names())
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		log.Debug().Str("query", query).Msg("no matches")
		return &domain.SearchResponse{
			Results: []domain.Record{},
			Message: domain.NoResultsMessage,
		}, nil
	}

	return &domain.SearchResponse{
		Results: Resolve(matches, s.corpus),
	}, nil
}

// CorpusSize returns the number of searchable records
func (s *SearchService) CorpusSize() int {
	return s.corpus.Len()
}

// Resolve maps matches back to records in match order. Each name resolves
// to the first record carrying it; names absent from the corpus are skipped.
func Resolve(matches []domain.MatchResult, corpus *domain.Corpus) []domain.Record {
	records := corpus.Records()
	results := make([]domain.Record, 0, len(matches))

	for _, match := range matches {
		for _, record := range records {
			if record.Name == match.Name {
				results = append(results, record)
				break
			}
		}
	}

	return results
}
