package domain

import (
	"context"
	"time"
)

// CorpusSource loads the corpus once at startup
type CorpusSource interface {
	Load(ctx context.Context) (*Corpus, error)
}

// LimiterStore admits or rejects requests per client key.
// When a request is rejected, retryAfter is the wait until one would be admitted.
type LimiterStore interface {
	Allow(key string) (allowed bool, retryAfter time.Duration)
}
