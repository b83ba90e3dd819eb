package usecase

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/celebco/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Defaults applied when MatchConfig leaves a field out of range
const (
	DefaultCutoff = 60
	DefaultLimit  = 5
)

// Length-ratio thresholds and scale factors for WeightedRatio
const (
	partialLengthRatio  = 1.5  // switch to partial scoring above this
	longLengthRatio     = 8.0  // heavier partial penalty above this
	partialScale        = 0.9  // partial match weight
	longPartialScale    = 0.6  // partial match weight for very uneven lengths
	unorderedTokenScale = 0.95 // token sort/set weight
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Cutoff int
	Limit  int
}

// MatchingService scores a query against corpus names and keeps the best ones
type MatchingService struct {
	cutoff int
	limit  int
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	cutoff := config.Cutoff
	if cutoff < 0 || cutoff > 100 {
		cutoff = DefaultCutoff
	}

	limit := config.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &MatchingService{
		cutoff: cutoff,
		limit:  limit,
	}
}

// Match returns up to the configured limit of names scoring at least the cutoff.
func (s *MatchingService) Match(ctx context.Context, query string, names []string) ([]domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := ExtractBest(query, names, s.cutoff, s.limit)

	log.Debug().
		Str("query", query).
		Int("candidates", len(names)).
		Int("matches", len(matches)).
		Msg("fuzzy match")

	return matches, nil
}

// ExtractBest scores query against every name and returns at most limit
// matches with score >= cutoff, best first. Equal scores keep corpus order.
func ExtractBest(query string, names []string, cutoff, limit int) []domain.MatchResult {
	if limit <= 0 {
		return []domain.MatchResult{}
	}

	normalizedQuery := normalize(query)
	matches := make([]domain.MatchResult, 0, limit)
	for _, name := range names {
		score := weightedRatio(normalizedQuery, normalize(name))
		if score >= cutoff {
			matches = append(matches, domain.MatchResult{Name: name, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// WeightedRatio scores the similarity of two strings in [0,100], case-insensitively.
func WeightedRatio(a, b string) int {
	return weightedRatio(normalize(a), normalize(b))
}

// weightedRatio expects normalized input
func weightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	lenA := len([]rune(a))
	lenB := len([]rune(b))
	lengthRatio := float64(max(lenA, lenB)) / float64(min(lenA, lenB))

	best := float64(ratio(a, b))

	if lengthRatio < partialLengthRatio {
		best = math.Max(best, float64(tokenSortRatio(a, b, ratio))*unorderedTokenScale)
		best = math.Max(best, float64(tokenSetRatio(a, b, ratio))*unorderedTokenScale)
		return int(math.Round(best))
	}

	scale := partialScale
	if lengthRatio > longLengthRatio {
		scale = longPartialScale
	}

	best = math.Max(best, float64(partialRatio(a, b))*scale)
	best = math.Max(best, float64(tokenSortRatio(a, b, partialRatio))*unorderedTokenScale*scale)
	best = math.Max(best, float64(tokenSetRatio(a, b, partialRatio))*unorderedTokenScale*scale)
	return int(math.Round(best))
}

// ratio is 100 minus the edit distance as a percentage of the longer string
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	longest := max(len([]rune(a)), len([]rune(b)))
	distance := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}

// partialRatio is the best ratio of the shorter string against every
// window of the longer string with the same length
func partialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return ratio(a, b)
	}

	target := string(shorter)
	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		score := ratio(target, string(longer[i:i+len(shorter)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// tokenSortRatio compares both strings after sorting their tokens
func tokenSortRatio(a, b string, score func(string, string) int) int {
	return score(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares the shared tokens against each side's full token set
func tokenSetRatio(a, b string, score func(string, string) int) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for token := range tokensA {
		if tokensB[token] {
			shared = append(shared, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if !tokensA[token] {
			onlyB = append(onlyB, token)
		}
	}
	slices.Sort(shared)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		score(sect, combinedA),
		score(sect, combinedB),
		score(combinedA, combinedB),
	)
}

// normalize lowercases s, replaces anything that is not a letter or digit
// with a space and collapses whitespace
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		set[token] = true
	}
	return set
}
