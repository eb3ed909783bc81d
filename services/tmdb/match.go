package tmdb

import (
	"context"
	"sort"
	"strings"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Searcher is the slice of the Api the matcher needs.
type Searcher interface {
	SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error)
	SearchMulti(ctx context.Context, query string) ([]SearchResult, error)
}

var _ Searcher = (*Api)(nil)

// Match finds the best TMDB candidate for a scraped title. Three
// tiers, first non-empty result wins:
//
//  1. movie search scoped to the release year, when the year is known;
//  2. movie search without the year constraint;
//  3. combined-media search, filtered to movie/tv, most popular first.
//
// The year-scoped tier keeps remakes and sequels from shadowing each
// other; the later tiers trade precision for recall only once the
// precise query came up empty. A (nil, "") return means no match
// anywhere; an error means the provider call itself failed and the
// record should not be retried this run.
func Match(ctx context.Context, s Searcher, title, year string) (*SearchResult, string, error) {
	query := NormalizeTitle(title)

	if year != "" {
		results, err := s.SearchMovie(ctx, query, year)
		if err != nil {
			return nil, "", err
		}
		if len(results) > 0 {
			return &results[0], MediaTypeMovie, nil
		}
	}

	results, err := s.SearchMovie(ctx, query, "")
	if err != nil {
		return nil, "", err
	}
	if len(results) > 0 {
		return &results[0], MediaTypeMovie, nil
	}

	multi, err := s.SearchMulti(ctx, query)
	if err != nil {
		return nil, "", err
	}
	var known []SearchResult
	for _, r := range multi {
		if r.MediaType == MediaTypeMovie || r.MediaType == MediaTypeTV {
			known = append(known, r)
		}
	}
	if len(known) == 0 {
		return nil, "", nil
	}
	sort.SliceStable(known, func(i, j int) bool {
		return known[i].Popularity > known[j].Popularity
	})
	return &known[0], known[0].MediaType, nil
}

var titleNormalizer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
)

// NormalizeTitle unifies punctuation variants so cosmetic differences
// between the scraped title and TMDB's canonical one don't suppress a
// correct match. Normalizing an already-normalized title is a no-op.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(titleNormalizer.Replace(title)), " ")
}
