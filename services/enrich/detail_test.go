package enrich

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/cache"
)

type stubDetailer struct {
	mu      sync.Mutex
	details map[string]*models.FilmDetail
	errs    map[string]error
	calls   int
}

func (s *stubDetailer) GetFilmDetail(_ context.Context, key string) (*models.FilmDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.errs[key]; ok {
		return nil, err
	}
	if d, ok := s.details[key]; ok {
		return d, nil
	}
	return &models.FilmDetail{}, nil
}

func testDetail(api FilmDetailer, ca *cache.Cache) *Detail {
	return &Detail{
		api:       api,
		cache:     ca,
		ttl:       time.Hour,
		chunkSize: 2,
	}
}

func TestDetailEnrichAll(t *testing.T) {
	api := &stubDetailer{
		details: map[string]*models.FilmDetail{
			"/a/": {Genres: []string{"Drama"}, PosterURL: "poster.jpg"},
		},
		errs: map[string]error{
			"/b/": errors.New("status 500"),
		},
	}
	movies := []*models.Movie{
		{Key: "/a/", Title: "A"},
		{Key: "/b/", Title: "B"},
	}

	d := testDetail(api, cache.New(nil))
	d.EnrichAll(context.Background(), movies, false)

	if movies[0].Detail == nil || movies[0].Detail.PosterURL != "poster.jpg" {
		t.Errorf("expected scraped detail on /a/, got %+v", movies[0].Detail)
	}
	// Unreachable page degrades to an empty detail, not a crash or nil.
	if movies[1].Detail == nil {
		t.Error("expected empty detail on /b/")
	} else if len(movies[1].Detail.Genres) != 0 {
		t.Errorf("expected empty collections on /b/, got %+v", movies[1].Detail)
	}
}

func TestDetailCacheHitSkipsNetwork(t *testing.T) {
	ca := cache.New(cache.NewMemory())
	api := &stubDetailer{
		details: map[string]*models.FilmDetail{"/a/": {PosterURL: "p.jpg"}},
	}
	d := testDetail(api, ca)

	movies := []*models.Movie{{Key: "/a/", Title: "A"}}
	d.EnrichAll(context.Background(), movies, false)
	if api.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", api.calls)
	}

	movies[0].Detail = nil
	d.EnrichAll(context.Background(), movies, false)
	if api.calls != 1 {
		t.Errorf("cache hit should skip the fetch, got %d calls", api.calls)
	}
	if movies[0].Detail == nil || movies[0].Detail.PosterURL != "p.jpg" {
		t.Errorf("expected cached detail, got %+v", movies[0].Detail)
	}
}
