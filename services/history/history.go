package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"
	"golang.org/x/sync/errgroup"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/cache"
	"github.com/reelhistory/web-api/services/enrich"
	"github.com/reelhistory/web-api/services/letterboxd"
)

const userTTLHoursFlag = "cache-ttl-user-hours"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.IntFlag{
			Name:   userTTLHoursFlag,
			Usage:  "whole-user result cache ttl in hours",
			EnvVar: "CACHE_TTL_USER_HOURS",
			Value:  6,
		},
	)
}

var (
	// ErrNotFound covers invalid user, private profile and empty
	// history alike; the listings cannot tell them apart.
	ErrNotFound = errors.New("no watch history found")

	// ErrProviderNotConfigured means the TMDB credential is missing.
	ErrProviderNotConfigured = errors.New("metadata provider not configured")
)

var userScope = cache.Scope{Name: "user-history", Version: "v1"}

// History runs the full acquisition pipeline for one username:
// paginate both listings, reconcile, enrich natively then via TMDB,
// cache the whole result. The upstream profile changes often, so the
// user-scope TTL is short.
type History struct {
	lb       Paginator
	detail   Enricher
	provider Enricher
	cache    *cache.Cache
	userTTL  time.Duration
	inflight *lazymap.LazyMap[[]*models.Movie]
}

// Paginator walks one listing kind to exhaustion.
type Paginator interface {
	Paginate(ctx context.Context, username string, kind letterboxd.ListingKind) ([]models.RawEntry, error)
}

// Enricher mutates the canonical records in place, additively.
type Enricher interface {
	EnrichAll(ctx context.Context, movies []*models.Movie, force bool)
}

func New(c *cli.Context, lb *letterboxd.Api, detail *enrich.Detail, provider *enrich.Provider, ca *cache.Cache) *History {
	h := &History{
		lb:      lb,
		detail:  detail,
		cache:   ca,
		userTTL: time.Duration(c.Int(userTTLHoursFlag)) * time.Hour,
		inflight: lazymap.New[[]*models.Movie](&lazymap.Config{
			Expire:      30 * time.Second,
			ErrorExpire: 5 * time.Second,
		}),
	}
	if provider != nil {
		h.provider = provider
	}
	return h
}

// Fetch returns the enriched watch history for username. force
// suppresses every cache read for this request; writes still happen so
// the next normal request benefits. Concurrent identical requests
// coalesce onto one pipeline run.
func (s *History) Fetch(ctx context.Context, username string, force bool) ([]*models.Movie, error) {
	if s.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	if !force {
		var movies []*models.Movie
		if s.cache.GetJSON(ctx, userScope, username, &movies) {
			return movies, nil
		}
	}
	return s.inflight.Get(fmt.Sprintf("%v|%v", username, force), func() ([]*models.Movie, error) {
		return s.run(ctx, username, force)
	})
}

func (s *History) run(ctx context.Context, username string, force bool) ([]*models.Movie, error) {
	started := time.Now()

	var gridEntries, logEntries []models.RawEntry
	var gridErr, logErr error
	var g errgroup.Group
	g.Go(func() error {
		gridEntries, gridErr = s.lb.Paginate(ctx, username, letterboxd.ListingFilms)
		return nil
	})
	g.Go(func() error {
		logEntries, logErr = s.lb.Paginate(ctx, username, letterboxd.ListingDiary)
		return nil
	})
	_ = g.Wait()

	if gridErr != nil {
		log.WithError(gridErr).Warnf("films listing failed for %v", username)
	}
	if logErr != nil {
		log.WithError(logErr).Warnf("diary listing failed for %v", username)
	}
	if len(gridEntries) == 0 && len(logEntries) == 0 {
		return nil, ErrNotFound
	}

	movies := enrich.Merge(gridEntries, logEntries)
	sortMovies(movies)

	s.detail.EnrichAll(ctx, movies, force)
	s.provider.EnrichAll(ctx, movies, force)

	s.cache.SetJSON(ctx, userScope, username, movies, s.userTTL)

	log.Infof("fetched %v movies for %v in %v", len(movies), username, time.Since(started).Round(time.Millisecond))
	return movies, nil
}

// sortMovies gives the response a stable order: most recent watch
// first, undated films after, ties broken by title.
func sortMovies(movies []*models.Movie) {
	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].WatchDate != movies[j].WatchDate {
			return movies[i].WatchDate > movies[j].WatchDate
		}
		return movies[i].Title < movies[j].Title
	})
}
