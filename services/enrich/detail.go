package enrich

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/cache"
)

const detailTTLDaysFlag = "cache-ttl-film-detail-days"

func RegisterDetailFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.IntFlag{
			Name:   detailTTLDaysFlag,
			Usage:  "film detail cache ttl in days",
			EnvVar: "CACHE_TTL_FILM_DETAIL_DAYS",
			Value:  28,
		},
	)
}

// FilmDetailer fetches the source site's own per-film page.
type FilmDetailer interface {
	GetFilmDetail(ctx context.Context, key string) (*models.FilmDetail, error)
}

var detailScope = cache.Scope{Name: "film-detail", Version: "v1"}

// Detail enriches canonical records with facts scraped from each
// film's native page, one cache entry per film key. Film-level facts
// rarely change, hence the long TTL.
type Detail struct {
	api        FilmDetailer
	cache      *cache.Cache
	ttl        time.Duration
	chunkSize  int
	chunkDelay time.Duration
}

func NewDetail(c *cli.Context, api FilmDetailer, ca *cache.Cache) *Detail {
	size, delay := chunkOptions(c)
	return &Detail{
		api:        api,
		cache:      ca,
		ttl:        time.Duration(c.Int(detailTTLDaysFlag)) * 24 * time.Hour,
		chunkSize:  size,
		chunkDelay: delay,
	}
}

// EnrichAll attaches a FilmDetail to every record, mutating in place.
// A failed fetch leaves that record with an empty detail and moves on;
// partial failure shows up in the data, never as an aborted run.
func (s *Detail) EnrichAll(ctx context.Context, movies []*models.Movie, force bool) {
	_ = inChunks(ctx, movies, s.chunkSize, s.chunkDelay, func(ctx context.Context, m *models.Movie) error {
		s.enrich(ctx, m, force)
		return nil
	})
}

func (s *Detail) enrich(ctx context.Context, m *models.Movie, force bool) {
	if !force {
		var fd models.FilmDetail
		if s.cache.GetJSON(ctx, detailScope, m.Key, &fd) {
			m.Detail = &fd
			return
		}
	}
	fd, err := s.api.GetFilmDetail(ctx, m.Key)
	if err != nil {
		log.WithError(err).Warnf("film detail unavailable for %v", m.Key)
		m.Detail = &models.FilmDetail{}
		return
	}
	m.Detail = fd
	s.cache.SetJSON(ctx, detailScope, m.Key, fd, s.ttl)
}
