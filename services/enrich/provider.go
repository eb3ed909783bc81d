package enrich

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/cache"
	"github.com/reelhistory/web-api/services/tmdb"
)

const matchTTLDaysFlag = "cache-ttl-provider-match-days"

func RegisterProviderFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.IntFlag{
			Name:   matchTTLDaysFlag,
			Usage:  "provider match cache ttl in days",
			EnvVar: "CACHE_TTL_PROVIDER_MATCH_DAYS",
			Value:  28,
		},
	)
}

var matchScope = cache.Scope{Name: "provider-match", Version: "v1"}

// providerAPI is the slice of the TMDB client the enricher needs.
type providerAPI interface {
	tmdb.Searcher
	GetDetails(ctx context.Context, mediaType string, id int64) (*tmdb.Details, error)
}

// Provider enriches canonical records through the TMDB search+detail
// API, keyed by (title, year). A record that exhausts the match ladder
// is a legitimate notFound, cached like a hit; a transport failure is
// marked on the record and not cached, so the next run retries it.
type Provider struct {
	api        providerAPI
	cache      *cache.Cache
	ttl        time.Duration
	chunkSize  int
	chunkDelay time.Duration
}

// NewProvider returns nil when the TMDB credential is not configured.
func NewProvider(c *cli.Context, api *tmdb.Api, ca *cache.Cache) *Provider {
	if api == nil {
		return nil
	}
	size, delay := chunkOptions(c)
	return &Provider{
		api:        api,
		cache:      ca,
		ttl:        time.Duration(c.Int(matchTTLDaysFlag)) * 24 * time.Hour,
		chunkSize:  size,
		chunkDelay: delay,
	}
}

// EnrichAll attaches a ProviderMatch to every record, mutating in
// place. Each record fails or succeeds on its own; siblings in the
// same chunk are never cancelled.
func (s *Provider) EnrichAll(ctx context.Context, movies []*models.Movie, force bool) {
	_ = inChunks(ctx, movies, s.chunkSize, s.chunkDelay, func(ctx context.Context, m *models.Movie) error {
		s.enrich(ctx, m, force)
		return nil
	})
}

func matchKey(title, year string) string {
	return tmdb.NormalizeTitle(title) + "|" + year
}

func (s *Provider) enrich(ctx context.Context, m *models.Movie, force bool) {
	key := matchKey(m.Title, m.ReleaseYear)
	if !force {
		var pm models.ProviderMatch
		if s.cache.GetJSON(ctx, matchScope, key, &pm) {
			m.Provider = &pm
			return
		}
	}

	candidate, category, err := tmdb.Match(ctx, s.api, m.Title, m.ReleaseYear)
	if err != nil {
		log.WithError(err).Warnf("provider match failed for %v", m.Key)
		m.Provider = &models.ProviderMatch{Error: err.Error()}
		return
	}
	if candidate == nil {
		pm := &models.ProviderMatch{NotFound: true}
		m.Provider = pm
		s.cache.SetJSON(ctx, matchScope, key, pm, s.ttl)
		return
	}

	details, err := s.api.GetDetails(ctx, category, candidate.ID)
	if err != nil {
		log.WithError(err).Warnf("provider details failed for %v", m.Key)
		m.Provider = &models.ProviderMatch{Error: err.Error()}
		return
	}

	pm := makeProviderMatch(category, details)
	m.Provider = pm
	s.cache.SetJSON(ctx, matchScope, key, pm, s.ttl)
}

func makeProviderMatch(category string, d *tmdb.Details) *models.ProviderMatch {
	pm := &models.ProviderMatch{
		ID:               d.ID,
		MediaType:        category,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		OriginalLanguage: d.OriginalLanguage,
		Runtime:          d.Runtime,
	}
	for _, g := range d.Genres {
		pm.Genres = append(pm.Genres, g.Name)
	}
	for _, c := range d.ProductionCountries {
		pm.Countries = append(pm.Countries, c.Name)
	}
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			pm.Directors = append(pm.Directors, c.Name)
		}
	}
	for _, c := range d.Credits.Cast {
		pm.Cast = append(pm.Cast, c.Name)
	}
	return pm
}
