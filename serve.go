package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	wh "github.com/reelhistory/web-api/handlers/history"
	"github.com/reelhistory/web-api/services/cache"
	"github.com/reelhistory/web-api/services/enrich"
	"github.com/reelhistory/web-api/services/history"
	"github.com/reelhistory/web-api/services/letterboxd"
	"github.com/reelhistory/web-api/services/tmdb"
	w "github.com/reelhistory/web-api/services/web"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = cs.RegisterProbeFlags(c.Flags)
	c.Flags = cs.RegisterPprofFlags(c.Flags)
	c.Flags = cs.RegisterRedisClientFlags(c.Flags)
	c.Flags = w.RegisterFlags(c.Flags)
	c.Flags = letterboxd.RegisterFlags(c.Flags)
	c.Flags = tmdb.RegisterFlags(c.Flags)
	c.Flags = enrich.RegisterFlags(c.Flags)
	c.Flags = enrich.RegisterDetailFlags(c.Flags)
	c.Flags = enrich.RegisterProviderFlags(c.Flags)
	c.Flags = history.RegisterFlags(c.Flags)
}

func serve(c *cli.Context) error {
	// Setting HTTP Client
	cl := &http.Client{
		Timeout: 30 * time.Second,
	}

	var servers []cs.Servable

	// Setting Probe
	probe := cs.NewProbe(c)
	if probe != nil {
		servers = append(servers, probe)
		defer probe.Close()
	}

	// Setting Pprof
	pprof := cs.NewPprof(c)
	if pprof != nil {
		servers = append(servers, pprof)
		defer pprof.Close()
	}

	// Setting Redis
	redis := cs.NewRedisClient(c)
	defer redis.Close()

	// Setting Cache
	ca := cache.New(cache.NewRedis(redis))

	// Setting Letterboxd Api
	lb := letterboxd.New(c, cl)

	// Setting TMDB Api
	tmdbApi := tmdb.New(c, cl)
	if tmdbApi == nil {
		log.Warn("tmdb api key not set, provider enrichment disabled")
	}

	// Setting Enrichers
	detail := enrich.NewDetail(c, lb, ca)
	provider := enrich.NewProvider(c, tmdbApi, ca)

	// Setting History
	h := history.New(c, lb, detail, provider, ca)

	// Setting Gin
	r := gin.Default()
	r.RedirectTrailingSlash = false
	r.HandleMethodNotAllowed = true

	// Setting HistoryHandler
	wh.RegisterHandler(r, h)

	// Setting Web
	web := w.New(c, r)
	servers = append(servers, web)
	defer web.Close()

	// Setting Serve
	serve := cs.NewServe(servers...)

	// And SERVE!
	err := serve.Serve()
	if err != nil {
		log.WithError(err).Error("got server error")
	}
	return err
}
