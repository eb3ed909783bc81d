package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/reelhistory/web-api/services/cache"
	"github.com/reelhistory/web-api/services/enrich"
	"github.com/reelhistory/web-api/services/history"
	"github.com/reelhistory/web-api/services/letterboxd"
	"github.com/reelhistory/web-api/services/tmdb"
)

func makeFetchCMD() cli.Command {
	fetchCMD := cli.Command{
		Name:    "fetch",
		Aliases: []string{"f"},
		Usage:   "Fetches one user's enriched watch history and prints it as JSON",
		Action:  fetch,
	}
	configureFetch(&fetchCMD)
	return fetchCMD
}

func configureFetch(c *cli.Command) {
	c.Flags = append(c.Flags,
		cli.StringFlag{
			Name:  "username",
			Usage: "username to fetch",
		},
	)
	c.Flags = letterboxd.RegisterFlags(c.Flags)
	c.Flags = tmdb.RegisterFlags(c.Flags)
	c.Flags = enrich.RegisterFlags(c.Flags)
	c.Flags = enrich.RegisterDetailFlags(c.Flags)
	c.Flags = enrich.RegisterProviderFlags(c.Flags)
	c.Flags = history.RegisterFlags(c.Flags)
}

func fetch(c *cli.Context) error {
	username := c.String("username")
	if username == "" {
		return errors.New("username is required")
	}

	// Setting HTTP Client
	cl := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Setting Cache
	ca := cache.New(cache.NewMemory())

	// Setting Letterboxd Api
	lb := letterboxd.New(c, cl)

	// Setting TMDB Api
	tmdbApi := tmdb.New(c, cl)

	// Setting Enrichers
	detail := enrich.NewDetail(c, lb, ca)
	provider := enrich.NewProvider(c, tmdbApi, ca)

	// Setting History
	h := history.New(c, lb, detail, provider, ca)

	movies, err := h.Fetch(context.Background(), username, true)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(movies)
}
