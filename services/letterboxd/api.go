package letterboxd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	baseURLFlag  = "letterboxd-base-url"
	maxPagesFlag = "letterboxd-max-pages"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   baseURLFlag,
			Usage:  "letterboxd base url",
			EnvVar: "LETTERBOXD_BASE_URL",
			Value:  "https://letterboxd.com",
		},
		cli.IntFlag{
			Name:   maxPagesFlag,
			Usage:  "hard cap on pages fetched per listing",
			EnvVar: "LETTERBOXD_MAX_PAGES",
			Value:  30,
		},
	)
}

// Api fetches and parses the public profile pages of the film-log
// site. It never exposes markup upward, only parsed entries.
type Api struct {
	baseURL  string
	cl       *http.Client
	maxPages int
}

func New(c *cli.Context, cl *http.Client) *Api {
	u := c.String(baseURLFlag)
	log.Infof("letterboxd endpoint %v", u)
	return &Api{
		baseURL:  u,
		cl:       cl,
		maxPages: c.Int(maxPagesFlag),
	}
}

func (api *Api) filmsPageURL(username string, page int) string {
	return fmt.Sprintf("%v/%v/films/page/%v/", api.baseURL, username, page)
}

func (api *Api) diaryPageURL(username string, page int) string {
	return fmt.Sprintf("%v/%v/films/diary/page/%v/", api.baseURL, username, page)
}

func (api *Api) filmPageURL(key string) string {
	return api.baseURL + key
}

func (api *Api) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "text/html")
	resp, err := api.cl.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %v", url)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch %v: status %v", url, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %v", url)
	}
	return doc, nil
}
