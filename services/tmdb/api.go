package tmdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	apiKeyFlag     = "tmdb-api-key"
	apiBaseURLFlag = "tmdb-api-base-url"
	apiLangFlag    = "tmdb-api-language"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   apiBaseURLFlag,
			Usage:  "tmdb api base url",
			EnvVar: "TMDB_API_BASE_URL",
			Value:  "https://api.themoviedb.org/3",
		},
		cli.StringFlag{
			Name:   apiLangFlag,
			Usage:  "tmdb api language",
			EnvVar: "TMDB_API_LANGUAGE",
			Value:  "en-US",
		},
		cli.StringFlag{
			Name:   apiKeyFlag,
			Usage:  "tmdb api key",
			Value:  "",
			EnvVar: "TMDB_API_KEY",
		},
	)
}

// SearchResult is one row of a TMDB search response.
type SearchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Details is the per-title payload with credits appended.
type Details struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Name             string `json:"name"`
	PosterPath       string `json:"poster_path"`
	BackdropPath     string `json:"backdrop_path"`
	OriginalLanguage string `json:"original_language"`
	Runtime          int    `json:"runtime"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		ISO  string `json:"iso_3166_1"`
		Name string `json:"name"`
	} `json:"production_countries"`
	Credits struct {
		Cast []struct {
			Name      string `json:"name"`
			Character string `json:"character"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// Api is the TMDB search+detail client. A nil Api means the provider
// credential is not configured.
type Api struct {
	url            string
	lang           string
	cl             *http.Client
	prepareRequest func(r *http.Request) (*http.Request, error)
}

func New(c *cli.Context, cl *http.Client) *Api {
	key := c.String(apiKeyFlag)
	if key == "" {
		return nil
	}
	u := c.String(apiBaseURLFlag)
	lang := c.String(apiLangFlag)
	prepareRequest := func(r *http.Request) (*http.Request, error) {
		q := r.URL.Query()
		q.Set("api_key", key)
		r.URL.RawQuery = q.Encode()
		r.Header.Set("Accept", "application/json")
		return r, nil
	}
	log.Infof("tmdb api endpoint %v", u)
	return &Api{
		url:            u,
		lang:           lang,
		cl:             cl,
		prepareRequest: prepareRequest,
	}
}

func (api *Api) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", api.url+path, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	q := req.URL.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if api.lang != "" {
		q.Set("language", api.lang)
	}
	req.URL.RawQuery = q.Encode()
	req, err = api.prepareRequest(req)
	if err != nil {
		return errors.Wrap(err, "prepare request")
	}
	resp, err := api.cl.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("tmdb %v returned %v", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// SearchMovie searches movies by title, optionally scoped to a
// primary release year.
func (api *Api) SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if year != "" {
		params.Set("primary_release_year", year)
	}
	var resp searchResponse
	if err := api.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchMulti runs the combined-media search across all TMDB kinds.
func (api *Api) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	var resp searchResponse
	if err := api.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetDetails fetches the full record, credits included, for one match.
// mediaType is "movie" or "tv".
func (api *Api) GetDetails(ctx context.Context, mediaType string, id int64) (*Details, error) {
	path := "/movie/"
	if mediaType == MediaTypeTV {
		path = "/tv/"
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")
	var d Details
	if err := api.get(ctx, path+formatID(id), params, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
