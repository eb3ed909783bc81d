package letterboxd

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reelhistory/web-api/models"
)

// GetFilmDetail scrapes the film's own page for cast, crew, studios,
// countries, genres, themes and poster. Sections missing from the
// markup come back as empty slices.
func (api *Api) GetFilmDetail(ctx context.Context, key string) (*models.FilmDetail, error) {
	doc, err := api.fetchDocument(ctx, api.filmPageURL(key))
	if err != nil {
		return nil, err
	}
	return parseFilmPage(doc), nil
}

func parseFilmPage(doc *goquery.Document) *models.FilmDetail {
	fd := &models.FilmDetail{}

	doc.Find("#tab-cast a.text-slug").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		fd.Cast = append(fd.Cast, models.CastMember{
			Name: name,
			Role: strings.TrimSpace(s.AttrOr("title", "")),
		})
	})

	doc.Find("#tab-crew h3").Each(func(_ int, h *goquery.Selection) {
		job := strings.TrimSpace(h.Find("span.crewrole").First().Text())
		if job == "" {
			job = strings.TrimSpace(h.Text())
		}
		h.NextFiltered("div").Find("a.text-slug").Each(func(_ int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			if name == "" {
				return
			}
			fd.Crew = append(fd.Crew, models.CrewMember{Name: name, Job: job})
		})
	})

	doc.Find("#tab-details h3").Each(func(_ int, h *goquery.Selection) {
		section := strings.ToLower(strings.TrimSpace(h.Text()))
		values := linkTexts(h.NextFiltered("div"))
		switch {
		case strings.HasPrefix(section, "studio"):
			fd.Studios = values
		case strings.HasPrefix(section, "countr"):
			fd.Countries = values
		}
	})

	doc.Find("#tab-genres h3").Each(func(_ int, h *goquery.Selection) {
		section := strings.ToLower(strings.TrimSpace(h.Text()))
		values := linkTexts(h.NextFiltered("div"))
		switch {
		case strings.HasPrefix(section, "genre"):
			fd.Genres = values
		case strings.HasPrefix(section, "theme"):
			fd.Themes = values
		}
	})

	if src, ok := doc.Find("section.poster-list img").First().Attr("src"); ok {
		fd.PosterURL = strings.TrimSpace(src)
	}

	return fd
}

func linkTexts(s *goquery.Selection) []string {
	var out []string
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
