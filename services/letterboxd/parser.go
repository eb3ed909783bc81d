package letterboxd

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reelhistory/web-api/models"
)

// parseFilmsPage extracts one page of the paginated "all films" grid.
// The grid is the primary source of title, release year and rating.
func parseFilmsPage(doc *goquery.Document) ([]models.RawEntry, bool) {
	var entries []models.RawEntry
	doc.Find("li.poster-container").Each(func(_ int, s *goquery.Selection) {
		poster := s.Find("div.film-poster").First()
		e := models.RawEntry{
			Key:         strings.TrimSpace(poster.AttrOr("data-target-link", "")),
			Title:       strings.TrimSpace(poster.AttrOr("data-film-name", "")),
			ReleaseYear: strings.TrimSpace(poster.AttrOr("data-film-release-year", "")),
		}
		if e.Title == "" {
			e.Title = strings.TrimSpace(poster.Find("img").First().AttrOr("alt", ""))
		}
		e.Rating = ratingFromClass(s.Find("p.poster-viewingdata span.rating").First())
		entries = append(entries, e)
	})
	return entries, hasNextPage(doc)
}

// parseDiaryPage extracts one page of the chronological diary. The
// diary is the only source of watch dates.
func parseDiaryPage(doc *goquery.Document) ([]models.RawEntry, bool) {
	var entries []models.RawEntry
	doc.Find("tr.diary-entry-row").Each(func(_ int, s *goquery.Selection) {
		details := s.Find("td.td-film-details").First()
		key := strings.TrimSpace(details.Find("[data-film-slug]").First().AttrOr("data-film-slug", ""))
		if key == "" {
			key = strings.TrimSpace(details.Find("a").First().AttrOr("href", ""))
		}
		e := models.RawEntry{
			Key:         key,
			Title:       strings.TrimSpace(details.Find("a").First().Text()),
			ReleaseYear: strings.TrimSpace(s.Find("td.td-released").First().Text()),
			Rating:      ratingFromClass(s.Find("td.td-rating span.rating").First()),
			WatchDate:   watchDateFromHref(s.Find("td.td-day a").First().AttrOr("href", "")),
		}
		entries = append(entries, e)
	})
	return entries, hasNextPage(doc)
}

func hasNextPage(doc *goquery.Document) bool {
	return doc.Find(".pagination a.next").Length() > 0
}

var ratedClassRE = regexp.MustCompile(`\brated-(\d{1,2})\b`)

// ratingFromClass converts the site's rated-N class (N in half-stars)
// into a half-step numeric string, e.g. rated-7 -> "3.5".
func ratingFromClass(s *goquery.Selection) string {
	m := ratedClassRE.FindStringSubmatch(s.AttrOr("class", ""))
	if m == nil {
		return ""
	}
	halves, err := strconv.Atoi(m[1])
	if err != nil || halves <= 0 {
		return ""
	}
	if halves%2 == 0 {
		return strconv.Itoa(halves / 2)
	}
	return strconv.Itoa(halves/2) + ".5"
}

var diaryDayHrefRE = regexp.MustCompile(`/for/(\d{4})/(\d{2})/(\d{2})/?$`)

// watchDateFromHref turns the diary day link
// (…/films/diary/for/2022/05/01/) into an ISO date.
func watchDateFromHref(href string) string {
	m := diaryDayHrefRE.FindStringSubmatch(strings.TrimSpace(href))
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}
