package enrich

import (
	"github.com/reelhistory/web-api/models"
)

// Merge reconciles the two listings into one record per film key.
//
// The films grid seeds the result: it is the most complete and
// deduplicated view, so its title, year and rating win whenever both
// sources carry a value. Diary rows then fill rating/year only where
// the grid left them empty, and always set the watch date, which the
// grid never has; when a film was logged more than once the last diary
// row wins, which is fine because watch-date aggregation downstream
// works at year granularity. Rows without a film key cannot be
// addressed by enrichment and are dropped.
func Merge(gridEntries, logEntries []models.RawEntry) []*models.Movie {
	byKey := map[string]*models.Movie{}
	var out []*models.Movie

	for _, e := range gridEntries {
		if e.Key == "" {
			continue
		}
		if _, ok := byKey[e.Key]; ok {
			continue
		}
		m := &models.Movie{
			Key:         e.Key,
			Title:       e.Title,
			ReleaseYear: e.ReleaseYear,
			Rating:      e.Rating,
		}
		byKey[e.Key] = m
		out = append(out, m)
	}

	for _, e := range logEntries {
		if e.Key == "" {
			continue
		}
		m, ok := byKey[e.Key]
		if !ok {
			m = &models.Movie{
				Key:         e.Key,
				Title:       e.Title,
				ReleaseYear: e.ReleaseYear,
				Rating:      e.Rating,
			}
			byKey[e.Key] = m
			out = append(out, m)
		} else {
			if m.Rating == "" {
				m.Rating = e.Rating
			}
			if m.ReleaseYear == "" {
				m.ReleaseYear = e.ReleaseYear
			}
		}
		if e.WatchDate != "" {
			m.WatchDate = e.WatchDate
		}
	}

	return out
}
