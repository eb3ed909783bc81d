package letterboxd

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/reelhistory/web-api/models"
)

// ListingKind selects which of the two paginated profile listings to
// walk.
type ListingKind string

const (
	ListingFilms ListingKind = "films"
	ListingDiary ListingKind = "diary"
)

// Paginate walks one listing kind page by page until the site reports
// no further pages or the page cap is reached. Reaching the cap is
// silent truncation, not an error.
//
// An empty first page means the user has no data under this listing
// (or does not exist); only page 1 can signal that unambiguously, so
// it short-circuits. A transport failure on page 1 is returned to the
// caller; on any later page the listing is truncated at what was
// already collected.
func (api *Api) Paginate(ctx context.Context, username string, kind ListingKind) ([]models.RawEntry, error) {
	var all []models.RawEntry
	for page := 1; page <= api.maxPages; page++ {
		doc, err := api.fetchDocument(ctx, api.listingPageURL(username, kind, page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.WithError(err).Warnf("%v listing truncated at page %v for %v", kind, page, username)
			return all, nil
		}
		entries, hasNext := api.parseListing(doc, kind)
		if page == 1 && len(entries) == 0 {
			return nil, nil
		}
		all = append(all, entries...)
		if !hasNext {
			break
		}
	}
	return all, nil
}

func (api *Api) listingPageURL(username string, kind ListingKind, page int) string {
	if kind == ListingDiary {
		return api.diaryPageURL(username, page)
	}
	return api.filmsPageURL(username, page)
}

func (api *Api) parseListing(doc *goquery.Document, kind ListingKind) ([]models.RawEntry, bool) {
	if kind == ListingDiary {
		return parseDiaryPage(doc)
	}
	return parseFilmsPage(doc)
}
