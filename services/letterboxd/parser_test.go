package letterboxd

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const filmsPageFixture = `
<ul class="poster-list">
  <li class="poster-container">
    <div class="film-poster" data-target-link="/film/film-a/" data-film-name="Film A" data-film-release-year="2001">
      <img alt="Film A">
    </div>
    <p class="poster-viewingdata"><span class="rating rated-8"></span></p>
  </li>
  <li class="poster-container">
    <div class="film-poster" data-target-link="/film/film-b/">
      <img alt="Film B">
    </div>
    <p class="poster-viewingdata"></p>
  </li>
</ul>
<div class="pagination"><a class="next" href="/user/films/page/2/">Next</a></div>
`

func TestParseFilmsPage(t *testing.T) {
	entries, hasNext := parseFilmsPage(docFromString(t, filmsPageFixture))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	a := entries[0]
	if a.Key != "/film/film-a/" || a.Title != "Film A" || a.ReleaseYear != "2001" || a.Rating != "4" {
		t.Errorf("unexpected first entry %+v", a)
	}
	b := entries[1]
	if b.Key != "/film/film-b/" || b.Title != "Film B" || b.Rating != "" || b.ReleaseYear != "" {
		t.Errorf("unexpected second entry %+v", b)
	}
	if !hasNext {
		t.Error("expected has-next from pagination block")
	}
}

func TestParseFilmsPageLastPage(t *testing.T) {
	html := `<ul class="poster-list"><li class="poster-container">
		<div class="film-poster" data-target-link="/film/x/" data-film-name="X"></div>
	</li></ul><div class="pagination"></div>`
	entries, hasNext := parseFilmsPage(docFromString(t, html))
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if hasNext {
		t.Error("expected no next page")
	}
}

const diaryPageFixture = `
<table class="diary-table"><tbody>
  <tr class="diary-entry-row">
    <td class="td-day"><a href="/someone/films/diary/for/2022/05/01/">1</a></td>
    <td class="td-film-details"><h3><a href="/film/film-a/">Film A</a></h3><div data-film-slug="/film/film-a/"></div></td>
    <td class="td-released">2001</td>
    <td class="td-rating"><span class="rating rated-7"></span></td>
  </tr>
  <tr class="diary-entry-row">
    <td class="td-day"><a href="/someone/films/diary/for/2022/05/03/">3</a></td>
    <td class="td-film-details"><h3><a href="/film/film-c/">Film C</a></h3></td>
    <td class="td-released"></td>
    <td class="td-rating"></td>
  </tr>
</tbody></table>
`

func TestParseDiaryPage(t *testing.T) {
	entries, hasNext := parseDiaryPage(docFromString(t, diaryPageFixture))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	a := entries[0]
	if a.Key != "/film/film-a/" || a.Title != "Film A" || a.ReleaseYear != "2001" {
		t.Errorf("unexpected first entry %+v", a)
	}
	if a.WatchDate != "2022-05-01" {
		t.Errorf("expected ISO watch date, got %q", a.WatchDate)
	}
	if a.Rating != "3.5" {
		t.Errorf("expected half-step rating, got %q", a.Rating)
	}
	c := entries[1]
	if c.Key != "/film/film-c/" || c.WatchDate != "2022-05-03" || c.Rating != "" {
		t.Errorf("unexpected second entry %+v", c)
	}
	if hasNext {
		t.Error("expected no next page without pagination block")
	}
}

func TestParseMalformedPageYieldsNothing(t *testing.T) {
	doc := docFromString(t, `<html><body><p>profile not available</p></body></html>`)
	if entries, _ := parseFilmsPage(doc); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
	if entries, _ := parseDiaryPage(doc); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestRatingFromClass(t *testing.T) {
	cases := []struct {
		class string
		want  string
	}{
		{"rating rated-10", "5"},
		{"rating rated-7", "3.5"},
		{"rating rated-1", "0.5"},
		{"rating", ""},
		{"rating rated-large", ""},
	}
	for _, c := range cases {
		doc := docFromString(t, `<span class="`+c.class+`"></span>`)
		if got := ratingFromClass(doc.Find("span").First()); got != c.want {
			t.Errorf("ratingFromClass(%q) = %q, want %q", c.class, got, c.want)
		}
	}
}

const filmPageFixture = `
<section class="poster-list"><img src="https://img.example/poster.jpg"></section>
<div id="tab-cast">
  <a class="text-slug" title="Detective">Actor One</a>
  <a class="text-slug">Actor Two</a>
</div>
<div id="tab-crew">
  <h3><span class="crewrole">Director</span></h3>
  <div><a class="text-slug">Dir Name</a></div>
  <h3><span class="crewrole">Composer</span></h3>
  <div><a class="text-slug">Comp Name</a></div>
</div>
<div id="tab-details">
  <h3>Studios</h3><div><a>Studio X</a></div>
  <h3>Country</h3><div><a>France</a></div>
</div>
<div id="tab-genres">
  <h3>Genres</h3><div><a>Drama</a><a>Crime</a></div>
  <h3>Themes</h3><div><a>Moral dilemmas</a></div>
</div>
`

func TestParseFilmPage(t *testing.T) {
	fd := parseFilmPage(docFromString(t, filmPageFixture))
	if len(fd.Cast) != 2 || fd.Cast[0].Name != "Actor One" || fd.Cast[0].Role != "Detective" {
		t.Errorf("unexpected cast %+v", fd.Cast)
	}
	if fd.Cast[1].Role != "" {
		t.Errorf("expected empty role, got %q", fd.Cast[1].Role)
	}
	if len(fd.Crew) != 2 || fd.Crew[0].Job != "Director" || fd.Crew[1].Name != "Comp Name" {
		t.Errorf("unexpected crew %+v", fd.Crew)
	}
	if len(fd.Studios) != 1 || fd.Studios[0] != "Studio X" {
		t.Errorf("unexpected studios %+v", fd.Studios)
	}
	if len(fd.Countries) != 1 || fd.Countries[0] != "France" {
		t.Errorf("unexpected countries %+v", fd.Countries)
	}
	if len(fd.Genres) != 2 || len(fd.Themes) != 1 {
		t.Errorf("unexpected genres/themes %+v %+v", fd.Genres, fd.Themes)
	}
	if fd.PosterURL != "https://img.example/poster.jpg" {
		t.Errorf("unexpected poster %q", fd.PosterURL)
	}
}

func TestParseFilmPageEmpty(t *testing.T) {
	fd := parseFilmPage(docFromString(t, `<html><body></body></html>`))
	if fd == nil {
		t.Fatal("expected empty detail, not nil")
	}
	if len(fd.Cast) != 0 || len(fd.Crew) != 0 || len(fd.Genres) != 0 {
		t.Errorf("expected empty collections, got %+v", fd)
	}
}
