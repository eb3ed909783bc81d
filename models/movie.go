package models

// RawEntry is a single row scraped from one of the two profile
// listings. All fields are strings as they appear on the page; an
// empty Key means the row cannot be merged and is dropped before
// reconciliation.
type RawEntry struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	ReleaseYear string `json:"releaseYear,omitempty"`
	Rating      string `json:"rating,omitempty"`
	WatchDate   string `json:"watchDate,omitempty"`
}

// Movie is the canonical per-film record produced by reconciliation.
// Enrichment stages only ever add the optional Detail/Provider fields,
// never touch the merge-derived ones.
type Movie struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	ReleaseYear string `json:"releaseYear,omitempty"`
	Rating      string `json:"rating,omitempty"`
	WatchDate   string `json:"watchDate,omitempty"`

	Detail   *FilmDetail    `json:"detail,omitempty"`
	Provider *ProviderMatch `json:"provider,omitempty"`
}

// CastMember is one cast credit from the film page.
type CastMember struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// CrewMember is one crew credit from the film page.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// FilmDetail holds supplementary facts scraped from the source site's
// own film page. Unreachable sections come back as empty slices.
type FilmDetail struct {
	Cast      []CastMember `json:"cast,omitempty"`
	Crew      []CrewMember `json:"crew,omitempty"`
	Studios   []string     `json:"studios,omitempty"`
	Countries []string     `json:"countries,omitempty"`
	Genres    []string     `json:"genres,omitempty"`
	Themes    []string     `json:"themes,omitempty"`
	PosterURL string       `json:"posterUrl,omitempty"`
}

// ProviderMatch holds supplementary metadata from TMDB. When no match
// was found NotFound is set and the rest stays empty; when the lookup
// itself failed Error carries the message. Both are terminal for the
// run.
type ProviderMatch struct {
	NotFound bool   `json:"notFound,omitempty"`
	Error    string `json:"error,omitempty"`

	ID               int64    `json:"id,omitempty"`
	MediaType        string   `json:"mediaType,omitempty"`
	PosterPath       string   `json:"posterPath,omitempty"`
	BackdropPath     string   `json:"backdropPath,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Countries        []string `json:"countries,omitempty"`
	OriginalLanguage string   `json:"originalLanguage,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	Directors        []string `json:"directors,omitempty"`
	Cast             []string `json:"cast,omitempty"`
}
