package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/history"
)

type stubFetcher struct {
	movies    []*models.Movie
	err       error
	lastUser  string
	lastForce bool
	calls     int
}

func (s *stubFetcher) Fetch(_ context.Context, username string, force bool) ([]*models.Movie, error) {
	s.calls++
	s.lastUser = username
	s.lastForce = force
	return s.movies, s.err
}

func setupRouter(f Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	RegisterHandler(r, f)
	return r
}

func doRequest(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetFetchUserData(t *testing.T) {
	f := &stubFetcher{movies: []*models.Movie{
		{Key: "/a/", Title: "A", WatchDate: "2022-05-01"},
		{Key: "/b/", Title: "B"},
	}}
	r := setupRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/fetch-user-data?username=someone", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp FetchUserDataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "someone" || resp.Count != 2 || len(resp.Movies) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if f.lastForce {
		t.Error("forceRefresh must default to false")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected permissive CORS header")
	}
}

func TestGetForceRefreshFlag(t *testing.T) {
	f := &stubFetcher{}
	r := setupRouter(f)
	doRequest(r, "GET", "/fetch-user-data?username=someone&forceRefresh=true")
	if !f.lastForce {
		t.Error("expected forceRefresh threaded through")
	}
}

func TestGetMissingUsername(t *testing.T) {
	f := &stubFetcher{}
	r := setupRouter(f)
	w := doRequest(r, "GET", "/fetch-user-data")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if f.calls != 0 {
		t.Error("invalid request must not start the pipeline")
	}
}

func TestGetInvalidUsername(t *testing.T) {
	r := setupRouter(&stubFetcher{})
	w := doRequest(r, "GET", "/fetch-user-data?username=no%2Fslashes")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	r := setupRouter(&stubFetcher{err: history.ErrNotFound})
	w := doRequest(r, "GET", "/fetch-user-data?username=ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetProviderNotConfigured(t *testing.T) {
	r := setupRouter(&stubFetcher{err: history.ErrProviderNotConfigured})
	w := doRequest(r, "GET", "/fetch-user-data?username=someone")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetUnexpectedFailure(t *testing.T) {
	r := setupRouter(&stubFetcher{err: errors.New("boom")})
	w := doRequest(r, "GET", "/fetch-user-data?username=someone")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestWrongMethodNotAllowed(t *testing.T) {
	r := setupRouter(&stubFetcher{})
	w := doRequest(r, "POST", "/fetch-user-data?username=someone")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
