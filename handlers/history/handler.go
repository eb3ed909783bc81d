package history

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/reelhistory/web-api/models"
	"github.com/reelhistory/web-api/services/history"
)

// Fetcher runs the acquisition pipeline for one username.
type Fetcher interface {
	Fetch(ctx context.Context, username string, force bool) ([]*models.Movie, error)
}

type Handler struct {
	h Fetcher
}

// FetchUserDataResponse is the contract both acquisition paths feed
// into the dashboard: the CSV upload path produces the same movie
// shape client-side.
type FetchUserDataResponse struct {
	Username string          `json:"username"`
	Movies   []*models.Movie `json:"movies"`
	Count    int             `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{1,32}$`)

func RegisterHandler(r *gin.Engine, h Fetcher) {
	s := &Handler{h: h}
	gr := r.Group("/fetch-user-data")
	gr.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	gr.GET("", s.get)
}

func (s *Handler) get(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if !usernameRE.MatchString(username) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing or invalid username"})
		return
	}
	force := c.Query("forceRefresh") == "true"

	movies, err := s.h.Fetch(c.Request.Context(), username, force)
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no data found for user"})
		return
	}
	if errors.Is(err, history.ErrProviderNotConfigured) {
		log.Error("fetch-user-data called with no metadata provider configured")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "metadata provider not configured"})
		return
	}
	if err != nil {
		log.WithError(err).Errorf("failed to fetch history for %v", username)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to fetch user data"})
		return
	}

	c.JSON(http.StatusOK, FetchUserDataResponse{
		Username: username,
		Movies:   movies,
		Count:    len(movies),
	})
}
