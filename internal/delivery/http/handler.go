package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/celebco/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health check
const Version = "1.0.0"

// HomeMessage is the plaintext body served at the root path
const HomeMessage = "✅ Backend is running!"

// SearchUsecase is the search behaviour the handlers depend on
type SearchUsecase interface {
	Search(ctx context.Context, rawQuery string) (*domain.SearchResponse, error)
	CorpusSize() int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService SearchUsecase) *Handler {
	return &Handler{searchService: searchService}
}

// Home confirms the service is up
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, HomeMessage)
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	records := 0
	if h.searchService != nil {
		records = h.searchService.CorpusSize()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "celebco-backend",
		"version": Version,
		"records": records,
	})
}

// Search handles GET /search?q=<query>
func (h *Handler) Search(c *gin.Context) {
	response, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Preflight answers OPTIONS requests that carry no Origin header
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondError translates an error into a JSON body and status code.
// Unknown errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, domain.MsgInternal

	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		status, message = http.StatusBadRequest, domain.MsgInvalidQuery
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, domain.MsgRateLimited
	case errors.Is(err, domain.ErrOriginNotAllowed):
		status, message = http.StatusForbidden, domain.MsgOriginNotAllowed
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
