package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/serpent/cache"
	"github.com/use-agent/serpent/models"
	"github.com/use-agent/serpent/search"
)

// Search returns a handler for POST /api/v1/search.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Cache lookup (when max_age_ms > 0).
//  3. Searcher.Search → structured results.
//  4. Cache store, respond 200.
//
// Pipeline failures surface inside the result list, so this endpoint
// answers 200 whenever the input was valid.
func Search(s *search.Searcher, cc *cache.Cache, defaultLocale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.APIResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		locale := req.Locale
		if locale == "" {
			locale = defaultLocale
		}

		var cacheKey string
		if cc != nil && req.MaxAgeMs > 0 {
			cacheKey = cache.Key(req.Query, req.Limit, locale)
			maxAge := time.Duration(req.MaxAgeMs) * time.Millisecond
			if cached, hit := cc.Get(cacheKey, maxAge); hit {
				c.JSON(http.StatusOK, models.APIResponse{
					Success:     true,
					Data:        cached,
					CacheStatus: "hit",
				})
				return
			}
		}

		resp, err := s.Search(c.Request.Context(), req.Query, search.Options{
			Limit:       req.Limit,
			Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
			Locale:      req.Locale,
			NoSaveState: req.NoSaveState,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		out := models.APIResponse{Success: true, Data: resp}
		if cacheKey != "" {
			cc.Set(cacheKey, resp)
			out.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, out)
	}
}

// respondError maps a SearchError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	searchErr, ok := err.(*models.SearchError)
	if !ok {
		searchErr = models.NewSearchError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(searchErr), models.APIResponse{
		Success: false,
		Error:   searchErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.SearchError) int {
	switch e.Code {
	case models.ErrCodeNavTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeChallenge, models.ErrCodeInputNotFound, models.ErrCodeResultsNotFound:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
