package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/serpent/models"
	"github.com/use-agent/serpent/search"
)

// HTML returns a handler for POST /api/v1/html.
//
// Unlike the search endpoint, pipeline failures here become HTTP errors:
// the caller asked for raw markup and there is no degraded payload to
// return in its place.
func HTML(s *search.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.HTMLRequest
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

		resp, err := s.FetchHTML(c.Request.Context(), req.Query, search.Options{
			Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
			Locale:      req.Locale,
			NoSaveState: req.NoSaveState,
		}, req.SaveToFile, req.OutputPath)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: resp})
	}
}
