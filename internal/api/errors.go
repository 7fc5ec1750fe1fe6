package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/logger"
	"github.com/pageza/healthbite/backend/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondError maps service and pipeline errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		parseErr     *ai.ParseError
		upstreamErr  *ai.UpstreamError
		transportErr *ai.TransportError
	)

	switch {
	case errors.Is(err, ai.ErrMissingCredential):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "recipe analysis is not configured", Code: "ai_not_configured"})
	case errors.As(err, &parseErr):
		logger.Get().Warn("unusable completion", zap.Error(parseErr), zap.String("raw", truncate(parseErr.Raw, 500)))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "recipe analysis returned an unusable response", Code: "ai_response_invalid", Details: parseErr.Error()})
	case errors.As(err, &upstreamErr):
		logger.Get().Warn("completion request rejected", zap.Int("status", upstreamErr.StatusCode))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "recipe analysis service failed", Code: "ai_upstream_error"})
	case errors.As(err, &transportErr):
		logger.Get().Warn("completion request failed", zap.Error(transportErr.Err))
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, ErrorResponse{Error: "recipe analysis service is unreachable", Code: "ai_transport_error"})
	case errors.Is(err, service.ErrScrapeFailed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "scrape_failed"})
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		logger.Get().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
