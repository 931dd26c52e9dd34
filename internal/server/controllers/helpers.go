package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func obsFromContext(c *gin.Context) (*obs.Client, bool) {
	client, ok := c.MustGet("obs").(*obs.Client)
	if !ok {
		slog.Error("Failed to get OBS client from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
	}
	return client, ok
}

// respondOBSError logs err and answers with message. Timeouts map to 504
// and connect failures to 503, everything else is a 500.
func respondOBSError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, obs.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, obs.ErrConnectionFailed):
		status = http.StatusServiceUnavailable
	}
	slog.Error(message, "error", err)
	c.JSON(status, gin.H{"error": message})
}

func limitFromQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}
