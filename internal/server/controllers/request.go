package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/USA-RedDragon/obs-remote/internal/server/apimodels"
	"github.com/gin-gonic/gin"
)

// POSTOBSRequest forwards an arbitrary request type to OBS.
func POSTOBSRequest(c *gin.Context) {
	var req apimodels.OBSRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RequestType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_type is required"})
		return
	}

	client, ok := obsFromContext(c)
	if !ok {
		return
	}

	var requestData any
	if len(req.RequestData) > 0 && string(req.RequestData) != "null" {
		requestData = req.RequestData
	}
	resp, err := client.Request(c.Request.Context(), req.RequestType, requestData)
	if err != nil {
		var reqErr *obs.RequestError
		if errors.As(err, &reqErr) {
			slog.Warn("OBS rejected request", "request_type", req.RequestType, "code", reqErr.Code, "comment", reqErr.Comment)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "OBS rejected the request",
				"code":    reqErr.Code,
				"comment": reqErr.Comment,
			})
			return
		}
		if errors.Is(err, obs.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request_data"})
			return
		}
		respondOBSError(c, "Failed to send request to OBS", err)
		return
	}

	if len(resp) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"response_data": resp,
	})
}
