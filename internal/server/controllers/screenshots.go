package controllers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/USA-RedDragon/obs-remote/internal/db/models"
	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/USA-RedDragon/obs-remote/internal/server/apimodels"
	"github.com/USA-RedDragon/obs-remote/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

func POSTScreenshot(c *gin.Context) {
	var req apimodels.ScreenshotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SourceName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_name is required"})
		return
	}
	if req.ImageFormat == "" {
		req.ImageFormat = "png"
	}
	req.ImageFormat = strings.ToLower(req.ImageFormat)
	contentType, ok := imageContentTypes[req.ImageFormat]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image_format"})
		return
	}
	if req.ImageWidth < 0 || req.ImageHeight < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image dimensions must be positive"})
		return
	}

	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	store, ok := c.MustGet("storage").(storage.Storage)
	if !ok {
		slog.Error("Failed to get storage from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	client, ok := obsFromContext(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	shot, err := client.GetSourceScreenshot(ctx, obs.ScreenshotRequest{
		SourceName:  req.SourceName,
		ImageFormat: req.ImageFormat,
		ImageWidth:  req.ImageWidth,
		ImageHeight: req.ImageHeight,
	})
	if err != nil {
		respondOBSError(c, "Failed to take screenshot", err)
		return
	}

	key := uuid.NewString() + "." + req.ImageFormat
	size, err := store.Put(ctx, key, bytes.NewReader(shot.Data), contentType)
	if err != nil {
		slog.Error("Failed to store screenshot", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	screenshot := models.Screenshot{
		Key:        key,
		SourceName: req.SourceName,
		Format:     req.ImageFormat,
		Size:       size,
	}
	if err := models.CreateScreenshot(db, &screenshot); err != nil {
		slog.Error("Failed to save screenshot record", "key", key, "error", err)
		if err := store.Delete(ctx, key); err != nil {
			slog.Warn("Failed to clean up screenshot", "key", key, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"key":     key,
		"size":    size,
	})
}

func GETScreenshots(c *gin.Context) {
	limit, ok := limitFromQuery(c)
	if !ok {
		return
	}
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	screenshots, err := models.ListRecentScreenshots(db, limit)
	if err != nil {
		slog.Error("Failed to list screenshots", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"screenshots": screenshots,
	})
}

func GETScreenshot(c *gin.Context) {
	key := c.Param("key")
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	store, ok := c.MustGet("storage").(storage.Storage)
	if !ok {
		slog.Error("Failed to get storage from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	screenshot, err := models.FindScreenshotByKey(db, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	} else if err != nil {
		slog.Error("Failed to find screenshot", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	body, err := store.Get(c.Request.Context(), screenshot.Key)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	} else if err != nil {
		slog.Error("Failed to read screenshot", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, screenshot.Size, imageContentTypes[screenshot.Format], body, nil)
}
