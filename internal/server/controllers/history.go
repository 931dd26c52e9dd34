package controllers

import (
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/db/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GETHistory(c *gin.Context) {
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
	actions, err := models.ListRecentControlActions(db, limit)
	if err != nil {
		slog.Error("Failed to list control actions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"actions": actions,
	})
}
