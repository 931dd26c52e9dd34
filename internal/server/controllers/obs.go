package controllers

import (
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/server/apimodels"
	"github.com/gin-gonic/gin"
)

func GETScenes(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	list, err := client.GetSceneList(c.Request.Context())
	if err != nil {
		respondOBSError(c, "Failed to get scenes from OBS", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"scenes":        list.Scenes,
		"current_scene": list.CurrentProgramScene,
	})
}

func POSTSwitchScene(c *gin.Context) {
	var req apimodels.SwitchSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SceneName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scene name is required"})
		return
	}
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	if err := client.SetCurrentProgramScene(c.Request.Context(), req.SceneName); err != nil {
		respondOBSError(c, "Failed to switch scene", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"scene_name": req.SceneName,
	})
}

func POSTUpdateText(c *gin.Context) {
	config, ok := c.MustGet("config").(*config.Config)
	if !ok {
		slog.Error("Failed to get config from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	var req apimodels.UpdateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.SourceName == "" {
		req.SourceName = config.OBS.DefaultTextSource
	}
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	if err := client.SetInputText(c.Request.Context(), req.SourceName, req.Text); err != nil {
		respondOBSError(c, "Failed to update text source", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"source_name": req.SourceName,
		"text":        req.Text,
	})
}

func GETSources(c *gin.Context) {
	config, ok := c.MustGet("config").(*config.Config)
	if !ok {
		slog.Error("Failed to get config from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	kind := c.DefaultQuery("kind", config.OBS.TextInputKind)
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	names, err := client.GetInputList(c.Request.Context(), kind)
	if err != nil {
		respondOBSError(c, "Failed to get text sources from OBS", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"text_sources": names,
	})
}

func GETStatus(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := client.Connect(ctx); err != nil {
		slog.Warn("OBS status check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "disconnected",
			"error":  "Cannot connect to OBS WebSocket",
		})
		return
	}
	version, err := client.GetVersion(ctx)
	if err != nil {
		slog.Warn("OBS status check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "disconnected",
			"error":  "Cannot connect to OBS WebSocket",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "connected",
		"obs_version":       version.OBSVersion,
		"websocket_version": version.OBSWebSocketVersion,
	})
}

func POSTReconnect(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	if err := client.Reconnect(c.Request.Context()); err != nil {
		slog.Error("Failed to reconnect to OBS", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconnect to OBS"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "reconnected",
	})
}
