package controllers

import (
	"context"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/USA-RedDragon/obs-remote/internal/server/apimodels"
	"github.com/gin-gonic/gin"
)

func outputAction(c *gin.Context, action, message, failure string, run func(*obs.Client, context.Context) error) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	if err := run(client, c.Request.Context()); err != nil {
		respondOBSError(c, failure, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"action":  action,
		"message": message,
	})
}

func POSTStartStream(c *gin.Context) {
	outputAction(c, "stream_started", "Live stream started successfully", "Failed to start stream",
		(*obs.Client).StartStream)
}

func POSTStopStream(c *gin.Context) {
	outputAction(c, "stream_stopped", "Live stream stopped successfully", "Failed to stop stream",
		(*obs.Client).StopStream)
}

func GETStreamStatus(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	status, err := client.GetStreamStatus(c.Request.Context())
	if err != nil {
		respondOBSError(c, "Failed to get stream status", err)
		return
	}
	c.JSON(http.StatusOK, apimodels.StreamStatusResponse{
		Success:   true,
		Streaming: status.Active,
		Duration:  status.Duration,
		Bytes:     status.Bytes,
		Frames:    status.SkippedFrames,
	})
}

func POSTStartRecording(c *gin.Context) {
	outputAction(c, "recording_started", "Recording started successfully", "Failed to start recording",
		(*obs.Client).StartRecord)
}

func POSTStopRecording(c *gin.Context) {
	outputAction(c, "recording_stopped", "Recording stopped successfully", "Failed to stop recording",
		func(client *obs.Client, ctx context.Context) error {
			_, err := client.StopRecord(ctx)
			return err
		})
}

func POSTPauseRecording(c *gin.Context) {
	outputAction(c, "recording_paused", "Recording paused successfully", "Failed to pause recording",
		(*obs.Client).PauseRecord)
}

func POSTResumeRecording(c *gin.Context) {
	outputAction(c, "recording_resumed", "Recording resumed successfully", "Failed to resume recording",
		(*obs.Client).ResumeRecord)
}

func GETRecordingStatus(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	status, err := client.GetRecordStatus(c.Request.Context())
	if err != nil {
		respondOBSError(c, "Failed to get recording status", err)
		return
	}
	c.JSON(http.StatusOK, apimodels.RecordStatusResponse{
		Success:   true,
		Recording: status.Active,
		Duration:  status.Duration,
		Bytes:     status.Bytes,
		Paused:    status.Paused,
	})
}

func GETStats(c *gin.Context) {
	client, ok := obsFromContext(c)
	if !ok {
		return
	}
	stats, err := client.GetStats(c.Request.Context())
	if err != nil {
		respondOBSError(c, "Failed to get OBS stats", err)
		return
	}
	c.JSON(http.StatusOK, apimodels.StatsResponse{
		Success:             true,
		CPUUsage:            stats.CPUUsage,
		MemoryUsage:         stats.MemoryUsage,
		FPS:                 stats.ActiveFPS,
		RenderMissedFrames:  stats.RenderSkippedFrames,
		OutputSkippedFrames: stats.OutputSkippedFrames,
	})
}
