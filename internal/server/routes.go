package server

import (
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/server/controllers"
	websocketControllers "github.com/USA-RedDragon/obs-remote/internal/server/websocket"
	"github.com/USA-RedDragon/obs-remote/internal/websocket"
	"github.com/gin-gonic/gin"
)

func applyRoutes(r *gin.Engine, config *config.Config, eventsWebsocket *websocketControllers.EventsWebsocket) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", requireAuth(config))
	obsRoutes(api.Group("/obs"))
	outputRoutes(api)
	api.GET("/history", controllers.GETHistory)

	r.GET("/ws/events", requireAuth(config), websocket.CreateHandler(eventsWebsocket, config))

	r.NoRoute(func(c *gin.Context) {
		slog.Warn("Not Found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

func obsRoutes(group *gin.RouterGroup) {
	group.GET("/scenes", controllers.GETScenes)
	group.POST("/scene/switch", controllers.POSTSwitchScene)
	group.POST("/text/update", controllers.POSTUpdateText)
	group.GET("/sources", controllers.GETSources)
	group.GET("/status", controllers.GETStatus)
	group.POST("/reconnect", controllers.POSTReconnect)
	group.POST("/request", controllers.POSTOBSRequest)
	group.POST("/screenshot", controllers.POSTScreenshot)
	group.GET("/screenshots", controllers.GETScreenshots)
	group.GET("/screenshots/:key", controllers.GETScreenshot)
}

func outputRoutes(group *gin.RouterGroup) {
	group.POST("/stream/start", controllers.POSTStartStream)
	group.POST("/stream/stop", controllers.POSTStopStream)
	group.GET("/stream/status", controllers.GETStreamStatus)
	group.POST("/recording/start", controllers.POSTStartRecording)
	group.POST("/recording/stop", controllers.POSTStopRecording)
	group.POST("/recording/pause", controllers.POSTPauseRecording)
	group.POST("/recording/resume", controllers.POSTResumeRecording)
	group.GET("/recording/status", controllers.GETRecordingStatus)
	group.GET("/stats", controllers.GETStats)
}
