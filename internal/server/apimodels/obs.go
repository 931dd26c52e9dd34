package apimodels

import "encoding/json"

type SwitchSceneRequest struct {
	SceneName string `json:"scene_name"`
}

type UpdateTextRequest struct {
	SourceName string `json:"source_name"`
	Text       string `json:"text"`
}

type OBSRequest struct {
	RequestType string          `json:"request_type"`
	RequestData json.RawMessage `json:"request_data"`
}

type ScreenshotRequest struct {
	SourceName  string `json:"source_name"`
	ImageFormat string `json:"image_format"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
}

type StreamStatusResponse struct {
	Success   bool  `json:"success"`
	Streaming bool  `json:"streaming"`
	Duration  int64 `json:"duration"`
	Bytes     int64 `json:"bytes"`
	Frames    int64 `json:"frames"`
}

type RecordStatusResponse struct {
	Success   bool  `json:"success"`
	Recording bool  `json:"recording"`
	Duration  int64 `json:"duration"`
	Bytes     int64 `json:"bytes"`
	Paused    bool  `json:"paused"`
}

type StatsResponse struct {
	Success             bool    `json:"success"`
	CPUUsage            float64 `json:"cpu_usage"`
	MemoryUsage         float64 `json:"memory_usage"`
	FPS                 float64 `json:"fps"`
	RenderMissedFrames  int64   `json:"render_missed_frames"`
	OutputSkippedFrames int64   `json:"output_skipped_frames"`
}
