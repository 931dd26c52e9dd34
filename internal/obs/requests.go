package obs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

type SceneList struct {
	Scenes              []string
	CurrentProgramScene string
}

type StreamStatus struct {
	Active        bool    `json:"outputActive"`
	Reconnecting  bool    `json:"outputReconnecting"`
	Timecode      string  `json:"outputTimecode"`
	Duration      int64   `json:"outputDuration"`
	Congestion    float64 `json:"outputCongestion"`
	Bytes         int64   `json:"outputBytes"`
	SkippedFrames int64   `json:"outputSkippedFrames"`
	TotalFrames   int64   `json:"outputTotalFrames"`
}

type RecordStatus struct {
	Active   bool   `json:"outputActive"`
	Paused   bool   `json:"outputPaused"`
	Timecode string `json:"outputTimecode"`
	Duration int64  `json:"outputDuration"`
	Bytes    int64  `json:"outputBytes"`
}

type Stats struct {
	CPUUsage               float64 `json:"cpuUsage"`
	MemoryUsage            float64 `json:"memoryUsage"`
	AvailableDiskSpace     float64 `json:"availableDiskSpace"`
	ActiveFPS              float64 `json:"activeFps"`
	AverageFrameRenderTime float64 `json:"averageFrameRenderTime"`
	RenderSkippedFrames    int64   `json:"renderSkippedFrames"`
	RenderTotalFrames      int64   `json:"renderTotalFrames"`
	OutputSkippedFrames    int64   `json:"outputSkippedFrames"`
	OutputTotalFrames      int64   `json:"outputTotalFrames"`
}

type Version struct {
	OBSVersion          string   `json:"obsVersion"`
	OBSWebSocketVersion string   `json:"obsWebSocketVersion"`
	RPCVersion          int      `json:"rpcVersion"`
	Platform            string   `json:"platform"`
	PlatformDescription string   `json:"platformDescription"`
	AvailableRequests   []string `json:"availableRequests"`
}

type Input struct {
	Name                 string `json:"inputName"`
	Kind                 string `json:"inputKind"`
	UnversionedInputKind string `json:"unversionedInputKind"`
}

type ScreenshotRequest struct {
	SourceName         string `json:"sourceName"`
	ImageFormat        string `json:"imageFormat"`
	ImageWidth         int    `json:"imageWidth,omitempty"`
	ImageHeight        int    `json:"imageHeight,omitempty"`
	CompressionQuality int    `json:"imageCompressionQuality,omitempty"`
}

type Screenshot struct {
	Format string
	Data   []byte
}

// call runs a request and decodes its responseData into out. A nil out
// means the request has no interesting reply.
func (c *Client) call(ctx context.Context, requestType string, requestData any, out any) error {
	data, err := c.Request(ctx, requestType, requestData)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%s: %w", requestType, ErrMissingResponseData)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", requestType, ErrUnexpectedMessage, err)
	}
	return nil
}

func (c *Client) GetSceneList(ctx context.Context) (SceneList, error) {
	var resp struct {
		CurrentProgramSceneName string `json:"currentProgramSceneName"`
		Scenes                  []struct {
			SceneName  string `json:"sceneName"`
			SceneIndex int    `json:"sceneIndex"`
		} `json:"scenes"`
	}
	if err := c.call(ctx, "GetSceneList", nil, &resp); err != nil {
		return SceneList{}, err
	}
	list := SceneList{
		Scenes:              make([]string, 0, len(resp.Scenes)),
		CurrentProgramScene: resp.CurrentProgramSceneName,
	}
	for _, scene := range resp.Scenes {
		list.Scenes = append(list.Scenes, scene.SceneName)
	}
	return list, nil
}

func (c *Client) SetCurrentProgramScene(ctx context.Context, sceneName string) error {
	return c.call(ctx, "SetCurrentProgramScene", map[string]any{
		"sceneName": sceneName,
	}, nil)
}

// SetInputText replaces the text setting of a text input, keeping its
// other settings.
func (c *Client) SetInputText(ctx context.Context, inputName, text string) error {
	return c.call(ctx, "SetInputSettings", map[string]any{
		"inputName":     inputName,
		"inputSettings": map[string]any{"text": text},
		"overlay":       true,
	}, nil)
}

// GetInputList returns input names, filtered by kind when kind is set.
func (c *Client) GetInputList(ctx context.Context, kind string) ([]string, error) {
	inputs, err := c.GetInputs(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(inputs))
	for _, input := range inputs {
		names = append(names, input.Name)
	}
	return names, nil
}

func (c *Client) GetInputs(ctx context.Context, kind string) ([]Input, error) {
	var requestData any
	if kind != "" {
		requestData = map[string]any{"inputKind": kind}
	}
	var resp struct {
		Inputs []Input `json:"inputs"`
	}
	if err := c.call(ctx, "GetInputList", requestData, &resp); err != nil {
		return nil, err
	}
	if resp.Inputs == nil {
		resp.Inputs = []Input{}
	}
	return resp.Inputs, nil
}

func (c *Client) StartStream(ctx context.Context) error {
	return c.call(ctx, "StartStream", nil, nil)
}

func (c *Client) StopStream(ctx context.Context) error {
	return c.call(ctx, "StopStream", nil, nil)
}

func (c *Client) GetStreamStatus(ctx context.Context) (StreamStatus, error) {
	var status StreamStatus
	err := c.call(ctx, "GetStreamStatus", nil, &status)
	return status, err
}

func (c *Client) StartRecord(ctx context.Context) error {
	return c.call(ctx, "StartRecord", nil, nil)
}

// StopRecord returns the path of the finished recording.
func (c *Client) StopRecord(ctx context.Context) (string, error) {
	var resp struct {
		OutputPath string `json:"outputPath"`
	}
	data, err := c.Request(ctx, "StopRecord", nil)
	if err != nil {
		return "", err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("StopRecord: %w: %w", ErrUnexpectedMessage, err)
		}
	}
	return resp.OutputPath, nil
}

func (c *Client) PauseRecord(ctx context.Context) error {
	return c.call(ctx, "PauseRecord", nil, nil)
}

func (c *Client) ResumeRecord(ctx context.Context) error {
	return c.call(ctx, "ResumeRecord", nil, nil)
}

func (c *Client) GetRecordStatus(ctx context.Context) (RecordStatus, error) {
	var status RecordStatus
	err := c.call(ctx, "GetRecordStatus", nil, &status)
	return status, err
}

func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.call(ctx, "GetStats", nil, &stats)
	return stats, err
}

func (c *Client) GetVersion(ctx context.Context) (Version, error) {
	var version Version
	err := c.call(ctx, "GetVersion", nil, &version)
	return version, err
}

func (c *Client) GetSourceScreenshot(ctx context.Context, req ScreenshotRequest) (Screenshot, error) {
	if req.ImageFormat == "" {
		req.ImageFormat = "png"
	}
	var resp struct {
		ImageData string `json:"imageData"`
	}
	if err := c.call(ctx, "GetSourceScreenshot", req, &resp); err != nil {
		return Screenshot{}, err
	}
	data, err := decodeDataURI(resp.ImageData)
	if err != nil {
		return Screenshot{}, fmt.Errorf("GetSourceScreenshot: %w: %w", ErrUnexpectedMessage, err)
	}
	return Screenshot{Format: req.ImageFormat, Data: data}, nil
}

// decodeDataURI accepts "data:image/png;base64,...." or bare base64.
func decodeDataURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		_, payload, ok := strings.Cut(uri, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		uri = payload
	}
	return base64.StdEncoding.DecodeString(uri)
}
