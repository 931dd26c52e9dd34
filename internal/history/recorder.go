package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/USA-RedDragon/obs-remote/internal/db/models"
	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/mattn/go-nulltype"
	"gorm.io/gorm"
)

const QueueDepth = 100

// Recorder writes one ControlAction row per OBS request. Writes happen on
// the Start goroutine so a slow database never holds up a request.
type Recorder struct {
	db        *gorm.DB
	queue     chan models.ControlAction
	closeChan chan any

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{
		db:        db,
		queue:     make(chan models.ControlAction, QueueDepth),
		closeChan: make(chan any),
	}
}

// Start blocks until Stop is called, then drains what is left.
func (r *Recorder) Start() {
	for action := range r.queue {
		if err := models.CreateControlAction(r.db, &action); err != nil {
			slog.Error("Failed to record control action", "request_type", action.RequestType, "error", err)
		}
	}
	r.closeChan <- struct{}{}
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.closeChan
}

func (r *Recorder) ObserveRequest(_ context.Context, record obs.RequestRecord) {
	action := models.ControlAction{
		RequestType: record.RequestType,
		RequestID:   record.RequestID,
		Success:     record.Err == nil,
		DurationMS:  record.Duration.Milliseconds(),
	}
	if data, err := json.Marshal(record.RequestData); err == nil {
		action.RequestData = string(data)
	}
	if record.Err != nil {
		action.Error = nulltype.NullStringOf(record.Err.Error())
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- action:
	default:
		slog.Warn("History queue is full, dropping control action", "request_type", record.RequestType)
	}
}

func (r *Recorder) ObserveConnection(bool) {}

func (r *Recorder) ObserveEvent(string) {}
