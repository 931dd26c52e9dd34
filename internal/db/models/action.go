package models

import (
	"time"

	"github.com/mattn/go-nulltype"
	"gorm.io/gorm"
)

// ControlAction is one request sent to OBS.
type ControlAction struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	RequestType string              `json:"request_type" gorm:"index"`
	RequestID   string              `json:"request_id"`
	RequestData string              `json:"request_data"`
	Success     bool                `json:"success"`
	Error       nulltype.NullString `json:"error"`
	DurationMS  int64               `json:"duration_ms"`
	CreatedAt   time.Time           `json:"created_at" gorm:"index"`
}

func (a ControlAction) TableName() string {
	return "control_actions"
}

func CreateControlAction(db *gorm.DB, action *ControlAction) error {
	return db.Create(action).Error
}

// ListRecentControlActions returns up to limit actions, newest first.
func ListRecentControlActions(db *gorm.DB, limit int) ([]ControlAction, error) {
	var actions []ControlAction
	err := db.Order("created_at desc, id desc").Limit(limit).Find(&actions).Error
	return actions, err
}

func CountControlActions(db *gorm.DB) (int, error) {
	var count int64
	err := db.Model(&ControlAction{}).Count(&count).Error
	return int(count), err
}
