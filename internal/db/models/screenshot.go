package models

import (
	"time"

	"gorm.io/gorm"
)

type Screenshot struct {
	ID         uint           `json:"-" gorm:"primaryKey"`
	Key        string         `json:"key" gorm:"uniqueIndex"`
	SourceName string         `json:"source_name"`
	Format     string         `json:"format"`
	Size       int64          `json:"size"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s Screenshot) TableName() string {
	return "screenshots"
}

func CreateScreenshot(db *gorm.DB, screenshot *Screenshot) error {
	return db.Create(screenshot).Error
}

func FindScreenshotByKey(db *gorm.DB, key string) (Screenshot, error) {
	var screenshot Screenshot
	err := db.Where(&Screenshot{Key: key}).First(&screenshot).Error
	return screenshot, err
}

func ListRecentScreenshots(db *gorm.DB, limit int) ([]Screenshot, error) {
	var screenshots []Screenshot
	err := db.Order("created_at desc, id desc").Limit(limit).Find(&screenshots).Error
	return screenshots, err
}

func DeleteScreenshot(db *gorm.DB, key string) error {
	return db.Where(&Screenshot{Key: key}).Delete(&Screenshot{}).Error
}
