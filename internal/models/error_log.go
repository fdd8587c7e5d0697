package models

import (
	"time"

	"gorm.io/gorm"
)

// ErrorLog stores non-fatal runtime errors (failed inference calls,
// window queries, launcher opens) so a stuck monitor can be diagnosed
// after the fact. Detection results themselves are never persisted.
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Source    string         `gorm:"not null;index" json:"source"` // "inference", "window", "launcher"
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
