package models

import "time"

type AppSettings struct {
	ID              uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version         int    `gorm:"not null;default:1"`
	DefaultModelKey string `gorm:"size:255"`
	Language        string `gorm:"not null;default:Python"`
	UpdatedAt       time.Time
}
