package db

import "time"

// firingRecordModel is one "alert fired" row. The composite unique
// index is what makes Record idempotent under concurrent ticks.
type firingRecordModel struct {
	ID        uint   `gorm:"primaryKey"`
	Day       string `gorm:"uniqueIndex:idx_firings_day_kind_prayer,priority:1;not null"`
	Kind      string `gorm:"uniqueIndex:idx_firings_day_kind_prayer,priority:2;not null"`
	Prayer    string `gorm:"uniqueIndex:idx_firings_day_kind_prayer,priority:3;not null"`
	CreatedAt time.Time
}

func (firingRecordModel) TableName() string { return "alert_firings" }
