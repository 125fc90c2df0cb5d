package model

import "time"

// PrayerLog records whether a user completed one prayer on one day.
// PrayerDate is stored as YYYY-MM-DD text.
type PrayerLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex:idx_prayer_log_day;not null" json:"userId"`
	PrayerName  string     `gorm:"uniqueIndex:idx_prayer_log_day;size:16;not null" json:"prayerName"`
	PrayerDate  string     `gorm:"uniqueIndex:idx_prayer_log_day;index;size:10;not null" json:"prayerDate"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
