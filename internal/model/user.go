package model

import "time"

// User is an account that tracks its daily prayers.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	TelegramChatID string    `gorm:"index;size:64" json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
