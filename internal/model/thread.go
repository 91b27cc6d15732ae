package model

import "time"

// Thread is a named grouping of messages owned by a user. The wire format
// keeps the original "messages poll" naming.
type Thread struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the threads table name.
func (Thread) TableName() string {
	return "messages_polls"
}
