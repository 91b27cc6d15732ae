package model

import "time"

// Message is a single conversation turn half. Assistant distinguishes
// assistant-authored replies from user-authored questions. Messages are
// immutable once created; ordering is the storage-assigned id, with
// CreatedAt carried for stable display.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"message" gorm:"column:message;type:text;not null"`
	ThreadID  uint      `json:"messages_poll_id" gorm:"column:messages_poll_id;index;not null"`
	Assistant bool      `json:"assistant" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the messages table name.
func (Message) TableName() string {
	return "messages"
}

// CreateMessageRequest is the body of POST /create-message. ThreadID absent
// means a new thread is created from the message's leading words.
type CreateMessageRequest struct {
	Message  string `json:"message" validate:"required"`
	ThreadID *uint  `json:"messages_poll_id"`
}

// QueryRequest is the body of POST /query-v2.
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}
