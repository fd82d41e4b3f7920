package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message from one user to another.
type Message struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SenderID   string    `gorm:"not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"not null;index" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns an ID when the caller left it empty.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ConversationView summarizes the exchange between a user and one counterpart.
// The counterpart's ID is the conversation's identity.
type ConversationView struct {
	ID              string      `json:"id"`
	User            UserSummary `json:"user"`
	LastMessage     string      `json:"last_message"`
	LastMessageTime time.Time   `json:"last_message_time"`
	Unread          bool        `json:"unread"`
}
