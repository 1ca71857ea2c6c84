package models

import (
	"time"
)

// Interaction represents a message exchanged between a patient and a doctor
// (questions, follow-up notes, visit instructions).
type Interaction struct {
	BaseModel
	SenderID   string     `gorm:"size:36;index" json:"senderId"`
	ReceiverID string     `gorm:"size:36;index" json:"receiverId"`
	Subject    string     `gorm:"size:255" json:"subject"`
	Content    string     `gorm:"type:text" json:"content"`
	IsRead     bool       `gorm:"default:false" json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`

	// Relations
	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver"`
}
