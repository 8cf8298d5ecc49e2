package models

import (
	"time"
)

// Message is immutable once stored. RentalID scopes the message to a
// listing conversation; without it the message belongs to the direct
// thread between its two participants.
type Message struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Body       string    `gorm:"column:message;type:text;not null" json:"message"`
	RentalID   *uint     `gorm:"index" json:"rental_id"`
	ParentID   *uint     `json:"parent_id"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (message *Message) ConversationKey() ConversationKey {
	if message.RentalID != nil {
		return RentalConversationKey(*message.RentalID)
	}
	return PairConversationKey(message.SenderID, message.ReceiverID)
}

// Involves reports whether userID sent or received the message.
func (message *Message) Involves(userID uint) bool {
	return message.SenderID == userID || message.ReceiverID == userID
}
