package models

// InboxEntry is the newest message of one conversation together with
// the display details of its sender.
type InboxEntry struct {
	Message
	ConversationKey ConversationKey `json:"conversation_key"`
	SenderName      string          `json:"sender_name"`
	SenderEmail     *string         `json:"sender_email"`
}
