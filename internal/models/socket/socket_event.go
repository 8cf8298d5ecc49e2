package models

// SocketEvent is the JSON frame exchanged over the chat socket. Only the
// fields relevant to Type are populated.
type SocketEvent struct {
	Type       string `json:"type"`
	SenderID   uint   `json:"sender_id,omitempty"`
	ReceiverID uint   `json:"receiver_id,omitempty"`
	RentalID   *uint  `json:"rental_id,omitempty"`
	ParentID   *uint  `json:"parent_id,omitempty"`
	Message    string `json:"message,omitempty"`
	Token      string `json:"token,omitempty"`
	Error      string `json:"error,omitempty"`
}
