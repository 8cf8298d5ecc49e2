package models

type SendMessageRequest struct {
	SenderID   uint   `json:"sender_id"`
	ReceiverID uint   `json:"receiver_id"`
	Message    string `json:"message"`
	RentalID   *uint  `json:"rental_id"`
	ParentID   *uint  `json:"parent_id"`
}

func (request *SendMessageRequest) ToMessage() *Message {
	return &Message{
		SenderID:   request.SenderID,
		ReceiverID: request.ReceiverID,
		Body:       request.Message,
		RentalID:   request.RentalID,
		ParentID:   request.ParentID,
	}
}
