package models

import "fmt"

// ConversationKey groups messages into a conversation. It is computed
// from message data and never stored.
type ConversationKey string

func RentalConversationKey(rentalID uint) ConversationKey {
	return ConversationKey(fmt.Sprintf("rental:%d", rentalID))
}

// PairConversationKey is symmetric in its arguments.
func PairConversationKey(a, b uint) ConversationKey {
	if a > b {
		a, b = b, a
	}
	return ConversationKey(fmt.Sprintf("pair:%d:%d", a, b))
}
