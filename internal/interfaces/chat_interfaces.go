package interfaces

import (
	"context"
	"rentalChat/internal/models"
)

// MessageStore is the durable message log.
type MessageStore interface {
	Append(ctx context.Context, message *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, messageID uint) (*models.Message, error)
	ListByRental(ctx context.Context, rentalID uint) ([]models.Message, error)
	ListBetween(ctx context.Context, a, b uint) ([]models.Message, error)
	ListReplies(ctx context.Context, parentID uint) ([]models.Message, error)
	ListRecentByParticipant(ctx context.Context, userID uint) ([]models.InboxEntry, error)
	HasParticipantOnRental(ctx context.Context, rentalID, userID uint) (bool, error)
}

type UserLookup interface {
	AllExist(ctx context.Context, userIDs ...uint) (bool, error)
}

type RentalOwnerLookup interface {
	FindOwner(ctx context.Context, rentalID uint) (uint, error)
}

// Pusher delivers a payload to a live connection. It reports false when
// the user is not connected.
type Pusher interface {
	Push(userID uint, payload []byte) bool
}
