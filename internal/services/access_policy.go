package services

import (
	"context"
	"rentalChat/internal/errs"
	"rentalChat/internal/interfaces"
	"rentalChat/internal/models"
)

// AccessPolicy decides who may write and read conversations. Writing is
// open between any two existing accounts; reading is limited to the
// conversation's participants.
type AccessPolicy struct {
	users    interfaces.UserLookup
	rentals  interfaces.RentalOwnerLookup
	messages interfaces.MessageStore
}

func NewAccessPolicy(
	users interfaces.UserLookup,
	rentals interfaces.RentalOwnerLookup,
	messages interfaces.MessageStore,
) *AccessPolicy {
	return &AccessPolicy{
		users:    users,
		rentals:  rentals,
		messages: messages,
	}
}

func (ap *AccessPolicy) CanWrite(ctx context.Context, senderID, receiverID uint) error {
	if senderID == 0 || receiverID == 0 {
		return errs.ErrMissingFields
	}
	if senderID == receiverID {
		return errs.ErrSameParticipant
	}
	ok, err := ap.users.AllExist(ctx, senderID, receiverID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrUnknownParticipant
	}
	return nil
}

// CanReadRental allows the owning landlord and anyone who has sent or
// received a message about the rental. Unknown rentals are reported as
// not found before any participation check.
func (ap *AccessPolicy) CanReadRental(ctx context.Context, identity models.Identity, rentalID uint) error {
	ownerID, err := ap.rentals.FindOwner(ctx, rentalID)
	if err != nil {
		return err
	}
	if identity.ID == ownerID {
		return nil
	}
	ok, err := ap.messages.HasParticipantOnRental(ctx, rentalID, identity.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrForbidden
	}
	return nil
}

func (ap *AccessPolicy) CanReadPair(identity models.Identity, a, b uint) error {
	if identity.ID != a && identity.ID != b {
		return errs.ErrForbidden
	}
	return nil
}

func (ap *AccessPolicy) CanReadInbox(identity models.Identity, ownerID uint) error {
	if identity.ID != ownerID && !identity.IsAdmin() {
		return errs.ErrForbidden
	}
	return nil
}

// CanReadMessage allows the two participants of a message.
func (ap *AccessPolicy) CanReadMessage(identity models.Identity, message *models.Message) error {
	if !message.Involves(identity.ID) {
		return errs.ErrForbidden
	}
	return nil
}
