package services

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"testing"
)

func TestCanWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.policy.CanWrite(ctx, 42, 5); err != nil {
		t.Fatalf("expected write to be allowed, got %v", err)
	}
	tests := []struct {
		name             string
		sender, receiver uint
		want             error
	}{
		{"missing sender", 0, 5, errs.ErrMissingFields},
		{"self", 42, 42, errs.ErrSameParticipant},
		{"unknown sender", 404, 5, errs.ErrUnknownParticipant},
		{"unknown receiver", 42, 404, errs.ErrUnknownParticipant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.policy.CanWrite(ctx, tt.sender, tt.receiver); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCanReadPairIsSymmetric(t *testing.T) {
	f := newFixture(t)

	for _, identity := range []uint{1, 42} {
		if err := f.policy.CanReadPair(models.Identity{ID: identity}, 1, 42); err != nil {
			t.Fatalf("participant %d: %v", identity, err)
		}
		if err := f.policy.CanReadPair(models.Identity{ID: identity}, 42, 1); err != nil {
			t.Fatalf("participant %d reversed: %v", identity, err)
		}
	}
	if err := f.policy.CanReadPair(models.Identity{ID: 9, Role: models.RoleAdmin}, 1, 42); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCanReadMessage(t *testing.T) {
	f := newFixture(t)
	message := &models.Message{SenderID: 42, ReceiverID: 5}

	if err := f.policy.CanReadMessage(models.Identity{ID: 5}, message); err != nil {
		t.Fatalf("receiver: %v", err)
	}
	if err := f.policy.CanReadMessage(models.Identity{ID: 9}, message); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
