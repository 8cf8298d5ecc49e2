package repositories

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"rentalChat/internal/testutil"
	"testing"
	"time"
)

func newTestChatRepository(t *testing.T) *ChatRepository {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, 42, "Tenant", models.RoleClient)
	testutil.SeedUser(t, db, 7, "Landlord", models.RoleLandlord)
	testutil.SeedUser(t, db, 1, "Admin", models.RoleAdmin)
	return NewChatRepository(db, time.Second)
}

func appendMessage(t *testing.T, repo *ChatRepository, sender, receiver uint, body string, rentalID *uint) *models.Message {
	t.Helper()
	message, err := repo.Append(context.Background(), &models.Message{
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		RentalID:   rentalID,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return message
}

func TestAppendAssignsIDAndIncreasingTimestamps(t *testing.T) {
	repo := newTestChatRepository(t)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	first := appendMessage(t, repo, 42, 7, "Is this still available?", testutil.UintPtr(100))
	second := appendMessage(t, repo, 7, 42, "Yes", testutil.UintPtr(100))

	if first.ID == 0 || second.ID == 0 || first.ID == second.ID {
		t.Fatalf("expected distinct generated ids, got %d and %d", first.ID, second.ID)
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Fatalf("expected strictly increasing timestamps with a frozen clock, got %v then %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestAppendRejectsInvalidMessages(t *testing.T) {
	repo := newTestChatRepository(t)

	_, err := repo.Append(context.Background(), &models.Message{SenderID: 42, ReceiverID: 7, Body: " "})
	if !errors.Is(err, errs.ErrEmptyMessage) {
		t.Fatalf("expected empty message error, got %v", err)
	}
	_, err = repo.Append(context.Background(), &models.Message{ReceiverID: 7, Body: "hi"})
	if !errors.Is(err, errs.ErrMissingFields) {
		t.Fatalf("expected missing fields error, got %v", err)
	}
}

func TestListByRentalOrdersAscending(t *testing.T) {
	repo := newTestChatRepository(t)
	rental := testutil.UintPtr(100)

	appendMessage(t, repo, 42, 7, "one", rental)
	appendMessage(t, repo, 7, 42, "two", rental)
	appendMessage(t, repo, 42, 7, "elsewhere", testutil.UintPtr(200))
	appendMessage(t, repo, 42, 7, "three", rental)

	messages, err := repo.ListByRental(context.Background(), 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"one", "two", "three"} {
		if messages[i].Body != want {
			t.Fatalf("message %d: expected %q, got %q", i, want, messages[i].Body)
		}
	}

	again, err := repo.ListByRental(context.Background(), 100)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	for i := range messages {
		if messages[i].ID != again[i].ID {
			t.Fatalf("expected identical ordering on repeated reads")
		}
	}
}

func TestListByRentalEmpty(t *testing.T) {
	repo := newTestChatRepository(t)

	messages, err := repo.ListByRental(context.Background(), 999)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", messages)
	}
}

func TestListBetweenIgnoresRentalTagging(t *testing.T) {
	repo := newTestChatRepository(t)

	appendMessage(t, repo, 1, 42, "admin notice", nil)
	appendMessage(t, repo, 42, 1, "thanks", nil)
	appendMessage(t, repo, 42, 1, "about my listing", testutil.UintPtr(100))
	appendMessage(t, repo, 42, 7, "unrelated", nil)

	messages, err := repo.ListBetween(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Body != "admin notice" || messages[2].Body != "about my listing" {
		t.Fatalf("unexpected order: %q .. %q", messages[0].Body, messages[2].Body)
	}
}

func TestListRecentByParticipantOnePerConversation(t *testing.T) {
	repo := newTestChatRepository(t)

	appendMessage(t, repo, 42, 7, "rental 100 first", testutil.UintPtr(100))
	appendMessage(t, repo, 1, 42, "admin first", nil)
	appendMessage(t, repo, 7, 42, "rental 100 latest", testutil.UintPtr(100))
	appendMessage(t, repo, 42, 7, "rental 200 only", testutil.UintPtr(200))
	appendMessage(t, repo, 42, 1, "admin latest", nil)
	appendMessage(t, repo, 7, 1, "not mine", nil)

	entries, err := repo.ListRecentByParticipant(context.Background(), 42)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	want := []string{"admin latest", "rental 200 only", "rental 100 latest"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, body := range want {
		if entries[i].Body != body {
			t.Fatalf("entry %d: expected %q, got %q", i, body, entries[i].Body)
		}
	}
	if entries[2].SenderName != "Landlord" {
		t.Fatalf("expected sender name enrichment, got %q", entries[2].SenderName)
	}
	if entries[0].ConversationKey != models.PairConversationKey(1, 42) {
		t.Fatalf("unexpected conversation key %q", entries[0].ConversationKey)
	}
}

func TestListRecentByParticipantTieBreaksOnInsertionOrder(t *testing.T) {
	repo := newTestChatRepository(t)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, body := range []string{"older", "newer"} {
		message := &models.Message{SenderID: 42, ReceiverID: 7, Body: body, RentalID: testutil.UintPtr(100), CreatedAt: at}
		if err := repo.db.Create(message).Error; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	entries, err := repo.ListRecentByParticipant(context.Background(), 42)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(entries) != 1 || entries[0].Body != "newer" {
		t.Fatalf("expected the later insert to win the tie, got %#v", entries)
	}
}

func TestHasParticipantOnRental(t *testing.T) {
	repo := newTestChatRepository(t)
	appendMessage(t, repo, 42, 7, "hello", testutil.UintPtr(100))

	ok, err := repo.HasParticipantOnRental(context.Background(), 100, 42)
	if err != nil || !ok {
		t.Fatalf("expected sender to be a participant, got %v %v", ok, err)
	}
	ok, err = repo.HasParticipantOnRental(context.Background(), 100, 9)
	if err != nil || ok {
		t.Fatalf("expected stranger not to be a participant, got %v %v", ok, err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestChatRepository(t)

	_, err := repo.GetByID(context.Background(), 12345)
	if !errors.Is(err, errs.ErrMessageNotFound) {
		t.Fatalf("expected message not found, got %v", err)
	}
}

func TestStoreErrorClassifiesTimeouts(t *testing.T) {
	if err := storeError(context.DeadlineExceeded); !errors.Is(err, errs.ErrStoreTimeout) {
		t.Fatalf("expected store timeout, got %v", err)
	}
	if err := storeError(errors.New("boom")); !errors.Is(err, errs.ErrStoreFailure) {
		t.Fatalf("expected store failure, got %v", err)
	}
}
