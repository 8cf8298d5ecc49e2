package repositories

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"rentalChat/internal/validators"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ChatRepository is the append-only message log. Conversations are not
// stored; they are derived from rental_id or the participant pair.
type ChatRepository struct {
	store

	clockMu     sync.Mutex
	clockSeeded bool
	lastCreated time.Time
	now         func() time.Time
}

func NewChatRepository(db *gorm.DB, queryTimeout time.Duration) *ChatRepository {
	return &ChatRepository{
		store: newStore(db, queryTimeout),
		now:   time.Now,
	}
}

// Append validates and stores message, assigning its creation time. It
// returns only after the row is committed.
func (chr *ChatRepository) Append(ctx context.Context, message *models.Message) (*models.Message, error) {
	if validationErrs := validators.ValidateMessage(message); len(validationErrs) > 0 {
		return nil, errors.Join(validationErrs...)
	}

	db, cancel := chr.session(ctx)
	defer cancel()

	createdAt, err := chr.nextTimestamp(db)
	if err != nil {
		return nil, storeError(err)
	}
	message.ID = 0
	message.CreatedAt = createdAt

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return message, nil
}

// nextTimestamp hands out strictly increasing creation times at
// microsecond precision, seeded from the newest stored message.
func (chr *ChatRepository) nextTimestamp(db *gorm.DB) (time.Time, error) {
	chr.clockMu.Lock()
	defer chr.clockMu.Unlock()

	if !chr.clockSeeded {
		var latest []models.Message
		if err := db.Order("created_at DESC").Limit(1).Find(&latest).Error; err != nil {
			return time.Time{}, err
		}
		if len(latest) > 0 {
			chr.lastCreated = latest[0].CreatedAt.UTC()
		}
		chr.clockSeeded = true
	}

	ts := chr.now().UTC().Truncate(time.Microsecond)
	if !ts.After(chr.lastCreated) {
		ts = chr.lastCreated.Add(time.Microsecond)
	}
	chr.lastCreated = ts
	return ts, nil
}

func (chr *ChatRepository) GetByID(ctx context.Context, messageID uint) (*models.Message, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	var message models.Message
	if err := db.Where("id = ?", messageID).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, storeError(err)
	}
	return &message, nil
}

// ListByRental returns the full history of a rental conversation, oldest
// first.
func (chr *ChatRepository) ListByRental(ctx context.Context, rentalID uint) ([]models.Message, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	messages := []models.Message{}
	if err := db.
		Where("rental_id = ?", rentalID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, storeError(err)
	}
	return messages, nil
}

// ListBetween returns every message exchanged by a and b, with or
// without a rental reference, oldest first.
func (chr *ChatRepository) ListBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	messages := []models.Message{}
	if err := db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, storeError(err)
	}
	return messages, nil
}

func (chr *ChatRepository) ListReplies(ctx context.Context, parentID uint) ([]models.Message, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	messages := []models.Message{}
	if err := db.
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, storeError(err)
	}
	return messages, nil
}

// ListRecentByParticipant builds the inbox of userID: the newest message
// of every conversation the user sent or received in, newest first.
// Equal timestamps fall back to insertion order (higher id is newer).
func (chr *ChatRepository) ListRecentByParticipant(ctx context.Context, userID uint) ([]models.InboxEntry, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	var messages []models.Message
	if err := db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, storeError(err)
	}

	entries := []models.InboxEntry{}
	seen := make(map[models.ConversationKey]struct{})
	senderIDs := make(map[uint]struct{})
	for _, message := range messages {
		key := message.ConversationKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		senderIDs[message.SenderID] = struct{}{}
		entries = append(entries, models.InboxEntry{
			Message:         message,
			ConversationKey: key,
		})
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]uint, 0, len(senderIDs))
	for id := range senderIDs {
		ids = append(ids, id)
	}
	var senders []models.User
	if err := db.Where("id IN ?", ids).Find(&senders).Error; err != nil {
		return nil, storeError(err)
	}
	byID := make(map[uint]models.User, len(senders))
	for _, sender := range senders {
		byID[sender.ID] = sender
	}
	for i := range entries {
		if sender, ok := byID[entries[i].SenderID]; ok {
			entries[i].SenderName = sender.FullName
			entries[i].SenderEmail = sender.Email
		}
	}
	return entries, nil
}

// HasParticipantOnRental reports whether userID sent or received at
// least one message tagged with rentalID.
func (chr *ChatRepository) HasParticipantOnRental(ctx context.Context, rentalID, userID uint) (bool, error) {
	db, cancel := chr.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Message{}).
		Where("rental_id = ? AND (sender_id = ? OR receiver_id = ?)", rentalID, userID, userID).
		Count(&count).Error; err != nil {
		return false, storeError(err)
	}
	return count > 0, nil
}
