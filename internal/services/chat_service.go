package services

import (
	"context"
	"encoding/json"
	"errors"
	"rentalChat/internal/enums"
	"rentalChat/internal/errs"
	"rentalChat/internal/interfaces"
	"rentalChat/internal/models"
	socketModels "rentalChat/internal/models/socket"
	"rentalChat/internal/validators"
	"sort"

	"go.uber.org/zap"
)

const maxThreadDepth = 64

type SendResult struct {
	Message   *models.Message `json:"message"`
	Delivered bool            `json:"delivered"`
}

// ChatService is the gateway between transports and the message log:
// every write passes the access policy, is stored synchronously and is
// then pushed to the receiver when they are connected.
type ChatService struct {
	store  interfaces.MessageStore
	policy *AccessPolicy
	pusher interfaces.Pusher
	log    *zap.Logger
}

func NewChatService(
	store interfaces.MessageStore,
	policy *AccessPolicy,
	pusher interfaces.Pusher,
	log *zap.Logger,
) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		store:  store,
		policy: policy,
		pusher: pusher,
		log:    log,
	}
}

func (cs *ChatService) Send(ctx context.Context, request *models.SendMessageRequest) (*SendResult, error) {
	message := request.ToMessage()
	if validationErrs := validators.ValidateMessage(message); len(validationErrs) > 0 {
		return nil, errors.Join(validationErrs...)
	}
	if err := cs.policy.CanWrite(ctx, message.SenderID, message.ReceiverID); err != nil {
		return nil, err
	}

	saved, err := cs.store.Append(ctx, message)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(socketModels.SocketEvent{
		Type:       enums.SOCKET_EVENT_SEND_MESSAGE,
		SenderID:   saved.SenderID,
		ReceiverID: saved.ReceiverID,
		RentalID:   saved.RentalID,
		ParentID:   saved.ParentID,
		Message:    saved.Body,
	})
	if err != nil {
		cs.log.Error("marshal push payload", zap.Uint("message_id", saved.ID), zap.Error(err))
		return &SendResult{Message: saved}, nil
	}
	return &SendResult{Message: saved, Delivered: cs.push(saved.ReceiverID, payload)}, nil
}

// Reply sends a message linked to parentID. The parent does not have to
// exist; when it does and the reply carries no rental reference, the
// reply joins the parent's rental conversation.
func (cs *ChatService) Reply(ctx context.Context, parentID uint, request *models.SendMessageRequest) (*SendResult, error) {
	if parentID == 0 {
		return nil, errs.ErrInvalidParams
	}
	request.ParentID = &parentID

	if request.RentalID == nil {
		parent, err := cs.store.GetByID(ctx, parentID)
		switch {
		case err == nil:
			request.RentalID = parent.RentalID
		case errors.Is(err, errs.ErrMessageNotFound):
			cs.log.Debug("reply to missing parent", zap.Uint("parent_id", parentID))
		default:
			return nil, err
		}
	}
	return cs.Send(ctx, request)
}

// RelayStreamMessage stores a SEND_MESSAGE frame received on an
// authenticated socket and forwards the original frame to the receiver.
func (cs *ChatService) RelayStreamMessage(ctx context.Context, identity models.Identity, event *socketModels.SocketEvent, frame []byte) (bool, error) {
	if event.SenderID != identity.ID {
		return false, errs.ErrSenderMismatch
	}
	message := &models.Message{
		SenderID:   event.SenderID,
		ReceiverID: event.ReceiverID,
		Body:       event.Message,
		RentalID:   event.RentalID,
		ParentID:   event.ParentID,
	}
	if validationErrs := validators.ValidateMessage(message); len(validationErrs) > 0 {
		return false, errors.Join(validationErrs...)
	}
	if err := cs.policy.CanWrite(ctx, message.SenderID, message.ReceiverID); err != nil {
		return false, err
	}
	if _, err := cs.store.Append(ctx, message); err != nil {
		return false, err
	}
	return cs.push(message.ReceiverID, frame), nil
}

func (cs *ChatService) push(receiverID uint, payload []byte) bool {
	if cs.pusher == nil {
		return false
	}
	return cs.pusher.Push(receiverID, payload)
}

func (cs *ChatService) FetchConversation(ctx context.Context, identity models.Identity, rentalID uint) ([]models.Message, error) {
	if err := cs.policy.CanReadRental(ctx, identity, rentalID); err != nil {
		return nil, err
	}
	return cs.store.ListByRental(ctx, rentalID)
}

func (cs *ChatService) FetchInbox(ctx context.Context, identity models.Identity, ownerID uint) ([]models.InboxEntry, error) {
	if err := cs.policy.CanReadInbox(identity, ownerID); err != nil {
		return nil, err
	}
	return cs.store.ListRecentByParticipant(ctx, ownerID)
}

func (cs *ChatService) FetchDirectThread(ctx context.Context, identity models.Identity, a, b uint) ([]models.Message, error) {
	if err := cs.policy.CanReadPair(identity, a, b); err != nil {
		return nil, err
	}
	return cs.store.ListBetween(ctx, a, b)
}

// FetchThread returns the root of the thread containing messageID and
// every reply below it, oldest first. A reply whose parent no longer
// exists is treated as the root.
func (cs *ChatService) FetchThread(ctx context.Context, identity models.Identity, messageID uint) (*models.ThreadResponse, error) {
	message, err := cs.store.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := cs.canReadThreadMessage(ctx, identity, message); err != nil {
		return nil, err
	}

	root := message
	for depth := 0; root.ParentID != nil && depth < maxThreadDepth; depth++ {
		parent, err := cs.store.GetByID(ctx, *root.ParentID)
		if errors.Is(err, errs.ErrMessageNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		root = parent
	}

	replies := []models.Message{}
	visited := map[uint]bool{root.ID: true}
	queue := []uint{root.ID}
	for len(queue) > 0 {
		children, err := cs.store.ListReplies(ctx, queue[0])
		if err != nil {
			return nil, err
		}
		queue = queue[1:]
		for _, child := range children {
			// Parent ids are not validated, so links can loop.
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			replies = append(replies, child)
			queue = append(queue, child.ID)
		}
	}
	sort.SliceStable(replies, func(i, j int) bool {
		if replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].ID < replies[j].ID
		}
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	return &models.ThreadResponse{Root: *root, Replies: replies}, nil
}

// Participants of a message may read its thread, and so may anyone
// entitled to the rental conversation it belongs to.
func (cs *ChatService) canReadThreadMessage(ctx context.Context, identity models.Identity, message *models.Message) error {
	if cs.policy.CanReadMessage(identity, message) == nil {
		return nil
	}
	if message.RentalID != nil {
		return cs.policy.CanReadRental(ctx, identity, *message.RentalID)
	}
	return errs.ErrForbidden
}
