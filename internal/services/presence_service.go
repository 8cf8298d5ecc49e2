package services

import (
	"context"
	"errors"
	"rentalChat/internal/models"
	redisModels "rentalChat/internal/models/redis"
	"rentalChat/internal/utils"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastSeenLayout = "2006-01-02 15:04:05"

// PresenceService mirrors socket connect/disconnect events into Redis so
// other services can read a user's online status.
type PresenceService struct {
	redis *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

func NewPresenceService(redis *redis.Client, ttl time.Duration) *PresenceService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PresenceService{
		redis: redis,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (ps *PresenceService) SetOnlineStatus(ctx context.Context, userID uint, online bool) error {
	if ps.redis == nil {
		return nil
	}
	statusValue := "false"
	if online {
		statusValue = "true"
	}
	lastSeen := ps.now().UTC().Format(lastSeenLayout)

	_, err := ps.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisModels.UserOnlineStatusKey(userID), statusValue, ps.ttl)
		pipe.Set(ctx, redisModels.UserLastSeenKey(userID), lastSeen, ps.ttl)
		return nil
	})
	return err
}

// GetPresence reports a user as offline with no last-seen time when
// nothing is cached for them.
func (ps *PresenceService) GetPresence(ctx context.Context, userID uint) (*models.PresenceResponse, error) {
	presence := &models.PresenceResponse{UserID: userID}
	if ps.redis == nil {
		return presence, nil
	}

	values, err := ps.redis.MGet(ctx,
		redisModels.UserOnlineStatusKey(userID),
		redisModels.UserLastSeenKey(userID),
	).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return presence, nil
		}
		return nil, err
	}

	if status, ok := values[0].(string); ok {
		presence.IsOnline = status == "true"
	}
	if lastSeen, ok := values[1].(string); ok {
		if parsed, err := utils.StrToTime(lastSeen); err == nil {
			presence.LastSeen = parsed
		}
	}
	return presence, nil
}
