package repositories

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	redisModels "rentalChat/internal/models/redis"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RentalRepository answers rental ownership lookups. Owners are cached in
// Redis when a client is configured; cache errors fall through to the
// database.
type RentalRepository struct {
	store
	redis    *redis.Client
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewRentalRepository(db *gorm.DB, queryTimeout time.Duration, redis *redis.Client, cacheTTL time.Duration, log *zap.Logger) *RentalRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &RentalRepository{
		store:    newStore(db, queryTimeout),
		redis:    redis,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// FindOwner returns the landlord that owns rentalID.
func (rr *RentalRepository) FindOwner(ctx context.Context, rentalID uint) (uint, error) {
	if ownerID, ok := rr.cachedOwner(ctx, rentalID); ok {
		return ownerID, nil
	}

	db, cancel := rr.session(ctx)
	defer cancel()

	var rental models.Rental
	if err := db.Select("id", "user_id").Where("id = ?", rentalID).First(&rental).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.ErrRentalNotFound
		}
		return 0, storeError(err)
	}

	rr.cacheOwner(ctx, rentalID, rental.UserID)
	return rental.UserID, nil
}

func (rr *RentalRepository) cachedOwner(ctx context.Context, rentalID uint) (uint, bool) {
	if rr.redis == nil {
		return 0, false
	}
	value, err := rr.redis.Get(ctx, redisModels.RentalOwnerKey(rentalID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rr.log.Warn("rental owner cache read failed", zap.Uint("rental_id", rentalID), zap.Error(err))
		}
		return 0, false
	}
	ownerID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(ownerID), true
}

func (rr *RentalRepository) cacheOwner(ctx context.Context, rentalID, ownerID uint) {
	if rr.redis == nil || rr.cacheTTL <= 0 {
		return
	}
	key := redisModels.RentalOwnerKey(rentalID)
	if err := rr.redis.Set(ctx, key, strconv.FormatUint(uint64(ownerID), 10), rr.cacheTTL).Err(); err != nil {
		rr.log.Warn("rental owner cache write failed", zap.Uint("rental_id", rentalID), zap.Error(err))
	}
}
