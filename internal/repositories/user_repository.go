package repositories

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	store
}

func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) *UserRepository {
	return &UserRepository{
		store: newStore(db, queryTimeout),
	}
}

func (ur *UserRepository) FindByID(ctx context.Context, userID uint) (*models.User, error) {
	db, cancel := ur.session(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email or by phone number.
func (ur *UserRepository) FindByIdentifier(ctx context.Context, identifier string, isEmail bool) (*models.User, error) {
	db, cancel := ur.session(ctx)
	defer cancel()

	column := "phone = ?"
	if isEmail {
		column = "email = ?"
	}

	var user models.User
	if err := db.Where(column, identifier).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// AllExist reports whether every id in userIDs belongs to a user.
func (ur *UserRepository) AllExist(ctx context.Context, userIDs ...uint) (bool, error) {
	unique := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		unique[id] = struct{}{}
	}
	ids := make([]uint, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}

	db, cancel := ur.session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, storeError(err)
	}
	return count == int64(len(ids)), nil
}
