package repositories

import (
	"context"
	"errors"
	"fmt"
	"rentalChat/internal/errs"
	"time"

	"gorm.io/gorm"
)

const defaultQueryTimeout = 5 * time.Second

// store bounds every database round-trip with a timeout.
type store struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func newStore(db *gorm.DB, queryTimeout time.Duration) store {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return store{db: db, queryTimeout: queryTimeout}
}

func (s store) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	return s.db.WithContext(ctx), cancel
}

// storeError classifies a database error as transient (timeout) or a
// plain store failure.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", errs.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %v", errs.ErrStoreFailure, err)
}
