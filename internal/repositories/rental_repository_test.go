package repositories

import (
	"context"
	"errors"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	redisModels "rentalChat/internal/models/redis"
	"rentalChat/internal/testutil"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestFindOwnerCachesInRedis(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, 5, "Owner", models.RoleLandlord)
	testutil.SeedRental(t, db, 100, 5)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewRentalRepository(db, time.Second, client, time.Minute, nil)

	owner, err := repo.FindOwner(context.Background(), 100)
	if err != nil {
		t.Fatalf("find owner: %v", err)
	}
	if owner != 5 {
		t.Fatalf("expected owner 5, got %d", owner)
	}
	cached, err := mr.Get(redisModels.RentalOwnerKey(100))
	if err != nil || cached != "5" {
		t.Fatalf("expected cached owner 5, got %q (%v)", cached, err)
	}

	// Served from cache even after the row is gone.
	if err := db.Delete(&models.Rental{}, 100).Error; err != nil {
		t.Fatalf("delete rental: %v", err)
	}
	owner, err = repo.FindOwner(context.Background(), 100)
	if err != nil || owner != 5 {
		t.Fatalf("expected cached owner, got %d (%v)", owner, err)
	}
}

func TestFindOwnerUnknownRental(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRentalRepository(db, time.Second, nil, 0, nil)

	_, err := repo.FindOwner(context.Background(), 404)
	if !errors.Is(err, errs.ErrRentalNotFound) {
		t.Fatalf("expected rental not found, got %v", err)
	}
}

func TestFindOwnerFallsBackWhenRedisIsDown(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, 5, "Owner", models.RoleLandlord)
	testutil.SeedRental(t, db, 100, 5)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 5 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := NewRentalRepository(db, time.Second, client, time.Minute, nil)
	owner, err := repo.FindOwner(context.Background(), 100)
	if err != nil || owner != 5 {
		t.Fatalf("expected database fallback, got %d (%v)", owner, err)
	}
}
