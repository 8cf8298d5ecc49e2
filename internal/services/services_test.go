package services

import (
	"rentalChat/configs"
	"rentalChat/internal/models"
	"rentalChat/internal/repositories"
	"rentalChat/internal/testutil"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

type recordingPusher struct {
	mu     sync.Mutex
	online map[uint]bool
	pushed map[uint][][]byte
}

func newRecordingPusher(online ...uint) *recordingPusher {
	p := &recordingPusher{online: map[uint]bool{}, pushed: map[uint][][]byte{}}
	for _, id := range online {
		p.online[id] = true
	}
	return p
}

func (p *recordingPusher) Push(userID uint, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return false
	}
	p.pushed[userID] = append(p.pushed[userID], payload)
	return true
}

func (p *recordingPusher) frames(userID uint) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushed[userID]
}

type fixture struct {
	db     *gorm.DB
	store  *repositories.ChatRepository
	policy *AccessPolicy
	pusher *recordingPusher
	chat   *ChatService
}

// newFixture seeds tenant 42, landlord 5 (owner of rental 100),
// landlord 7, admin 1 and user 9.
func newFixture(t *testing.T, online ...uint) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, 42, "Tenant", models.RoleClient)
	testutil.SeedUser(t, db, 5, "Owner", models.RoleLandlord)
	testutil.SeedUser(t, db, 7, "Landlord", models.RoleLandlord)
	testutil.SeedUser(t, db, 1, "Admin", models.RoleAdmin)
	testutil.SeedUser(t, db, 9, "Stranger", models.RoleClient)
	testutil.SeedRental(t, db, 100, 5)

	store := repositories.NewChatRepository(db, time.Second)
	users := repositories.NewUserRepository(db, time.Second)
	rentals := repositories.NewRentalRepository(db, time.Second, nil, 0, nil)
	policy := NewAccessPolicy(users, rentals, store)
	pusher := newRecordingPusher(online...)

	return &fixture{
		db:     db,
		store:  store,
		policy: policy,
		pusher: pusher,
		chat:   NewChatService(store, policy, pusher, nil),
	}
}

func testConfig(secret string) *configs.Config {
	config := configs.Default()
	config.Viper.Set("jwt.secret", secret)
	return config
}
