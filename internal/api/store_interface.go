package api

import (
	"time"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

// Store is the in-process persistence surface. Implementations hand out
// copies so callers never alias stored records.
type Store interface {
	AddUser(u *services.User) bool
	GetUser(id string) *services.User
	FindUserByEmail(email string) *services.User

	GetSubscription(userID string) *services.Subscription
	UpsertSubscription(sub *services.Subscription)

	AddNation(n *models.SavedNation) bool
	GetNation(id string) *models.SavedNation
	UpdateNation(n *models.SavedNation) bool
	ListNationsByOwner(ownerID string) []*models.SavedNation
	FindNationByShareToken(token string) *models.SavedNation
	ListPublicNations() []*models.SavedNation
	DeleteExpiredNations(now time.Time) int

	AddAudit(e services.AuditEntry)
	ListAudit() []services.AuditEntry
}

var _ Store = (*memoryStore)(nil)

// Backend bundles the persistence interfaces the services are built on.
// The SQL store satisfies all four; NewMemoryBackend adapts a memory Store.
type Backend struct {
	Nations       services.NationStore
	Users         services.AuthStore
	Subscriptions services.SubscriptionStore
	Leaderboard   services.LeaderboardSource
}

func NewMemoryBackend() Backend {
	return BackendFor(newMemoryStore())
}

func BackendFor(store Store) Backend {
	nations := newNationStoreAdapter(store)
	return Backend{
		Nations:       nations,
		Users:         newAuthStoreAdapter(store),
		Subscriptions: newSubscriptionStoreAdapter(store),
		Leaderboard:   nations,
	}
}
