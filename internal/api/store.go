package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

type memoryStore struct {
	mu            sync.RWMutex
	users         map[string]*services.User
	usersByEmail  map[string]*services.User
	subscriptions map[string]*services.Subscription
	nations       map[string]*models.SavedNation
	audit         []services.AuditEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         map[string]*services.User{},
		usersByEmail:  map[string]*services.User{},
		subscriptions: map[string]*services.Subscription{},
		nations:       map[string]*models.SavedNation{},
		audit:         []services.AuditEntry{},
	}
}

func cloneUser(u *services.User) *services.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PassHash = append([]byte(nil), u.PassHash...)
	return &cp
}

func cloneNation(n *models.SavedNation) *models.SavedNation {
	if n == nil {
		return nil
	}
	cp := *n
	if n.CustomPolicies != nil {
		cpol := *n.CustomPolicies
		cp.CustomPolicies = &cpol
	}
	if n.ExpiresAt != nil {
		t := *n.ExpiresAt
		cp.ExpiresAt = &t
	}
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}

func (s *memoryStore) AddUser(u *services.User) bool {
	if u == nil {
		return false
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[email]; ok {
		return false
	}
	cp := cloneUser(u)
	cp.Email = email
	s.users[cp.ID] = cp
	s.usersByEmail[email] = cp
	return true
}

func (s *memoryStore) GetUser(id string) *services.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.users[id])
}

func (s *memoryStore) FindUserByEmail(email string) *services.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.usersByEmail[strings.ToLower(strings.TrimSpace(email))])
}

func (s *memoryStore) GetSubscription(userID string) *services.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sub, ok := s.subscriptions[userID]; ok {
		cp := *sub
		return &cp
	}
	return nil
}

func (s *memoryStore) UpsertSubscription(sub *services.Subscription) {
	if sub == nil {
		return
	}
	cp := *sub
	s.mu.Lock()
	s.subscriptions[sub.UserID] = &cp
	s.mu.Unlock()
}

func (s *memoryStore) AddNation(n *models.SavedNation) bool {
	if n == nil || n.ID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nations[n.ID]; ok {
		return false
	}
	s.nations[n.ID] = cloneNation(n)
	return true
}

func (s *memoryStore) GetNation(id string) *models.SavedNation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNation(s.nations[id])
}

func (s *memoryStore) UpdateNation(n *models.SavedNation) bool {
	if n == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nations[n.ID]; !ok {
		return false
	}
	s.nations[n.ID] = cloneNation(n)
	return true
}

// ListNationsByOwner returns non-deleted nations, newest first.
func (s *memoryStore) ListNationsByOwner(ownerID string) []*models.SavedNation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.SavedNation{}
	for _, n := range s.nations {
		if n.OwnerID == ownerID && n.DeletedAt == nil {
			out = append(out, cloneNation(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memoryStore) FindNationByShareToken(token string) *models.SavedNation {
	if token == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nations {
		if n.ShareToken == token {
			return cloneNation(n)
		}
	}
	return nil
}

// ListPublicNations returns public, saved, non-deleted nations oldest first.
func (s *memoryStore) ListPublicNations() []*models.SavedNation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.SavedNation{}
	for _, n := range s.nations {
		if n.IsPublic && !n.IsTemporary && n.DeletedAt == nil {
			out = append(out, cloneNation(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memoryStore) DeleteExpiredNations(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, n := range s.nations {
		if n.IsTemporary && n.ExpiresAt != nil && !now.Before(*n.ExpiresAt) {
			delete(s.nations, id)
			removed++
		}
	}
	return removed
}

func (s *memoryStore) AddAudit(e services.AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []services.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]services.AuditEntry(nil), s.audit...)
}
