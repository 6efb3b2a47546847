package api

import (
	"context"
	"time"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

type nationStoreAdapter struct {
	store Store
}

func newNationStoreAdapter(store Store) *nationStoreAdapter {
	return &nationStoreAdapter{store: store}
}

func (a *nationStoreAdapter) InsertNation(n *models.SavedNation) error {
	if n == nil {
		return services.NewInvalidError("nation required")
	}
	if !a.store.AddNation(n) {
		return services.NewConflictError("nation id already used")
	}
	return nil
}

func (a *nationStoreAdapter) GetNation(id string) (*models.SavedNation, error) {
	return a.store.GetNation(id), nil
}

func (a *nationStoreAdapter) UpdateNation(n *models.SavedNation) error {
	if n == nil {
		return services.NewInvalidError("nation required")
	}
	if !a.store.UpdateNation(n) {
		return services.NewNotFoundError("nation not found")
	}
	return nil
}

func (a *nationStoreAdapter) ListNationsByOwner(ownerID string) ([]*models.SavedNation, error) {
	return a.store.ListNationsByOwner(ownerID), nil
}

func (a *nationStoreAdapter) CountNationsByOwner(ownerID string) (int, error) {
	count := 0
	for _, n := range a.store.ListNationsByOwner(ownerID) {
		if !n.IsTemporary {
			count++
		}
	}
	return count, nil
}

func (a *nationStoreAdapter) GetNationByShareToken(token string) (*models.SavedNation, error) {
	return a.store.FindNationByShareToken(token), nil
}

func (a *nationStoreAdapter) PurgeExpiredNations(now time.Time) (int, error) {
	return a.store.DeleteExpiredNations(now), nil
}

func (a *nationStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(entry)
}

func (a *nationStoreAdapter) ListLeaderboardRecords(ctx context.Context) ([]services.LeaderboardRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	public := a.store.ListPublicNations()
	out := make([]services.LeaderboardRecord, 0, len(public))
	for _, n := range public {
		rec := services.LeaderboardRecord{ID: n.ID, Name: n.Name, Data: n.Data, CustomPolicies: n.CustomPolicies}
		if u := a.store.GetUser(n.OwnerID); u != nil {
			rec.DisplayName = u.DisplayName
		}
		out = append(out, rec)
	}
	return out, nil
}

var (
	_ services.NationStore       = (*nationStoreAdapter)(nil)
	_ services.LeaderboardSource = (*nationStoreAdapter)(nil)
)
