package api

import "github.com/nationbuilder/nationbuilder/internal/services"

type subscriptionStoreAdapter struct {
	store Store
}

func newSubscriptionStoreAdapter(store Store) services.SubscriptionStore {
	return &subscriptionStoreAdapter{store: store}
}

func (a *subscriptionStoreAdapter) GetSubscription(userID string) (*services.Subscription, error) {
	return a.store.GetSubscription(userID), nil
}

func (a *subscriptionStoreAdapter) UpsertSubscription(sub *services.Subscription) error {
	if sub == nil {
		return services.NewInvalidError("subscription required")
	}
	a.store.UpsertSubscription(sub)
	return nil
}

var _ services.SubscriptionStore = (*subscriptionStoreAdapter)(nil)
