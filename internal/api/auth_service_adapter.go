package api

import "github.com/nationbuilder/nationbuilder/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	return a.store.FindUserByEmail(email), nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	if !a.store.AddUser(u) {
		return services.NewConflictError("email exists")
	}
	return nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
