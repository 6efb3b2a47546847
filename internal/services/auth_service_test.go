package services

import (
	"errors"
	"testing"
	"time"
)

type authStubStore struct {
	users map[string]*User
}

func newAuthStubStore() *authStubStore {
	return &authStubStore{users: map[string]*User{}}
}

func (s *authStubStore) FindUserByEmail(email string) (*User, error) {
	if u, ok := s.users[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *authStubStore) AddUser(u *User) error {
	if _, ok := s.users[u.Email]; ok {
		return errors.New("duplicate user")
	}
	copy := *u
	s.users[u.Email] = &copy
	return nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, func(uid, email string, ttl time.Duration) (string, error) {
		return "token:" + uid + ":" + email, nil
	})
	svc.now = func() time.Time { return time.Unix(0, 0) }
	svc.idGen = func(prefix string, n int) string { return prefix + "1234567" }

	res, err := svc.Register("Ada@Example.com ", "Secret123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.UserID != "u1234567" {
		t.Fatalf("unexpected user id: %+v", res)
	}
	if res.DisplayName != "ada" {
		t.Fatalf("expected display name from email, got %q", res.DisplayName)
	}
	if res.Token != "token:u1234567:ada@example.com" {
		t.Fatalf("unexpected token %q", res.Token)
	}

	_, err = svc.Register("ada@example.com", "Secret123", "Ada")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict on duplicate registration, got %v", err)
	}

	loginRes, err := svc.Login("ADA@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loginRes.Token == "" || loginRes.DisplayName != "ada" {
		t.Fatalf("unexpected login response %+v", loginRes)
	}

	if _, err := svc.Login("ada@example.com", "wrong-pass"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Login("missing@example.com", "Secret123"); err == nil {
		t.Fatalf("expected error for missing user")
	}
}

func TestAuthValidation(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, func(uid, email string, ttl time.Duration) (string, error) {
		return "tok", nil
	})

	if _, err := svc.Register("", "", ""); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := svc.Register("no-at-sign", "Secret123", ""); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := svc.Register("a@b.c", "short", ""); err == nil {
		t.Fatalf("expected short password error")
	}
	if _, err := svc.Login("", ""); err == nil {
		t.Fatalf("expected validation error on login")
	}
}
