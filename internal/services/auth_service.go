package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	AddUser(u *User) error
}

type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

// Register creates an account. The display name defaults to the local part
// of the email and is what the public leaderboard shows.
func (s *AuthService) Register(email, password, displayName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	if !strings.Contains(email, "@") {
		return nil, NewInvalidError("invalid email")
	}
	if len(password) < 8 {
		return nil, NewInvalidError("password must be at least 8 characters")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	userID := s.idGen("u", 7)
	if err := s.store.AddUser(&User{ID: userID, Email: email, DisplayName: displayName, PassHash: hash, CreatedAt: s.now()}); err != nil {
		return nil, err
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(userID, email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: userID, DisplayName: displayName}, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID, DisplayName: u.DisplayName}, nil
}

// SetTokenTTL overrides the lifetime of issued tokens.
func (s *AuthService) SetTokenTTL(ttl time.Duration) {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
