package services

import (
	"strings"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// TierLimits are the quotas attached to a subscription tier.
type TierLimits struct {
	MaxNations       int `json:"maxNations"`
	LeaderboardDepth int `json:"leaderboardDepth"`
}

const (
	DefaultLeaderboardDepth  = 5
	ExpandedLeaderboardDepth = 30
)

var tierLimits = map[Tier]TierLimits{
	TierFree:    {MaxNations: 3, LeaderboardDepth: DefaultLeaderboardDepth},
	TierPremium: {MaxNations: 50, LeaderboardDepth: ExpandedLeaderboardDepth},
}

// LimitsFor returns the quotas of t; unknown tiers get the free limits.
func LimitsFor(t Tier) TierLimits {
	if l, ok := tierLimits[t]; ok {
		return l
	}
	return tierLimits[TierFree]
}

// ParseTier accepts "free" or "premium" in any case.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", NewInvalidError("unknown tier")
}

type Subscription struct {
	UserID    string    `json:"userId"`
	Tier      Tier      `json:"tier"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SubscriptionStore interface {
	GetSubscription(userID string) (*Subscription, error)
	UpsertSubscription(s *Subscription) error
}

// SubscriptionService reads and records the outcome of the payment provider.
type SubscriptionService struct {
	store SubscriptionStore
	now   func() time.Time
}

func NewSubscriptionService(store SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Tier resolves the tier of userID. Anonymous and unknown users are free.
func (s *SubscriptionService) Tier(userID string) (Tier, error) {
	if userID == "" {
		return TierFree, nil
	}
	sub, err := s.store.GetSubscription(userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return TierFree, nil
	}
	return sub.Tier, nil
}

func (s *SubscriptionService) Limits(userID string) (TierLimits, error) {
	t, err := s.Tier(userID)
	if err != nil {
		return TierLimits{}, err
	}
	return LimitsFor(t), nil
}

// Set records tier for userID.
func (s *SubscriptionService) Set(userID string, tier Tier) (*Subscription, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewInvalidError("user id required")
	}
	if _, ok := tierLimits[tier]; !ok {
		return nil, NewInvalidError("unknown tier")
	}
	sub := &Subscription{UserID: userID, Tier: tier, UpdatedAt: s.now()}
	if err := s.store.UpsertSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
