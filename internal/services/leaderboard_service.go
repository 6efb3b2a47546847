package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// LeaderboardRecord is a public nation as supplied by the persistence layer.
type LeaderboardRecord struct {
	ID             string
	DisplayName    string
	Name           string
	Data           models.AssessmentData
	CustomPolicies *models.CustomPolicies
}

type LeaderboardEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DisplayName     string   `json:"displayName"`
	Location        string   `json:"location"`
	Score           int      `json:"score"`
	PrimaryCategory Category `json:"primaryCategory"`
}

// Leaderboard holds one descending queue per category. Queues are never nil.
type Leaderboard struct {
	Utopian     []LeaderboardEntry `json:"utopian"`
	Dystopian   []LeaderboardEntry `json:"dystopian"`
	Martian     []LeaderboardEntry `json:"martian"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// EmptyLeaderboard returns a valid board with three empty queues.
func EmptyLeaderboard() Leaderboard {
	return Leaderboard{Utopian: []LeaderboardEntry{}, Dystopian: []LeaderboardEntry{}, Martian: []LeaderboardEntry{}}
}

// Truncate returns a copy of b keeping at most n entries per queue.
func (b Leaderboard) Truncate(n int) Leaderboard {
	cut := func(q []LeaderboardEntry) []LeaderboardEntry {
		if n >= 0 && len(q) > n {
			q = q[:n]
		}
		return append([]LeaderboardEntry{}, q...)
	}
	return Leaderboard{Utopian: cut(b.Utopian), Dystopian: cut(b.Dystopian), Martian: cut(b.Martian), GeneratedAt: b.GeneratedAt}
}

type scoredRecord struct {
	rec     LeaderboardRecord
	scores  CategoryScores
	primary Category
}

// AssembleLeaderboard scores every record and builds the three queues.
// The martian queue only considers records located off Earth. Sorting is
// stable, so equal scores keep their input order.
func AssembleLeaderboard(records []LeaderboardRecord, topN int) Leaderboard {
	scored := make([]scoredRecord, 0, len(records))
	for _, r := range records {
		d := r.Data.Normalize()
		r.Data = d
		s := ScoreAll(d)
		p, _ := s.Primary()
		scored = append(scored, scoredRecord{rec: r, scores: s, primary: p})
	}

	board := EmptyLeaderboard()
	board.Utopian = rankQueue(scored, CategoryUtopian, topN, nil)
	board.Dystopian = rankQueue(scored, CategoryDystopian, topN, nil)
	board.Martian = rankQueue(scored, CategoryMartian, topN, func(r scoredRecord) bool {
		return !models.Is(r.rec.Data.Location, models.LocationEarth)
	})
	return board
}

func rankQueue(scored []scoredRecord, c Category, topN int, keep func(scoredRecord) bool) []LeaderboardEntry {
	q := make([]LeaderboardEntry, 0, len(scored))
	for _, r := range scored {
		if keep != nil && !keep(r) {
			continue
		}
		q = append(q, LeaderboardEntry{
			ID:              r.rec.ID,
			Name:            r.rec.Name,
			DisplayName:     r.rec.DisplayName,
			Location:        r.rec.Data.Location,
			Score:           r.scores.Of(c),
			PrimaryCategory: r.primary,
		})
	}
	sort.SliceStable(q, func(i, j int) bool { return q[i].Score > q[j].Score })
	if topN >= 0 && len(q) > topN {
		q = q[:topN]
	}
	return q
}

// LeaderboardSource fetches public nations. It is the only blocking call
// behind the leaderboard.
type LeaderboardSource interface {
	ListLeaderboardRecords(ctx context.Context) ([]LeaderboardRecord, error)
}

// LeaderboardCache stores assembled boards between fetches.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context) (*Leaderboard, error)
	SetLeaderboard(ctx context.Context, b *Leaderboard) error
}

// Executor runs fn behind a circuit breaker.
type Executor interface {
	Execute(fn func() (any, error)) (any, error)
}

// LeaderboardObserver receives fetch outcomes.
type LeaderboardObserver interface {
	LeaderboardFetched(d time.Duration, err error)
}

type TierResolver interface {
	Tier(userID string) (Tier, error)
}

type LeaderboardView string

const (
	ViewDefault  LeaderboardView = "default"
	ViewExpanded LeaderboardView = "expanded"
)

type LeaderboardService struct {
	source   LeaderboardSource
	tiers    TierResolver
	breaker  Executor
	cache    LeaderboardCache
	observer LeaderboardObserver
	logger   zerolog.Logger
	now      func() time.Time
}

type LeaderboardOption func(*LeaderboardService)

func WithLeaderboardBreaker(e Executor) LeaderboardOption {
	return func(s *LeaderboardService) { s.breaker = e }
}

func WithLeaderboardCache(c LeaderboardCache) LeaderboardOption {
	return func(s *LeaderboardService) { s.cache = c }
}

func WithLeaderboardObserver(o LeaderboardObserver) LeaderboardOption {
	return func(s *LeaderboardService) { s.observer = o }
}

func WithLeaderboardLogger(l zerolog.Logger) LeaderboardOption {
	return func(s *LeaderboardService) { s.logger = l }
}

func NewLeaderboardService(source LeaderboardSource, tiers TierResolver, opts ...LeaderboardOption) *LeaderboardService {
	s := &LeaderboardService{
		source: source,
		tiers:  tiers,
		logger: zerolog.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the leaderboard for view. The expanded view requires the
// premium tier. Fetch failures yield an empty board, never an error.
func (s *LeaderboardService) Get(ctx context.Context, userID string, view LeaderboardView) (*Leaderboard, error) {
	depth := DefaultLeaderboardDepth
	switch view {
	case "", ViewDefault:
	case ViewExpanded:
		tier := TierFree
		if s.tiers != nil {
			t, err := s.tiers.Tier(userID)
			if err != nil {
				return nil, err
			}
			tier = t
		}
		depth = LimitsFor(tier).LeaderboardDepth
		if depth < ExpandedLeaderboardDepth {
			return nil, NewPaymentRequiredError("expanded leaderboard requires premium")
		}
	default:
		return nil, NewInvalidError("unknown leaderboard view")
	}
	full := s.board(ctx)
	out := full.Truncate(depth)
	return &out, nil
}

// board returns the full-depth board from cache or a fresh fetch.
func (s *LeaderboardService) board(ctx context.Context) Leaderboard {
	if s.cache != nil {
		b, err := s.cache.GetLeaderboard(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("leaderboard cache read failed")
		} else if b != nil {
			return *b
		}
	}

	start := s.now()
	records, err := s.fetch(ctx)
	if s.observer != nil {
		s.observer.LeaderboardFetched(s.now().Sub(start), err)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("leaderboard fetch failed")
		b := EmptyLeaderboard()
		b.GeneratedAt = s.now()
		return b
	}

	b := AssembleLeaderboard(records, ExpandedLeaderboardDepth)
	b.GeneratedAt = s.now()
	if s.cache != nil {
		if err := s.cache.SetLeaderboard(ctx, &b); err != nil {
			s.logger.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return b
}

func (s *LeaderboardService) fetch(ctx context.Context) ([]LeaderboardRecord, error) {
	if s.source == nil {
		return nil, errors.New("no leaderboard source")
	}
	if s.breaker == nil {
		return s.source.ListLeaderboardRecords(ctx)
	}
	v, err := s.breaker.Execute(func() (any, error) {
		return s.source.ListLeaderboardRecords(ctx)
	})
	if err != nil {
		return nil, err
	}
	records, _ := v.([]LeaderboardRecord)
	return records, nil
}
