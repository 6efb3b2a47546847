package breakers

import (
	"time"

	"github.com/rs/zerolog"
	cb "github.com/sony/gobreaker"
)

// Breaker guards calls to a collaborator that may be unavailable.
type Breaker struct{ cb *cb.CircuitBreaker }

// Settings tunes a Breaker. Zero values take the defaults used by New.
type Settings struct {
	Name                string
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
}

func New(name string, logger zerolog.Logger) *Breaker {
	return NewWithSettings(Settings{Name: name}, logger)
}

func NewWithSettings(s Settings, logger zerolog.Logger) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 3
	}
	if s.Interval == 0 {
		s.Interval = 60 * time.Second
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	st := cb.Settings{Name: s.Name, Interval: s.Interval, Timeout: s.Timeout}
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= s.ConsecutiveFailures {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	st.OnStateChange = func(name string, from, to cb.State) {
		logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

func (b *Breaker) Execute(fn func() (any, error)) (any, error) { return b.cb.Execute(fn) }

// Open reports whether calls are currently short-circuited.
func (b *Breaker) Open() bool { return b.cb.State() == cb.StateOpen }
