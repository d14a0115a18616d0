// Package selector performs the weighted random pick over registered
// programs, honoring a pinned next pick and a fixed chance of launching
// nothing at all.
package selector

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/lvim-tech/rl/internal/log"
	"github.com/lvim-tech/rl/pkg/registry"
)

// DefaultNoLaunchChance is the probability that Select returns NoLaunch.
const DefaultNoLaunchChance = 0.10

// Source is the randomness Select draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Kind tells the outcomes apart.
type Kind int

const (
	NoLaunch Kind = iota
	Selected
	NoEligiblePrograms
)

func (k Kind) String() string {
	switch k {
	case NoLaunch:
		return "no launch"
	case Selected:
		return "selected"
	case NoEligiblePrograms:
		return "no eligible programs"
	default:
		return "unknown"
	}
}

// Outcome is the result of one Select call. Path is set only for
// Selected; Pinned reports that the session's pin decided the pick.
type Outcome struct {
	Kind   Kind
	Path   string
	Pinned bool
}

// Checked is the set of paths the caller currently has ticked.
type Checked map[string]bool

// CheckedOf returns a set containing paths.
func CheckedOf(paths ...string) Checked {
	c := make(Checked, len(paths))
	for _, p := range paths {
		c[p] = true
	}
	return c
}

// CheckAll returns a set containing every entry's path.
func CheckAll(entries []registry.Entry) Checked {
	c := make(Checked, len(entries))
	for _, e := range entries {
		c[e.Path] = true
	}
	return c
}

// Option configures a Selector.
type Option func(*Selector)

// WithSource replaces the random source.
func WithSource(src Source) Option {
	return func(s *Selector) {
		s.src = src
	}
}

// WithSeed uses a deterministic source seeded with seed.
func WithSeed(seed int64) Option {
	return func(s *Selector) {
		s.src = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	}
}

// WithNoLaunchChance sets the probability of a NoLaunch outcome.
// Values are clamped into [0, 1].
func WithNoLaunchChance(chance float64) Option {
	return func(s *Selector) {
		s.noLaunchChance = max(0, min(chance, 1))
	}
}

// Selector draws outcomes. It is not safe for concurrent use.
type Selector struct {
	src            Source
	noLaunchChance float64
}

// New returns a selector seeded from the clock unless a source or
// seed option is given.
func New(opts ...Option) *Selector {
	now := uint64(time.Now().UnixNano())
	s := &Selector{
		src:            rand.New(rand.NewPCG(now, now>>1|1)),
		noLaunchChance: DefaultNoLaunchChance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NoLaunchChance returns the configured no-launch probability.
func (s *Selector) NoLaunchChance() float64 {
	return s.noLaunchChance
}

// Select picks one program among the entries that are both checked and
// enabled, each weighted by its priority.
//
// The no-launch draw happens first and leaves the pin alone. A pin is
// honored, and then cleared, only when it names an enabled entry that is
// in the pool; otherwise it stays set and the weighted draw decides.
// session may be nil.
func (s *Selector) Select(entries []registry.Entry, checked Checked, session *Session) Outcome {
	if s.src.Float64() < s.noLaunchChance {
		log.Info(log.CatSelector, "no launch this time")
		return Outcome{Kind: NoLaunch}
	}

	pool := Pool(entries, checked)
	if len(pool) == 0 {
		log.Info(log.CatSelector, "no eligible programs", "entries", len(entries), "checked", len(checked))
		return Outcome{Kind: NoEligiblePrograms}
	}

	if pin, ok := session.Next(); ok {
		if pinEligible(pin, entries, pool) {
			session.ClearNext()
			log.Info(log.CatSelector, "pinned program selected", "path", pin)
			return Outcome{Kind: Selected, Path: pin, Pinned: true}
		}
		log.Debug(log.CatSelector, "pin not eligible, keeping it", "path", pin)
	}

	path := pool[s.src.IntN(len(pool))]
	log.Info(log.CatSelector, "program selected", "path", path, "pool", len(pool))
	return Outcome{Kind: Selected, Path: path}
}

// Pool lists the path of every checked, enabled entry once per unit of
// priority. Entries with a priority below one still appear once.
func Pool(entries []registry.Entry, checked Checked) []string {
	var pool []string
	for _, e := range entries {
		if !e.Enabled || !checked[e.Path] {
			continue
		}
		for range max(e.Priority, 1) {
			pool = append(pool, e.Path)
		}
	}
	return pool
}

func pinEligible(pin string, entries []registry.Entry, pool []string) bool {
	enabled := slices.ContainsFunc(entries, func(e registry.Entry) bool {
		return e.Path == pin && e.Enabled
	})
	return enabled && slices.Contains(pool, pin)
}
