// Package nitnem defines the daily liturgy order and the policy that decides
// what plays after a track finishes.
package nitnem

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Order is the daily recitation sequence. Sukhmani Sahib ("10") is deliberately absent:
// it has audio but plays standalone.
var Order = []string{"1", "2", "3", "4", "5", "6", "8"}

// Names maps liturgy item IDs to their display names.
var Names = map[string]string{
	"1":  "Japji Sahib",
	"2":  "Jaap Sahib",
	"3":  "Tav Prasad Savaiye",
	"4":  "Chaupai Sahib",
	"5":  "Anand Sahib",
	"6":  "Rehras Sahib",
	"8":  "Kirtan Sohila",
	"10": "Sukhmani Sahib",
}

// ActionKind enumerates policy outcomes.
type ActionKind int

const (
	NoAction ActionKind = iota
	AdvanceTo
	SequenceComplete
)

func (k ActionKind) String() string {
	switch k {
	case AdvanceTo:
		return "advance"
	case SequenceComplete:
		return "sequence-complete"
	default:
		return "none"
	}
}

// Action is what the session should do after a completion.
// Next is set only for AdvanceTo.
type Action struct {
	Kind ActionKind
	Next string
}

// Context carries what the policy knows about the listener's situation.
type Context struct {
	// WithinLiturgy is true when playback was started as part of the daily sequence.
	WithinLiturgy bool
}

// Policy decides the follow-up for a finished item.
type Policy interface {
	OnTrackCompleted(itemID string, ctx Context) Action
}

// Sequence is the ordered liturgy policy.
type Sequence struct {
	order []string
}

// New returns a sequence policy over the given order.
func New(order []string) *Sequence {
	return &Sequence{order: append([]string(nil), order...)}
}

// Default returns the policy for the daily Nitnem.
func Default() *Sequence {
	return New(Order)
}

// Order returns a copy of the sequence.
func (s *Sequence) Order() []string {
	return append([]string(nil), s.order...)
}

// Index returns the position of an item in the sequence.
func (s *Sequence) Index(itemID string) mo.Option[int] {
	_, i, ok := lo.FindIndexOf(s.order, func(id string) bool { return id == itemID })
	if !ok {
		return mo.None[int]()
	}
	return mo.Some(i)
}

// Contains reports whether the item is part of the sequence.
func (s *Sequence) Contains(itemID string) bool {
	return s.Index(itemID).IsPresent()
}

// First returns the first item of the sequence.
func (s *Sequence) First() mo.Option[string] {
	if len(s.order) == 0 {
		return mo.None[string]()
	}
	return mo.Some(s.order[0])
}

// OnTrackCompleted advances to the next item, signals completion after the last one
// and does nothing for items outside the sequence or outside a liturgy.
func (s *Sequence) OnTrackCompleted(itemID string, ctx Context) Action {
	if !ctx.WithinLiturgy {
		return Action{Kind: NoAction}
	}

	i, ok := s.Index(itemID).Get()
	if !ok {
		return Action{Kind: NoAction}
	}

	if i == len(s.order)-1 {
		return Action{Kind: SequenceComplete}
	}

	return Action{Kind: AdvanceTo, Next: s.order[i+1]}
}

// Shuffle picks a random item from candidates other than current.
// It is an explicit user command and never consulted by the completion policy.
func Shuffle(candidates []string, current string) mo.Option[string] {
	pool := lo.Filter(candidates, func(id string, _ int) bool {
		return id != current
	})
	if len(pool) == 0 {
		return mo.None[string]()
	}
	return mo.Some(lo.Sample(pool))
}
