package blackjack

import (
	"errors"

	"github.com/lox/tourney21/internal/deck"
)

// SessionStatus tracks whether a hand session still accepts player actions
type SessionStatus int

const (
	StatusPlaying SessionStatus = iota
	StatusComplete
)

// String returns the string representation of a session status
func (s SessionStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	// ErrHandComplete is returned when an action is attempted on a hand
	// that has already been resolved
	ErrHandComplete = errors.New("hand already complete")

	// ErrCannotDouble is returned when a double down is attempted after
	// the hand has grown beyond its original two cards
	ErrCannotDouble = errors.New("cannot double down")
)

// HandSession is the per-player state of one hand against the dealer. It is
// created when a bet is placed and discarded as soon as the hand resolves;
// a player never holds two at once.
type HandSession struct {
	PlayerHand Hand
	DealerHand Hand
	Status     SessionStatus
	Doubled    bool
	Result     Outcome
}

// NewHandSession deals the opening cards alternately: player, dealer,
// player, dealer. The deal order is fixed for reproducibility.
func NewHandSession(shoe *deck.Shoe) *HandSession {
	s := &HandSession{
		PlayerHand: make(Hand, 0, 2),
		DealerHand: make(Hand, 0, 2),
		Status:     StatusPlaying,
	}

	for i := 0; i < 2; i++ {
		s.PlayerHand = append(s.PlayerHand, shoe.Draw())
		s.DealerHand = append(s.DealerHand, shoe.Draw())
	}

	return s
}

// DealerUpcard returns the dealer's exposed first card. The hole card stays
// hidden until resolution.
func (s *HandSession) DealerUpcard() Hand {
	return Hand{s.DealerHand[0]}
}

// HasBlackjack reports whether either side was dealt a natural
func (s *HandSession) HasBlackjack() (player, dealer bool) {
	return IsBlackjack(s.PlayerHand), IsBlackjack(s.DealerHand)
}

// Hit draws one card into the player's hand. It returns true if the hand
// busted, which forces resolution.
func (s *HandSession) Hit(shoe *deck.Shoe) (busted bool, err error) {
	if s.Status != StatusPlaying {
		return false, ErrHandComplete
	}

	s.PlayerHand = append(s.PlayerHand, shoe.Draw())
	return IsBust(s.PlayerHand), nil
}

// DoubleDown marks the session doubled and draws the single permitted card.
// Chip movement is the caller's responsibility; the session only enforces
// the two-card rule.
func (s *HandSession) DoubleDown(shoe *deck.Shoe) error {
	if s.Status != StatusPlaying {
		return ErrHandComplete
	}
	if !CanDoubleDown(s.PlayerHand) {
		return ErrCannotDouble
	}

	s.Doubled = true
	s.PlayerHand = append(s.PlayerHand, shoe.Draw())
	return nil
}

// Resolve plays out the dealer if needed, determines the outcome and marks
// the session complete. It must run exactly once; subsequent calls fail.
func (s *HandSession) Resolve(shoe *deck.Shoe) (Outcome, error) {
	if s.Status != StatusPlaying {
		return s.Result, ErrHandComplete
	}

	// A busted player never sees the dealer draw
	if !IsBust(s.PlayerHand) {
		s.DealerHand = PlayDealerHand(s.DealerHand, shoe)
	}

	playerBJ, dealerBJ := s.HasBlackjack()
	s.Result = DetermineWinner(s.PlayerHand, s.DealerHand, playerBJ, dealerBJ)
	s.Status = StatusComplete

	return s.Result, nil
}
