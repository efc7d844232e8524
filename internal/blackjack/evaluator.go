package blackjack

import (
	"encoding/json"
	"fmt"

	"github.com/lox/tourney21/internal/deck"
)

// Hand is an ordered sequence of cards. Order matters only for display;
// value is recomputed on every query.
type Hand []deck.Card

// Strings returns the display strings for each card in the hand
func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}

// HandValue returns the blackjack total of a hand. Aces count 11 until the
// total exceeds 21, then they are reduced to 1 one at a time.
func HandValue(h Hand) int {
	value := 0
	aces := 0

	for _, c := range h {
		value += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}

	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}

	return value
}

// IsBlackjack returns true for a natural: exactly two cards totalling 21
func IsBlackjack(h Hand) bool {
	return len(h) == 2 && HandValue(h) == 21
}

// IsBust returns true if the hand's value exceeds 21
func IsBust(h Hand) bool {
	return HandValue(h) > 21
}

// CanDoubleDown returns true while the hand is still the original two cards
func CanDoubleDown(h Hand) bool {
	return len(h) == 2
}

// Outcome is the result of a resolved hand from the player's perspective
type Outcome int

const (
	OutcomeDealer Outcome = iota
	OutcomePlayer
	OutcomePush
	OutcomeBlackjack
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeDealer:
		return "dealer"
	case OutcomePlayer:
		return "player"
	case OutcomePush:
		return "push"
	case OutcomeBlackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the outcome as its string form
func (o Outcome) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// UnmarshalJSON decodes an outcome from its string form
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "dealer":
		*o = OutcomeDealer
	case "player":
		*o = OutcomePlayer
	case "push":
		*o = OutcomePush
	case "blackjack":
		*o = OutcomeBlackjack
	default:
		return fmt.Errorf("unknown outcome: %q", s)
	}
	return nil
}

// DetermineWinner resolves a hand. The precedence is fixed: both naturals
// push, a lone natural beats everything, busts are checked before raw
// totals are compared.
func DetermineWinner(player, dealer Hand, playerBlackjack, dealerBlackjack bool) Outcome {
	playerValue := HandValue(player)
	dealerValue := HandValue(dealer)

	switch {
	case playerBlackjack && dealerBlackjack:
		return OutcomePush
	case playerBlackjack:
		return OutcomeBlackjack
	case dealerBlackjack:
		return OutcomeDealer
	case playerValue > 21:
		return OutcomeDealer
	case dealerValue > 21:
		return OutcomePlayer
	case playerValue > dealerValue:
		return OutcomePlayer
	case dealerValue > playerValue:
		return OutcomeDealer
	default:
		return OutcomePush
	}
}

// Payout returns the total credited back to a player for a resolved bet,
// including the returned stake. A natural pays 3:2 with the bonus floored.
func Payout(bet int, o Outcome) int {
	switch o {
	case OutcomeBlackjack:
		return bet + (bet*3)/2
	case OutcomePlayer:
		return bet * 2
	case OutcomePush:
		return bet
	default:
		return 0
	}
}
