package blackjack

import "github.com/lox/tourney21/internal/deck"

// dealerStandsAt is the total at which the dealer stops drawing. The check
// runs against the soft-resolved total, so the dealer stands on any 17.
const dealerStandsAt = 17

// PlayDealerHand draws cards into the dealer's hand until it reaches 17 or
// more. The shoe refills itself, so this always terminates.
func PlayDealerHand(hand Hand, shoe *deck.Shoe) Hand {
	out := make(Hand, len(hand), len(hand)+4)
	copy(out, hand)

	for HandValue(out) < dealerStandsAt {
		out = append(out, shoe.Draw())
	}

	return out
}
