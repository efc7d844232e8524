package blackjack

import (
	"testing"

	"github.com/lox/tourney21/internal/deck"
)

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.Card{Suit: suit, Rank: rank}
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name     string
		hand     Hand
		expected int
	}{
		{
			name:     "simple total",
			hand:     Hand{card(deck.Ten, deck.Spades), card(deck.Nine, deck.Hearts)},
			expected: 19,
		},
		{
			name:     "face cards count ten",
			hand:     Hand{card(deck.King, deck.Clubs), card(deck.Queen, deck.Diamonds)},
			expected: 20,
		},
		{
			name:     "soft ace stays eleven",
			hand:     Hand{card(deck.Ace, deck.Spades), card(deck.Six, deck.Hearts)},
			expected: 17,
		},
		{
			name:     "ace reduces on bust",
			hand:     Hand{card(deck.Ace, deck.Spades), card(deck.Six, deck.Hearts), card(deck.Ten, deck.Clubs)},
			expected: 17,
		},
		{
			name:     "two aces reduce one",
			hand:     Hand{card(deck.Ace, deck.Spades), card(deck.Ace, deck.Hearts)},
			expected: 12,
		},
		{
			name: "multiple aces reduce as needed",
			hand: Hand{
				card(deck.Ace, deck.Spades),
				card(deck.Ace, deck.Hearts),
				card(deck.Ace, deck.Diamonds),
				card(deck.Eight, deck.Clubs),
			},
			expected: 21,
		},
		{
			name: "all aces reduced still busts",
			hand: Hand{
				card(deck.Ace, deck.Spades),
				card(deck.King, deck.Hearts),
				card(deck.Nine, deck.Diamonds),
				card(deck.Five, deck.Clubs),
			},
			expected: 25,
		},
		{
			name:     "natural twenty one",
			hand:     Hand{card(deck.Ace, deck.Spades), card(deck.King, deck.Hearts)},
			expected: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandValue(tt.hand); got != tt.expected {
				t.Errorf("HandValue(%v) = %d, want %d", tt.hand, got, tt.expected)
			}
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	natural := Hand{card(deck.Ten, deck.Spades), card(deck.Ace, deck.Hearts)}
	if !IsBlackjack(natural) {
		t.Error("expected 10+A to be blackjack")
	}

	// A three-card 21 is never a blackjack
	threeCard := Hand{card(deck.Seven, deck.Spades), card(deck.Seven, deck.Hearts), card(deck.Seven, deck.Clubs)}
	if HandValue(threeCard) != 21 {
		t.Fatalf("expected 21, got %d", HandValue(threeCard))
	}
	if IsBlackjack(threeCard) {
		t.Error("three-card 21 must not be blackjack")
	}

	twenty := Hand{card(deck.Ten, deck.Spades), card(deck.Queen, deck.Hearts)}
	if IsBlackjack(twenty) {
		t.Error("two-card 20 must not be blackjack")
	}
}

func TestIsBust(t *testing.T) {
	if IsBust(Hand{card(deck.Ten, deck.Spades), card(deck.Ace, deck.Hearts)}) {
		t.Error("21 is not a bust")
	}
	if !IsBust(Hand{card(deck.Ten, deck.Spades), card(deck.Nine, deck.Hearts), card(deck.Five, deck.Clubs)}) {
		t.Error("24 is a bust")
	}
}

func TestCanDoubleDown(t *testing.T) {
	if !CanDoubleDown(Hand{card(deck.Five, deck.Spades), card(deck.Six, deck.Hearts)}) {
		t.Error("two-card hand should allow double down")
	}
	if CanDoubleDown(Hand{card(deck.Five, deck.Spades), card(deck.Six, deck.Hearts), card(deck.Two, deck.Clubs)}) {
		t.Error("three-card hand must not allow double down")
	}
}

func TestDetermineWinner(t *testing.T) {
	bj := Hand{card(deck.Ten, deck.Spades), card(deck.Ace, deck.Hearts)}
	nineteen := Hand{card(deck.Ten, deck.Spades), card(deck.Nine, deck.Hearts)}
	twenty := Hand{card(deck.Ten, deck.Clubs), card(deck.King, deck.Diamonds)}
	sixteen := Hand{card(deck.Nine, deck.Clubs), card(deck.Seven, deck.Diamonds)}
	bust := Hand{card(deck.Ten, deck.Spades), card(deck.Nine, deck.Hearts), card(deck.Five, deck.Clubs)}

	tests := []struct {
		name               string
		player, dealer     Hand
		playerBJ, dealerBJ bool
		expected           Outcome
	}{
		{name: "both blackjack pushes", player: bj, dealer: bj, playerBJ: true, dealerBJ: true, expected: OutcomePush},
		{name: "player blackjack wins with bonus", player: bj, dealer: sixteen, playerBJ: true, expected: OutcomeBlackjack},
		{name: "dealer blackjack wins", player: twenty, dealer: bj, dealerBJ: true, expected: OutcomeDealer},
		{name: "player bust loses", player: bust, dealer: sixteen, expected: OutcomeDealer},
		{name: "dealer bust loses", player: nineteen, dealer: bust, expected: OutcomePlayer},
		{name: "higher total wins", player: twenty, dealer: nineteen, expected: OutcomePlayer},
		{name: "nineteen loses to twenty", player: nineteen, dealer: twenty, expected: OutcomeDealer},
		{name: "equal totals push", player: nineteen, dealer: Hand{card(deck.Nine, deck.Clubs), card(deck.Ten, deck.Diamonds)}, expected: OutcomePush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineWinner(tt.player, tt.dealer, tt.playerBJ, tt.dealerBJ)
			if got != tt.expected {
				t.Errorf("DetermineWinner() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		name     string
		bet      int
		outcome  Outcome
		expected int
	}{
		{name: "blackjack pays three to two", bet: 100, outcome: OutcomeBlackjack, expected: 250},
		{name: "blackjack bonus floors", bet: 15, outcome: OutcomeBlackjack, expected: 37},
		{name: "win pays even money", bet: 100, outcome: OutcomePlayer, expected: 200},
		{name: "push returns stake", bet: 100, outcome: OutcomePush, expected: 100},
		{name: "loss pays nothing", bet: 100, outcome: OutcomeDealer, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Payout(tt.bet, tt.outcome); got != tt.expected {
				t.Errorf("Payout(%d, %s) = %d, want %d", tt.bet, tt.outcome, got, tt.expected)
			}
		})
	}
}
