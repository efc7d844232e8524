package deck

import (
	"testing"

	"github.com/lox/tourney21/internal/randutil"
)

func TestNewShoeSize(t *testing.T) {
	tests := []struct {
		name     string
		numDecks int
		expected int
	}{
		{name: "single deck", numDecks: 1, expected: 52},
		{name: "six decks", numDecks: 6, expected: 312},
		{name: "zero falls back to default", numDecks: 0, expected: DefaultDecks * 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shoe := NewShoe(tt.numDecks)
			if got := shoe.CardsRemaining(); got != tt.expected {
				t.Errorf("CardsRemaining() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestShoeContainsFullDecks(t *testing.T) {
	shoe := NewShoeWithRand(2, randutil.New(1))

	counts := make(map[Card]int)
	for i := 0; i < 104; i++ {
		counts[shoe.Draw()]++
	}

	if len(counts) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(counts))
	}
	for card, n := range counts {
		if n != 2 {
			t.Errorf("expected 2 copies of %s, got %d", card, n)
		}
	}
}

func TestShoeRefillsWhenExhausted(t *testing.T) {
	shoe := NewShoeWithRand(6, randutil.New(42))

	// Draw all but the last card of the 312-card shoe
	for i := 0; i < 311; i++ {
		shoe.Draw()
	}
	if got := shoe.CardsRemaining(); got != 1 {
		t.Fatalf("expected 1 card remaining, got %d", got)
	}

	shoe.Draw() // last card
	if got := shoe.CardsRemaining(); got != 0 {
		t.Fatalf("expected empty shoe, got %d cards", got)
	}

	// The next draw must trigger a refill and still yield a card
	card := shoe.Draw()
	if card.Rank < Two || card.Rank > Ace {
		t.Errorf("draw from refilled shoe returned invalid card: %v", card)
	}
	if got := shoe.CardsRemaining(); got != 311 {
		t.Errorf("expected 311 cards after refill draw, got %d", got)
	}
}

func TestShoeDeterministicWithSeed(t *testing.T) {
	a := NewShoeWithRand(1, randutil.New(7))
	b := NewShoeWithRand(1, randutil.New(7))

	for i := 0; i < 52; i++ {
		if ca, cb := a.Draw(), b.Draw(); ca != cb {
			t.Fatalf("draw %d differed: %s vs %s", i, ca, cb)
		}
	}
}

func TestShuffleOrderVariesBySeed(t *testing.T) {
	first := NewShoeWithRand(1, randutil.New(1)).DrawN(52)
	second := NewShoeWithRand(1, randutil.New(2)).DrawN(52)

	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical shuffle order")
	}
}
