package deck

import "testing"

func TestBlackjackValue(t *testing.T) {
	tests := []struct {
		name     string
		card     Card
		expected int
	}{
		{name: "two", card: Card{Suit: Spades, Rank: Two}, expected: 2},
		{name: "nine", card: Card{Suit: Hearts, Rank: Nine}, expected: 9},
		{name: "ten", card: Card{Suit: Diamonds, Rank: Ten}, expected: 10},
		{name: "jack", card: Card{Suit: Clubs, Rank: Jack}, expected: 10},
		{name: "queen", card: Card{Suit: Spades, Rank: Queen}, expected: 10},
		{name: "king", card: Card{Suit: Hearts, Rank: King}, expected: 10},
		{name: "ace", card: Card{Suit: Diamonds, Rank: Ace}, expected: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.BlackjackValue(); got != tt.expected {
				t.Errorf("BlackjackValue(%s) = %d, want %d", tt.card, got, tt.expected)
			}
		})
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card     Card
		expected string
	}{
		{Card{Suit: Spades, Rank: Ace}, "A♠"},
		{Card{Suit: Hearts, Rank: Ten}, "10♥"},
		{Card{Suit: Diamonds, Rank: Two}, "2♦"},
		{Card{Suit: Clubs, Rank: Queen}, "Q♣"},
	}

	for _, tt := range tests {
		if got := tt.card.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestCardMarshalJSON(t *testing.T) {
	card := Card{Suit: Spades, Rank: Ten}
	data, err := card.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(data) != `"10♠"` {
		t.Errorf("MarshalJSON = %s, want %q", data, `"10♠"`)
	}
}

func TestIsFaceCard(t *testing.T) {
	if !(Card{Rank: Jack}).IsFaceCard() || !(Card{Rank: King}).IsFaceCard() {
		t.Error("expected J and K to be face cards")
	}
	if (Card{Rank: Ace}).IsFaceCard() || (Card{Rank: Ten}).IsFaceCard() {
		t.Error("expected A and 10 to not be face cards")
	}
}
