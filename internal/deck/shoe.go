package deck

import (
	rand "math/rand/v2"
	"time"

	"github.com/lox/tourney21/internal/randutil"
)

// DefaultDecks is the number of decks a shoe holds between refills
const DefaultDecks = 6

// Shoe represents a multi-deck dealing shoe. Cards are drawn from the top;
// when the shoe runs out it refills itself with a freshly shuffled batch, so
// a draw never fails.
type Shoe struct {
	cards    []Card
	numDecks int
	rng      *rand.Rand
}

// NewShoe creates a shoe holding numDecks shuffled standard decks.
// A numDecks of zero or less falls back to DefaultDecks.
func NewShoe(numDecks int) *Shoe {
	return NewShoeWithRand(numDecks, randutil.New(time.Now().UnixNano()))
}

// NewShoeWithRand creates a shoe using the supplied random source, which
// makes the shuffle order reproducible in tests.
func NewShoeWithRand(numDecks int, rng *rand.Rand) *Shoe {
	if numDecks <= 0 {
		numDecks = DefaultDecks
	}

	s := &Shoe{
		cards:    make([]Card, 0, numDecks*52),
		numDecks: numDecks,
		rng:      rng,
	}
	s.refill()

	return s
}

// NewStackedShoe creates a shoe that deals the given cards in order. Tests
// use this to fix the draw sequence; once exhausted it refills and shuffles
// like a regular shoe.
func NewStackedShoe(cards ...Card) *Shoe {
	s := NewShoe(DefaultDecks)
	s.cards = append([]Card{}, cards...)
	return s
}

// refill rebuilds the shoe with numDecks fresh decks and shuffles them
func (s *Shoe) refill() {
	s.cards = s.cards[:0]

	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}

	s.Shuffle()
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card. An empty shoe is refilled with a
// freshly shuffled batch before the draw, so Draw always yields a card.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.refill()
	}

	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// DrawN draws n cards from the shoe
func (s *Shoe) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		cards[i] = s.Draw()
	}
	return cards
}

// CardsRemaining returns the number of cards left before the next refill
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}

// NumDecks returns the number of decks the shoe refills with
func (s *Shoe) NumDecks() int {
	return s.numDecks
}
