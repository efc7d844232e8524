package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains styling for console output
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Winner    lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Chips     lipgloss.Style
	Dim       lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates the default console styles
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		SubHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Chips: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
	}
}

// Card renders a card string with suit-appropriate color. Hearts and
// diamonds are red, spades and clubs keep the default card style.
func (s *Styles) Card(card string) string {
	if strings.ContainsAny(card, "♥♦") {
		return s.CardRed.Render(card)
	}
	return s.CardBlack.Render(card)
}

// Cards renders a hand of card strings separated by spaces
func (s *Styles) Cards(cards []string) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = s.Card(c)
	}
	return strings.Join(out, " ")
}
