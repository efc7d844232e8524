package tournament

import (
	"github.com/lox/tourney21/internal/blackjack"
)

// Player is a registered tournament entrant. All mutation happens under the
// tournament lock.
type Player struct {
	ID          string
	Name        string
	Chips       int
	Session     *blackjack.HandSession
	CurrentBet  int
	HandsPlayed int
	HandsWon    int

	joinOrder int // breaks leaderboard ties deterministically
}

// LeaderboardEntry is a player's standing on the chip-count leaderboard
type LeaderboardEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Chips       int    `json:"chips"`
	HandsPlayed int    `json:"handsPlayed"`
	HandsWon    int    `json:"handsWon"`
}

// ActiveHandState describes a player's in-progress hand with the dealer's
// hole card still hidden
type ActiveHandState struct {
	PlayerHand    []string `json:"playerHand"`
	DealerVisible []string `json:"dealerVisible"`
	PlayerValue   int      `json:"playerValue"`
	CanDouble     bool     `json:"canDouble"`
}

// PlayerSnapshot is a read-only view of a player's state
type PlayerSnapshot struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Chips         int              `json:"chips"`
	HandsPlayed   int              `json:"handsPlayed"`
	HandsWon      int              `json:"handsWon"`
	HasActiveHand bool             `json:"hasActiveHand"`
	CurrentHand   *ActiveHandState `json:"currentHand,omitempty"`
}

func (p *Player) entry() LeaderboardEntry {
	return LeaderboardEntry{
		ID:          p.ID,
		Name:        p.Name,
		Chips:       p.Chips,
		HandsPlayed: p.HandsPlayed,
		HandsWon:    p.HandsWon,
	}
}

func (p *Player) snapshot() *PlayerSnapshot {
	snap := &PlayerSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Chips:         p.Chips,
		HandsPlayed:   p.HandsPlayed,
		HandsWon:      p.HandsWon,
		HasActiveHand: p.Session != nil,
	}

	if p.Session != nil {
		snap.CurrentHand = &ActiveHandState{
			PlayerHand:    p.Session.PlayerHand.Strings(),
			DealerVisible: p.Session.DealerUpcard().Strings(),
			PlayerValue:   blackjack.HandValue(p.Session.PlayerHand),
			CanDouble:     blackjack.CanDoubleDown(p.Session.PlayerHand) && p.Chips >= p.CurrentBet,
		}
	}

	return snap
}
