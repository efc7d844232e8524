package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tourney21/internal/tournament"
)

type fakeSender struct {
	calls []string
	bets  []int
}

func (f *fakeSender) PlaceBet(amount int) error {
	f.calls = append(f.calls, "bet")
	f.bets = append(f.bets, amount)
	return nil
}
func (f *fakeSender) Hit() error        { f.calls = append(f.calls, "hit"); return nil }
func (f *fakeSender) Stand() error      { f.calls = append(f.calls, "stand"); return nil }
func (f *fakeSender) DoubleDown() error { f.calls = append(f.calls, "double"); return nil }
func (f *fakeSender) GetState() error   { f.calls = append(f.calls, "state"); return nil }
func (f *fakeSender) Schedule(start, end time.Time) error {
	f.calls = append(f.calls, "schedule")
	return nil
}
func (f *fakeSender) AdminStart() error { f.calls = append(f.calls, "start"); return nil }
func (f *fakeSender) AdminEnd() error   { f.calls = append(f.calls, "end"); return nil }
func (f *fakeSender) AdminReset() error { f.calls = append(f.calls, "reset"); return nil }

func newTestModel() (*Model, *fakeSender) {
	sender := &fakeSender{}
	return NewModel(sender, 10, log.New(io.Discard)), sender
}

func TestRunCommandDispatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hit", "hit"},
		{"h", "hit"},
		{"stand", "stand"},
		{"s", "stand"},
		{"double", "double"},
		{"d", "double"},
		{"state", "state"},
		{"start", "start"},
		{"end", "end"},
		{"reset", "reset"},
		{"schedule 5", "schedule"},
		{"HIT", "hit"}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, sender := newTestModel()
			quit := m.runCommand(tt.input)
			assert.False(t, quit)
			require.Len(t, sender.calls, 1)
			assert.Equal(t, tt.want, sender.calls[0])
		})
	}
}

func TestRunCommandBetAmounts(t *testing.T) {
	m, sender := newTestModel()

	assert.False(t, m.runCommand("bet 50"))
	assert.False(t, m.runCommand("bet"))   // falls back to default
	assert.False(t, m.runCommand("b 200")) // shorthand

	assert.Equal(t, []int{50, 10, 200}, sender.bets)
}

func TestRunCommandBetRejectsGarbage(t *testing.T) {
	m, sender := newTestModel()

	assert.False(t, m.runCommand("bet lots"))
	assert.Empty(t, sender.calls)
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Usage: bet")
}

func TestRunCommandQuit(t *testing.T) {
	m, sender := newTestModel()

	assert.True(t, m.runCommand("quit"))
	assert.True(t, m.runCommand("q"))
	assert.Empty(t, sender.calls)
}

func TestRunCommandUnknown(t *testing.T) {
	m, _ := newTestModel()

	assert.False(t, m.runCommand("fold"))
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Unknown command: fold")
}

func TestParseScheduleArgs(t *testing.T) {
	start, duration, err := parseScheduleArgs([]string{"5"})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, start)
	assert.Equal(t, 10*time.Minute, duration)

	start, duration, err = parseScheduleArgs([]string{"2", "30"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, start)
	assert.Equal(t, 30*time.Minute, duration)

	_, _, err = parseScheduleArgs(nil)
	assert.Error(t, err)

	_, _, err = parseScheduleArgs([]string{"-1"})
	assert.Error(t, err)

	_, _, err = parseScheduleArgs([]string{"5", "zero"})
	assert.Error(t, err)
}

func TestHandDealtUpdatesState(t *testing.T) {
	m, _ := newTestModel()

	m.Update(HandDealtMsg(tournament.HandUpdate{
		PlayerHand:    []string{"A♠", "7♥"},
		DealerVisible: []string{"9♣"},
		PlayerValue:   18,
		CanDouble:     true,
		Chips:         950,
		Bet:           50,
	}))

	assert.True(t, m.handActive)
	assert.True(t, m.canDouble)
	assert.Equal(t, 950, m.chips)
	assert.Equal(t, 50, m.bet)
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Dealt")
}

func TestHandResultClearsHand(t *testing.T) {
	m, _ := newTestModel()

	m.Update(HandDealtMsg(tournament.HandUpdate{
		PlayerHand: []string{"K♠", "9♥"},
		Chips:      950,
		Bet:        50,
	}))

	m.Update(HandResultMsg(tournament.HandUpdate{
		PlayerHand:  []string{"K♠", "9♥"},
		PlayerValue: 19,
		DealerHand:  []string{"9♦", "8♣"},
		DealerValue: 17,
		Complete:    true,
		Result:      1, // player win
		Payout:      100,
		Chips:       1050,
	}))

	assert.False(t, m.handActive)
	assert.Equal(t, 1050, m.chips)
	assert.Equal(t, 0, m.bet)

	logText := strings.Join(m.gameLog, "\n")
	assert.Contains(t, logText, "You win!")
	assert.Contains(t, logText, "Chips: 1050")
}

func TestTournamentEndShowsWinner(t *testing.T) {
	m, _ := newTestModel()

	m.Update(TournamentEndMsg(tournament.Results{
		Phase: tournament.PhaseEnded,
		Leaderboard: []tournament.LeaderboardEntry{
			{Name: "Alice", Chips: 1500},
		},
		Winner: &tournament.LeaderboardEntry{Name: "Alice", Chips: 1500},
	}))

	assert.Equal(t, tournament.PhaseEnded, m.phase)
	assert.False(t, m.handActive)
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Winner: Alice with 1500 chips")
}

func TestServerErrorLogged(t *testing.T) {
	m, _ := newTestModel()

	m.Update(ServerErrorMsg{Code: "bet_failed", Message: "no chips remaining"})
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "no chips remaining")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 12))
	assert.Equal(t, "abcdefghijk…", truncate("abcdefghijklmnop", 12))
}
