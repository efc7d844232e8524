package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lox/tourney21/internal/tournament"
)

// StandingsMonitor prints tournament progress to a writer, intended for
// the server console. It subscribes to the tournament the same way the
// broadcast layer does.
type StandingsMonitor struct {
	mu     sync.Mutex
	writer io.Writer
	styles *Styles
}

// NewStandingsMonitor creates a monitor that writes to w, defaulting to
// stdout when w is nil
func NewStandingsMonitor(w io.Writer) *StandingsMonitor {
	if w == nil {
		w = os.Stdout
	}
	return &StandingsMonitor{
		writer: w,
		styles: NewStyles(),
	}
}

// LeaderboardChanged implements tournament.Observer
func (m *StandingsMonitor) LeaderboardChanged(lb []tournament.LeaderboardEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprint(m.writer, m.formatLeaderboard(lb))
}

// PhaseChanged implements tournament.Observer
func (m *StandingsMonitor) PhaseChanged(state tournament.StateSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch state.Phase {
	case tournament.PhaseLobby:
		fmt.Fprintln(m.writer, m.styles.Header.Render("LOBBY OPEN"))
	case tournament.PhasePlaying:
		fmt.Fprintln(m.writer, m.styles.Header.Render("TOURNAMENT STARTED"))
		fmt.Fprintf(m.writer, "%s %s\n",
			m.styles.Dim.Render("players:"),
			fmt.Sprintf("%d", state.PlayerCount))
	case tournament.PhaseEnded:
		fmt.Fprintln(m.writer, m.styles.Header.Render("TOURNAMENT ENDED"))
		fmt.Fprint(m.writer, m.formatFinal(state.Leaderboard))
	}
}

// ScheduleChanged implements tournament.ScheduleObserver
func (m *StandingsMonitor) ScheduleChanged(schedule tournament.Schedule) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !schedule.IsScheduled {
		fmt.Fprintln(m.writer, m.styles.Dim.Render("schedule cleared"))
		return
	}
	fmt.Fprintf(m.writer, "%s %s -> %s\n",
		m.styles.SubHeader.Render("SCHEDULED"),
		schedule.StartTime.Format(time.Kitchen),
		schedule.EndTime.Format(time.Kitchen))
}

// CountdownTick implements tournament.ScheduleObserver. Ticks are noisy,
// only round minutes and the final ten seconds are printed.
func (m *StandingsMonitor) CountdownTick(update tournament.CountdownUpdate) {
	seconds := update.Remaining / 1000
	if seconds > 10 && seconds%60 != 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprintf(m.writer, "%s %s in %ds\n",
		m.styles.Dim.Render("countdown:"),
		nextPhaseLabel(update.Phase), seconds)
}

func (m *StandingsMonitor) formatLeaderboard(lb []tournament.LeaderboardEntry) string {
	var b strings.Builder

	b.WriteString(m.styles.SubHeader.Render("STANDINGS"))
	b.WriteString("\n")

	if len(lb) == 0 {
		b.WriteString(m.styles.Dim.Render("  (no players)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, entry := range lb {
		b.WriteString(fmt.Sprintf("  %2d. %-20s %s  %s\n",
			i+1,
			entry.Name,
			m.styles.Chips.Render(fmt.Sprintf("%6d", entry.Chips)),
			m.styles.Dim.Render(fmt.Sprintf("(%d/%d hands won)", entry.HandsWon, entry.HandsPlayed))))
	}

	return b.String()
}

func (m *StandingsMonitor) formatFinal(lb []tournament.LeaderboardEntry) string {
	var b strings.Builder

	if len(lb) > 0 {
		b.WriteString(m.styles.Winner.Render(
			fmt.Sprintf("*** WINNER: %s with %d chips ***", lb[0].Name, lb[0].Chips)))
		b.WriteString("\n")
	}
	b.WriteString(m.formatLeaderboard(lb))

	return b.String()
}

func nextPhaseLabel(p tournament.Phase) string {
	if p == tournament.PhaseLobby {
		return "start"
	}
	return "end"
}
