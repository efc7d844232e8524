package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/tourney21/internal/server"
	"github.com/lox/tourney21/internal/tournament"
)

// Sender is the outbound half of the connection. Implemented by
// client.Client; the model never blocks on it.
type Sender interface {
	PlaceBet(amount int) error
	Hit() error
	Stand() error
	DoubleDown() error
	GetState() error
	Schedule(start, end time.Time) error
	AdminStart() error
	AdminEnd() error
	AdminReset() error
}

// Messages pumped into the model by the bridge
type (
	// JoinedMsg confirms lobby registration
	JoinedMsg server.JoinedData

	// PlayerJoinedMsg announces another player entering the lobby
	PlayerJoinedMsg server.PlayerJoinedData

	// StateMsg carries a tournament snapshot
	StateMsg server.StateData

	// LeaderboardMsg carries fresh standings
	LeaderboardMsg []tournament.LeaderboardEntry

	// CountdownMsg carries a scheduler countdown tick
	CountdownMsg tournament.CountdownUpdate

	// ScheduleMsg carries a schedule change
	ScheduleMsg tournament.Schedule

	// TournamentStartMsg announces the start of play
	TournamentStartMsg tournament.StateSnapshot

	// TournamentEndMsg carries the final results
	TournamentEndMsg tournament.Results

	// HandDealtMsg carries the opening deal of a hand
	HandDealtMsg tournament.HandUpdate

	// CardDrawnMsg carries a hit that left the hand open
	CardDrawnMsg tournament.HandUpdate

	// HandResultMsg carries a resolved hand
	HandResultMsg tournament.HandUpdate

	// ServerErrorMsg carries a rejection from the server
	ServerErrorMsg server.ErrorData

	// DisconnectedMsg signals the connection dropped
	DisconnectedMsg struct{}
)

// Model is the Bubble Tea model for the tournament client
type Model struct {
	sender     Sender
	logger     *log.Logger
	defaultBet int

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State from the server
	phase         tournament.Phase
	timeRemaining int64 // milliseconds
	chips         int
	bet           int
	playerHand    []string
	dealerVisible []string
	playerValue   int
	canDouble     bool
	handActive    bool
	leaderboard   []tournament.LeaderboardEntry
	schedule      tournament.Schedule

	gameLog      []string
	quitting     bool
	disconnected bool

	// Dimensions
	width  int
	height int
}

// NewModel creates a new client model
func NewModel(sender Sender, defaultBet int, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 50, hit, stand, double, state, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	if defaultBet <= 0 {
		defaultBet = 10
	}

	return &Model{
		sender:      sender,
		logger:      logger.WithPrefix("tui"),
		defaultBet:  defaultBet,
		logViewport: vp,
		actionInput: ti,
		phase:       tournament.PhaseLobby,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = max(m.width-32, 20)
		m.logViewport.Height = max(m.height-10, 5)
		m.refreshLog()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if input != "" {
				if quit := m.runCommand(input); quit {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		}

	case JoinedMsg:
		m.chips = msg.Player.Chips
		m.applyState(msg.State)
		m.addLog(SuccessStyle.Render(fmt.Sprintf("Joined as %s with %d chips", msg.Player.Name, msg.Player.Chips)))

	case PlayerJoinedMsg:
		m.addLog(InfoStyle.Render(fmt.Sprintf("%s joined (%d players)", msg.Name, msg.Count)))

	case StateMsg:
		m.applyState(server.StateData(msg))

	case LeaderboardMsg:
		m.leaderboard = msg

	case CountdownMsg:
		m.timeRemaining = msg.Remaining

	case ScheduleMsg:
		m.schedule = tournament.Schedule(msg)
		if m.schedule.IsScheduled {
			m.addLog(WarningStyle.Render(fmt.Sprintf("Tournament scheduled: %s to %s",
				m.schedule.StartTime.Local().Format(time.Kitchen),
				m.schedule.EndTime.Local().Format(time.Kitchen))))
		}

	case TournamentStartMsg:
		m.phase = msg.Phase
		m.timeRemaining = msg.TimeRemaining
		m.addLog(HeaderStyle.Render(" TOURNAMENT STARTED ") + " " + ActionsStyle.Render("Place your bets!"))

	case TournamentEndMsg:
		m.phase = msg.Phase
		m.handActive = false
		m.leaderboard = msg.Leaderboard
		if msg.Winner != nil {
			m.addLog(HeaderStyle.Render(" TOURNAMENT ENDED ") + " " +
				SuccessStyle.Render(fmt.Sprintf("Winner: %s with %d chips", msg.Winner.Name, msg.Winner.Chips)))
		} else {
			m.addLog(HeaderStyle.Render(" TOURNAMENT ENDED "))
		}

	case HandDealtMsg:
		m.applyHand(tournament.HandUpdate(msg))
		m.addLog(fmt.Sprintf("Dealt: %s (%d) vs dealer %s",
			m.formatCards(msg.PlayerHand), msg.PlayerValue, m.formatCards(msg.DealerVisible)))

	case CardDrawnMsg:
		m.applyHand(tournament.HandUpdate(msg))
		last := ""
		if len(msg.PlayerHand) > 0 {
			last = msg.PlayerHand[len(msg.PlayerHand)-1]
		}
		m.addLog(fmt.Sprintf("Drew %s: %s (%d)", m.formatCard(last), m.formatCards(msg.PlayerHand), msg.PlayerValue))

	case HandResultMsg:
		m.applyResult(tournament.HandUpdate(msg))

	case ServerErrorMsg:
		m.addLog(ErrorStyle.Render("Error: " + msg.Message))

	case DisconnectedMsg:
		m.disconnected = true
		m.addLog(ErrorStyle.Render("Disconnected from server"))
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) applyState(state server.StateData) {
	m.phase = state.Phase
	m.timeRemaining = state.TimeRemaining
	m.leaderboard = state.Leaderboard
	m.schedule = state.Schedule
}

func (m *Model) applyHand(u tournament.HandUpdate) {
	m.chips = u.Chips
	m.bet = u.Bet
	m.playerHand = u.PlayerHand
	m.dealerVisible = u.DealerVisible
	m.playerValue = u.PlayerValue
	m.canDouble = u.CanDouble
	m.handActive = true
}

func (m *Model) applyResult(u tournament.HandUpdate) {
	m.chips = u.Chips
	m.bet = 0
	m.playerHand = nil
	m.dealerVisible = nil
	m.handActive = false

	dealer := fmt.Sprintf("dealer %s (%d)", m.formatCards(u.DealerHand), u.DealerValue)
	hand := fmt.Sprintf("%s (%d) vs %s", m.formatCards(u.PlayerHand), u.PlayerValue, dealer)

	switch u.Result.String() {
	case "blackjack":
		m.addLog(SuccessStyle.Render(fmt.Sprintf("BLACKJACK! %s — paid %d", hand, u.Payout)))
	case "player":
		m.addLog(SuccessStyle.Render(fmt.Sprintf("You win! %s — paid %d", hand, u.Payout)))
	case "push":
		m.addLog(WarningStyle.Render(fmt.Sprintf("Push. %s — bet returned", hand)))
	default:
		m.addLog(ErrorStyle.Render(fmt.Sprintf("Dealer wins. %s", hand)))
	}
	m.addLog(InfoStyle.Render(fmt.Sprintf("Chips: %d", u.Chips)))
}

// runCommand parses and executes a user command, returning true on quit
func (m *Model) runCommand(input string) bool {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "q", "exit":
		return true

	case "bet", "b", "deal":
		amount := m.defaultBet
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				m.addLog(ErrorStyle.Render("Usage: bet <amount>"))
				return false
			}
			amount = n
		}
		m.sendAction(m.sender.PlaceBet(amount))

	case "hit", "h":
		m.sendAction(m.sender.Hit())

	case "stand", "s":
		m.sendAction(m.sender.Stand())

	case "double", "d":
		m.sendAction(m.sender.DoubleDown())

	case "state":
		m.sendAction(m.sender.GetState())

	case "start":
		m.sendAction(m.sender.AdminStart())

	case "end":
		m.sendAction(m.sender.AdminEnd())

	case "reset":
		m.sendAction(m.sender.AdminReset())

	case "schedule":
		startIn, duration, err := parseScheduleArgs(fields[1:])
		if err != nil {
			m.addLog(ErrorStyle.Render(err.Error()))
			return false
		}
		start := time.Now().Add(startIn)
		m.sendAction(m.sender.Schedule(start, start.Add(duration)))

	case "help", "?":
		m.addLog(ActionsStyle.Render("Commands:") +
			" bet <amount> | hit | stand | double | state | schedule <start-min> [duration-min] | start | end | reset | quit")

	default:
		m.addLog(ErrorStyle.Render("Unknown command: " + fields[0] + " (try 'help')"))
	}

	return false
}

// parseScheduleArgs reads "schedule <start-minutes> [duration-minutes]"
func parseScheduleArgs(args []string) (startIn, duration time.Duration, err error) {
	if len(args) == 0 {
		return 0, 0, fmt.Errorf("Usage: schedule <start-min> [duration-min]")
	}

	startMin, err := strconv.Atoi(args[0])
	if err != nil || startMin <= 0 {
		return 0, 0, fmt.Errorf("Usage: schedule <start-min> [duration-min]")
	}

	durationMin := 10
	if len(args) > 1 {
		durationMin, err = strconv.Atoi(args[1])
		if err != nil || durationMin <= 0 {
			return 0, 0, fmt.Errorf("Usage: schedule <start-min> [duration-min]")
		}
	}

	return time.Duration(startMin) * time.Minute, time.Duration(durationMin) * time.Minute, nil
}

func (m *Model) sendAction(err error) {
	if err != nil {
		m.addLog(ErrorStyle.Render("Failed to send: " + err.Error()))
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > 500 {
		m.gameLog = m.gameLog[len(m.gameLog)-500:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) formatCard(card string) string {
	if strings.ContainsAny(card, "♥♦") {
		return RedCardStyle.Render(card)
	}
	return BlackCardStyle.Render(card)
}

func (m *Model) formatCards(cards []string) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = m.formatCard(c)
	}
	return strings.Join(out, " ")
}

// View renders the client
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-30, 22)).
		Render(m.logViewport.View())

	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(26).
		Render(m.renderSidebar())

	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)

	inputPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-4, 24)).
		Render(m.renderActionPane())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, inputPane)
}

func (m *Model) renderHeader() string {
	title := HeaderStyle.Render(" TOURNEY21 ")

	status := fmt.Sprintf(" %s", m.phase)
	if m.timeRemaining > 0 {
		remaining := time.Duration(m.timeRemaining) * time.Millisecond
		status += fmt.Sprintf(" | %s remaining", remaining.Round(time.Second))
	}
	if m.disconnected {
		status += " | " + ErrorStyle.Render("DISCONNECTED")
	}

	chips := ChipsStyle.Render(fmt.Sprintf("chips: %d", m.chips))

	return title + GameLogStyle.Render(status) + "  " + chips
}

func (m *Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(ActionsStyle.Render("STANDINGS"))
	b.WriteString("\n")

	if len(m.leaderboard) == 0 {
		b.WriteString(InfoStyle.Render("(no players)"))
	}
	for i, entry := range m.leaderboard {
		if i >= 10 {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("… %d more", len(m.leaderboard)-10)))
			break
		}
		b.WriteString(fmt.Sprintf("%2d. %-12s %5d\n", i+1, truncate(entry.Name, 12), entry.Chips))
	}

	if m.schedule.IsScheduled {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render("Starts " + m.schedule.StartTime.Local().Format(time.Kitchen)))
	}

	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	if m.handActive {
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Your hand: %s (%d)  Dealer: %s  Bet: %d",
			m.formatCards(m.playerHand), m.playerValue, m.formatCards(m.dealerVisible), m.bet)))
		b.WriteString("\n")
		actions := "hit | stand"
		if m.canDouble {
			actions += " | double"
		}
		b.WriteString(ActionsStyle.Render("Actions: " + actions))
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
