package tournament

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tourney21/internal/blackjack"
	"github.com/lox/tourney21/internal/deck"
)

// Phase is a tournament lifecycle stage
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseEnded
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the phase as its string form
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON decodes a phase from its string form
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "lobby":
		*p = PhaseLobby
	case "playing":
		*p = PhasePlaying
	case "ended":
		*p = PhaseEnded
	default:
		return fmt.Errorf("unknown phase: %q", s)
	}
	return nil
}

var (
	ErrNotInLobby         = errors.New("tournament already started")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotInProgress      = errors.New("tournament not in progress")
	ErrHandInProgress     = errors.New("hand already in progress")
	ErrNoActiveHand       = errors.New("no active hand")
	ErrInsufficientChips  = errors.New("insufficient chips")
	ErrNoChips            = errors.New("no chips remaining")
	ErrCannotAffordDouble = errors.New("insufficient chips to double")
	ErrNoPlayers          = errors.New("need at least 1 player")
)

// Options is the fixed configuration of a tournament run
type Options struct {
	JoinPeriod    time.Duration // lobby countdown when no explicit schedule is set
	Duration      time.Duration // playing time when started without a schedule
	StartingChips int
	MinBet        int
	MaxBet        int
	NumDecks      int
}

// DefaultOptions returns the standard tournament configuration
func DefaultOptions() Options {
	return Options{
		JoinPeriod:    120 * time.Second,
		Duration:      600 * time.Second,
		StartingChips: 1000,
		MinBet:        10,
		MaxBet:        500,
		NumDecks:      deck.DefaultDecks,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.JoinPeriod <= 0 {
		o.JoinPeriod = d.JoinPeriod
	}
	if o.Duration <= 0 {
		o.Duration = d.Duration
	}
	if o.StartingChips <= 0 {
		o.StartingChips = d.StartingChips
	}
	if o.MinBet <= 0 {
		o.MinBet = d.MinBet
	}
	if o.MaxBet <= 0 {
		o.MaxBet = d.MaxBet
	}
	if o.NumDecks <= 0 {
		o.NumDecks = d.NumDecks
	}
	return o
}

// StateSnapshot is a read-only view of the tournament for broadcast
type StateSnapshot struct {
	Phase         Phase              `json:"phase"`
	TimeRemaining int64              `json:"timeRemaining"` // milliseconds
	PlayerCount   int                `json:"playerCount"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}

// Results is the final outcome of a tournament
type Results struct {
	Phase       Phase              `json:"phase"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Winner      *LeaderboardEntry  `json:"winner,omitempty"`
}

// HandUpdate is the player-facing result of a bet or hand action. Complete
// is set once the hand has resolved, at which point the dealer's full hand
// and the payout are disclosed.
type HandUpdate struct {
	PlayerHand    []string          `json:"playerHand"`
	DealerVisible []string          `json:"dealerVisible,omitempty"`
	PlayerValue   int               `json:"playerValue"`
	CanDouble     bool              `json:"canDouble"`
	Chips         int               `json:"chips"`
	Bet           int               `json:"bet"`
	Complete      bool              `json:"complete"`
	Result        blackjack.Outcome `json:"result,omitempty"`
	Payout        int               `json:"payout,omitempty"`
	DealerHand    []string          `json:"dealerHand,omitempty"`
	DealerValue   int               `json:"dealerValue,omitempty"`
}

// Observer receives tournament change notifications. Callbacks run outside
// the tournament lock but must not block; the transport layer fans them out.
type Observer interface {
	LeaderboardChanged(leaderboard []LeaderboardEntry)
	PhaseChanged(state StateSnapshot)
}

// Tournament owns all mutable tournament state. Every operation, including
// scheduler-driven phase transitions, is serialized through its mutex so no
// caller observes a torn state.
type Tournament struct {
	mu    sync.Mutex
	opts  Options
	clock quartz.Clock

	phase        Phase
	players      map[string]*Player
	joinSeq      int
	shoe         *deck.Shoe
	startTime    time.Time
	endTime      time.Time
	lobbyEndTime time.Time

	observers []Observer
	logger    *log.Logger
}

// New creates a tournament in the lobby phase
func New(opts Options, logger *log.Logger) *Tournament {
	return NewWithClock(opts, logger, quartz.NewReal())
}

// NewWithClock creates a tournament with an injected clock for tests
func NewWithClock(opts Options, logger *log.Logger, clock quartz.Clock) *Tournament {
	opts = opts.withDefaults()

	return &Tournament{
		opts:    opts,
		clock:   clock,
		phase:   PhaseLobby,
		players: make(map[string]*Player),
		shoe:    deck.NewShoe(opts.NumDecks),
		logger:  logger.WithPrefix("tournament"),
	}
}

// Options returns the tournament's fixed configuration
func (t *Tournament) Options() Options {
	return t.opts
}

// Subscribe registers an observer for leaderboard and phase notifications
func (t *Tournament) Subscribe(obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, obs)
}

// AddPlayer registers a player during the lobby phase. Duplicate IDs are
// rejected and every entrant starts with the configured chip count.
func (t *Tournament) AddPlayer(id, name string) (*PlayerSnapshot, error) {
	t.mu.Lock()

	if t.phase != PhaseLobby {
		t.mu.Unlock()
		return nil, ErrNotInLobby
	}
	if _, exists := t.players[id]; exists {
		t.mu.Unlock()
		return nil, ErrAlreadyJoined
	}

	p := &Player{
		ID:        id,
		Name:      name,
		Chips:     t.opts.StartingChips,
		joinOrder: t.joinSeq,
	}
	t.joinSeq++
	t.players[id] = p

	snap := p.snapshot()
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.logger.Info("player joined", "id", id, "name", name)
	t.notifyLeaderboard(lb)
	return snap, nil
}

// RemovePlayer drops a player from the roster, typically on disconnect
func (t *Tournament) RemovePlayer(id string) {
	t.mu.Lock()
	if _, exists := t.players[id]; !exists {
		t.mu.Unlock()
		return
	}
	delete(t.players, id)
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.logger.Info("player removed", "id", id)
	t.notifyLeaderboard(lb)
}

// StartNow begins play immediately, ending after the configured duration
func (t *Tournament) StartNow() error {
	return t.StartWithDeadline(t.clock.Now().Add(t.opts.Duration))
}

// StartWithDeadline begins play immediately with an explicit end boundary.
// The scheduler uses this to carry the scheduled end time through.
func (t *Tournament) StartWithDeadline(end time.Time) error {
	t.mu.Lock()

	if t.phase != PhaseLobby {
		t.mu.Unlock()
		return ErrNotInLobby
	}
	if len(t.players) == 0 {
		t.mu.Unlock()
		return ErrNoPlayers
	}

	t.phase = PhasePlaying
	t.startTime = t.clock.Now()
	t.endTime = end
	state := t.stateLocked()
	t.mu.Unlock()

	t.logger.Info("tournament started", "players", state.PlayerCount, "ends", end)
	t.notifyPhase(state)
	return nil
}

// StartLobby opens the join window and stamps its end for countdown display
func (t *Tournament) StartLobby() {
	t.mu.Lock()
	t.phase = PhaseLobby
	t.lobbyEndTime = t.clock.Now().Add(t.opts.JoinPeriod)
	state := t.stateLocked()
	t.mu.Unlock()

	t.notifyPhase(state)
}

// EndNow freezes betting and returns the final standings
func (t *Tournament) EndNow() Results {
	t.mu.Lock()
	t.phase = PhaseEnded
	results := t.resultsLocked()
	state := t.stateLocked()
	t.mu.Unlock()

	winner := "nobody"
	if results.Winner != nil {
		winner = results.Winner.Name
	}
	t.logger.Info("tournament ended", "winner", winner)
	t.notifyPhase(state)
	return results
}

// Reset discards all player state, chips and the shoe, returning to a
// fresh lobby. Observers stay subscribed.
func (t *Tournament) Reset() {
	t.mu.Lock()
	t.phase = PhaseLobby
	t.players = make(map[string]*Player)
	t.joinSeq = 0
	t.shoe = deck.NewShoe(t.opts.NumDecks)
	t.startTime = time.Time{}
	t.endTime = time.Time{}
	t.lobbyEndTime = time.Time{}
	state := t.stateLocked()
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.logger.Info("tournament reset")
	t.notifyPhase(state)
	t.notifyLeaderboard(lb)
}

// PlaceBet deducts a clamped bet and deals the opening hand. A natural on
// either side resolves the hand before returning.
func (t *Tournament) PlaceBet(id string, amount int) (*HandUpdate, error) {
	t.mu.Lock()

	p, ok := t.players[id]
	if !ok {
		t.mu.Unlock()
		return nil, ErrPlayerNotFound
	}
	if t.phase != PhasePlaying {
		t.mu.Unlock()
		return nil, ErrNotInProgress
	}
	if p.Session != nil {
		t.mu.Unlock()
		return nil, ErrHandInProgress
	}

	// Clamp into [MinBet, min(MaxBet, chips)]
	bet := amount
	if bet < t.opts.MinBet {
		bet = t.opts.MinBet
	}
	if ceiling := min(t.opts.MaxBet, p.Chips); bet > ceiling {
		bet = ceiling
	}

	if bet > p.Chips {
		t.mu.Unlock()
		return nil, ErrInsufficientChips
	}
	if p.Chips <= 0 {
		t.mu.Unlock()
		return nil, ErrNoChips
	}

	p.Chips -= bet
	p.CurrentBet = bet
	p.Session = blackjack.NewHandSession(t.shoe)

	if playerBJ, dealerBJ := p.Session.HasBlackjack(); playerBJ || dealerBJ {
		update := t.resolveLocked(p)
		lb := t.leaderboardLocked()
		t.mu.Unlock()
		t.notifyLeaderboard(lb)
		return update, nil
	}

	update := &HandUpdate{
		PlayerHand:    p.Session.PlayerHand.Strings(),
		DealerVisible: p.Session.DealerUpcard().Strings(),
		PlayerValue:   blackjack.HandValue(p.Session.PlayerHand),
		CanDouble:     blackjack.CanDoubleDown(p.Session.PlayerHand) && p.Chips >= bet,
		Chips:         p.Chips,
		Bet:           bet,
	}
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.notifyLeaderboard(lb)
	return update, nil
}

// Hit draws one card into the player's hand, resolving the hand if it busts
func (t *Tournament) Hit(id string) (*HandUpdate, error) {
	t.mu.Lock()

	p, err := t.activeSessionLocked(id)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	busted, err := p.Session.Hit(t.shoe)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	if busted {
		update := t.resolveLocked(p)
		lb := t.leaderboardLocked()
		t.mu.Unlock()
		t.notifyLeaderboard(lb)
		return update, nil
	}

	update := &HandUpdate{
		PlayerHand:    p.Session.PlayerHand.Strings(),
		DealerVisible: p.Session.DealerUpcard().Strings(),
		PlayerValue:   blackjack.HandValue(p.Session.PlayerHand),
		Chips:         p.Chips,
		Bet:           p.CurrentBet,
	}
	t.mu.Unlock()
	return update, nil
}

// Stand ends the player's turn and resolves the hand
func (t *Tournament) Stand(id string) (*HandUpdate, error) {
	t.mu.Lock()

	p, err := t.activeSessionLocked(id)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	if p.Session.Status != blackjack.StatusPlaying {
		t.mu.Unlock()
		return nil, blackjack.ErrHandComplete
	}

	update := t.resolveLocked(p)
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.notifyLeaderboard(lb)
	return update, nil
}

// DoubleDown doubles the bet, draws exactly one card and resolves. Only
// available on the original two-card hand with enough chips to cover the
// extra stake.
func (t *Tournament) DoubleDown(id string) (*HandUpdate, error) {
	t.mu.Lock()

	p, err := t.activeSessionLocked(id)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	if p.Session.Status != blackjack.StatusPlaying {
		t.mu.Unlock()
		return nil, blackjack.ErrHandComplete
	}
	if !blackjack.CanDoubleDown(p.Session.PlayerHand) {
		t.mu.Unlock()
		return nil, blackjack.ErrCannotDouble
	}
	if p.Chips < p.CurrentBet {
		t.mu.Unlock()
		return nil, ErrCannotAffordDouble
	}

	p.Chips -= p.CurrentBet
	p.CurrentBet *= 2

	if err := p.Session.DoubleDown(t.shoe); err != nil {
		// Guards above make this unreachable, but restore the stake if
		// the session disagrees
		p.CurrentBet /= 2
		p.Chips += p.CurrentBet
		t.mu.Unlock()
		return nil, err
	}

	update := t.resolveLocked(p)
	lb := t.leaderboardLocked()
	t.mu.Unlock()

	t.notifyLeaderboard(lb)
	return update, nil
}

// PlayerState returns a read-only snapshot of a player
func (t *Tournament) PlayerState(id string) (*PlayerSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p.snapshot(), nil
}

// Leaderboard returns the standings sorted by chips descending, ties broken
// by join order
func (t *Tournament) Leaderboard() []LeaderboardEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leaderboardLocked()
}

// State returns a broadcast-ready snapshot of the tournament
func (t *Tournament) State() StateSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Results returns the current standings and winner
func (t *Tournament) Results() Results {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resultsLocked()
}

// Phase returns the current lifecycle phase
func (t *Tournament) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// TimeRemaining reports how long the current phase has left: the join
// window in lobby, the playing window once started, zero otherwise.
func (t *Tournament) TimeRemaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeRemainingLocked()
}

// SetDeadlines overrides the lobby and end boundaries; the scheduler uses
// this to surface its schedule through state snapshots.
func (t *Tournament) SetDeadlines(lobbyEnd, end time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lobbyEndTime = lobbyEnd
	t.endTime = end
}

// activeSessionLocked fetches a player that has a hand in progress
func (t *Tournament) activeSessionLocked(id string) (*Player, error) {
	p, ok := t.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if p.Session == nil {
		return nil, ErrNoActiveHand
	}
	return p, nil
}

// resolveLocked plays out the dealer if required, settles chips exactly
// once and discards the session
func (t *Tournament) resolveLocked(p *Player) *HandUpdate {
	outcome, err := p.Session.Resolve(t.shoe)
	if err != nil {
		// Resolve is only called on playing sessions
		t.logger.Error("resolve on completed session", "player", p.ID, "error", err)
	}

	payout := blackjack.Payout(p.CurrentBet, outcome)
	p.Chips += payout
	p.HandsPlayed++
	if outcome == blackjack.OutcomePlayer || outcome == blackjack.OutcomeBlackjack {
		p.HandsWon++
	}

	update := &HandUpdate{
		PlayerHand:  p.Session.PlayerHand.Strings(),
		PlayerValue: blackjack.HandValue(p.Session.PlayerHand),
		DealerHand:  p.Session.DealerHand.Strings(),
		DealerValue: blackjack.HandValue(p.Session.DealerHand),
		Complete:    true,
		Result:      outcome,
		Payout:      payout,
		Chips:       p.Chips,
		Bet:         p.CurrentBet,
	}

	p.Session = nil
	p.CurrentBet = 0

	return update
}

func (t *Tournament) leaderboardLocked() []LeaderboardEntry {
	players := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Chips != players[j].Chips {
			return players[i].Chips > players[j].Chips
		}
		return players[i].joinOrder < players[j].joinOrder
	})

	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = p.entry()
	}
	return entries
}

func (t *Tournament) stateLocked() StateSnapshot {
	return StateSnapshot{
		Phase:         t.phase,
		TimeRemaining: t.timeRemainingLocked().Milliseconds(),
		PlayerCount:   len(t.players),
		Leaderboard:   t.leaderboardLocked(),
	}
}

func (t *Tournament) resultsLocked() Results {
	lb := t.leaderboardLocked()
	results := Results{
		Phase:       t.phase,
		Leaderboard: lb,
	}
	if len(lb) > 0 {
		results.Winner = &lb[0]
	}
	return results
}

func (t *Tournament) timeRemainingLocked() time.Duration {
	now := t.clock.Now()
	switch {
	case t.phase == PhaseLobby && !t.lobbyEndTime.IsZero():
		return max(0, t.lobbyEndTime.Sub(now))
	case t.phase == PhasePlaying && !t.endTime.IsZero():
		return max(0, t.endTime.Sub(now))
	default:
		return 0
	}
}

func (t *Tournament) notifyLeaderboard(lb []LeaderboardEntry) {
	t.mu.Lock()
	observers := append([]Observer(nil), t.observers...)
	t.mu.Unlock()

	for _, obs := range observers {
		obs.LeaderboardChanged(lb)
	}
}

func (t *Tournament) notifyPhase(state StateSnapshot) {
	t.mu.Lock()
	observers := append([]Observer(nil), t.observers...)
	t.mu.Unlock()

	for _, obs := range observers {
		obs.PhaseChanged(state)
	}
}
