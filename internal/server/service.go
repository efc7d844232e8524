package server

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tourney21/internal/fileutil"
	"github.com/lox/tourney21/internal/tournament"
)

const maxNameLength = 20

// TournamentService routes client actions into the tournament core and
// re-broadcasts its notifications. It is the only caller of the tournament
// besides the scheduler, which shares the same serialized entry points.
type TournamentService struct {
	server *Server
	tour   *tournament.Tournament
	sched  *tournament.Scheduler
	logger *log.Logger

	mu          sync.Mutex
	lastPhase   tournament.Phase
	resultsFile string
}

// NewTournamentService creates the service and subscribes it to tournament
// and schedule notifications
func NewTournamentService(server *Server, opts tournament.Options, logger *log.Logger, clock quartz.Clock) *TournamentService {
	tour := tournament.NewWithClock(opts, logger, clock)
	sched := tournament.NewScheduler(tour, clock, logger)

	svc := &TournamentService{
		server:    server,
		tour:      tour,
		sched:     sched,
		logger:    logger.WithPrefix("service"),
		lastPhase: tournament.PhaseLobby,
	}
	tour.Subscribe(svc)
	sched.Subscribe(svc)

	return svc
}

// Tournament exposes the underlying tournament for read-only inspection
func (svc *TournamentService) Tournament() *tournament.Tournament {
	return svc.tour
}

// Scheduler exposes the underlying scheduler
func (svc *TournamentService) Scheduler() *tournament.Scheduler {
	return svc.sched
}

// SetResultsFile makes the service persist final standings to path when a
// tournament ends. An empty path disables persistence.
func (svc *TournamentService) SetResultsFile(path string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.resultsFile = path
}

// Join registers the connection's player in the lobby
func (svc *TournamentService) Join(c *Connection, name string) {
	name = sanitizeName(name)

	snap, err := svc.tour.AddPlayer(c.PlayerID(), name)
	if err != nil {
		svc.sendError(c, "join_failed", err)
		return
	}
	c.SetJoined(true)

	svc.send(c, MessageTypeJoined, JoinedData{
		Player: snap,
		State:  svc.stateData(),
	})
	svc.broadcast(MessageTypePlayerJoined, PlayerJoinedData{
		Name:  name,
		Count: svc.tour.State().PlayerCount,
	})
}

// Disconnect removes a joined player when their connection drops
func (svc *TournamentService) Disconnect(c *Connection) {
	if c.Joined() {
		svc.tour.RemovePlayer(c.PlayerID())
	}
}

// Schedule commits the tournament to a start/end window
func (svc *TournamentService) Schedule(c *Connection, data ScheduleData) {
	start := time.UnixMilli(data.StartTime)
	end := time.UnixMilli(data.EndTime)

	schedule, err := svc.sched.ScheduleStart(start, end)
	if err != nil {
		svc.sendError(c, "schedule_failed", err)
		return
	}

	svc.send(c, MessageTypeScheduled, schedule)
}

// AdminStart begins play immediately
func (svc *TournamentService) AdminStart(c *Connection) {
	if err := svc.tour.StartNow(); err != nil {
		svc.sendError(c, "start_failed", err)
	}
}

// AdminEnd ends play immediately
func (svc *TournamentService) AdminEnd(c *Connection) {
	svc.tour.EndNow()
}

// AdminReset discards the finished tournament and opens a fresh lobby.
// Resets are only honored once the tournament has ended.
func (svc *TournamentService) AdminReset(c *Connection) {
	if svc.tour.Phase() != tournament.PhaseEnded {
		c.sendError("reset_failed", "tournament has not ended")
		return
	}
	svc.sched.Reset()
}

// PlaceBet deals a hand for the connection's player
func (svc *TournamentService) PlaceBet(c *Connection, amount int) {
	update, err := svc.tour.PlaceBet(c.PlayerID(), amount)
	if err != nil {
		svc.sendError(c, "bet_failed", err)
		return
	}

	if update.Complete {
		svc.send(c, MessageTypeHandResult, update)
		return
	}
	svc.send(c, MessageTypeDeal, update)
}

// Hit draws a card for the connection's player
func (svc *TournamentService) Hit(c *Connection) {
	update, err := svc.tour.Hit(c.PlayerID())
	if err != nil {
		svc.sendError(c, "hit_failed", err)
		return
	}

	if update.Complete {
		svc.send(c, MessageTypeHandResult, update)
		return
	}
	svc.send(c, MessageTypeCard, update)
}

// Stand resolves the connection's player hand without drawing
func (svc *TournamentService) Stand(c *Connection) {
	update, err := svc.tour.Stand(c.PlayerID())
	if err != nil {
		svc.sendError(c, "stand_failed", err)
		return
	}
	svc.send(c, MessageTypeHandResult, update)
}

// DoubleDown doubles the bet and resolves with one more card
func (svc *TournamentService) DoubleDown(c *Connection) {
	update, err := svc.tour.DoubleDown(c.PlayerID())
	if err != nil {
		svc.sendError(c, "double_failed", err)
		return
	}
	svc.send(c, MessageTypeHandResult, update)
}

// SendState replies with the tournament state and, for joined players,
// their player state
func (svc *TournamentService) SendState(c *Connection) {
	svc.send(c, MessageTypeStateUpdate, svc.stateData())

	if snap, err := svc.tour.PlayerState(c.PlayerID()); err == nil {
		svc.send(c, MessageTypePlayerState, snap)
	}
}

// LeaderboardChanged implements tournament.Observer
func (svc *TournamentService) LeaderboardChanged(lb []tournament.LeaderboardEntry) {
	svc.broadcast(MessageTypeLeaderboard, lb)
}

// PhaseChanged implements tournament.Observer. Besides the state broadcast
// it announces start and end transitions.
func (svc *TournamentService) PhaseChanged(state tournament.StateSnapshot) {
	svc.broadcast(MessageTypeStateUpdate, StateData{
		StateSnapshot: state,
		Schedule:      svc.sched.Schedule(),
	})

	svc.mu.Lock()
	prev := svc.lastPhase
	svc.lastPhase = state.Phase
	svc.mu.Unlock()

	if prev == state.Phase {
		return
	}

	switch state.Phase {
	case tournament.PhasePlaying:
		svc.logger.Info("tournament started", "players", state.PlayerCount)
		svc.broadcast(MessageTypeTournamentStart, state)
	case tournament.PhaseEnded:
		svc.logger.Info("tournament ended")
		results := svc.tour.Results()
		svc.broadcast(MessageTypeTournamentEnd, results)
		svc.persistResults(results)
	}
}

func (svc *TournamentService) persistResults(results tournament.Results) {
	svc.mu.Lock()
	path := svc.resultsFile
	svc.mu.Unlock()
	if path == "" {
		return
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		svc.logger.Error("Failed to encode results", "error", err)
		return
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		svc.logger.Error("Failed to write results file", "path", path, "error", err)
		return
	}
	svc.logger.Info("Wrote final standings", "path", path)
}

// ScheduleChanged implements tournament.ScheduleObserver
func (svc *TournamentService) ScheduleChanged(schedule tournament.Schedule) {
	svc.broadcast(MessageTypeScheduleUpdate, schedule)
}

// CountdownTick implements tournament.ScheduleObserver
func (svc *TournamentService) CountdownTick(update tournament.CountdownUpdate) {
	svc.broadcast(MessageTypeCountdown, update)
}

func (svc *TournamentService) stateData() StateData {
	return StateData{
		StateSnapshot: svc.tour.State(),
		Schedule:      svc.sched.Schedule(),
	}
}

func (svc *TournamentService) send(c *Connection, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		svc.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	if err := c.SendMessage(msg); err != nil {
		svc.logger.Debug("Failed to send message", "type", mt, "error", err)
	}
}

func (svc *TournamentService) broadcast(mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		svc.logger.Error("Failed to create broadcast message", "type", mt, "error", err)
		return
	}
	svc.server.Broadcast(msg)
}

func (svc *TournamentService) sendError(c *Connection, code string, err error) {
	svc.logger.Debug("Rejected request", "code", code, "error", err, "player", c.PlayerID())
	c.sendError(code, err.Error())
}

// sanitizeName trims and caps a requested display name, falling back to
// Anonymous like the lobby always has
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	if name == "" {
		return "Anonymous"
	}
	return name
}
