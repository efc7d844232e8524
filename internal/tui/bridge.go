package tui

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/tourney21/internal/client"
	"github.com/lox/tourney21/internal/server"
	"github.com/lox/tourney21/internal/tournament"
)

// MessageSink receives decoded server events. Satisfied by *tea.Program.
type MessageSink interface {
	Send(tea.Msg)
}

// Bridge decodes server messages into model messages. Handlers must be
// registered before the client connects.
type Bridge struct {
	client *client.Client
	sink   MessageSink
	logger *log.Logger
}

// NewBridge wires the client's events into the given sink
func NewBridge(c *client.Client, sink MessageSink, logger *log.Logger) *Bridge {
	b := &Bridge{
		client: c,
		sink:   sink,
		logger: logger.WithPrefix("bridge"),
	}
	b.setupEventHandlers()
	return b
}

func (b *Bridge) setupEventHandlers() {
	b.client.On(server.MessageTypeJoined, decodeInto[server.JoinedData](b, func(d server.JoinedData) tea.Msg {
		return JoinedMsg(d)
	}))
	b.client.On(server.MessageTypePlayerJoined, decodeInto[server.PlayerJoinedData](b, func(d server.PlayerJoinedData) tea.Msg {
		return PlayerJoinedMsg(d)
	}))
	b.client.On(server.MessageTypeStateUpdate, decodeInto[server.StateData](b, func(d server.StateData) tea.Msg {
		return StateMsg(d)
	}))
	b.client.On(server.MessageTypeLeaderboard, decodeInto[[]tournament.LeaderboardEntry](b, func(d []tournament.LeaderboardEntry) tea.Msg {
		return LeaderboardMsg(d)
	}))
	b.client.On(server.MessageTypeCountdown, decodeInto[tournament.CountdownUpdate](b, func(d tournament.CountdownUpdate) tea.Msg {
		return CountdownMsg(d)
	}))
	b.client.On(server.MessageTypeScheduled, decodeInto[tournament.Schedule](b, func(d tournament.Schedule) tea.Msg {
		return ScheduleMsg(d)
	}))
	b.client.On(server.MessageTypeScheduleUpdate, decodeInto[tournament.Schedule](b, func(d tournament.Schedule) tea.Msg {
		return ScheduleMsg(d)
	}))
	b.client.On(server.MessageTypeTournamentStart, decodeInto[tournament.StateSnapshot](b, func(d tournament.StateSnapshot) tea.Msg {
		return TournamentStartMsg(d)
	}))
	b.client.On(server.MessageTypeTournamentEnd, decodeInto[tournament.Results](b, func(d tournament.Results) tea.Msg {
		return TournamentEndMsg(d)
	}))
	b.client.On(server.MessageTypeDeal, decodeInto[tournament.HandUpdate](b, func(d tournament.HandUpdate) tea.Msg {
		return HandDealtMsg(d)
	}))
	b.client.On(server.MessageTypeCard, decodeInto[tournament.HandUpdate](b, func(d tournament.HandUpdate) tea.Msg {
		return CardDrawnMsg(d)
	}))
	b.client.On(server.MessageTypeHandResult, decodeInto[tournament.HandUpdate](b, func(d tournament.HandUpdate) tea.Msg {
		return HandResultMsg(d)
	}))
	b.client.On(server.MessageTypeError, decodeInto[server.ErrorData](b, func(d server.ErrorData) tea.Msg {
		return ServerErrorMsg(d)
	}))
}

// decodeInto builds a handler that unmarshals the payload and forwards the
// converted message to the sink
func decodeInto[T any](b *Bridge, convert func(T) tea.Msg) client.EventHandler {
	return func(msg *server.Message) {
		var data T
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				b.logger.Error("Failed to decode message", "type", msg.Type, "error", err)
				return
			}
		}
		b.sink.Send(convert(data))
	}
}

// NotifyDisconnected forwards a connection drop to the model
func (b *Bridge) NotifyDisconnected() {
	b.sink.Send(DisconnectedMsg{})
}
