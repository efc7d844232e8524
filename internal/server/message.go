package server

import (
	"encoding/json"
	"time"

	"github.com/lox/tourney21/internal/tournament"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Name string `json:"name"`
}

type ScheduleData struct {
	StartTime int64 `json:"startTime"` // unix milliseconds
	EndTime   int64 `json:"endTime"`   // unix milliseconds
}

type PlaceBetData struct {
	Amount int `json:"amount"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateData is the tournament snapshot plus the active schedule, broadcast
// on every phase change and on request
type StateData struct {
	tournament.StateSnapshot
	Schedule tournament.Schedule `json:"schedule"`
}

type JoinedData struct {
	Player *tournament.PlayerSnapshot `json:"player"`
	State  StateData                  `json:"state"`
}

type PlayerJoinedData struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
