package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeJoin       MessageType = "join"
	MessageTypeSchedule   MessageType = "schedule_tournament"
	MessageTypeAdminStart MessageType = "admin_start"
	MessageTypeAdminEnd   MessageType = "admin_end"
	MessageTypeAdminReset MessageType = "admin_reset"
	MessageTypePlaceBet   MessageType = "place_bet"
	MessageTypeHit        MessageType = "hit"
	MessageTypeStand      MessageType = "stand"
	MessageTypeDouble     MessageType = "double"
	MessageTypeGetState   MessageType = "get_state"

	// Server to client messages
	MessageTypeJoined          MessageType = "joined"
	MessageTypePlayerJoined    MessageType = "player_joined"
	MessageTypeScheduled       MessageType = "scheduled"
	MessageTypeScheduleUpdate  MessageType = "schedule_update"
	MessageTypeStateUpdate     MessageType = "state_update"
	MessageTypeLeaderboard     MessageType = "leaderboard_update"
	MessageTypeCountdown       MessageType = "countdown_update"
	MessageTypeTournamentStart MessageType = "tournament_start"
	MessageTypeTournamentEnd   MessageType = "tournament_end"
	MessageTypeDeal            MessageType = "deal"
	MessageTypeCard            MessageType = "card"
	MessageTypeHandResult      MessageType = "hand_result"
	MessageTypePlayerState     MessageType = "player_state"
	MessageTypeError           MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
