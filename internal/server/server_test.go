package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tourney21/internal/tournament"
)

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer("127.0.0.1:0", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.handleHealth(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// startWebSocketServer runs the connection loop and exposes the websocket
// handler over httptest
func startWebSocketServer(t *testing.T) (*Server, *TournamentService, string) {
	t.Helper()

	logger := testLogger()
	srv := NewServer("127.0.0.1:0", logger)
	svc := NewTournamentService(srv, tournament.DefaultOptions(), logger, quartz.NewReal())
	srv.SetService(svc)

	go srv.run()
	t.Cleanup(func() { _ = srv.Stop() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWebSocket)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	return srv, svc, wsURL
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestWebSocketJoinFlow(t *testing.T) {
	_, _, wsURL := startWebSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	join, err := NewMessage(MessageTypeJoin, JoinData{Name: "Alice"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(join))

	// The join triggers a leaderboard broadcast, the joined reply and the
	// player_joined announcement, in that order
	leaderboard := readMessage(t, conn)
	joined := readMessage(t, conn)
	playerJoined := readMessage(t, conn)

	assert.Equal(t, MessageTypeLeaderboard, leaderboard.Type)
	assert.Equal(t, MessageTypeJoined, joined.Type)
	assert.Equal(t, MessageTypePlayerJoined, playerJoined.Type)

	var announce PlayerJoinedData
	require.NoError(t, json.Unmarshal(playerJoined.Data, &announce))
	assert.Equal(t, "Alice", announce.Name)
	assert.Equal(t, 1, announce.Count)
}

func TestWebSocketGetState(t *testing.T) {
	_, _, wsURL := startWebSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	get, err := NewMessage(MessageTypeGetState, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(get))

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeStateUpdate, msg.Type)

	var state StateData
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, tournament.PhaseLobby, state.Phase)
	assert.Equal(t, 0, state.PlayerCount)
}

func TestWebSocketUnknownMessage(t *testing.T) {
	_, _, wsURL := startWebSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	bogus, err := NewMessage(MessageType("leave_table"), nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(bogus))

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "unknown_message_type", errData.Code)
}

func TestDisconnectRemovesPlayerFromRoster(t *testing.T) {
	_, svc, wsURL := startWebSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	join, err := NewMessage(MessageTypeJoin, JoinData{Name: "Alice"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(join))

	// Wait for the join to land
	readMessage(t, conn)

	require.Eventually(t, func() bool {
		return svc.Tournament().State().PlayerCount == 1
	}, 5*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return svc.Tournament().State().PlayerCount == 0
	}, 5*time.Second, 10*time.Millisecond)
}
