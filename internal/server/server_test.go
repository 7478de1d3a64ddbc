package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"secrethitler/internal/config"
	"secrethitler/internal/protocol"
)

type testEnv struct {
	srv *Server
	ts  *httptest.Server
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	srv := New(config.Config{
		IdleTimeout:   time.Minute,
		SweepInterval: time.Minute,
		ChatLogSize:   250,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts}
}

func (env *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	env := protocol.Envelope{Type: typ}
	if payload != nil {
		env = protocol.MustEnvelope(typ, payload)
	}
	if err := conn.WriteJSON(env); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// await reads until a message of type typ arrives and decodes it into v.
func await(t *testing.T, conn *websocket.Conn, typ string, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var env protocol.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if env.Type != typ {
			continue
		}
		if v != nil {
			if err := env.Decode(v); err != nil {
				t.Fatal(err)
			}
		}
		return
	}
}

// awaitPhase reads game states until one shows the named phase.
func awaitPhase(t *testing.T, conn *websocket.Conn, phase string) protocol.GameState {
	t.Helper()
	for {
		var gs protocol.GameState
		await(t, conn, protocol.MsgGameState, &gs)
		if gs.View.Phase.Name == phase {
			return gs
		}
	}
}

func TestPlayThroughWebSocket(t *testing.T) {
	env := setup(t)

	host := env.dial(t)
	send(t, host, protocol.MsgHostGame, protocol.HostGameMsg{Nickname: "Host"})
	var hostIDs protocol.SetIdentifiers
	await(t, host, protocol.MsgSetIdentifiers, &hostIDs)
	if hostIDs.SessionID == "" || hostIDs.PlayerID == "" || hostIDs.Secret == "" {
		t.Fatalf("incomplete identifiers: %+v", hostIDs)
	}

	conns := []*websocket.Conn{host}
	ids := []protocol.SetIdentifiers{hostIDs}
	for i := 2; i <= 5; i++ {
		c := env.dial(t)
		send(t, c, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: hostIDs.SessionID, Nickname: fmt.Sprintf("Player%d", i)})
		var got protocol.SetIdentifiers
		await(t, c, protocol.MsgSetIdentifiers, &got)
		conns = append(conns, c)
		ids = append(ids, got)
	}

	// Scenario: a non-host cannot start.
	send(t, conns[1], protocol.MsgStartGame, nil)
	var alert protocol.Alert
	await(t, conns[1], protocol.MsgAlert, &alert)
	if alert.Kind != "NotAuthorized" {
		t.Fatalf("expected NotAuthorized alert, got %+v", alert)
	}

	send(t, host, protocol.MsgStartGame, nil)
	for i, c := range conns {
		gs := awaitPhase(t, c, "Electing")
		if gs.View.You != ids[i].PlayerID {
			t.Fatalf("connection %d got view for %s", i, gs.View.You)
		}
	}

	// A seated player cannot host elsewhere while the game runs.
	send(t, host, protocol.MsgHostGame, protocol.HostGameMsg{Nickname: "Again"})
	await(t, host, protocol.MsgAlert, &alert)
	if alert.Kind != "WrongPhase" {
		t.Fatalf("expected WrongPhase alert, got %+v", alert)
	}

	// Chat reaches everyone.
	send(t, conns[2], protocol.MsgSendChat, protocol.SendChatMsg{Message: "hello"})
	var entry protocol.ChatEntry
	await(t, conns[4], protocol.MsgReceiveChat, &entry)
	if entry.Message != "hello" || entry.Sender != ids[2].PlayerID {
		t.Fatalf("unexpected chat %+v", entry)
	}
}

func TestReconnect(t *testing.T) {
	env := setup(t)

	host := env.dial(t)
	send(t, host, protocol.MsgHostGame, protocol.HostGameMsg{Nickname: "Host"})
	var ids protocol.SetIdentifiers
	await(t, host, protocol.MsgSetIdentifiers, &ids)

	other := env.dial(t)
	send(t, other, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids.SessionID, PlayerID: ids.PlayerID, Secret: "wrong"})
	var alert protocol.Alert
	await(t, other, protocol.MsgAlert, &alert)
	if alert.Kind != "NotAuthorized" {
		t.Fatalf("expected NotAuthorized, got %+v", alert)
	}

	host.Close()
	again := env.dial(t)
	send(t, again, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids.SessionID, PlayerID: ids.PlayerID, Secret: ids.Secret})
	var gs protocol.GameState
	await(t, again, protocol.MsgGameState, &gs)
	if gs.View.You != ids.PlayerID || gs.View.Host != ids.PlayerID {
		t.Fatalf("reconnected into the wrong seat: %+v", gs.View)
	}
	await(t, again, protocol.MsgChatLog, nil)

	send(t, again, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: "missing", Nickname: "x"})
	await(t, again, protocol.MsgAlert, &alert)
	if alert.Kind != "SessionNotFound" {
		t.Fatalf("expected SessionNotFound, got %+v", alert)
	}
}

// hostLobby seats n players in a fresh session. The host comes first.
func hostLobby(t *testing.T, env *testEnv, n int) ([]*websocket.Conn, []protocol.SetIdentifiers) {
	t.Helper()
	host := env.dial(t)
	send(t, host, protocol.MsgHostGame, protocol.HostGameMsg{Nickname: "Host"})
	var hostIDs protocol.SetIdentifiers
	await(t, host, protocol.MsgSetIdentifiers, &hostIDs)

	conns := []*websocket.Conn{host}
	ids := []protocol.SetIdentifiers{hostIDs}
	for i := 2; i <= n; i++ {
		c := env.dial(t)
		send(t, c, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: hostIDs.SessionID, Nickname: fmt.Sprintf("Player%d", i)})
		var got protocol.SetIdentifiers
		await(t, c, protocol.MsgSetIdentifiers, &got)
		conns = append(conns, c)
		ids = append(ids, got)
	}
	return conns, ids
}

// assertSeated checks that the player is still connected and that conn
// still speaks for them.
func assertSeated(t *testing.T, env *testEnv, conn *websocket.Conn, ids protocol.SetIdentifiers) {
	t.Helper()
	s, err := env.srv.registry.Get(ids.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range s.Members() {
		if m.ID == ids.PlayerID && !m.Connected {
			t.Fatalf("%s marked offline", m.Name)
		}
	}
	send(t, conn, protocol.MsgSendChat, protocol.SendChatMsg{Message: "still here"})
	var entry protocol.ChatEntry
	for entry.Message != "still here" {
		await(t, conn, protocol.MsgReceiveChat, &entry)
	}
	if entry.Sender != ids.PlayerID {
		t.Fatalf("chat sent as %q, want %q", entry.Sender, ids.PlayerID)
	}
}

func TestRejoinFailures(t *testing.T) {
	env := setup(t)
	_, ids := hostLobby(t, env, 1)

	tests := []struct {
		name     string
		playerID string
		secret   string
		want     string
	}{
		{"unknown player", "nobody", ids[0].Secret, "PlayerNotFound"},
		{"empty secret", ids[0].PlayerID, "", "NotAuthorized"},
		{"wrong secret", ids[0].PlayerID, "wrong", "NotAuthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := env.dial(t)
			send(t, c, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids[0].SessionID, PlayerID: tt.playerID, Secret: tt.secret})
			var alert protocol.Alert
			await(t, c, protocol.MsgAlert, &alert)
			if alert.Kind != tt.want {
				t.Fatalf("expected %s, got %+v", tt.want, alert)
			}
		})
	}
}

func TestFailedJoinKeepsSeat(t *testing.T) {
	env := setup(t)
	conns, ids := hostLobby(t, env, 5)
	host := conns[0]

	tests := []struct {
		name string
		msg  protocol.JoinGameMsg
		want string
	}{
		{"wrong secret for own seat", protocol.JoinGameMsg{SessionID: ids[0].SessionID, PlayerID: ids[0].PlayerID, Secret: "wrong"}, "NotAuthorized"},
		{"nickname taken", protocol.JoinGameMsg{SessionID: ids[0].SessionID, Nickname: "player2"}, "InvalidNickname"},
	}
	for _, tt := range tests {
		send(t, host, protocol.MsgJoinGame, tt.msg)
		var alert protocol.Alert
		await(t, host, protocol.MsgAlert, &alert)
		if alert.Kind != tt.want {
			t.Fatalf("%s: expected %s, got %+v", tt.name, tt.want, alert)
		}
		assertSeated(t, env, host, ids[0])
	}

	send(t, host, protocol.MsgStartGame, nil)
	awaitPhase(t, host, "Electing")

	send(t, host, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids[0].SessionID, Nickname: "Late"})
	var alert protocol.Alert
	await(t, host, protocol.MsgAlert, &alert)
	if alert.Kind != "WrongPhase" {
		t.Fatalf("expected WrongPhase, got %+v", alert)
	}
	assertSeated(t, env, host, ids[0])

	// Rejoining one's own seat with the right secret is a no-op resync.
	send(t, host, protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids[0].SessionID, PlayerID: ids[0].PlayerID, Secret: ids[0].Secret})
	await(t, host, protocol.MsgChatLog, nil)
	assertSeated(t, env, host, ids[0])
}

func TestRenameInLobbyFreesOldSeat(t *testing.T) {
	env := setup(t)
	conns, ids := hostLobby(t, env, 2)

	send(t, conns[0], protocol.MsgJoinGame, protocol.JoinGameMsg{SessionID: ids[0].SessionID, Nickname: "Renamed"})
	var renamed protocol.SetIdentifiers
	await(t, conns[0], protocol.MsgSetIdentifiers, &renamed)
	if renamed.PlayerID == ids[0].PlayerID {
		t.Fatal("expected a new seat")
	}

	s, err := env.srv.registry.Get(ids[0].SessionID)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, m := range s.Members() {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"Player2", "Renamed"}, names); diff != "" {
		t.Fatalf("roster mismatch (-want +got)\n%s", diff)
	}
	if host := s.View(renamed.PlayerID).Host; host != ids[1].PlayerID {
		t.Fatalf("host passed to %q, want %q", host, ids[1].PlayerID)
	}
	assertSeated(t, env, conns[0], renamed)
}

func TestUnseatedAction(t *testing.T) {
	env := setup(t)
	c := env.dial(t)

	send(t, c, protocol.MsgVoteChancellor, protocol.VoteChancellorMsg{Vote: true})
	var alert protocol.Alert
	await(t, c, protocol.MsgAlert, &alert)
	if alert.Kind != "PlayerNotFound" {
		t.Fatalf("expected PlayerNotFound, got %+v", alert)
	}

	if err := c.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	await(t, c, protocol.MsgAlert, &alert)
	if alert.Message != "Malformed message." {
		t.Fatalf("unexpected alert %+v", alert)
	}
}

func TestHTTPRoutes(t *testing.T) {
	env := setup(t)
	s, _, err := env.srv.registry.Host("Host")
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(env.ts.URL + "/api/sessions/" + s.ID() + "/qr")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr: status %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("qr: not a png: %v", err)
	}

	resp404, err := http.Get(env.ts.URL + "/api/sessions/missing/qr")
	if err != nil {
		t.Fatal(err)
	}
	resp404.Body.Close()
	if resp404.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp404.StatusCode)
	}

	health, err := http.Get(env.ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer health.Body.Close()
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(health.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Sessions != 1 {
		t.Fatalf("unexpected health %+v", body)
	}
}

func TestOriginCheck(t *testing.T) {
	h := NewHandlers(nil, NewHub(), "", []string{"https://ok.example.com"})
	req := httptest.NewRequest("GET", "/ws", nil)

	req.Header.Set("Origin", "https://ok.example.com")
	if !h.upgrader.CheckOrigin(req) {
		t.Error("allowed origin rejected")
	}
	req.Header.Set("Origin", "https://evil.example.com")
	if h.upgrader.CheckOrigin(req) {
		t.Error("foreign origin accepted")
	}
}
