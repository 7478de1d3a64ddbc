package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"secrethitler/internal/engine"
	"secrethitler/internal/lobby"
	"secrethitler/internal/protocol"
	qr "secrethitler/internal/qrcode"
	"secrethitler/internal/session"
)

// Handlers holds HTTP and WebSocket handler dependencies.
type Handlers struct {
	Registry  *session.Registry
	Hub       *Hub
	PublicURL string

	upgrader websocket.Upgrader
}

// NewHandlers builds the handlers. An empty allowedOrigins accepts any
// origin.
func NewHandlers(registry *session.Registry, hub *Hub, publicURL string, allowedOrigins []string) *Handlers {
	h := &Handlers{
		Registry:  registry,
		Hub:       hub,
		PublicURL: publicURL,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// HandleWS upgrades a connection and starts its pumps.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	client := NewClient(h.Hub, conn, h.Dispatch, h.disconnect)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleQR serves a QR code PNG for joining a session.
func (h *Handlers) HandleQR(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.Registry.Get(id); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	base := h.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	png, err := qr.JoinPNG(base, id, qr.DefaultSize)
	if err != nil {
		log.Printf("qr: %v", err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleHealth reports liveness and a few counters.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	open, seated := h.Hub.Stats()
	jsonResp(w, struct {
		Status      string `json:"status"`
		Sessions    int    `json:"sessions"`
		Connections int    `json:"connections"`
		Seated      int    `json:"seated"`
	}{"ok", h.Registry.Len(), open, seated})
}

// Dispatch handles one inbound message. Messages from one connection are
// handled in order; different sessions proceed in parallel.
func (h *Handlers) Dispatch(c *Client, env protocol.Envelope) {
	var err error
	switch env.Type {
	case protocol.MsgHostGame:
		err = h.hostGame(c, env)
	case protocol.MsgJoinGame:
		err = h.joinGame(c, env)
	default:
		err = h.seated(c, env)
	}
	if err != nil {
		h.alert(c, err)
	}
}

func (h *Handlers) hostGame(c *Client, env protocol.Envelope) error {
	var msg protocol.HostGameMsg
	if err := env.Decode(&msg); err != nil {
		return err
	}
	if _, err := lobby.NormalizeName(msg.Nickname); err != nil {
		return err
	}
	prev, err := h.currentSeat(c, "")
	if err != nil {
		return err
	}

	s, host, err := h.Registry.Host(msg.Nickname)
	if err != nil {
		return err
	}
	seat := Seat{SessionID: s.ID(), PlayerID: host.ID}
	h.Hub.Attach(c, seat)
	h.vacate(prev, seat)
	h.Hub.Send(c, protocol.MustEnvelope(protocol.MsgSetIdentifiers, protocol.SetIdentifiers{
		PlayerID:  host.ID,
		SessionID: s.ID(),
		Secret:    host.Secret,
	}))
	return s.Sync(host.ID)
}

func (h *Handlers) joinGame(c *Client, env protocol.Envelope) error {
	var msg protocol.JoinGameMsg
	if err := env.Decode(&msg); err != nil {
		return err
	}
	s, err := h.Registry.Get(msg.SessionID)
	if err != nil {
		return err
	}
	prev, err := h.currentSeat(c, msg.SessionID)
	if err != nil {
		return err
	}

	if msg.PlayerID != "" {
		m, err := s.Rejoin(msg.PlayerID, msg.Secret)
		if err != nil {
			return err
		}
		seat := Seat{SessionID: s.ID(), PlayerID: m.ID}
		h.attach(c, seat)
		h.vacate(prev, seat)
		if err := s.Sync(m.ID); err != nil {
			return err
		}
		return s.ChatLog(m.ID)
	}

	m, err := s.Join(msg.Nickname)
	if err != nil {
		return err
	}
	seat := Seat{SessionID: s.ID(), PlayerID: m.ID}
	h.attach(c, seat)
	h.vacate(prev, seat)
	h.Hub.Send(c, protocol.MustEnvelope(protocol.MsgSetIdentifiers, protocol.SetIdentifiers{
		PlayerID:  m.ID,
		SessionID: s.ID(),
		Secret:    m.Secret,
	}))
	if err := s.Sync(m.ID); err != nil {
		return err
	}
	return s.ChatLog(m.ID)
}

// attach seats c and tells any connection it displaced.
func (h *Handlers) attach(c *Client, seat Seat) {
	if old := h.Hub.Attach(c, seat); old != nil {
		h.Hub.Send(old, protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{
			Message: "You have connected from somewhere else.",
		}))
	}
}

// currentSeat returns the seat c holds, if any, without touching it. A
// player in a running game may only rejoin that same game.
func (h *Handlers) currentSeat(c *Client, target string) (Seat, error) {
	seat, ok := h.Hub.SeatOf(c)
	if !ok {
		return Seat{}, nil
	}
	if seat.SessionID == target {
		return seat, nil
	}
	s, err := h.Registry.Get(seat.SessionID)
	if err != nil {
		return seat, nil
	}
	if s.InGame() {
		return Seat{}, engine.Reject(engine.KindWrongPhase, "You cannot join another game while you are currently in a game!")
	}
	return seat, nil
}

// vacate gives up prev once c has been seated at next. A lobby seat is
// freed; a seat in a started game is kept for a later rejoin.
func (h *Handlers) vacate(prev, next Seat) {
	if prev == (Seat{}) || prev == next {
		return
	}
	s, err := h.Registry.Get(prev.SessionID)
	if err != nil {
		return
	}
	if err := s.Leave(prev.PlayerID); err != nil {
		log.Printf("vacate %s in %s: %v", prev.PlayerID, prev.SessionID, err)
	}
}

// seated handles the messages that need a seat.
func (h *Handlers) seated(c *Client, env protocol.Envelope) error {
	seat, ok := h.Hub.SeatOf(c)
	if !ok {
		return engine.Reject(engine.KindPlayerNotFound, "You are not currently in a game!")
	}
	s, err := h.Registry.Get(seat.SessionID)
	if err != nil {
		h.Hub.Detach(c)
		return err
	}
	player := seat.PlayerID

	switch env.Type {
	case protocol.MsgStartGame:
		return s.Start(player)
	case protocol.MsgChooseChancellor:
		var msg protocol.ChooseChancellorMsg
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return s.ChooseChancellor(player, msg.Target)
	case protocol.MsgVoteChancellor:
		var msg protocol.VoteChancellorMsg
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return s.Vote(player, msg.Vote)
	case protocol.MsgPickCard:
		var msg protocol.PickCardMsg
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return s.PickCard(player, msg.Policy)
	case protocol.MsgVetoCard:
		return s.Veto(player)
	case protocol.MsgPresidentialPower:
		var msg protocol.PresidentialPowerMsg
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return s.UsePower(player, msg.Target)
	case protocol.MsgSendChat:
		var msg protocol.SendChatMsg
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return s.Chat(player, msg.Message)
	case protocol.MsgGetChatLog:
		return s.ChatLog(player)
	case protocol.MsgLeave:
		if err := s.Leave(player); err != nil {
			return err
		}
		h.Hub.Detach(c)
		return nil
	default:
		return engine.Reject(engine.KindInvalidChoice, "Unknown message type %q.", env.Type)
	}
}

// disconnect runs when a connection's read loop ends. Only the connection
// still attached to a seat marks that player offline.
func (h *Handlers) disconnect(c *Client) {
	seat, ok := h.Hub.Unregister(c)
	if !ok {
		return
	}
	s, err := h.Registry.Get(seat.SessionID)
	if err != nil {
		return
	}
	s.Disconnect(seat.PlayerID)
}

// alert reports a failed action to the acting connection only.
func (h *Handlers) alert(c *Client, err error) {
	var rejected *engine.Error
	a := protocol.Alert{Message: "Malformed message."}
	if errors.As(err, &rejected) {
		a = protocol.Alert{Message: rejected.Message, Kind: rejected.Kind.String()}
	} else {
		log.Printf("dispatch: %v", err)
	}
	h.Hub.Send(c, protocol.MustEnvelope(protocol.MsgAlert, a))
}

func jsonResp(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("jsonResp: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
