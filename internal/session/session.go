// Package session wraps one game with its roster and chat, serializes every
// operation on it, and fans the resulting views out to connected players.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"secrethitler/internal/engine"
	"secrethitler/internal/engine/powers"
	"secrethitler/internal/lobby"
	"secrethitler/internal/protocol"
)

// Notifier delivers a message to one player's connection. Implementations
// must not block; a player without a live connection is skipped.
type Notifier interface {
	Notify(sessionID, playerID string, env protocol.Envelope)
}

// Options configure new sessions.
type Options struct {
	Game        engine.GameConfig
	ChatLogSize int
	IdleTimeout time.Duration
}

// DefaultOptions returns the stock rules, a 250-line chat log and a five
// minute idle timeout.
func DefaultOptions() Options {
	return Options{
		Game:        engine.DefaultConfig(),
		ChatLogSize: 250,
		IdleTimeout: 5 * time.Minute,
	}
}

type delivery struct {
	playerID string
	env      protocol.Envelope
}

// Session is one running game.
type Session struct {
	id       string
	notifier Notifier
	now      func() time.Time

	mu         sync.RWMutex
	game       *engine.Game
	lobby      *lobby.Lobby
	chat       *chatLog
	lastActive time.Time
	closed     bool
}

// New creates a session hosted by name. The host is seated and connected.
func New(id, name string, opts Options, notifier Notifier) (*Session, *lobby.Member, error) {
	l := lobby.New(opts.Game.MaxPlayers)
	host, err := l.Join(name)
	if err != nil {
		return nil, nil, err
	}
	s := &Session{
		id:       id,
		notifier: notifier,
		now:      time.Now,
		game:     engine.NewGame(host.ID, host.Name, opts.Game, powers.NewRegistry(), nil),
		lobby:    l,
		chat:     newChatLog(opts.ChatLogSize),
	}
	s.lastActive = s.now()
	return s, host, nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Join seats a new player. Joining is only possible before the game starts.
func (s *Session) Join(name string) (*lobby.Member, error) {
	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.game.Over() {
		s.mu.Unlock()
		return nil, engine.Reject(engine.KindWrongPhase, "This game has already ended!")
	}
	if s.game.Started() {
		s.mu.Unlock()
		return nil, engine.Reject(engine.KindWrongPhase, "This game has already started!")
	}
	m, err := s.lobby.Join(name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.game.AddPlayer(m.ID, m.Name); err != nil {
		s.lobby.Leave(m.ID)
		s.mu.Unlock()
		return nil, err
	}
	s.systemLine(fmt.Sprintf("%s joined the game.", m.Name))
	joined := *m
	out := s.renderLocked(nil)
	s.mu.Unlock()

	s.deliver(out)
	return &joined, nil
}

// Rejoin reattaches a returning player by ID and secret. Game state is not
// touched; only the player's connected flag changes.
func (s *Session) Rejoin(playerID, secret string) (*lobby.Member, error) {
	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	m, err := s.lobby.Rejoin(playerID, secret)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rejoined := *m
	out := s.renderLocked(nil)
	s.mu.Unlock()

	s.deliver(out)
	return &rejoined, nil
}

// Start deals roles and begins the first election. Only the host may start.
func (s *Session) Start(playerID string) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionStart})
}

func (s *Session) ChooseChancellor(playerID, target string) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionChooseChancellor, Target: target})
}

func (s *Session) Vote(playerID string, yes bool) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionVote, Yes: yes})
}

func (s *Session) PickCard(playerID string, policy engine.Policy) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionPickCard, Policy: policy})
}

func (s *Session) Veto(playerID string) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionVeto})
}

func (s *Session) UsePower(playerID, target string) error {
	return s.apply(playerID, engine.Action{Type: engine.ActionPresidentialPower, Target: target})
}

// apply runs one engine action. On success every connected player gets the
// events and a fresh view; a rejection changes nothing and is returned to
// the caller to report to the acting player alone.
func (s *Session) apply(playerID string, action engine.Action) error {
	s.mu.Lock()
	if err := s.checkSeated(playerID); err != nil {
		s.mu.Unlock()
		return err
	}
	wasOver := s.game.Over()
	events, err := s.game.Apply(playerID, action)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lastActive = s.now()
	if action.Type == engine.ActionStart {
		log.Printf("session %s: started with %d players", s.id, len(s.game.Players))
	}
	if !wasOver && s.game.Over() {
		log.Printf("session %s: game over, %s", s.id, s.game.Phase)
	}
	out := s.renderLocked(events)
	s.mu.Unlock()

	s.deliver(out)
	return nil
}

// Chat posts a message from a seated player to everyone connected.
func (s *Session) Chat(playerID, text string) error {
	text, err := normalizeChat(text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkSeated(playerID); err != nil {
		s.mu.Unlock()
		return err
	}
	entry := protocol.ChatEntry{
		Sender:  playerID,
		Name:    s.lobby.Get(playerID).Name,
		Message: text,
		At:      s.now(),
	}
	s.chat.add(entry)
	env := protocol.MustEnvelope(protocol.MsgReceiveChat, entry)
	var out []delivery
	for _, id := range s.lobby.ConnectedIDs() {
		out = append(out, delivery{id, env})
	}
	s.mu.Unlock()

	s.deliver(out)
	return nil
}

// ChatLog sends the retained chat history to one player.
func (s *Session) ChatLog(playerID string) error {
	s.mu.RLock()
	if err := s.checkSeated(playerID); err != nil {
		s.mu.RUnlock()
		return err
	}
	env := protocol.MustEnvelope(protocol.MsgChatLog, protocol.ChatLog{Entries: s.chat.list()})
	s.mu.RUnlock()

	s.notifier.Notify(s.id, playerID, env)
	return nil
}

// Leave gives up a seat. Before the game starts the player is removed
// outright; afterwards the seat is kept and the player is only marked
// offline, so they can come back with their secret.
func (s *Session) Leave(playerID string) error {
	s.mu.Lock()
	if err := s.checkSeated(playerID); err != nil {
		s.mu.Unlock()
		return err
	}
	name := s.lobby.Get(playerID).Name
	if s.game.Started() {
		s.lobby.SetConnected(playerID, false)
	} else {
		if err := s.game.RemovePlayer(playerID); err != nil {
			s.mu.Unlock()
			return err
		}
		s.lobby.Leave(playerID)
		s.systemLine(fmt.Sprintf("%s left the game.", name))
	}
	s.lastActive = s.now()
	out := s.renderLocked(nil)
	s.mu.Unlock()

	s.deliver(out)
	return nil
}

// Disconnect marks a player's connection as gone. Their seat is kept.
func (s *Session) Disconnect(playerID string) {
	s.mu.Lock()
	if s.closed || s.lobby.Get(playerID) == nil {
		s.mu.Unlock()
		return
	}
	s.lobby.SetConnected(playerID, false)
	s.lastActive = s.now()
	out := s.renderLocked(nil)
	s.mu.Unlock()

	s.deliver(out)
}

// Sync sends one player their current view.
func (s *Session) Sync(playerID string) error {
	s.mu.RLock()
	if err := s.checkSeated(playerID); err != nil {
		s.mu.RUnlock()
		return err
	}
	env := s.stateLocked(playerID)
	s.mu.RUnlock()

	s.notifier.Notify(s.id, playerID, env)
	return nil
}

// View returns the state as the given player sees it.
func (s *Session) View(playerID string) engine.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked(playerID)
}

// InGame reports whether the game has started and not yet ended.
func (s *Session) InGame() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Started() && !s.game.Over()
}

// Members returns a copy of the roster.
func (s *Session) Members() []lobby.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobby.Members()
}

// closeIfIdle closes the session if nobody is connected and nothing has
// happened for timeout. A closed session rejects every operation.
func (s *Session) closeIfIdle(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	if s.lobby.ConnectedCount() > 0 || now.Sub(s.lastActive) < timeout {
		return false
	}
	s.closed = true
	return true
}

func (s *Session) checkOpen() error {
	if s.closed {
		return engine.ErrSessionNotFound
	}
	return nil
}

func (s *Session) checkSeated(playerID string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.lobby.Get(playerID) == nil {
		return engine.ErrPlayerNotFound
	}
	return nil
}

func (s *Session) systemLine(text string) {
	s.chat.add(protocol.ChatEntry{Message: text, At: s.now()})
}

// renderLocked builds the messages for every connected player: the events,
// in order, followed by that player's view. Views are rendered fresh on
// every call.
func (s *Session) renderLocked(events []engine.Event) []delivery {
	var envs []protocol.Envelope
	for _, ev := range events {
		envs = append(envs, protocol.MustEnvelope(protocol.MsgEvent, ev))
	}
	var out []delivery
	for _, id := range s.lobby.ConnectedIDs() {
		for _, env := range envs {
			out = append(out, delivery{id, env})
		}
		out = append(out, delivery{id, s.stateLocked(id)})
	}
	return out
}

func (s *Session) stateLocked(playerID string) protocol.Envelope {
	return protocol.MustEnvelope(protocol.MsgGameState, protocol.GameState{
		SessionID: s.id,
		View:      s.viewLocked(playerID),
	})
}

func (s *Session) viewLocked(playerID string) engine.View {
	v := s.game.ViewFor(playerID)
	for i := range v.Players {
		v.Players[i].Connected = s.lobby.Connected(v.Players[i].ID)
	}
	return v
}

func (s *Session) deliver(out []delivery) {
	for _, d := range out {
		s.notifier.Notify(s.id, d.playerID, d.env)
	}
}
