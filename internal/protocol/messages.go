package protocol

import (
	"time"

	"secrethitler/internal/engine"
)

// Message types: Client → Server
const (
	MsgHostGame          = "host_game"
	MsgJoinGame          = "join_game"
	MsgStartGame         = "start_game"
	MsgChooseChancellor  = "choose_chancellor"
	MsgVoteChancellor    = "vote_chancellor"
	MsgPickCard          = "pick_card"
	MsgVetoCard          = "veto_card"
	MsgPresidentialPower = "presidential_power"
	MsgSendChat          = "send_chat"
	MsgGetChatLog        = "get_chat_log"
	MsgLeave             = "leave"
)

// Message types: Server → Client
const (
	MsgSetIdentifiers = "set_identifiers"
	MsgAlert          = "alert"
	MsgReceiveChat    = "receive_chat"
	MsgGameState      = "game_state"
	MsgChatLog        = "chat_log"
	MsgEvent          = "event"
)

// HostGameMsg creates a session with the sender as host.
type HostGameMsg struct {
	Nickname string `json:"nickname"`
}

// JoinGameMsg joins a session. PlayerID and Secret are set when
// reconnecting to an existing seat, and Nickname is then ignored.
type JoinGameMsg struct {
	SessionID string `json:"session_id"`
	Nickname  string `json:"nickname"`
	PlayerID  string `json:"player_id,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

type ChooseChancellorMsg struct {
	Target string `json:"target"`
}

type VoteChancellorMsg struct {
	Vote bool `json:"vote"`
}

type PickCardMsg struct {
	Policy engine.Policy `json:"policy"`
}

// PresidentialPowerMsg uses the pending power. Target is empty for powers
// that take none.
type PresidentialPowerMsg struct {
	Target string `json:"target,omitempty"`
}

type SendChatMsg struct {
	Message string `json:"message"`
}

// SetIdentifiers hands a player the credentials needed to reconnect.
type SetIdentifiers struct {
	PlayerID  string `json:"player_id"`
	SessionID string `json:"session_id"`
	Secret    string `json:"secret"`
}

// Alert is a rejection or notice for a single player.
type Alert struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// ChatEntry is one line of chat. Sender is empty for system lines.
type ChatEntry struct {
	Sender  string    `json:"sender,omitempty"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type ChatLog struct {
	Entries []ChatEntry `json:"entries"`
}

// GameState is one player's view of their session.
type GameState struct {
	SessionID string      `json:"session_id"`
	View      engine.View `json:"view"`
}
