package engine

import "fmt"

// ActionType identifies player actions sent to Game.Apply.
type ActionType string

const (
	ActionStart             ActionType = "start"
	ActionChooseChancellor  ActionType = "choose_chancellor"
	ActionVote              ActionType = "vote"
	ActionPickCard          ActionType = "pick_card"
	ActionVeto              ActionType = "veto"
	ActionPresidentialPower ActionType = "presidential_power"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// choose_chancellor, presidential_power
	Target string `json:"target,omitempty"`
	// vote
	Yes bool `json:"yes,omitempty"`
	// pick_card
	Policy Policy `json:"policy"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventGameStart      EventType = "game_start"
	EventPhaseChange    EventType = "phase_change"
	EventNomination     EventType = "nomination"
	EventVoteResult     EventType = "vote_result"
	EventPolicyEnacted  EventType = "policy_enacted"
	EventForcedPolicy   EventType = "forced_policy"
	EventDeckReshuffled EventType = "deck_reshuffled"
	EventVetoRequested  EventType = "veto_requested"
	EventVetoed         EventType = "vetoed"
	EventPowerUsed      EventType = "power_used"
	EventPlayerExecuted EventType = "player_executed"
	EventGameOver       EventType = "game_over"
)

// Event is emitted by the engine after state changes. Events only ever carry
// public information.
type Event struct {
	Type   EventType      `json:"type"`
	Player string         `json:"player,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// PowerKind names a presidential power.
type PowerKind int

const (
	PowerNone PowerKind = iota
	PowerInvestigateLoyalty
	PowerCallSpecialElection
	PowerPolicyPeek
	PowerExecution
)

var powerNames = map[PowerKind]string{
	PowerNone:                "None",
	PowerInvestigateLoyalty:  "InvestigateLoyalty",
	PowerCallSpecialElection: "CallSpecialElection",
	PowerPolicyPeek:          "PolicyPeek",
	PowerExecution:           "Execution",
}

func (k PowerKind) String() string {
	if s, ok := powerNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Power is a presidential power unlocked by a fascist policy.
type Power interface {
	Kind() PowerKind
	// NeedsTarget returns true if the president must name a player.
	NeedsTarget() bool
	// ValidTargets returns the ids the president may name.
	ValidTargets(g *Game, presidentID string) []string
	// Apply validates the target and executes the power. It must not mutate
	// the game when it returns an error.
	Apply(g *Game, presidentID, targetID string) ([]Event, error)
}

// PowerRegistry maps kinds to their implementations.
type PowerRegistry struct {
	powers map[PowerKind]Power
}

func NewPowerRegistry() *PowerRegistry {
	return &PowerRegistry{powers: make(map[PowerKind]Power)}
}

func (r *PowerRegistry) Register(p Power) {
	r.powers[p.Kind()] = p
}

func (r *PowerRegistry) Get(kind PowerKind) (Power, error) {
	p, ok := r.powers[kind]
	if !ok {
		return nil, fmt.Errorf("no power registered for %s", kind)
	}
	return p, nil
}
