package engine

import (
	"fmt"
	"math/rand/v2"
)

// Game holds the entire state of one session's game.
type Game struct {
	Players []*Player      `json:"players"`
	Deck    *Deck          `json:"-"`
	Config  GameConfig     `json:"-"`
	Powers  *PowerRegistry `json:"-"`

	Host  string `json:"host"`
	Phase Phase  `json:"-"`

	// TurnOrder holds living players in presidential order; TurnIndex points
	// at the last regular president.
	TurnOrder []string `json:"turn_order"`
	TurnIndex int      `json:"-"`

	President      string `json:"president"`
	Chancellor     string `json:"chancellor"`
	LastPresident  string `json:"last_president"`
	LastChancellor string `json:"last_chancellor"`

	ElectionTracker int `json:"election_tracker"`
	LiberalPolicies int `json:"liberal_policies"`
	FascistPolicies int `json:"fascist_policies"`

	// Hand holds the three drawn policies while a government legislates.
	Hand []Policy `json:"-"`
	// PresidentDiscard indexes the card in Hand the president set aside, or -1.
	PresidentDiscard int `json:"-"`

	// Investigations maps an investigator to the players they investigated.
	Investigations map[string][]string `json:"-"`

	PresidentVeto  bool `json:"president_veto"`
	ChancellorVeto bool `json:"chancellor_veto"`

	elected bool // the sitting government won its vote
	rng     *rand.Rand
}

// NewGame creates a game in the lobby with the host as its only player. A
// nil rng uses a randomly seeded source.
func NewGame(hostID, hostName string, config GameConfig, powers *PowerRegistry, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Game{
		Players:          []*Player{NewPlayer(hostID, hostName)},
		Deck:             NewDeck(config, rng),
		Config:           config,
		Powers:           powers,
		Host:             hostID,
		Phase:            Lobby{},
		PresidentDiscard: -1,
		Investigations:   make(map[string][]string),
		rng:              rng,
	}
}

// AddPlayer seats a new player. Only allowed in the lobby.
func (g *Game) AddPlayer(id, name string) error {
	if _, ok := g.Phase.(Lobby); !ok {
		return Reject(KindWrongPhase, "This game has already started!")
	}
	if g.GetPlayer(id) != nil {
		return Reject(KindInvalidTarget, "player %s is already seated", id)
	}
	if len(g.Players) >= g.Config.MaxPlayers {
		return Reject(KindSessionFull, "There can be at most %d players.", g.Config.MaxPlayers)
	}
	g.Players = append(g.Players, NewPlayer(id, name))
	return nil
}

// RemovePlayer unseats a player. Only allowed in the lobby; once the game
// has started players are never removed. If the host leaves, the earliest
// remaining player becomes host.
func (g *Game) RemovePlayer(id string) error {
	if _, ok := g.Phase.(Lobby); !ok {
		return Reject(KindWrongPhase, "You cannot leave a game that has already started.")
	}
	for i, p := range g.Players {
		if p.ID != id {
			continue
		}
		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		if g.Host == id {
			g.Host = ""
			if len(g.Players) > 0 {
				g.Host = g.Players[0].ID
			}
		}
		return nil
	}
	return ErrPlayerNotFound
}

// Apply is the single entry point for player actions. A rejected action
// leaves the game untouched.
func (g *Game) Apply(playerID string, action Action) ([]Event, error) {
	switch action.Type {
	case ActionStart:
		return g.applyStart(playerID)
	case ActionChooseChancellor:
		return g.applyChooseChancellor(playerID, action.Target)
	case ActionVote:
		return g.applyVote(playerID, action.Yes)
	case ActionPickCard:
		return g.applyPickCard(playerID, action.Policy)
	case ActionVeto:
		return g.applyVeto(playerID)
	case ActionPresidentialPower:
		return g.applyPower(playerID, action.Target)
	default:
		return nil, Reject(KindInvalidChoice, "unknown action %q", action.Type)
	}
}

func (g *Game) applyStart(playerID string) ([]Event, error) {
	if _, ok := g.Phase.(Lobby); !ok {
		return nil, Reject(KindWrongPhase, "This game has already started!")
	}
	if playerID != g.Host {
		return nil, Reject(KindNotAuthorized, "Only the host can start the game!")
	}
	n := len(g.Players)
	if n < g.Config.MinPlayers {
		return nil, Reject(KindWrongPhase, "There are too few players! You need %d players to start a game.", g.Config.MinPlayers)
	}
	if n > g.Config.MaxPlayers {
		return nil, Reject(KindWrongPhase, "There are too many players! There can be at most %d players.", g.Config.MaxPlayers)
	}

	roles, order, err := AssignRoles(n, g.rng)
	if err != nil {
		return nil, Reject(KindWrongPhase, "%v", err)
	}
	for i, p := range g.Players {
		p.Role = roles[i]
		p.Vote = VoteUnset
	}
	g.TurnOrder = make([]string, n)
	for i, seat := range order {
		g.TurnOrder[i] = g.Players[seat].ID
	}
	g.TurnIndex = 0
	g.President = g.TurnOrder[0]
	g.Phase = Electing{}

	return []Event{
		{Type: EventGameStart, Data: map[string]any{
			"players":    n,
			"turn_order": append([]string(nil), g.TurnOrder...),
		}},
		g.phaseEvent(),
	}, nil
}

func (g *Game) applyChooseChancellor(playerID, targetID string) ([]Event, error) {
	if _, ok := g.Phase.(Electing); !ok {
		return nil, ErrWrongPhase
	}
	if playerID != g.President {
		return nil, Reject(KindNotAuthorized, "Only the president can nominate a chancellor.")
	}
	target := g.GetPlayer(targetID)
	if target == nil {
		return nil, Reject(KindInvalidTarget, "That player does not exist.")
	}
	if targetID == playerID {
		return nil, Reject(KindInvalidTarget, "You cannot nominate yourself.")
	}
	if target.Dead {
		return nil, Reject(KindInvalidTarget, "%s is dead.", target.Name)
	}
	if !g.nominable(targetID) {
		return nil, Reject(KindInvalidTarget, "%s is term-limited.", target.Name)
	}

	g.Chancellor = targetID
	g.clearVotes()
	g.Phase = Voting{}
	return []Event{
		{Type: EventNomination, Player: playerID, Data: map[string]any{"chancellor": targetID}},
		g.phaseEvent(),
	}, nil
}

func (g *Game) applyVote(playerID string, yes bool) ([]Event, error) {
	if _, ok := g.Phase.(Voting); !ok {
		return nil, ErrWrongPhase
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if p.Dead {
		return nil, Reject(KindNotAuthorized, "Dead players cannot vote.")
	}

	p.Vote = VoteNo
	if yes {
		p.Vote = VoteYes
	}

	t := g.tally()
	if !t.Complete {
		return nil, nil
	}
	return g.resolveElection(t), nil
}

func (g *Game) applyPickCard(playerID string, policy Policy) ([]Event, error) {
	switch g.Phase.(type) {
	case PresidentSelect:
		if playerID != g.President {
			return nil, Reject(KindNotAuthorized, "Only the president can discard a policy.")
		}
		idx := indexOf(g.Hand, policy, -1)
		if idx < 0 {
			return nil, Reject(KindInvalidChoice, "There is no %s policy to discard.", policy)
		}
		g.PresidentDiscard = idx
		g.PresidentVeto = false
		g.ChancellorVeto = false
		g.Phase = ChancellorSelect{}
		return []Event{g.phaseEvent()}, nil

	case ChancellorSelect:
		if playerID != g.Chancellor {
			return nil, Reject(KindNotAuthorized, "Only the chancellor can enact a policy.")
		}
		idx := indexOf(g.Hand, policy, g.PresidentDiscard)
		if idx < 0 {
			return nil, Reject(KindInvalidChoice, "There is no %s policy to enact.", policy)
		}
		for i, c := range g.Hand {
			if i != idx {
				g.Deck.Discard(c)
			}
		}
		g.Hand = nil
		g.PresidentDiscard = -1
		return g.enact(policy), nil

	default:
		return nil, ErrWrongPhase
	}
}

func (g *Game) applyVeto(playerID string) ([]Event, error) {
	if _, ok := g.Phase.(ChancellorSelect); !ok {
		return nil, ErrWrongPhase
	}
	if !g.VetoUnlocked() {
		return nil, ErrPowerLocked
	}

	var by string
	switch playerID {
	case g.President:
		g.PresidentVeto = true
		by = "president"
	case g.Chancellor:
		g.ChancellorVeto = true
		by = "chancellor"
	default:
		return nil, Reject(KindNotAuthorized, "Only the government can veto.")
	}

	events := []Event{{Type: EventVetoRequested, Player: playerID, Data: map[string]any{"by": by}}}
	if !g.PresidentVeto || !g.ChancellorVeto {
		return events, nil
	}

	g.Deck.Discard(g.Hand...)
	g.Hand = nil
	g.PresidentDiscard = -1
	events = append(events, Event{Type: EventVetoed})
	return append(events, g.failGovernment()...), nil
}

func (g *Game) applyPower(playerID, targetID string) ([]Event, error) {
	phase, ok := g.Phase.(PresidentialPower)
	if !ok {
		return nil, ErrWrongPhase
	}
	if playerID != g.President {
		return nil, Reject(KindNotAuthorized, "Only the president can use this power.")
	}
	power, err := g.Powers.Get(phase.Kind)
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
	if power.NeedsTarget() && targetID == "" {
		return nil, Reject(KindInvalidTarget, "You must choose a player.")
	}
	return power.Apply(g, playerID, targetID)
}

// VetoUnlocked reports whether enough fascist policies are enacted to veto.
func (g *Game) VetoUnlocked() bool {
	return g.FascistPolicies >= g.Config.VetoThreshold
}

// Started reports whether roles have been dealt.
func (g *Game) Started() bool {
	_, lobby := g.Phase.(Lobby)
	return !lobby
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	_, ended := g.Phase.(Ended)
	return ended
}

// Nominees returns the players the president may nominate right now.
func (g *Game) Nominees() []string {
	var out []string
	for _, p := range g.Players {
		if p.ID != g.President && !p.Dead && g.nominable(p.ID) {
			out = append(out, p.ID)
		}
	}
	return out
}

// nominable applies the term limit to a living non-president. The limit is
// waived when it would leave the president nobody to nominate.
func (g *Game) nominable(id string) bool {
	if !g.termLimited(id) {
		return true
	}
	for _, p := range g.Players {
		if p.ID != g.President && !p.Dead && !g.termLimited(p.ID) {
			return false
		}
	}
	return true
}

func (g *Game) termLimited(id string) bool {
	return id != "" && (id == g.LastPresident || id == g.LastChancellor)
}

// GetPlayer finds a player by ID.
func (g *Game) GetPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AliveCount returns the number of living players.
func (g *Game) AliveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Dead {
			n++
		}
	}
	return n
}

func (g *Game) clearVotes() {
	for _, p := range g.Players {
		p.Vote = VoteUnset
	}
}

func (g *Game) phaseEvent() Event {
	return Event{Type: EventPhaseChange, Data: map[string]any{"phase": viewPhase(g.Phase)}}
}

// indexOf finds policy in hand, skipping the index skip.
func indexOf(hand []Policy, policy Policy, skip int) int {
	for i, c := range hand {
		if i != skip && c == policy {
			return i
		}
	}
	return -1
}
