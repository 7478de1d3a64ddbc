package engine

import "fmt"

// Phase is the current node of the turn state machine. The set of variants
// is closed: Lobby, Electing, Voting, PresidentSelect, ChancellorSelect,
// PresidentialPower and Ended.
type Phase interface {
	isPhase()
	String() string
}

// Lobby: waiting for players; the host may start the game.
type Lobby struct{}

// Electing: the president must nominate a chancellor.
type Electing struct{}

// Voting: ballots are open for the nominated government.
type Voting struct{}

// PresidentSelect: the president must discard one of three drawn policies.
type PresidentSelect struct{}

// ChancellorSelect: the chancellor must enact one of the remaining two.
type ChancellorSelect struct{}

// PresidentialPower: the president must use the unlocked power.
type PresidentialPower struct {
	Kind PowerKind
}

// Ended: the game is over.
type Ended struct {
	Winner Party
}

func (Lobby) isPhase()             {}
func (Electing) isPhase()          {}
func (Voting) isPhase()            {}
func (PresidentSelect) isPhase()   {}
func (ChancellorSelect) isPhase()  {}
func (PresidentialPower) isPhase() {}
func (Ended) isPhase()             {}

func (Lobby) String() string            { return "Lobby" }
func (Electing) String() string         { return "Electing" }
func (Voting) String() string           { return "Voting" }
func (PresidentSelect) String() string  { return "PresidentSelect" }
func (ChancellorSelect) String() string { return "ChancellorSelect" }

func (p PresidentialPower) String() string {
	return "PresidentialPower(" + p.Kind.String() + ")"
}

func (e Ended) String() string {
	return "Ended(" + e.Winner.String() + ")"
}

// PhaseView is the wire form of a phase.
type PhaseView struct {
	Name   string `json:"name"`
	Power  string `json:"power,omitempty"`
	Winner string `json:"winner,omitempty"`
}

func viewPhase(p Phase) PhaseView {
	switch p := p.(type) {
	case Lobby, Electing, Voting, PresidentSelect, ChancellorSelect:
		return PhaseView{Name: p.String()}
	case PresidentialPower:
		return PhaseView{Name: "PresidentialPower", Power: p.Kind.String()}
	case Ended:
		return PhaseView{Name: "Ended", Winner: p.Winner.String()}
	default:
		panic(fmt.Sprintf("engine: unknown phase %T", p))
	}
}
