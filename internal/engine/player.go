package engine

// Vote is a player's ballot on the current government.
type Vote int

const (
	VoteUnset Vote = iota
	VoteYes
	VoteNo
)

func (v Vote) String() string {
	switch v {
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	}
	return ""
}

// Player holds one player's game state.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"-"`
	Dead bool   `json:"dead"`
	Vote Vote   `json:"-"`
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Alive reports whether the player can still act.
func (p *Player) Alive() bool {
	return !p.Dead
}
