package engine

// Role is the hidden identity dealt to each player at game start.
type Role int

const (
	RoleLiberal Role = iota // default until roles are dealt
	RoleFascist
	RoleHitler
)

var roleNames = map[Role]string{
	RoleLiberal: "Liberal",
	RoleFascist: "Fascist",
	RoleHitler:  "Hitler",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "Unknown"
}

// Party returns the team the role plays for. Hitler plays for the fascists.
func (r Role) Party() Party {
	if r == RoleLiberal {
		return PartyLiberal
	}
	return PartyFascist
}

// Party is a team; it is also the winner recorded when the game ends.
type Party int

const (
	PartyLiberal Party = iota
	PartyFascist
)

func (p Party) String() string {
	switch p {
	case PartyLiberal:
		return "Liberal"
	case PartyFascist:
		return "Fascist"
	}
	return "Unknown"
}
