package engine

// GameConfig holds the rule constants for a game.
type GameConfig struct {
	MinPlayers int
	MaxPlayers int

	LiberalCards int
	FascistCards int

	LiberalPoliciesToWin int
	FascistPoliciesToWin int

	HitlerElectionThreshold int // fascist policies after which electing Hitler chancellor wins
	VetoThreshold           int // fascist policies that unlock the veto
	ElectionTrackerLimit    int // failed governments before a policy is forced
	SmallGameSize           int // at or below this, Hitler knows the fascists
}

func DefaultConfig() GameConfig {
	return GameConfig{
		MinPlayers:              5,
		MaxPlayers:              10,
		LiberalCards:            6,
		FascistCards:            11,
		LiberalPoliciesToWin:    5,
		FascistPoliciesToWin:    6,
		HitlerElectionThreshold: 3,
		VetoThreshold:           5,
		ElectionTrackerLimit:    3,
		SmallGameSize:           6,
	}
}

// FascistCount returns how many non-Hitler fascists are dealt for n players,
// or -1 if n is outside 5..10.
func FascistCount(n int) int {
	switch n {
	case 5, 6:
		return 1
	case 7, 8:
		return 2
	case 9, 10:
		return 3
	}
	return -1
}

// PowerFor returns the presidential power unlocked by enacting the given
// fascist policy (1-based) in a game of the given size.
func PowerFor(players, fascistPolicies int) PowerKind {
	switch fascistPolicies {
	case 1, 2:
		if players >= 9 || (players >= 7 && fascistPolicies == 2) {
			return PowerInvestigateLoyalty
		}
	case 3:
		if players <= 6 {
			return PowerPolicyPeek
		}
		return PowerCallSpecialElection
	case 4, 5:
		return PowerExecution
	}
	return PowerNone
}
