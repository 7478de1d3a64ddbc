package engine

// Tally counts the ballots of living players.
type Tally struct {
	Yes      int  `json:"yes"`
	No       int  `json:"no"`
	Complete bool `json:"-"` // every living player has voted
}

// Elected reports whether the government won: a strict majority of yes.
func (t Tally) Elected() bool {
	return t.Yes > t.No
}

func (g *Game) tally() Tally {
	t := Tally{Complete: true}
	for _, p := range g.Players {
		if p.Dead {
			continue
		}
		switch p.Vote {
		case VoteYes:
			t.Yes++
		case VoteNo:
			t.No++
		default:
			t.Complete = false
		}
	}
	return t
}

// resolveElection applies a finished vote.
func (g *Game) resolveElection(t Tally) []Event {
	events := []Event{{Type: EventVoteResult, Data: map[string]any{
		"yes":        t.Yes,
		"no":         t.No,
		"elected":    t.Elected(),
		"president":  g.President,
		"chancellor": g.Chancellor,
	}}}

	if !t.Elected() {
		g.Chancellor = ""
		return append(events, g.failGovernment()...)
	}

	g.elected = true
	g.ElectionTracker = 0

	chancellor := g.GetPlayer(g.Chancellor)
	if chancellor.Role == RoleHitler && g.FascistPolicies >= g.Config.HitlerElectionThreshold {
		return append(events, g.end(PartyFascist, "hitler_elected")...)
	}

	if g.Deck.EnsureDrawable(3) {
		events = append(events, Event{Type: EventDeckReshuffled, Data: map[string]any{"draw_pile": g.Deck.Len()}})
	}
	g.Hand = g.Deck.Draw(3)
	g.PresidentDiscard = -1
	g.Phase = PresidentSelect{}
	return append(events, g.phaseEvent())
}
