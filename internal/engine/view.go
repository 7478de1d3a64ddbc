package engine

// VoteHidden stands in for a ballot the observer may not see yet.
const VoteHidden = "hidden"

// PlayerView is the public record of one player as seen by an observer.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Vote      string `json:"vote,omitempty"` // yes, no, hidden, or empty if not cast
	Dead      bool   `json:"dead"`
	Role      string `json:"role,omitempty"` // empty when hidden
	Connected bool   `json:"connected"`
}

// View is the game as one observer is allowed to see it.
type View struct {
	You   string    `json:"you"`
	Phase PhaseView `json:"phase"`

	Host           string   `json:"host"`
	President      string   `json:"president,omitempty"`
	Chancellor     string   `json:"chancellor,omitempty"`
	LastPresident  string   `json:"last_president,omitempty"`
	LastChancellor string   `json:"last_chancellor,omitempty"`
	TurnOrder      []string `json:"turn_order"`

	LiberalPolicies int          `json:"liberal_policies"`
	FascistPolicies int          `json:"fascist_policies"`
	ElectionTracker int          `json:"election_tracker"`
	DrawPile        PolicyCounts `json:"draw_pile"`
	DiscardPile     int          `json:"discard_pile"`

	VetoUnlocked   bool `json:"veto_unlocked"`
	PresidentVeto  bool `json:"president_veto"`
	ChancellorVeto bool `json:"chancellor_veto"`

	// Hand holds the policies the observer may currently see.
	Hand []Policy `json:"hand,omitempty"`
	// ValidTargets lists whom the observer may name in their pending action.
	ValidTargets []string `json:"valid_targets,omitempty"`

	Players []PlayerView `json:"players"`
}

// ViewFor returns the game state visible to a specific player.
func (g *Game) ViewFor(observerID string) View {
	return Project(g, observerID)
}

// Project renders the game for one observer. It never mutates the game and
// never leaks hidden state: roles, votes in progress and policy cards are
// filtered by the observer's role and the current phase.
func Project(g *Game, observerID string) View {
	counts := g.Deck.Counts()
	v := View{
		You:             observerID,
		Phase:           viewPhase(g.Phase),
		Host:            g.Host,
		President:       g.President,
		Chancellor:      g.Chancellor,
		LastPresident:   g.LastPresident,
		LastChancellor:  g.LastChancellor,
		TurnOrder:       append([]string{}, g.TurnOrder...),
		LiberalPolicies: g.LiberalPolicies,
		FascistPolicies: g.FascistPolicies,
		ElectionTracker: g.ElectionTracker,
		DrawPile:        counts,
		DiscardPile:     g.Deck.DiscardLen(),
		VetoUnlocked:    g.VetoUnlocked(),
		PresidentVeto:   g.PresidentVeto,
		ChancellorVeto:  g.ChancellorVeto,
		Hand:            visibleHand(g, observerID),
		ValidTargets:    validTargets(g, observerID),
	}

	observer := g.GetPlayer(observerID)
	_, voting := g.Phase.(Voting)
	for _, p := range g.Players {
		pv := PlayerView{ID: p.ID, Name: p.Name, Dead: p.Dead}

		if vote := p.Vote.String(); vote != "" {
			pv.Vote = vote
			if voting && p.ID != observerID {
				pv.Vote = VoteHidden
			}
		}
		if role, ok := visibleRole(g, observer, p); ok {
			pv.Role = role
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// visibleRole decides whether observer may see target's role, and in what
// form. Investigation only ever reveals the party.
func visibleRole(g *Game, observer, target *Player) (string, bool) {
	if !g.Started() {
		return "", false
	}
	if g.Over() {
		return target.Role.String(), true
	}
	if observer == nil {
		return "", false
	}
	switch {
	case observer.ID == target.ID:
		return target.Role.String(), true
	case observer.Role == RoleFascist && target.Role != RoleLiberal:
		return target.Role.String(), true
	case observer.Role == RoleHitler && len(g.Players) <= g.Config.SmallGameSize && target.Role != RoleLiberal:
		return target.Role.String(), true
	case g.Investigated(observer.ID, target.ID):
		return target.Role.Party().String(), true
	}
	return "", false
}

func visibleHand(g *Game, observerID string) []Policy {
	if observerID == "" {
		return nil
	}
	switch phase := g.Phase.(type) {
	case PresidentSelect:
		if observerID == g.President {
			return append([]Policy(nil), g.Hand...)
		}
	case ChancellorSelect:
		if observerID == g.Chancellor {
			var out []Policy
			for i, c := range g.Hand {
				if i != g.PresidentDiscard {
					out = append(out, c)
				}
			}
			return out
		}
	case PresidentialPower:
		if phase.Kind == PowerPolicyPeek && observerID == g.President {
			return g.Deck.Peek(3)
		}
	}
	return nil
}

func validTargets(g *Game, observerID string) []string {
	if observerID == "" || observerID != g.President {
		return nil
	}
	switch phase := g.Phase.(type) {
	case Electing:
		return g.Nominees()
	case PresidentialPower:
		power, err := g.Powers.Get(phase.Kind)
		if err != nil || !power.NeedsTarget() {
			return nil
		}
		return power.ValidTargets(g, observerID)
	}
	return nil
}
