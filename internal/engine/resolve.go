package engine

// Policy resolution and presidential succession.

// failGovernment moves the election tracker after a rejected vote or a veto,
// forcing the top policy once the tracker reaches its limit.
func (g *Game) failGovernment() []Event {
	g.ElectionTracker++
	if g.ElectionTracker >= g.Config.ElectionTrackerLimit {
		return g.forceEnact()
	}
	return g.AdvancePresidency()
}

// forceEnact enacts the top policy of the deck directly and resets the
// tracker. Term limits are cleared too, so after a forced policy any living
// player may be nominated chancellor.
func (g *Game) forceEnact() []Event {
	var events []Event
	if g.Deck.EnsureDrawable(1) {
		events = append(events, Event{Type: EventDeckReshuffled, Data: map[string]any{"draw_pile": g.Deck.Len()}})
	}
	policy := g.Deck.Draw(1)[0]
	g.ElectionTracker = 0
	g.LastPresident = ""
	g.LastChancellor = ""
	g.elected = false
	g.Chancellor = ""

	events = append(events, Event{Type: EventForcedPolicy, Data: map[string]any{"policy": policy.String()}})
	return append(events, g.enact(policy)...)
}

// enact places a policy on the board and moves to the next phase: game over,
// a presidential power, or the next presidency.
func (g *Game) enact(policy Policy) []Event {
	var events []Event
	if g.Deck.EnsureDrawable(3) {
		events = append(events, Event{Type: EventDeckReshuffled, Data: map[string]any{"draw_pile": g.Deck.Len()}})
	}

	if policy == PolicyFascist {
		g.FascistPolicies++
	} else {
		g.LiberalPolicies++
	}
	events = append(events, Event{Type: EventPolicyEnacted, Data: map[string]any{
		"policy":  policy.String(),
		"liberal": g.LiberalPolicies,
		"fascist": g.FascistPolicies,
	}})

	switch {
	case g.LiberalPolicies >= g.Config.LiberalPoliciesToWin:
		return append(events, g.end(PartyLiberal, "liberal_policies")...)
	case g.FascistPolicies >= g.Config.FascistPoliciesToWin:
		return append(events, g.end(PartyFascist, "fascist_policies")...)
	}

	if policy == PolicyFascist {
		if kind := PowerFor(len(g.Players), g.FascistPolicies); kind != PowerNone {
			g.Phase = PresidentialPower{Kind: kind}
			return append(events, g.phaseEvent())
		}
	}
	return append(events, g.AdvancePresidency()...)
}

// AdvancePresidency passes the presidency to the next player in turn order.
func (g *Game) AdvancePresidency() []Event {
	g.recordGovernment()
	g.TurnIndex = (g.TurnIndex + 1) % len(g.TurnOrder)
	g.President = g.TurnOrder[g.TurnIndex]
	g.Phase = Electing{}
	return []Event{g.phaseEvent()}
}

// CallSpecialElection hands the next presidency to target without moving
// the turn pointer; regular succession resumes after it.
func (g *Game) CallSpecialElection(target string) []Event {
	g.recordGovernment()
	g.President = target
	g.Phase = Electing{}
	return []Event{g.phaseEvent()}
}

// ExecutePlayer kills target and removes them from the turn order. Killing
// Hitler ends the game.
func (g *Game) ExecutePlayer(target string) []Event {
	p := g.GetPlayer(target)
	p.Dead = true
	p.Vote = VoteUnset
	for i, id := range g.TurnOrder {
		if id != target {
			continue
		}
		g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
		if i <= g.TurnIndex {
			g.TurnIndex--
		}
		break
	}

	events := []Event{{Type: EventPlayerExecuted, Player: g.President, Data: map[string]any{"target": target}}}
	if p.Role == RoleHitler {
		return append(events, g.end(PartyLiberal, "hitler_executed")...)
	}
	return append(events, g.AdvancePresidency()...)
}

// RecordInvestigation notes that investigator has seen target's party.
// Investigating the same player twice is allowed and changes nothing.
func (g *Game) RecordInvestigation(investigator, target string) {
	for _, id := range g.Investigations[investigator] {
		if id == target {
			return
		}
	}
	g.Investigations[investigator] = append(g.Investigations[investigator], target)
}

// Investigated reports whether observer has investigated target.
func (g *Game) Investigated(observer, target string) bool {
	for _, id := range g.Investigations[observer] {
		if id == target {
			return true
		}
	}
	return false
}

// recordGovernment remembers an elected government for term limits and
// clears the sitting one.
func (g *Game) recordGovernment() {
	if g.elected {
		g.LastPresident = g.President
		g.LastChancellor = g.Chancellor
	}
	g.elected = false
	g.Chancellor = ""
	g.Hand = nil
	g.PresidentDiscard = -1
	g.PresidentVeto = false
	g.ChancellorVeto = false
}

func (g *Game) end(winner Party, reason string) []Event {
	g.Phase = Ended{Winner: winner}
	return []Event{
		{Type: EventGameOver, Data: map[string]any{"winner": winner.String(), "reason": reason}},
		g.phaseEvent(),
	}
}
