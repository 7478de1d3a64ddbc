package powers

import "secrethitler/internal/engine"

// Investigate: the president learns the party of one other player. The
// result is delivered through the president's future views only.
type Investigate struct{}

func (Investigate) Kind() engine.PowerKind { return engine.PowerInvestigateLoyalty }
func (Investigate) NeedsTarget() bool      { return true }

func (Investigate) ValidTargets(g *engine.Game, presidentID string) []string {
	var targets []string
	for _, p := range g.Players {
		if p.ID != presidentID {
			targets = append(targets, p.ID)
		}
	}
	return targets
}

func (Investigate) Apply(g *engine.Game, presidentID, targetID string) ([]engine.Event, error) {
	if targetID == presidentID {
		return nil, engine.Reject(engine.KindInvalidTarget, "You cannot investigate yourself.")
	}
	if g.GetPlayer(targetID) == nil {
		return nil, engine.Reject(engine.KindInvalidTarget, "That player does not exist.")
	}
	g.RecordInvestigation(presidentID, targetID)
	events := []engine.Event{
		{Type: engine.EventPowerUsed, Player: presidentID, Data: map[string]any{
			"power": engine.PowerInvestigateLoyalty.String(), "target": targetID,
		}},
	}
	return append(events, g.AdvancePresidency()...), nil
}
