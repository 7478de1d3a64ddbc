package powers

import "secrethitler/internal/engine"

// SpecialElection: the president picks the next president. Regular
// succession resumes afterwards from where it left off.
type SpecialElection struct{}

func (SpecialElection) Kind() engine.PowerKind { return engine.PowerCallSpecialElection }
func (SpecialElection) NeedsTarget() bool      { return true }

func (SpecialElection) ValidTargets(g *engine.Game, presidentID string) []string {
	var targets []string
	for _, p := range g.Players {
		if p.ID != presidentID && p.Alive() {
			targets = append(targets, p.ID)
		}
	}
	return targets
}

func (SpecialElection) Apply(g *engine.Game, presidentID, targetID string) ([]engine.Event, error) {
	if targetID == presidentID {
		return nil, engine.Reject(engine.KindInvalidTarget, "You cannot choose yourself.")
	}
	target := g.GetPlayer(targetID)
	if target == nil {
		return nil, engine.Reject(engine.KindInvalidTarget, "That player does not exist.")
	}
	if target.Dead {
		return nil, engine.Reject(engine.KindInvalidTarget, "%s is dead.", target.Name)
	}
	events := []engine.Event{
		{Type: engine.EventPowerUsed, Player: presidentID, Data: map[string]any{
			"power": engine.PowerCallSpecialElection.String(), "target": targetID,
		}},
	}
	return append(events, g.CallSpecialElection(targetID)...), nil
}
