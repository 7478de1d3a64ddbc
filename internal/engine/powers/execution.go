package powers

import "secrethitler/internal/engine"

// Execution: the president kills a living player. If that player was Hitler
// the liberals win at once.
type Execution struct{}

func (Execution) Kind() engine.PowerKind { return engine.PowerExecution }
func (Execution) NeedsTarget() bool      { return true }

func (Execution) ValidTargets(g *engine.Game, presidentID string) []string {
	var targets []string
	for _, p := range g.Players {
		if p.ID != presidentID && p.Alive() {
			targets = append(targets, p.ID)
		}
	}
	return targets
}

func (Execution) Apply(g *engine.Game, presidentID, targetID string) ([]engine.Event, error) {
	if targetID == presidentID {
		return nil, engine.Reject(engine.KindInvalidTarget, "You cannot execute yourself.")
	}
	target := g.GetPlayer(targetID)
	if target == nil {
		return nil, engine.Reject(engine.KindInvalidTarget, "That player does not exist.")
	}
	if target.Dead {
		return nil, engine.Reject(engine.KindInvalidTarget, "%s is already dead.", target.Name)
	}
	events := []engine.Event{
		{Type: engine.EventPowerUsed, Player: presidentID, Data: map[string]any{
			"power": engine.PowerExecution.String(), "target": targetID,
		}},
	}
	return append(events, g.ExecutePlayer(targetID)...), nil
}
