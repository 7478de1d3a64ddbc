package powers

import "secrethitler/internal/engine"

// PolicyPeek: the president sees the top three policies. The cards are shown
// in the president's view while the power is pending; using the power just
// acknowledges it.
type PolicyPeek struct{}

func (PolicyPeek) Kind() engine.PowerKind                     { return engine.PowerPolicyPeek }
func (PolicyPeek) NeedsTarget() bool                          { return false }
func (PolicyPeek) ValidTargets(*engine.Game, string) []string { return nil }

func (PolicyPeek) Apply(g *engine.Game, presidentID, _ string) ([]engine.Event, error) {
	events := []engine.Event{
		{Type: engine.EventPowerUsed, Player: presidentID, Data: map[string]any{
			"power": engine.PowerPolicyPeek.String(),
		}},
	}
	return append(events, g.AdvancePresidency()...), nil
}
