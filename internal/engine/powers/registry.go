// Package powers implements the presidential powers unlocked by fascist
// policies.
package powers

import "secrethitler/internal/engine"

// NewRegistry returns a registry with every presidential power.
func NewRegistry() *engine.PowerRegistry {
	r := engine.NewPowerRegistry()
	r.Register(Investigate{})
	r.Register(SpecialElection{})
	r.Register(PolicyPeek{})
	r.Register(Execution{})
	return r
}
