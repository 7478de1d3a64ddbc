package engine

import (
	"encoding/json"
	"fmt"
)

// Policy is the colour of a policy card.
type Policy int

const (
	PolicyLiberal Policy = iota
	PolicyFascist
)

func (p Policy) String() string {
	switch p {
	case PolicyLiberal:
		return "Liberal"
	case PolicyFascist:
		return "Fascist"
	}
	return "Unknown"
}

// ParsePolicy accepts the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "Liberal", "liberal":
		return PolicyLiberal, nil
	case "Fascist", "fascist":
		return PolicyFascist, nil
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}

func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Policy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// PolicyCounts tallies cards by colour without revealing their order.
type PolicyCounts struct {
	Liberal int `json:"liberal"`
	Fascist int `json:"fascist"`
}

func (c PolicyCounts) Total() int { return c.Liberal + c.Fascist }

func countPolicies(cards []Policy) PolicyCounts {
	var c PolicyCounts
	for _, p := range cards {
		if p == PolicyFascist {
			c.Fascist++
		} else {
			c.Liberal++
		}
	}
	return c
}
