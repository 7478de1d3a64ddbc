package engine

import (
	"fmt"
	"math/rand/v2"
)

// AssignRoles deals roles for n seats and picks a turn order. The two are
// independent permutations: roles[i] is the role of seat i, and order lists
// seat indices in presidential order.
func AssignRoles(n int, rng *rand.Rand) (roles []Role, order []int, err error) {
	fascists := FascistCount(n)
	if fascists < 0 {
		return nil, nil, fmt.Errorf("cannot deal roles for %d players", n)
	}

	roles = make([]Role, 0, n)
	for i := 0; i < n-fascists-1; i++ {
		roles = append(roles, RoleLiberal)
	}
	for i := 0; i < fascists; i++ {
		roles = append(roles, RoleFascist)
	}
	roles = append(roles, RoleHitler)
	shuffle(rng, roles)

	order = rng.Perm(n)
	return roles, order, nil
}
