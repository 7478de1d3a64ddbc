package engine_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"secrethitler/internal/engine"
)

// rolesSeen returns the roles visible to observer, keyed by player ID.
func rolesSeen(g *engine.Game, observer string) map[string]string {
	out := map[string]string{}
	for _, p := range g.ViewFor(observer).Players {
		if p.Role != "" {
			out[p.ID] = p.Role
		}
	}
	return out
}

func TestLobbyHidesRoles(t *testing.T) {
	g := newTestGame(t, 5)
	for _, p := range g.Players {
		if seen := rolesSeen(g, p.ID); len(seen) != 0 {
			t.Fatalf("%s sees roles in lobby: %v", p.ID, seen)
		}
	}
}

func TestRoleVisibility(t *testing.T) {
	g := startedGame(t, 7)
	setRoles(g, "A", "B", "C")

	tests := []struct {
		observer string
		want     map[string]string
	}{
		{"D", map[string]string{"D": "Liberal"}},
		{"B", map[string]string{"A": "Hitler", "B": "Fascist", "C": "Fascist"}},
		{"C", map[string]string{"A": "Hitler", "B": "Fascist", "C": "Fascist"}},
		// Seven players: Hitler plays blind.
		{"A", map[string]string{"A": "Hitler"}},
		{"", map[string]string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, rolesSeen(g, tt.observer)); diff != "" {
			t.Errorf("observer %q (-want +got)\n%s", tt.observer, diff)
		}
	}
}

func TestHitlerKnowsFascistsInSmallGames(t *testing.T) {
	g := startedGame(t, 6)
	setRoles(g, "A", "B")

	want := map[string]string{"A": "Hitler", "B": "Fascist"}
	if diff := cmp.Diff(want, rolesSeen(g, "A")); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}
}

func TestInvestigationRevealsPartyOnly(t *testing.T) {
	g := startedGame(t, 7)
	setRoles(g, "A", "B")
	g.RecordInvestigation("D", "A")

	want := map[string]string{"A": "Fascist", "D": "Liberal"}
	if diff := cmp.Diff(want, rolesSeen(g, "D")); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}
	if seen := rolesSeen(g, "E"); len(seen) != 1 {
		t.Fatalf("investigation leaked to another player: %v", seen)
	}
}

func TestEndedRevealsAllRoles(t *testing.T) {
	g := startedGame(t, 5)
	setRoles(g, "A", "B")
	g.Phase = engine.Ended{Winner: engine.PartyLiberal}

	for _, observer := range []string{"A", "C", ""} {
		if seen := rolesSeen(g, observer); len(seen) != 5 {
			t.Fatalf("observer %q sees %d roles after the game, want 5", observer, len(seen))
		}
	}
}

func TestVotesHiddenWhileVoting(t *testing.T) {
	g := startedGame(t, 5)
	mustApply(t, g, g.President, engine.Action{Type: engine.ActionChooseChancellor, Target: firstNominee(t, g)})
	mustApply(t, g, "A", engine.Action{Type: engine.ActionVote, Yes: true})

	votes := func(observer string) map[string]string {
		out := map[string]string{}
		for _, p := range g.ViewFor(observer).Players {
			if p.Vote != "" {
				out[p.ID] = p.Vote
			}
		}
		return out
	}
	if diff := cmp.Diff(map[string]string{"A": "yes"}, votes("A")); diff != "" {
		t.Errorf("voter view (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"A": engine.VoteHidden}, votes("B")); diff != "" {
		t.Errorf("other view (-want +got)\n%s", diff)
	}

	for _, p := range g.Players[1:] {
		mustApply(t, g, p.ID, engine.Action{Type: engine.ActionVote, Yes: false})
	}
	// Tally done: every ballot is public.
	if got := votes("B"); len(got) != 5 || got["A"] != "yes" {
		t.Errorf("expected all votes revealed after the tally, got %v", got)
	}
}

func TestHandVisibility(t *testing.T) {
	g := startedGame(t, 5)
	president := g.President
	chancellor := firstNominee(t, g)
	bystander := firstNominee(t, g, chancellor)
	electGovernment(t, g, chancellor)
	g.Hand = []engine.Policy{engine.PolicyFascist, engine.PolicyLiberal, engine.PolicyFascist}

	if diff := cmp.Diff(g.Hand, g.ViewFor(president).Hand); diff != "" {
		t.Errorf("president hand (-want +got)\n%s", diff)
	}
	for _, id := range []string{chancellor, bystander, ""} {
		if h := g.ViewFor(id).Hand; h != nil {
			t.Errorf("%q sees hand %v during PresidentSelect", id, h)
		}
	}

	mustApply(t, g, president, engine.Action{Type: engine.ActionPickCard, Policy: engine.PolicyLiberal})
	want := []engine.Policy{engine.PolicyFascist, engine.PolicyFascist}
	if diff := cmp.Diff(want, g.ViewFor(chancellor).Hand); diff != "" {
		t.Errorf("chancellor hand (-want +got)\n%s", diff)
	}
	if h := g.ViewFor(president).Hand; h != nil {
		t.Errorf("president still sees hand %v", h)
	}
}

func TestPolicyPeekShowsTopThree(t *testing.T) {
	g := startedGame(t, 5)
	president := g.President
	g.Phase = engine.PresidentialPower{Kind: engine.PowerPolicyPeek}

	if diff := cmp.Diff(g.Deck.Peek(3), g.ViewFor(president).Hand); diff != "" {
		t.Errorf("peek (-want +got)\n%s", diff)
	}
	if h := g.ViewFor(firstNominee(t, g)).Hand; h != nil {
		t.Errorf("non-president sees peek %v", h)
	}
	before := g.Deck.Len()
	mustApply(t, g, president, engine.Action{Type: engine.ActionPresidentialPower})
	if g.Deck.Len() != before {
		t.Fatal("peek changed the draw pile")
	}
}

func TestValidTargets(t *testing.T) {
	g := startedGame(t, 5)
	president := g.President

	if diff := cmp.Diff(g.Nominees(), g.ViewFor(president).ValidTargets); diff != "" {
		t.Errorf("nominees (-want +got)\n%s", diff)
	}
	if got := g.ViewFor(firstNominee(t, g)).ValidTargets; got != nil {
		t.Errorf("non-president has targets %v", got)
	}

	g.Phase = engine.PresidentialPower{Kind: engine.PowerExecution}
	if got := g.ViewFor(president).ValidTargets; len(got) != 4 {
		t.Errorf("expected 4 execution targets, got %v", got)
	}
}

func TestViewDoesNotLeakInJSON(t *testing.T) {
	g := startedGame(t, 7)
	setRoles(g, "A", "B", "C")

	data, err := json.Marshal(g.ViewFor("D"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, leak := range []string{"Hitler", "Fascist"} {
		if strings.Contains(string(data), leak) {
			t.Fatalf("liberal view leaks %q: %s", leak, data)
		}
	}
}

func TestProjectDoesNotMutate(t *testing.T) {
	g := startedGame(t, 5)
	mustApply(t, g, g.President, engine.Action{Type: engine.ActionChooseChancellor, Target: firstNominee(t, g)})

	before := g.ViewFor("")
	for _, p := range g.Players {
		v := g.ViewFor(p.ID)
		v.TurnOrder[0] = "mutated"
	}
	if diff := cmp.Diff(before, g.ViewFor("")); diff != "" {
		t.Fatalf("projection changed the game (-before +after)\n%s", diff)
	}
}
