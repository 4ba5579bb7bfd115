package core

import (
	"fmt"
	"testing"
)

// Builds a competition with a single round robin league of
// teamCount teams: stage "L", group "RL", teams TM1..TMn,
// matches RLM1... in pairing order.
//
// When played is true every match is recorded with a home win,
// so TM1 finishes first and TMn last.
func leagueFixture(t *testing.T, teamCount int, played bool) *Competition {
	t.Helper()

	competition := NewCompetition("Test Competition")

	for i := 1; i <= teamCount; i++ {
		team, err := NewTeam(fmt.Sprintf("TM%d", i), fmt.Sprintf("Team %02d", i))
		if err != nil {
			t.Fatal(err)
		}
		if err := competition.AddTeam(team); err != nil {
			t.Fatal(err)
		}
	}

	stage, err := NewStage("L", "League stage")
	if err != nil {
		t.Fatal(err)
	}

	group, err := NewGroup("RL", KindLeague, MatchContinuous)
	if err != nil {
		t.Fatal(err)
	}
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints, OrderPointsDifference},
		Points:   LeaguePoints{Win: 3},
	}

	matchNum := 1
	for i := 1; i <= teamCount; i++ {
		for j := i + 1; j <= teamCount; j++ {
			match, err := NewMatch(
				fmt.Sprintf("RLM%d", matchNum),
				fmt.Sprintf("TM%d", i),
				fmt.Sprintf("TM%d", j),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := group.AddMatch(match); err != nil {
				t.Fatal(err)
			}
			matchNum++
		}
	}

	if err := stage.AddGroup(group); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(stage); err != nil {
		t.Fatal(err)
	}

	if played {
		playLeague(t, group)
	}

	return competition
}

// Records a home win for every match of the group.
func playLeague(t *testing.T, group *Group) {
	t.Helper()
	for _, m := range group.Matches() {
		if err := m.SetScores([]int{3}, []int{1}, true); err != nil {
			t.Fatal(err)
		}
	}
}

// Adds a semi-final stage "P" fed by league positions and a
// final stage "F" fed by the semi-final winners.
func addKnockoutStages(t *testing.T, competition *Competition) {
	t.Helper()

	semis, err := NewStage("P", "Semi finals")
	if err != nil {
		t.Fatal(err)
	}
	semiGroup, err := NewGroup("SF", KindKnockout, MatchContinuous)
	if err != nil {
		t.Fatal(err)
	}

	pairings := [][2]string{
		{"{L:RL:league:1}", "{L:RL:league:4}"},
		{"{L:RL:league:2}", "{L:RL:league:3}"},
	}
	for i, pairing := range pairings {
		match, err := NewMatch(fmt.Sprintf("SF%d", i+1), pairing[0], pairing[1])
		if err != nil {
			t.Fatal(err)
		}
		if err := semiGroup.AddMatch(match); err != nil {
			t.Fatal(err)
		}
	}
	if err := semis.AddGroup(semiGroup); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(semis); err != nil {
		t.Fatal(err)
	}

	final, err := NewStage("F", "Final")
	if err != nil {
		t.Fatal(err)
	}
	finalGroup, err := NewGroup("FIN", KindKnockout, MatchContinuous)
	if err != nil {
		t.Fatal(err)
	}
	finalMatch, err := NewMatch("FIN1", "{P:SF:SF1:winner}", "{P:SF:SF2:winner}")
	if err != nil {
		t.Fatal(err)
	}
	if err := finalGroup.AddMatch(finalMatch); err != nil {
		t.Fatal(err)
	}
	if err := final.AddGroup(finalGroup); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(final); err != nil {
		t.Fatal(err)
	}
}
