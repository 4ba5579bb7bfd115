package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestResolveLiteral(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	team := competition.GetTeam("TM2")
	if team.IsUnknown() || team.ID != "TM2" {
		t.Fatal("The literal team ID did not resolve to the registered team")
	}
}

func TestResolveUnknown(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	team := competition.GetTeam("NO-SUCH-TEAM")
	if !team.IsUnknown() {
		t.Fatal("An unregistered literal did not collapse to the unknown team")
	}

	team = competition.GetTeam("{NO:SUCH:TEAM:REF}")
	if !team.IsUnknown() {
		t.Fatal("A dangling bracketed reference did not collapse to the unknown team")
	}

	eq1 := competition.HasTeam("NO-SUCH-TEAM")
	eq2 := competition.HasTeam("{NO:SUCH:TEAM:REF}")
	if eq1 || eq2 {
		t.Fatal("HasTeam reported true for unresolvable references")
	}
}

func TestResolveLeaguePositions(t *testing.T) {
	competition := leagueFixture(t, 8, false)

	team := competition.GetTeam("{L:RL:league:1}")
	if !team.IsUnknown() {
		t.Fatal("A league position of an incomplete league did not resolve to the unknown team")
	}

	group := competition.group("L", "RL")
	playLeague(t, group)

	for position := 1; position <= 8; position++ {
		ref := fmt.Sprintf("{L:RL:league:%d}", position)
		team := competition.GetTeam(ref)
		want := fmt.Sprintf("TM%d", position)
		if team.ID != want {
			t.Fatalf("Position %d resolved to %s instead of %s", position, team.ID, want)
		}
	}

	team = competition.GetTeam("{L:RL:league:9}")
	if !team.IsUnknown() {
		t.Fatal("An out-of-range league position did not collapse to the unknown team")
	}
}

func TestResolutionDeterminism(t *testing.T) {
	competition := leagueFixture(t, 4, true)

	first := competition.GetTeam("{L:RL:league:2}")
	second := competition.GetTeam("{L:RL:league:2}")
	if first != second {
		t.Fatal("Repeated resolution without mutation returned different team objects")
	}
}

func TestResolveMatchEntities(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	team := competition.GetTeam("{L:RL:RLM1:winner}")
	if !team.IsUnknown() {
		t.Fatal("The winner of an unplayed match did not resolve to the unknown team")
	}

	group := competition.group("L", "RL")
	match, _ := group.GetMatch("RLM1")
	if err := match.SetScores([]int{3}, []int{1}, true); err != nil {
		t.Fatal(err)
	}

	winner := competition.GetTeam("{L:RL:RLM1:winner}")
	loser := competition.GetTeam("{L:RL:RLM1:loser}")
	if winner.ID != "TM1" || loser.ID != "TM2" {
		t.Fatal("The match entities do not match the recorded result")
	}
}

func TestResolveChainedMatchReference(t *testing.T) {
	competition := leagueFixture(t, 8, true)
	addKnockoutStages(t, competition)

	semiGroup := competition.group("P", "SF")
	for _, m := range semiGroup.Matches() {
		// Home side wins, so the better seed advances
		if err := m.SetScores([]int{2}, []int{0}, true); err != nil {
			t.Fatal(err)
		}
	}

	// The final's slots are references into the semi finals,
	// so the winner resolution recurses through them
	winner := competition.GetTeam("{P:SF:SF1:winner}")
	if winner.ID != "TM1" {
		t.Fatal("The semi final winner did not resolve through the league position reference")
	}

	finalGroup := competition.group("F", "FIN")
	finalMatch, _ := finalGroup.GetMatch("FIN1")
	if err := finalMatch.SetScores([]int{1}, []int{2}, true); err != nil {
		t.Fatal(err)
	}

	champion := competition.GetTeam("{F:FIN:FIN1:winner}")
	if champion.ID != "TM2" {
		t.Fatal("The final winner did not resolve through the chained references")
	}
}

func TestResolveTernary(t *testing.T) {
	competition := leagueFixture(t, 4, true)

	team := competition.GetTeam("TM1==TM1?TM3:TM4")
	if team.ID != "TM3" {
		t.Fatal("The ternary with equal operands did not resolve the true branch")
	}

	team = competition.GetTeam("TM1==TM2?TM3:TM4")
	if team.ID != "TM4" {
		t.Fatal("The ternary with unequal operands did not resolve the false branch")
	}

	// TM1 finished first, so the comparison holds and the true
	// branch, itself a reference, is resolved
	team = competition.GetTeam("{L:RL:league:1}==TM1?{L:RL:league:4}:{L:RL:league:2}")
	if team.ID != "TM4" {
		t.Fatal("The ternary with reference operands did not resolve correctly")
	}
}

func TestTernarySymmetry(t *testing.T) {
	competition := leagueFixture(t, 4, true)

	operands := []string{"TM1", "TM2", "{L:RL:league:1}", "{L:RL:RLM1:winner}"}
	for _, a := range operands {
		for _, b := range operands {
			ternary := fmt.Sprintf("%s==%s?TM3:TM4", a, b)
			got := competition.GetTeam(ternary)

			want := competition.GetTeam("TM4")
			if competition.GetTeam(a) == competition.GetTeam(b) {
				want = competition.GetTeam("TM3")
			}
			if got != want {
				t.Fatalf("Ternary %q resolved to %s instead of %s", ternary, got.ID, want.ID)
			}
		}
	}
}

func TestValidateTeamID(t *testing.T) {
	competition := leagueFixture(t, 4, true)

	valid := []string{
		"TM1",
		"{L:RL:league:4}",
		"{L:RL:RLM1:winner}",
		"TM1==TM2?TM3:TM4",
	}
	for _, ref := range valid {
		if err := competition.ValidateTeamID(ref, "M1", "homeTeam"); err != nil {
			t.Fatalf("The valid reference %q was rejected: %v", ref, err)
		}
	}

	invalid := []string{
		"NO-SUCH-TEAM",          // unregistered literal
		"{X:RL:league:1}",       // dangling stage
		"{L:XX:league:1}",       // dangling group
		"{L:RL:XXX:winner}",     // dangling match
		"{L:RL:league:5}",       // out of range on a complete league
		"{L:RL:league:0}",       // malformed position
		"{L:RL:league:1",        // malformed syntax
	}
	for _, ref := range invalid {
		if err := competition.ValidateTeamID(ref, "M1", "homeTeam"); err == nil {
			t.Fatalf("The invalid reference %q was accepted", ref)
		}
	}
}

func TestValidatePositionOnIncompleteLeague(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	// The range is only checkable once the league is decided
	if err := competition.ValidateTeamID("{L:RL:league:5}", "M1", "homeTeam"); err != nil {
		t.Fatal("An out-of-range position was rejected before the league completed")
	}
}

func TestDuplicateIDs(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	team, err := NewTeam("TM1", "Duplicate")
	if err != nil {
		t.Fatal(err)
	}
	if err := competition.AddTeam(team); !errors.Is(err, ErrDuplicateTeamID) {
		t.Fatal("The duplicate team ID was accepted")
	}

	stage, err := NewStage("L", "Duplicate")
	if err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(stage); !errors.Is(err, ErrDuplicateStageID) {
		t.Fatal("The duplicate stage ID was accepted")
	}
}

func TestReservedIDCharacters(t *testing.T) {
	for _, id := range []string{"A:B", "A{B", "A}B", "A?B", "A=B", "A\"B", ""} {
		if _, err := NewTeam(id, "Bad"); err == nil {
			t.Fatalf("The reserved ID %q was accepted", id)
		}
	}
}

func TestDeleteTeamRefused(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	err := competition.DeleteTeam("TM1")
	if !errors.Is(err, ErrStillReferenced) {
		t.Fatal("Deleting a team with matches was not refused")
	}
	if err != nil && !strings.Contains(err.Error(), "RLM1") {
		t.Fatal("The refusal does not name the offending match")
	}
}

func TestDeleteStageRefused(t *testing.T) {
	competition := leagueFixture(t, 8, true)
	addKnockoutStages(t, competition)

	err := competition.DeleteStage("L")
	if !errors.Is(err, ErrStillReferenced) {
		t.Fatal("Deleting a referenced stage was not refused")
	}
	if err != nil && !strings.Contains(err.Error(), "SF1") {
		t.Fatal("The refusal does not name the offending match")
	}

	// The final references the semis which reference the league,
	// so deleting from the back works
	if err := competition.DeleteStage("F"); err != nil {
		t.Fatal(err)
	}
	if err := competition.DeleteStage("P"); err != nil {
		t.Fatal(err)
	}
	if err := competition.DeleteStage("L"); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteGroupRefused(t *testing.T) {
	competition := leagueFixture(t, 8, true)
	addKnockoutStages(t, competition)

	err := competition.DeleteGroup("L", "RL")
	if !errors.Is(err, ErrStillReferenced) {
		t.Fatal("Deleting a referenced group was not refused")
	}

	if err := competition.DeleteGroup("F", "FIN"); err != nil {
		t.Fatal(err)
	}
}

func TestCircularReferenceDetected(t *testing.T) {
	competition := leagueFixture(t, 4, false)

	stageA, _ := NewStage("A", "")
	groupA, _ := NewGroup("GA", KindKnockout, MatchContinuous)
	matchA, _ := NewMatch("MA1", "{B:GB:MB1:winner}", "TM1")
	if err := groupA.AddMatch(matchA); err != nil {
		t.Fatal(err)
	}
	if err := stageA.AddGroup(groupA); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(stageA); err != nil {
		t.Fatal(err)
	}

	stageB, _ := NewStage("B", "")
	groupB, _ := NewGroup("GB", KindKnockout, MatchContinuous)
	matchB, _ := NewMatch("MB1", "{A:GA:MA1:winner}", "TM2")
	if err := groupB.AddMatch(matchB); err != nil {
		t.Fatal(err)
	}
	if err := stageB.AddGroup(groupB); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(stageB); err != nil {
		t.Fatal(err)
	}

	err := competition.Validate()
	if !errors.Is(err, ErrCircularReference) {
		t.Fatal("The reference cycle between the two groups was not detected")
	}

	// The resolution and maybe traversal stay bounded regardless
	team := competition.GetTeam("{A:GA:MA1:winner}")
	if !team.IsUnknown() {
		t.Fatal("The unresolvable cyclic reference did not collapse to the unknown team")
	}
	groupA.GetTeamIDs(TeamsMaybe)
}

func TestMetadata(t *testing.T) {
	competition := NewCompetition("Meta")

	competition.SetMetadata("season", "2025/26")
	competition.SetMetadata("organizer", "Courtside")
	competition.SetMetadata("season", "2026/27")

	value, ok := competition.MetadataValue("season")
	if !ok || value != "2026/27" {
		t.Fatal("The metadata value was not replaced in place")
	}
	if len(competition.Metadata()) != 2 {
		t.Fatal("The metadata does not keep one entry per key")
	}

	competition.DeleteMetadata("season")
	if _, ok := competition.MetadataValue("season"); ok {
		t.Fatal("The metadata entry was not deleted")
	}
}
