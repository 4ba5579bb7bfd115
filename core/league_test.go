package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinTable(t *testing.T) {
	competition := leagueFixture(t, 8, true)
	group := competition.group("L", "RL")

	table := group.LeagueTable()
	require.Len(t, table.Entries, 8)

	for i, entry := range table.Entries {
		assert.Equal(t, fmt.Sprintf("TM%d", i+1), entry.TeamID)
	}

	top := table.Entries[0]
	assert.Equal(t, 7, top.Played)
	assert.Equal(t, 7, top.Wins)
	assert.Equal(t, 0, top.Losses)
	assert.Equal(t, 21, top.Points)
	assert.Equal(t, 21, top.PointsFor)
	assert.Equal(t, 7, top.PointsAgainst)
	assert.Equal(t, 14, top.PointsDifference)

	bottom := table.Entries[7]
	assert.Equal(t, 0, bottom.Wins)
	assert.Equal(t, 7, bottom.Losses)
	assert.Equal(t, 0, bottom.Points)
}

func TestTableIdempotence(t *testing.T) {
	competition := leagueFixture(t, 4, true)
	group := competition.group("L", "RL")

	first := group.LeagueTable()
	second := group.LeagueTable()
	require.Same(t, first, second, "a repeat build without mutation must be a cache hit")

	match, _ := group.GetMatch("RLM1")
	require.NoError(t, match.SetScores([]int{0}, []int{5}, true))

	third := group.LeagueTable()
	require.NotSame(t, first, third)
	assert.Equal(t, "TM2", third.Entries[0].TeamID, "the flipped result must move TM2 to the top")
}

func TestIncompleteLeagueIsLiveView(t *testing.T) {
	competition := leagueFixture(t, 4, false)
	group := competition.group("L", "RL")

	// Only the opening match is played
	match, _ := group.GetMatch("RLM1")
	require.NoError(t, match.SetScores([]int{3}, []int{1}, true))

	table := group.LeagueTable()
	require.Len(t, table.Entries, 4, "unplayed teams still get a standings line")

	assert.Equal(t, "TM1", table.Entries[0].TeamID)
	assert.Equal(t, 1, table.Entries[0].Played)

	var idle *StandingsEntry
	for _, entry := range table.Entries {
		if entry.TeamID == "TM3" {
			idle = entry
		}
	}
	require.NotNil(t, idle)
	assert.Zero(t, idle.Played, "an unplayed team folds nothing")
}

func TestFriendlyMatchesSkipped(t *testing.T) {
	competition := leagueFixture(t, 4, false)
	group := competition.group("L", "RL")

	match, _ := group.GetMatch("RLM1")
	match.SetFriendly(true)
	require.NoError(t, match.SetScores([]int{9}, []int{0}, true))

	table := group.LeagueTable()
	for _, entry := range table.Entries {
		assert.Zero(t, entry.Played, "a friendly must not reach the standings")
		assert.Zero(t, entry.PointsFor)
	}
}

func TestContinuousDraws(t *testing.T) {
	competition := leagueFixture(t, 4, false)
	group := competition.group("L", "RL")
	group.DrawsAllowed = true
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints},
		Points:   LeaguePoints{Played: 1, Win: 2},
	}

	match, _ := group.GetMatch("RLM1")
	require.NoError(t, match.SetScores([]int{2}, []int{2}, true))

	table := group.LeagueTable()
	for _, id := range []string{"TM1", "TM2"} {
		entry := entryOf(t, table, id)
		assert.Equal(t, 1, entry.Draws)
		assert.Zero(t, entry.Wins)
		assert.Equal(t, 1, entry.Points, "a draw only yields the per-played point")
	}
}

func TestForfeitDeduction(t *testing.T) {
	competition := leagueFixture(t, 4, false)
	group := competition.group("L", "RL")
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints},
		Points:   LeaguePoints{Win: 3, Forfeit: 2},
	}

	match, _ := group.GetMatch("RLM1")
	require.NoError(t, match.SetForfeit("TM1"))

	table := group.LeagueTable()
	winner := entryOf(t, table, "TM2")
	loser := entryOf(t, table, "TM1")

	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 3, winner.Points)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, -2, loser.Points, "the forfeit deduction applies on top of the loss")
}

func TestBonusAndPenaltyPoints(t *testing.T) {
	competition := leagueFixture(t, 4, false)
	group := competition.group("L", "RL")

	match, _ := group.GetMatch("RLM1")
	match.HomeTeam.BonusPoints = 2
	match.AwayTeam.PenaltyPoints = 1
	require.NoError(t, match.SetScores([]int{3}, []int{1}, true))

	table := group.LeagueTable()
	home := entryOf(t, table, "TM1")
	away := entryOf(t, table, "TM2")

	assert.Equal(t, 2, home.BonusPoints)
	assert.Equal(t, 5, home.Points, "3 for the win plus 2 bonus")
	assert.Equal(t, 1, away.PenaltyPoints)
	assert.Equal(t, -1, away.Points, "the penalty pushes the loser below zero")
}

func TestHeadToHeadTieBreak(t *testing.T) {
	competition := leagueFixture(t, 3, false)
	group := competition.group("L", "RL")
	group.DrawsAllowed = true
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints, OrderHeadToHead},
		Points:   LeaguePoints{Win: 3},
	}

	// TM2 beats TM1, TM1 beats TM3, TM2 and TM3 draw:
	// TM1 and TM2 tie on points and the direct result decides
	results := map[string][2]int{
		"RLM1": {1, 2}, // TM1 vs TM2
		"RLM2": {2, 1}, // TM1 vs TM3
		"RLM3": {1, 1}, // TM2 vs TM3
	}
	for id, score := range results {
		match, ok := group.GetMatch(id)
		require.True(t, ok)
		require.NoError(t, match.SetScores([]int{score[0]}, []int{score[1]}, true))
	}

	table := group.LeagueTable()
	require.Len(t, table.Entries, 3)
	assert.Equal(t, "TM2", table.Entries[0].TeamID, "the head-to-head winner ranks first")
	assert.Equal(t, "TM1", table.Entries[1].TeamID)
	assert.Equal(t, "TM3", table.Entries[2].TeamID)

	tally, ok := table.Entries[0].HeadToHead("TM1")
	require.True(t, ok)
	assert.Equal(t, 1, tally)
}

func TestNameFallbackOnFullTie(t *testing.T) {
	competition := leagueFixture(t, 2, false)
	group := competition.group("L", "RL")
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints},
		Points:   LeaguePoints{},
	}

	competition.GetTeam("TM1").Name = "Wanderers"
	competition.GetTeam("TM2").Name = "Athletic"

	table := group.LeagueTable()
	require.Len(t, table.Entries, 2)
	assert.Equal(t, "TM2", table.Entries[0].TeamID, "a full tie falls back to the team name order")
}

func TestSetsScoring(t *testing.T) {
	competition := setsLeagueFixture(t)
	group := competition.group("S", "SL")

	// A clear three-one win plus a dead set below the minimum
	match, _ := group.GetMatch("SL1")
	home := []int{25, 25, 20, 25, 2}
	away := []int{20, 20, 25, 23, 3}
	require.NoError(t, match.SetScores(home, away, false))
	require.True(t, match.IsComplete())

	table := group.LeagueTable()
	winner := entryOf(t, table, "TM1")
	loser := entryOf(t, table, "TM2")

	assert.Equal(t, 3, winner.SetsFor)
	assert.Equal(t, 1, winner.SetsAgainst)
	assert.Equal(t, 95, winner.PointsFor, "the dead set must not count")
	assert.Equal(t, 88, winner.PointsAgainst)

	// 1 per set plus 3 for the two-set margin
	assert.Equal(t, 6, winner.Points)
	assert.Equal(t, 1, loser.Points, "the loser keeps the per-set point")
}

func TestSetsScoringOneSetMargin(t *testing.T) {
	competition := setsLeagueFixture(t)
	group := competition.group("S", "SL")

	match, _ := group.GetMatch("SL2")
	home := []int{25, 20, 25, 20, 25}
	away := []int{20, 25, 20, 25, 23}
	require.NoError(t, match.SetScores(home, away, false))

	table := group.LeagueTable()
	winner := entryOf(t, table, "TM3")
	loser := entryOf(t, table, "TM4")

	assert.Equal(t, 3, winner.SetsFor)
	assert.Equal(t, 2, winner.SetsAgainst)

	// 1 per set plus 2 for the narrow win
	assert.Equal(t, 5, winner.Points)
	// 1 per set plus 1 for the narrow loss
	assert.Equal(t, 3, loser.Points)
}

func TestTableTexts(t *testing.T) {
	competition := leagueFixture(t, 2, true)
	group := competition.group("L", "RL")

	table := group.LeagueTable()
	assert.Contains(t, table.OrderingText, "league points")
	assert.Contains(t, table.OrderingText, "points difference")
	assert.Contains(t, table.OrderingText, "then team name")
	assert.Contains(t, table.ScoringText, "win=3")
}

func entryOf(t *testing.T, table *LeagueTable, teamID string) *StandingsEntry {
	t.Helper()
	for _, entry := range table.Entries {
		if entry.TeamID == teamID {
			return entry
		}
	}
	t.Fatalf("no standings entry for %s", teamID)
	return nil
}

// A league of four teams playing best-of-five sets matches:
// stage "S", group "SL", matches SL1 (TM1 vs TM2) and
// SL2 (TM3 vs TM4).
func setsLeagueFixture(t *testing.T) *Competition {
	t.Helper()

	competition := NewCompetition("Sets League")
	for i := 1; i <= 4; i++ {
		team, err := NewTeam(fmt.Sprintf("TM%d", i), fmt.Sprintf("Team %02d", i))
		if err != nil {
			t.Fatal(err)
		}
		if err := competition.AddTeam(team); err != nil {
			t.Fatal(err)
		}
	}

	stage, err := NewStage("S", "Sets stage")
	if err != nil {
		t.Fatal(err)
	}

	group, err := NewGroup("SL", KindLeague, MatchSets)
	if err != nil {
		t.Fatal(err)
	}
	group.League = &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints, OrderSetsDifference},
		Points:   LeaguePoints{Win: 3, WinByOne: 2, LoseByOne: 1, PerSet: 1},
	}
	group.Sets = &SetsConfig{
		MaxSets:     5,
		SetsToWin:   3,
		ClearPoints: 2,
		MinPoints:   5,
		MaxPoints:   25,
	}

	pairings := [][2]string{{"TM1", "TM2"}, {"TM3", "TM4"}}
	for i, pairing := range pairings {
		match, err := NewMatch(fmt.Sprintf("SL%d", i+1), pairing[0], pairing[1])
		if err != nil {
			t.Fatal(err)
		}
		if err := group.AddMatch(match); err != nil {
			t.Fatal(err)
		}
	}

	if err := stage.AddGroup(group); err != nil {
		t.Fatal(err)
	}
	if err := competition.AddStage(stage); err != nil {
		t.Fatal(err)
	}
	return competition
}
