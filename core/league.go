package core

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidOrdering = errors.New("invalid league ordering")

// The league points awarded for the various match outcomes.
type LeaguePoints struct {
	// Points per match played
	Played int

	// Points for winning, by two or more sets in a sets group
	Win int

	// Points for winning by exactly one set
	WinByOne int

	// Points for losing, by two or more sets in a sets group
	Lose int

	// Points for losing by exactly one set
	LoseByOne int

	// Points per won set
	PerSet int

	// Points deducted for a forfeited match
	Forfeit int
}

// The configuration of a league group: the scoring amounts and
// the ordered tie-break chain of the standings.
type LeagueConfig struct {
	Ordering []OrderingCriterion
	Points   LeaguePoints
}

func DefaultLeagueConfig() *LeagueConfig {
	config := &LeagueConfig{
		Ordering: []OrderingCriterion{OrderPoints, OrderSetsDifference, OrderPointsDifference},
		Points: LeaguePoints{
			Win:       3,
			WinByOne:  2,
			LoseByOne: 1,
		},
	}
	return config
}

func (c *LeagueConfig) Validate() error {
	if len(c.Ordering) == 0 {
		return fmt.Errorf("%w: empty ordering", ErrInvalidOrdering)
	}
	for _, criterion := range c.Ordering {
		if !criterion.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidOrdering, criterion)
		}
	}
	return nil
}

func (g *Group) leagueConfig() *LeagueConfig {
	if g.League != nil {
		return g.League
	}
	return DefaultLeagueConfig()
}

// Returns the ranked league table, building it when no cached
// table exists. The table reflects the results recorded so far,
// complete or not.
func (g *Group) LeagueTable() *LeagueTable {
	g.ProcessMatches()
	return g.table
}

// Folds the group's matches into the standings. Idempotent: a
// repeat call without an intervening mutation is a cache hit.
func (g *Group) ProcessMatches() {
	if g.matchesProcessed {
		return
	}
	g.matchesProcessed = true

	config := g.leagueConfig()

	entries := make(map[string]*StandingsEntry)
	order := make([]string, 0, 8)
	entryOf := func(ref string) *StandingsEntry {
		entry, ok := entries[ref]
		if !ok {
			entry = newStandingsEntry(ref)
			entries[ref] = entry
			order = append(order, ref)
		}
		return entry
	}

	for _, m := range g.Matches() {
		if m.Friendly {
			continue
		}

		home := entryOf(m.HomeTeam.Ref)
		away := entryOf(m.AwayTeam.Ref)

		if !m.IsComplete() {
			continue
		}

		g.foldMatch(m, home, away, config)
	}

	for _, entry := range entries {
		entry.updateDifferences()
		entry.Points += entry.Played * config.Points.Played
	}

	ranked := make([]*StandingsEntry, 0, len(order))
	for _, ref := range order {
		ranked = append(ranked, entries[ref])
	}

	collator := newNameCollator()
	teamName := func(id string) string {
		return g.competition.GetTeam(id).Name
	}
	slices.SortStableFunc(ranked, func(a, b *StandingsEntry) int {
		return compareEntries(a, b, config.Ordering, teamName, collator)
	})

	g.table = &LeagueTable{
		Entries:      ranked,
		OrderingText: orderingText(config.Ordering),
		ScoringText:  scoringText(config.Points),
	}
}

// Folds one complete, non-friendly match into the two entries.
func (g *Group) foldMatch(m *Match, home, away *StandingsEntry, config *LeagueConfig) {
	home.Played++
	away.Played++

	winnerRef, err := m.Winner()
	switch {
	case err == nil:
		winner, loser := home, away
		if winnerRef == m.AwayTeam.Ref {
			winner, loser = away, home
		}
		winner.Wins++
		loser.Losses++
		winner.headToHead[loser.TeamID]++
		loser.headToHead[winner.TeamID]--
	case errors.Is(err, ErrMatchDrawn):
		home.Draws++
		away.Draws++
		// A zero tally still records that the pairing met
		home.headToHead[away.TeamID] += 0
		away.headToHead[home.TeamID] += 0
	case errors.Is(err, ErrBothForfeit):
		// No outcome, but the deductions below still apply
	default:
		return
	}

	switch {
	case m.HomeTeam.Forfeit != m.AwayTeam.Forfeit:
		// A walkover has no countable scores, so the outcome
		// points apply directly
		winner, loser := home, away
		if m.HomeTeam.Forfeit {
			winner, loser = away, home
		}
		winner.Points += config.Points.Win
		loser.Points += config.Points.Lose
	case g.MatchKind == MatchSets:
		g.foldSetsScores(m, home, away, config.Points)
	default:
		g.foldContinuousScores(m, home, away, config.Points)
	}

	for _, side := range []struct {
		team  *MatchTeam
		entry *StandingsEntry
	}{
		{m.HomeTeam, home},
		{m.AwayTeam, away},
	} {
		if side.team.Forfeit {
			side.entry.Points -= config.Points.Forfeit
		}
		side.entry.BonusPoints += side.team.BonusPoints
		side.entry.Points += side.team.BonusPoints
		side.entry.PenaltyPoints += side.team.PenaltyPoints
		side.entry.Points -= side.team.PenaltyPoints
	}
}

func (g *Group) foldSetsScores(m *Match, home, away *StandingsEntry, points LeaguePoints) {
	config := g.setsConfig()

	homeScores := m.HomeTeam.Scores
	awayScores := m.AwayTeam.Scores

	homeSets, awaySets := 0, 0
	for i := 0; i < len(homeScores) && i < len(awayScores); i++ {
		if homeScores[i] < config.MinPoints && awayScores[i] < config.MinPoints {
			continue
		}

		home.PointsFor += homeScores[i]
		home.PointsAgainst += awayScores[i]
		away.PointsFor += awayScores[i]
		away.PointsAgainst += homeScores[i]

		if homeScores[i] > awayScores[i] {
			homeSets++
		}
		if awayScores[i] > homeScores[i] {
			awaySets++
		}
	}

	home.SetsFor += homeSets
	home.SetsAgainst += awaySets
	away.SetsFor += awaySets
	away.SetsAgainst += homeSets

	home.Points += points.PerSet * homeSets
	away.Points += points.PerSet * awaySets

	winner, loser := home, away
	setDifference := homeSets - awaySets
	if setDifference < 0 {
		winner, loser = away, home
		setDifference = -setDifference
	}
	if setDifference == 0 {
		return
	}

	if setDifference == 1 {
		winner.Points += points.WinByOne
		loser.Points += points.LoseByOne
	} else {
		winner.Points += points.Win
		loser.Points += points.Lose
	}
}

func (g *Group) foldContinuousScores(m *Match, home, away *StandingsEntry, points LeaguePoints) {
	if len(m.HomeTeam.Scores) == 0 || len(m.AwayTeam.Scores) == 0 {
		return
	}

	homePoints := m.HomeTeam.Scores[0]
	awayPoints := m.AwayTeam.Scores[0]

	home.PointsFor += homePoints
	home.PointsAgainst += awayPoints
	away.PointsFor += awayPoints
	away.PointsAgainst += homePoints

	// Draws add neither the win nor the lose amount
	if homePoints > awayPoints {
		home.Points += points.Win
		away.Points += points.Lose
	} else if awayPoints > homePoints {
		away.Points += points.Win
		home.Points += points.Lose
	}
}
