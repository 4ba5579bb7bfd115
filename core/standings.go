package core

import (
	"cmp"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// One ordering criterion of the league table comparator chain.
// Each criterion has a fixed better-direction: higher is better
// except losses, points against, sets against and penalty
// points, which are lower-is-better.
type OrderingCriterion string

const (
	OrderPoints           OrderingCriterion = "PTS"
	OrderWins             OrderingCriterion = "WINS"
	OrderLosses           OrderingCriterion = "LOSSES"
	OrderHeadToHead       OrderingCriterion = "H2H"
	OrderPointsFor        OrderingCriterion = "PF"
	OrderPointsAgainst    OrderingCriterion = "PA"
	OrderPointsDifference OrderingCriterion = "PD"
	OrderSetsFor          OrderingCriterion = "SF"
	OrderSetsAgainst      OrderingCriterion = "SA"
	OrderSetsDifference   OrderingCriterion = "SD"
	OrderBonusPoints      OrderingCriterion = "BP"
	OrderPenaltyPoints    OrderingCriterion = "PP"
)

var orderingNames = map[OrderingCriterion]string{
	OrderPoints:           "league points",
	OrderWins:             "wins",
	OrderLosses:           "losses",
	OrderHeadToHead:       "head-to-head",
	OrderPointsFor:        "points for",
	OrderPointsAgainst:    "points against",
	OrderPointsDifference: "points difference",
	OrderSetsFor:          "sets for",
	OrderSetsAgainst:      "sets against",
	OrderSetsDifference:   "sets difference",
	OrderBonusPoints:      "bonus points",
	OrderPenaltyPoints:    "penalty points",
}

// Returns the long name of the criterion.
func (c OrderingCriterion) Name() string {
	if name, ok := orderingNames[c]; ok {
		return name
	}
	return string(c)
}

// Returns whether the criterion is a known one.
func (c OrderingCriterion) IsValid() bool {
	_, ok := orderingNames[c]
	return ok
}

// A StandingsEntry is one line of a league table.
//
// Entries are created fresh on every standings build and are
// never persisted independently of their group.
type StandingsEntry struct {
	TeamID string

	Played int
	Wins   int
	Losses int
	Draws  int

	PointsFor        int
	PointsAgainst    int
	PointsDifference int

	SetsFor        int
	SetsAgainst    int
	SetsDifference int

	BonusPoints   int
	PenaltyPoints int

	// Total league points
	Points int

	// Win/loss tally against single opponents,
	// keyed by opposing team ID
	headToHead map[string]int
}

func newStandingsEntry(teamID string) *StandingsEntry {
	entry := &StandingsEntry{
		TeamID:     teamID,
		headToHead: make(map[string]int),
	}
	return entry
}

func (e *StandingsEntry) updateDifferences() {
	e.PointsDifference = e.PointsFor - e.PointsAgainst
	e.SetsDifference = e.SetsFor - e.SetsAgainst
}

// Returns the head-to-head tally against the given opponent and
// whether any result between the two is on record.
func (e *StandingsEntry) HeadToHead(opponentID string) (int, bool) {
	tally, ok := e.headToHead[opponentID]
	return tally, ok
}

// A ranked league table with a human-readable description of
// the ordering and scoring that produced it.
type LeagueTable struct {
	Entries []*StandingsEntry

	OrderingText string
	ScoringText  string
}

// Compares two entries by one criterion with the criterion's
// fixed better-direction. Negative means a ranks before b.
func compareByCriterion(a, b *StandingsEntry, criterion OrderingCriterion) int {
	switch criterion {
	case OrderPoints:
		return cmp.Compare(b.Points, a.Points)
	case OrderWins:
		return cmp.Compare(b.Wins, a.Wins)
	case OrderLosses:
		return cmp.Compare(a.Losses, b.Losses)
	case OrderHeadToHead:
		return compareHeadToHead(a, b)
	case OrderPointsFor:
		return cmp.Compare(b.PointsFor, a.PointsFor)
	case OrderPointsAgainst:
		return cmp.Compare(a.PointsAgainst, b.PointsAgainst)
	case OrderPointsDifference:
		return cmp.Compare(b.PointsDifference, a.PointsDifference)
	case OrderSetsFor:
		return cmp.Compare(b.SetsFor, a.SetsFor)
	case OrderSetsAgainst:
		return cmp.Compare(a.SetsAgainst, b.SetsAgainst)
	case OrderSetsDifference:
		return cmp.Compare(b.SetsDifference, a.SetsDifference)
	case OrderBonusPoints:
		return cmp.Compare(b.BonusPoints, a.BonusPoints)
	case OrderPenaltyPoints:
		return cmp.Compare(a.PenaltyPoints, b.PenaltyPoints)
	default:
		return 0
	}
}

// Head-to-head only has meaning between two teams with a
// recorded result between them. Without one it defers to the
// next criterion.
func compareHeadToHead(a, b *StandingsEntry) int {
	tally, ok := a.headToHead[b.TeamID]
	if !ok {
		return 0
	}
	return cmp.Compare(0, tally)
}

// Compares two entries through the configured criterion chain.
// The first non-zero comparator wins; a full tie falls back to
// the locale-aware team name order.
func compareEntries(
	a, b *StandingsEntry,
	ordering []OrderingCriterion,
	teamName func(id string) string,
	collator *collate.Collator,
) int {
	for _, criterion := range ordering {
		if result := compareByCriterion(a, b, criterion); result != 0 {
			return result
		}
	}
	return collator.CompareString(teamName(a.TeamID), teamName(b.TeamID))
}

func newNameCollator() *collate.Collator {
	return collate.New(language.Und)
}

func orderingText(ordering []OrderingCriterion) string {
	text := "ordered by"
	for i, criterion := range ordering {
		if i > 0 {
			text += ","
		}
		text += " " + criterion.Name()
	}
	return text + ", then team name"
}

func scoringText(points LeaguePoints) string {
	return fmt.Sprintf(
		"points per played=%d, win=%d, win by one=%d, lose=%d, lose by one=%d, per set=%d, forfeit deduction=%d",
		points.Played, points.Win, points.WinByOne,
		points.Lose, points.LoseByOne, points.PerSet, points.Forfeit,
	)
}
