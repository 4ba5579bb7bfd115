package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBothForfeit     = errors.New("both teams forfeited")
	ErrIncompleteMatch = errors.New("the match is not complete")
	ErrMatchDrawn      = errors.New("the match is a draw")
	ErrNotInMatch      = errors.New("the team is not in the match")
)

// A GroupEntry is an element of a group's ordered schedule,
// either a *Match or a *Break.
type GroupEntry interface {
	isGroupEntry()
}

// A Break is a pause in a group's schedule between matches.
type Break struct {
	Date     string
	Start    string
	Duration string
	Name     string
}

func (*Break) isGroupEntry() {}

// A MatchTeam is one of the two team slots of a match.
//
// The Ref field holds either a literal team ID or an unresolved
// team reference in the grammar of ParseReference.
type MatchTeam struct {
	Ref    string
	Scores []int

	MVP   string
	Notes string

	// True when this side forfeited the match
	Forfeit bool

	BonusPoints   int
	PenaltyPoints int
}

// The officiating assignment of a match, either a team
// reference or named persons.
type Officials struct {
	// A team ID or reference when a whole team officiates
	TeamRef string

	First  string
	Second string
	Scorer string
}

// A Match between two teams inside a group.
//
// The result state depends on the group's match type: continuous
// matches are complete when explicitly marked so, sets matches
// are complete once a side has won enough sets or when marked
// explicitly.
type Match struct {
	ID string

	HomeTeam *MatchTeam
	AwayTeam *MatchTeam

	Officials *Officials

	Court    string
	Venue    string
	Date     string
	WarmUp   string
	Start    string
	Duration string
	Notes    string

	// A friendly match never contributes to the standings
	Friendly bool

	complete    bool
	completeSet bool

	group *Group
}

func (*Match) isGroupEntry() {}

// Returns the group this match belongs to or nil when the
// match has not been added to a group yet.
func (m *Match) Group() *Group {
	return m.group
}

// Returns true when the match has a result.
//
// A forfeit completes the match immediately. Sets matches
// without an explicit completeness flag derive it from the
// set score.
func (m *Match) IsComplete() bool {
	if m.HomeTeam.Forfeit || m.AwayTeam.Forfeit {
		return true
	}

	if m.completeSet || m.group == nil || m.group.MatchKind != MatchSets {
		return m.complete
	}

	config := m.group.setsConfig()
	homeSets, awaySets := config.SetsWon(m.HomeTeam.Scores, m.AwayTeam.Scores)
	return homeSets >= config.SetsToWin || awaySets >= config.SetsToWin
}

// Returns true when the match is complete with neither side
// winning. Only continuous matches in a group that allows
// draws can end drawn.
func (m *Match) IsDraw() bool {
	_, err := m.Winner()
	return errors.Is(err, ErrMatchDrawn)
}

// Returns the team slot reference of the winning side.
//
// The returned reference may itself need resolution through the
// competition since the winner of one match can be declared as
// the winner of another.
func (m *Match) Winner() (string, error) {
	return m.decide(true)
}

// Returns the team slot reference of the losing side.
func (m *Match) Loser() (string, error) {
	return m.decide(false)
}

func (m *Match) decide(winner bool) (string, error) {
	homeForfeit := m.HomeTeam.Forfeit
	awayForfeit := m.AwayTeam.Forfeit

	if homeForfeit && awayForfeit {
		return "", ErrBothForfeit
	}
	if homeForfeit != awayForfeit {
		if homeForfeit == winner {
			return m.AwayTeam.Ref, nil
		}
		return m.HomeTeam.Ref, nil
	}

	if !m.IsComplete() {
		return "", ErrIncompleteMatch
	}

	home, away, err := m.sideTotals()
	if err != nil {
		return "", err
	}
	if home == away {
		return "", ErrMatchDrawn
	}

	if (home > away) == winner {
		return m.HomeTeam.Ref, nil
	}
	return m.AwayTeam.Ref, nil
}

// Returns a comparable total per side: the single score entry
// for continuous matches, the number of won sets for sets matches.
func (m *Match) sideTotals() (int, int, error) {
	if m.group != nil && m.group.MatchKind == MatchSets {
		config := m.group.setsConfig()
		homeSets, awaySets := config.SetsWon(m.HomeTeam.Scores, m.AwayTeam.Scores)
		return homeSets, awaySets, nil
	}

	if len(m.HomeTeam.Scores) == 0 || len(m.AwayTeam.Scores) == 0 {
		return 0, 0, ErrIncompleteMatch
	}
	return m.HomeTeam.Scores[0], m.AwayTeam.Scores[0], nil
}

// Records a result. For continuous matches the slices must hold
// exactly one entry each and complete marks whether the result
// is final. For sets matches the explicit complete flag overrides
// the derived completeness.
func (m *Match) SetScores(home, away []int, complete bool) error {
	if m.group != nil && m.group.MatchKind == MatchSets {
		config := m.group.setsConfig()
		if err := config.CheckScores(home, away); err != nil {
			return err
		}
	} else {
		if len(home) != 1 || len(away) != 1 {
			return ErrScoreLength
		}
		if home[0] < 0 || away[0] < 0 {
			return ErrNegativePoints
		}
	}

	m.HomeTeam.Scores = home
	m.AwayTeam.Scores = away
	m.complete = complete
	// An explicit complete flag overrides derivation for sets
	// matches; without it the set score decides.
	m.completeSet = complete

	if m.group != nil {
		m.group.invalidateResults()
	}
	return nil
}

// Marks the recorded result as final or reopens it without
// touching the scores.
func (m *Match) SetComplete(complete bool) {
	m.complete = complete
	m.completeSet = complete
	if m.group != nil {
		m.group.invalidateResults()
	}
}

// Marks the match as a friendly, which keeps its result out of
// the standings.
func (m *Match) SetFriendly(friendly bool) {
	m.Friendly = friendly
	if m.group != nil {
		m.group.invalidateResults()
	}
}

// Marks one side as having forfeited the match.
func (m *Match) SetForfeit(ref string) error {
	switch ref {
	case m.HomeTeam.Ref:
		m.HomeTeam.Forfeit = true
	case m.AwayTeam.Ref:
		m.AwayTeam.Forfeit = true
	default:
		return fmt.Errorf("%w: %q in match %s", ErrNotInMatch, ref, m.ID)
	}

	if m.group != nil {
		m.group.invalidateResults()
	}
	return nil
}

// Returns true when the given team ID occupies one of the
// match's slots as a fixed ID.
func (m *Match) ContainsTeam(id string) bool {
	return m.HomeTeam.Ref == id || m.AwayTeam.Ref == id
}

// Returns the team reference of the officiating team or ""
// when the match is officiated by persons or nobody.
func (m *Match) OfficiatingTeamRef() string {
	if m.Officials == nil {
		return ""
	}
	return m.Officials.TeamRef
}

func (m *Match) String() string {
	var sb strings.Builder
	sb.WriteString(m.ID)
	sb.WriteString(": ")
	sb.WriteString(m.HomeTeam.Ref)
	sb.WriteString(" vs. ")
	sb.WriteString(m.AwayTeam.Ref)

	if len(m.HomeTeam.Scores) > 0 {
		sb.WriteRune('\t')
		for i := range m.HomeTeam.Scores {
			away := 0
			if i < len(m.AwayTeam.Scores) {
				away = m.AwayTeam.Scores[i]
			}
			fmt.Fprintf(&sb, "%v - %v ", m.HomeTeam.Scores[i], away)
		}
	}

	return sb.String()
}

// Creates a match between the two team references.
// The references are not resolved or validated here, that
// happens when the match's group joins a competition.
func NewMatch(id, homeRef, awayRef string) (*Match, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	match := &Match{
		ID:       id,
		HomeTeam: &MatchTeam{Ref: homeRef},
		AwayTeam: &MatchTeam{Ref: awayRef},
	}
	return match, nil
}
