package core

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateGroupID = errors.New("duplicate group ID in stage")
	ErrTeamOverlap      = errors.New("sibling groups in a stage cannot share a playing team")
)

// The placeholder content a stage shows while its actual
// matchups are not yet known.
type IfUnknown struct {
	Description []string
	Breaks      []*Break
}

// A Stage owns an ordered list of groups. Sibling groups never
// share a playing team.
type Stage struct {
	ID    string
	Name  string
	Notes string

	IfUnknown *IfUnknown

	groups     []*Group
	groupIndex map[string]*Group

	competition *Competition
}

func NewStage(id, name string) (*Stage, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	stage := &Stage{
		ID:         id,
		Name:       name,
		groupIndex: make(map[string]*Group),
	}
	return stage, nil
}

// Appends a group to the stage. The group ID must be unique
// within the stage and the group's fixed playing teams must not
// overlap with any sibling group's.
func (s *Stage) AddGroup(group *Group) error {
	if _, exists := s.groupIndex[group.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateGroupID, group.ID)
	}
	if group.Kind == KindKnockout && group.DrawsAllowed {
		return fmt.Errorf("%w: group %q", ErrDrawsInKnockout, group.ID)
	}
	if group.League != nil {
		if err := group.League.Validate(); err != nil {
			return fmt.Errorf("group %q: %w", group.ID, err)
		}
	}
	if group.Sets != nil {
		if err := group.Sets.Validate(); err != nil {
			return fmt.Errorf("group %q: %w", group.ID, err)
		}
	}

	if err := s.checkTeamOverlap(group); err != nil {
		return err
	}

	group.stageID = s.ID
	group.competition = s.competition
	s.groups = append(s.groups, group)
	s.groupIndex[group.ID] = group

	if s.competition != nil {
		s.competition.invalidateReferenceGraph()
	}
	return nil
}

// Checks the incoming group's fixed playing IDs against every
// sibling. References are excluded since they cannot be proven
// overlapping before they resolve.
func (s *Stage) checkTeamOverlap(group *Group) error {
	incoming := group.teamIDs(TeamsFixed)

	for _, sibling := range s.groups {
		for _, id := range sibling.teamIDs(TeamsFixed) {
			if slices.Contains(incoming, id) {
				return fmt.Errorf(
					"%w: team %q is in both %q and %q of stage %q",
					ErrTeamOverlap, id, sibling.ID, group.ID, s.ID,
				)
			}
		}
	}
	return nil
}

func (s *Stage) Groups() []*Group {
	return s.groups
}

func (s *Stage) GetGroup(id string) (*Group, bool) {
	g, ok := s.groupIndex[id]
	return g, ok
}

// A stage is complete iff all of its groups are complete.
func (s *Stage) IsComplete() bool {
	for _, g := range s.groups {
		if !g.IsComplete() {
			return false
		}
	}
	return true
}

// Returns every match of the stage in group order.
func (s *Stage) AllMatches() []*Match {
	matches := make([]*Match, 0, 16)
	for _, g := range s.groups {
		matches = append(matches, g.Matches()...)
	}
	return matches
}

// Returns the distinct dates on which the stage has matches,
// sorted ascending. Matches without a date are skipped.
func (s *Stage) MatchDates() []string {
	seen := make(map[string]bool)
	dates := make([]string, 0, 8)
	for _, m := range s.AllMatches() {
		if m.Date == "" || seen[m.Date] {
			continue
		}
		seen[m.Date] = true
		dates = append(dates, m.Date)
	}
	slices.Sort(dates)
	return dates
}

// Returns the matches scheduled on the given date in group order.
func (s *Stage) MatchesOnDate(date string) []*Match {
	matches := make([]*Match, 0, 8)
	for _, m := range s.AllMatches() {
		if m.Date == date {
			matches = append(matches, m)
		}
	}
	return matches
}

// Returns the union of the requested team-ID categories over
// all groups of the stage.
func (s *Stage) GetTeamIDs(flags TeamCategory) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, 16)
	for _, g := range s.groups {
		for _, id := range g.GetTeamIDs(flags) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Returns true when any group of the stage has fixed matches
// for the team.
func (s *Stage) TeamHasMatches(id string) bool {
	for _, g := range s.groups {
		if g.TeamHasMatches(id) {
			return true
		}
	}
	return false
}

// Returns true when the team might still reach any group of
// the stage.
func (s *Stage) TeamMayHaveMatches(id string) bool {
	for _, g := range s.groups {
		if g.TeamMayHaveMatches(id) {
			return true
		}
	}
	return false
}
