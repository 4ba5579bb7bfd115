package core

import (
	"errors"
	"fmt"

	"github.com/courtside/gocompetition/internal"
)

var (
	ErrDuplicateTeamID   = errors.New("duplicate team ID")
	ErrDuplicateStageID  = errors.New("duplicate stage ID")
	ErrDuplicateClubID   = errors.New("duplicate club ID")
	ErrDuplicatePlayerID = errors.New("duplicate player ID")
	ErrUnknownStage      = errors.New("no stage with this ID")
	ErrUnknownGroup      = errors.New("no group with this ID")
	ErrUnknownTeam       = errors.New("no team with this ID")
	ErrUnknownClub       = errors.New("no club with this ID")
	ErrStillReferenced   = errors.New("still referenced")
	ErrCircularReference = errors.New("circular reference between groups")
	ErrOwnOfficiating    = errors.New("a team cannot officiate its own match")
)

// A Competition is the top-level registry of stages, teams,
// clubs and players, and the entry point of team reference
// resolution.
//
// The competition is the single owner of the object graph. All
// mutation goes through its methods from one logical thread of
// control, so no locking happens here.
type Competition struct {
	Name    string
	Version string
	Notes   string

	metadata []MetadataEntry

	stages     []*Stage
	stageIndex map[string]*Stage

	teams     map[string]*Team
	teamOrder []string

	clubs     map[string]*Club
	clubOrder []string

	players     map[string]*Player
	playerOrder []string

	unknown *Team

	refGraph *internal.ReferenceGraph[*Group]
}

func NewCompetition(name string) *Competition {
	competition := &Competition{
		Name:       name,
		Version:    "1.0.0",
		stageIndex: make(map[string]*Stage),
		teams:      make(map[string]*Team),
		clubs:      make(map[string]*Club),
		players:    make(map[string]*Player),
		unknown:    newUnknownTeam(),
	}
	return competition
}

// Returns the competition's unknown-team sentinel.
func (c *Competition) UnknownTeam() *Team {
	return c.unknown
}

// ---- registry ----

func (c *Competition) AddTeam(team *Team) error {
	if _, exists := c.teams[team.ID]; exists || team.ID == UnknownTeamID {
		return fmt.Errorf("%w: %q", ErrDuplicateTeamID, team.ID)
	}
	c.teams[team.ID] = team
	c.teamOrder = append(c.teamOrder, team.ID)
	return nil
}

// Returns the teams in registration order.
func (c *Competition) Teams() []*Team {
	teams := make([]*Team, len(c.teamOrder))
	for i, id := range c.teamOrder {
		teams[i] = c.teams[id]
	}
	return teams
}

// Removes a team. Refused when any match still lists the team
// as a fixed participant or official.
func (c *Competition) DeleteTeam(id string) error {
	if _, exists := c.teams[id]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, id)
	}

	for _, stage := range c.stages {
		for _, group := range stage.Groups() {
			for _, m := range group.Matches() {
				if m.ContainsTeam(id) || m.OfficiatingTeamRef() == id {
					return fmt.Errorf(
						"team %q is %w by match %q in group %q of stage %q",
						id, ErrStillReferenced, m.ID, group.ID, stage.ID,
					)
				}
			}
		}
	}

	delete(c.teams, id)
	c.teamOrder = deleteID(c.teamOrder, id)
	return nil
}

func (c *Competition) AddClub(club *Club) error {
	if _, exists := c.clubs[club.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateClubID, club.ID)
	}
	c.clubs[club.ID] = club
	c.clubOrder = append(c.clubOrder, club.ID)
	return nil
}

func (c *Competition) Clubs() []*Club {
	clubs := make([]*Club, len(c.clubOrder))
	for i, id := range c.clubOrder {
		clubs[i] = c.clubs[id]
	}
	return clubs
}

// Removes a club. Refused while a team still belongs to it.
func (c *Competition) DeleteClub(id string) error {
	if _, exists := c.clubs[id]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownClub, id)
	}
	for _, teamID := range c.teamOrder {
		if c.teams[teamID].ClubID == id {
			return fmt.Errorf("club %q is %w by team %q", id, ErrStillReferenced, teamID)
		}
	}
	delete(c.clubs, id)
	c.clubOrder = deleteID(c.clubOrder, id)
	return nil
}

func (c *Competition) AddPlayer(player *Player) error {
	if _, exists := c.players[player.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlayerID, player.ID)
	}
	c.players[player.ID] = player
	c.playerOrder = append(c.playerOrder, player.ID)
	return nil
}

func (c *Competition) Players() []*Player {
	players := make([]*Player, len(c.playerOrder))
	for i, id := range c.playerOrder {
		players[i] = c.players[id]
	}
	return players
}

func (c *Competition) AddStage(stage *Stage) error {
	if _, exists := c.stageIndex[stage.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStageID, stage.ID)
	}

	stage.competition = c
	for _, group := range stage.Groups() {
		group.competition = c
	}

	c.stages = append(c.stages, stage)
	c.stageIndex[stage.ID] = stage
	c.invalidateReferenceGraph()
	return nil
}

func (c *Competition) Stages() []*Stage {
	return c.stages
}

func (c *Competition) GetStage(id string) (*Stage, bool) {
	s, ok := c.stageIndex[id]
	return s, ok
}

// Removes a stage. Refused while any other stage's matches
// still reference one of its groups, naming the offending match.
func (c *Competition) DeleteStage(id string) error {
	stage, exists := c.stageIndex[id]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}

	if match, owner := c.findReferencingMatch(id, "", stage); match != nil {
		return fmt.Errorf(
			"stage %q is %w by match %q in group %q of stage %q",
			id, ErrStillReferenced, match.ID, owner.ID, owner.stageID,
		)
	}

	delete(c.stageIndex, id)
	for i, s := range c.stages {
		if s == stage {
			c.stages = append(c.stages[:i], c.stages[i+1:]...)
			break
		}
	}
	c.invalidateReferenceGraph()
	return nil
}

// Removes a group from a stage. Refused while any match outside
// the group still references it, naming the offending match.
func (c *Competition) DeleteGroup(stageID, groupID string) error {
	stage, exists := c.stageIndex[stageID]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownStage, stageID)
	}
	group, exists := stage.GetGroup(groupID)
	if !exists {
		return fmt.Errorf("%w: %q in stage %q", ErrUnknownGroup, groupID, stageID)
	}

	if match, owner := c.findReferencingMatch(stageID, groupID, nil); match != nil && owner != group {
		return fmt.Errorf(
			"group %q is %w by match %q in group %q of stage %q",
			groupID, ErrStillReferenced, match.ID, owner.ID, owner.stageID,
		)
	}

	delete(stage.groupIndex, groupID)
	for i, g := range stage.groups {
		if g == group {
			stage.groups = append(stage.groups[:i], stage.groups[i+1:]...)
			break
		}
	}
	c.invalidateReferenceGraph()
	return nil
}

// Finds a match whose slots reference the given stage (and
// optionally group). Matches inside skipStage, and matches of
// the target group itself, do not count as external references.
func (c *Competition) findReferencingMatch(stageID, groupID string, skipStage *Stage) (*Match, *Group) {
	for _, stage := range c.stages {
		if stage == skipStage {
			continue
		}
		for _, group := range stage.Groups() {
			if stage.ID == stageID && group.ID == groupID {
				continue
			}
			for _, m := range group.Matches() {
				for _, ref := range []string{m.HomeTeam.Ref, m.AwayTeam.Ref, m.OfficiatingTeamRef()} {
					parsed, err := ParseReference(ref)
					if err != nil {
						continue
					}
					keys := make(map[groupKey]bool)
					referencedGroupKeys(parsed, keys)
					for key := range keys {
						if key.Stage == stageID && (groupID == "" || key.Group == groupID) {
							return m, group
						}
					}
				}
			}
		}
	}
	return nil, nil
}

func deleteID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// ---- metadata ----

// Sets a metadata value, replacing the value of an existing key
// while keeping the pair order.
func (c *Competition) SetMetadata(key, value string) {
	for i := range c.metadata {
		if c.metadata[i].Key == key {
			c.metadata[i].Value = value
			return
		}
	}
	c.metadata = append(c.metadata, MetadataEntry{Key: key, Value: value})
}

func (c *Competition) MetadataValue(key string) (string, bool) {
	for _, entry := range c.metadata {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

func (c *Competition) DeleteMetadata(key string) {
	for i, entry := range c.metadata {
		if entry.Key == key {
			c.metadata = append(c.metadata[:i], c.metadata[i+1:]...)
			return
		}
	}
}

func (c *Competition) Metadata() []MetadataEntry {
	return c.metadata
}

// ---- resolution ----

func (c *Competition) group(stageID, groupID string) *Group {
	stage, ok := c.stageIndex[stageID]
	if !ok {
		return nil
	}
	group, ok := stage.GetGroup(groupID)
	if !ok {
		return nil
	}
	return group
}

// Resolves any of the four reference shapes to a team.
//
// This is the lookup regime: a reference that is well-formed but
// not currently resolvable, and even a malformed one, collapses
// to the unknown-team sentinel. Use ValidateTeamID for the hard
// failures of the validation regime.
func (c *Competition) GetTeam(ref string) *Team {
	parsed, err := ParseReference(ref)
	if err != nil {
		return c.unknown
	}
	return c.resolveReference(parsed)
}

// Returns true when the reference currently resolves to a
// real team.
func (c *Competition) HasTeam(ref string) bool {
	return !c.GetTeam(ref).IsUnknown()
}

func (c *Competition) resolveReference(ref Reference) *Team {
	switch r := ref.(type) {
	case *Literal:
		if team, ok := c.teams[r.TeamID]; ok {
			return team
		}
		return c.unknown

	case *Ternary:
		left := c.resolveReference(r.Left)
		right := c.resolveReference(r.Right)
		// Identity comparison by team ID, never by name
		if left.ID == right.ID {
			return c.resolveReference(r.True)
		}
		return c.resolveReference(r.False)

	case *LeaguePositionRef:
		group := c.group(r.Stage, r.Group)
		if group == nil {
			return c.unknown
		}
		return group.resolveLeaguePosition(r.Position)

	case *MatchRef:
		group := c.group(r.Stage, r.Group)
		if group == nil {
			return c.unknown
		}
		return group.resolveMatchEntity(r.Match, r.Loser)

	default:
		return c.unknown
	}
}

// ---- validation regime ----

// Validates a single team reference the way the document loader
// does for every team and official slot: malformed syntax and
// dangling IDs are descriptive errors instead of sentinels.
func (c *Competition) ValidateTeamID(ref, matchID, field string) error {
	parsed, err := ParseReference(ref)
	if err == nil {
		err = c.validateReference(parsed)
	}
	if err != nil {
		return fmt.Errorf("invalid team reference %q for %s in match %q: %w", ref, field, matchID, err)
	}
	return nil
}

func (c *Competition) validateReference(ref Reference) error {
	switch r := ref.(type) {
	case *Literal:
		if _, ok := c.teams[r.TeamID]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTeam, r.TeamID)
		}
		return nil

	case *Ternary:
		for _, part := range []Reference{r.Left, r.Right, r.True, r.False} {
			if err := c.validateReference(part); err != nil {
				return err
			}
		}
		return nil

	case *LeaguePositionRef:
		group, err := c.validateGroupRef(r.Stage, r.Group)
		if err != nil {
			return err
		}
		if group.Kind != KindLeague {
			return fmt.Errorf("%w: group %q is a %s", ErrNotLeague, r.Group, group.Kind)
		}
		// The position range is only checkable once the league
		// is decided
		if group.IsComplete() {
			if _, err := group.LeaguePosition(r.Position); err != nil {
				return err
			}
		}
		return nil

	case *MatchRef:
		group, err := c.validateGroupRef(r.Stage, r.Group)
		if err != nil {
			return err
		}
		if _, ok := group.GetMatch(r.Match); !ok {
			return fmt.Errorf("%w: %q in group %q", ErrUnknownMatch, r.Match, r.Group)
		}
		return nil

	default:
		return ErrMalformedReference
	}
}

func (c *Competition) validateGroupRef(stageID, groupID string) (*Group, error) {
	stage, ok := c.stageIndex[stageID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stageID)
	}
	group, ok := stage.GetGroup(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in stage %q", ErrUnknownGroup, groupID, stageID)
	}
	return group, nil
}

// Runs the full load-time validation over the competition:
// every slot reference, officiating rules, draw legality and
// the acyclicity of the group-reference graph.
func (c *Competition) Validate() error {
	for _, stage := range c.stages {
		for _, group := range stage.Groups() {
			if err := c.validateGroup(stage, group); err != nil {
				return err
			}
		}
	}

	if _, err := c.referenceGraph(); err != nil {
		return err
	}
	return nil
}

func (c *Competition) validateGroup(stage *Stage, group *Group) error {
	for _, m := range group.Matches() {
		if err := c.ValidateTeamID(m.HomeTeam.Ref, m.ID, "homeTeam"); err != nil {
			return err
		}
		if err := c.ValidateTeamID(m.AwayTeam.Ref, m.ID, "awayTeam"); err != nil {
			return err
		}

		if officiating := m.OfficiatingTeamRef(); officiating != "" {
			if err := c.ValidateTeamID(officiating, m.ID, "officials"); err != nil {
				return err
			}
			if officiating == m.HomeTeam.Ref || officiating == m.AwayTeam.Ref {
				return fmt.Errorf("%w: %q in match %q", ErrOwnOfficiating, officiating, m.ID)
			}
		}

		if m.IsDraw() && !group.DrawsAllowed {
			return fmt.Errorf(
				"match %q in group %q of stage %q is drawn but the group does not allow draws",
				m.ID, group.ID, stage.ID,
			)
		}
	}

	if group.Knockout != nil {
		for _, standing := range group.Knockout.Standing {
			if err := c.ValidateTeamID(standing.ID, "", "standing "+standing.Position); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---- reference graph ----

func (c *Competition) invalidateReferenceGraph() {
	c.refGraph = nil
}

// Builds (or returns the cached) directed graph of group
// reference edges. An edge runs from the referencing group to
// the referenced group; an edge that would close a cycle fails
// with a circular-reference error naming both groups.
func (c *Competition) referenceGraph() (*internal.ReferenceGraph[*Group], error) {
	if c.refGraph != nil {
		return c.refGraph, nil
	}

	graph := internal.NewReferenceGraph[*Group]()
	for _, stage := range c.stages {
		for _, group := range stage.Groups() {
			graph.AddVertex(group)
		}
	}

	for _, stage := range c.stages {
		for _, group := range stage.Groups() {
			for _, key := range group.referencedGroups() {
				referenced := c.group(key.Stage, key.Group)
				if referenced == nil || referenced == group {
					// A knockout bracket referencing its own
					// earlier matches is not a group cycle
					continue
				}
				if err := graph.AddEdge(group, referenced); err != nil {
					if errors.Is(err, internal.ErrEdgeCreatesCycle) {
						return nil, fmt.Errorf(
							"%w: %q and %q",
							ErrCircularReference, group.Key(), referenced.Key(),
						)
					}
					return nil, err
				}
			}
		}
	}

	c.refGraph = graph
	return graph, nil
}
