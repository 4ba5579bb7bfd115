package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateMatchID = errors.New("duplicate match ID in group")
	ErrUnknownMatch     = errors.New("no match with this ID in the group")
	ErrNotLeague        = errors.New("the group is not a league")
	ErrIncompleteLeague = errors.New("cannot get the team in a league position on an incomplete league")
	ErrPositionRange    = errors.New("league position is beyond the number of teams")
	ErrDrawsInKnockout  = errors.New("a knockout group cannot allow draws")
)

// The kind of a group decides which kind-specific behavior
// applies: only leagues build standings and serve league
// position references.
type GroupKind int

const (
	// Placeholder for a group whose kind is not yet known
	KindUnknown GroupKind = iota
	KindLeague
	KindKnockout
	KindCrossover
)

func (k GroupKind) String() string {
	switch k {
	case KindLeague:
		return "league"
	case KindKnockout:
		return "knockout"
	case KindCrossover:
		return "crossover"
	default:
		return "unknown"
	}
}

// The match type of a group.
type MatchKind int

const (
	// A single running score per side
	MatchContinuous MatchKind = iota
	// A best-of-sets score per side
	MatchSets
)

func (k MatchKind) String() string {
	if k == MatchSets {
		return "sets"
	}
	return "continuous"
}

// Tri-state completeness of a group, computed lazily and
// cached until a match mutation invalidates it.
type Completeness int

const (
	CompletenessUnknown Completeness = iota
	CompletenessComplete
	CompletenessIncomplete
)

// Flags selecting team-ID categories for GetTeamIDs.
// The flags combine with bitwise or.
type TeamCategory uint

const (
	// IDs entered literally in the match slots
	TeamsFixed TeamCategory = 1 << iota
	// IDs and references entered as playing teams
	TeamsPlaying
	// IDs and references entered as officiating teams
	TeamsOfficiating
	// Resolvable entries of TeamsAll as resolved team IDs,
	// sorted by team name
	TeamsKnown
	// Teams that could still reach this group through
	// unresolved references
	TeamsMaybe

	// Every playing or officiating entry
	TeamsAll TeamCategory = TeamsPlaying | TeamsOfficiating
)

// The key of a group inside a competition.
type groupKey struct {
	Stage string
	Group string
}

// The specific configuration of a knockout group: an optional
// mapping of finishing positions to team references.
type KnockoutConfig struct {
	Standing []KnockoutStanding
}

// One line of a knockout standing, e.g. {"1st", "{C:F:FIN:winner}"}.
type KnockoutStanding struct {
	Position string
	ID       string
}

// A Group owns an ordered list of matches interleaved with
// breaks. Kind-specific behavior is dispatched on the Kind tag.
//
// Completeness, the standings table and the derived team-ID sets
// are memoized on read and invalidated on the mutation that could
// affect them.
type Group struct {
	ID    string
	Name  string
	Notes string

	Kind      GroupKind
	MatchKind MatchKind

	// Whether drawn matches are legal, leagues only
	DrawsAllowed bool

	// Kind- and match-type-specific configuration payloads
	League   *LeagueConfig
	Knockout *KnockoutConfig
	Sets     *SetsConfig

	entries    []GroupEntry
	matchIndex map[string]*Match

	stageID     string
	competition *Competition

	completeness     Completeness
	table            *LeagueTable
	matchesProcessed bool

	teamSets      map[TeamCategory][]string
	refKeys       []groupKey
	refKeysCached bool
}

// Creates a group of the given kind. League groups get a default
// league configuration which can be replaced before the group
// joins a stage.
func NewGroup(id string, kind GroupKind, matchKind MatchKind) (*Group, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	group := &Group{
		ID:         id,
		Kind:       kind,
		MatchKind:  matchKind,
		matchIndex: make(map[string]*Match),
	}
	if kind == KindLeague {
		group.League = DefaultLeagueConfig()
	}
	return group, nil
}

// The node hash of the group in the competition's reference graph.
func (g *Group) Key() string {
	return g.stageID + ":" + g.ID
}

// Returns the ID of the stage this group belongs to.
func (g *Group) StageID() string {
	return g.stageID
}

func (g *Group) setsConfig() *SetsConfig {
	if g.Sets != nil {
		return g.Sets
	}
	return DefaultSetsConfig()
}

// Appends a match to the group's schedule.
func (g *Group) AddMatch(match *Match) error {
	if _, exists := g.matchIndex[match.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMatchID, match.ID)
	}

	match.group = g
	g.entries = append(g.entries, match)
	g.matchIndex[match.ID] = match

	g.invalidateResults()
	g.invalidateStructure()
	return nil
}

// Appends a break to the group's schedule.
func (g *Group) AddBreak(b *Break) {
	g.entries = append(g.entries, b)
	g.invalidateResults()
}

// Returns the schedule entries in order, matches interleaved
// with breaks.
func (g *Group) Entries() []GroupEntry {
	return g.entries
}

// Returns the matches of the group in schedule order,
// breaks skipped.
func (g *Group) Matches() []*Match {
	matches := make([]*Match, 0, len(g.entries))
	for _, e := range g.entries {
		if m, ok := e.(*Match); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

func (g *Group) GetMatch(id string) (*Match, bool) {
	m, ok := g.matchIndex[id]
	return m, ok
}

// Drops the cached results: completeness and the standings.
// Called on every match result mutation.
func (g *Group) invalidateResults() {
	g.completeness = CompletenessUnknown
	g.table = nil
	g.matchesProcessed = false
}

// Drops the cached schedule structure: the derived team-ID sets
// and the reference lookup table. Called when a match is added.
func (g *Group) invalidateStructure() {
	g.teamSets = nil
	g.refKeys = nil
	g.refKeysCached = false
	if g.competition != nil {
		g.competition.invalidateReferenceGraph()
	}
}

// Returns the cached tri-state completeness, computing it when
// it is unknown. A group is complete iff every non-break match
// has a result.
func (g *Group) Completeness() Completeness {
	if g.completeness == CompletenessUnknown {
		g.completeness = CompletenessComplete
		for _, m := range g.Matches() {
			if !m.IsComplete() {
				g.completeness = CompletenessIncomplete
				break
			}
		}
	}
	return g.completeness
}

func (g *Group) IsComplete() bool {
	return g.Completeness() == CompletenessComplete
}

// Returns the union of the requested team-ID categories.
func (g *Group) GetTeamIDs(flags TeamCategory) []string {
	ids := make([]string, 0, 8)
	seen := make(map[string]bool)

	appendAll := func(category []string) {
		for _, id := range category {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	for _, category := range []TeamCategory{
		TeamsFixed, TeamsPlaying, TeamsOfficiating, TeamsKnown, TeamsMaybe,
	} {
		if flags&category != 0 {
			appendAll(g.teamIDs(category))
		}
	}

	return ids
}

// Returns one team-ID category.
//
// The structural categories are memoized until the schedule
// changes. KNOWN and MAYBE depend on results, in this group and
// in any feeder group, so they are recomputed on every read.
func (g *Group) teamIDs(category TeamCategory) []string {
	switch category {
	case TeamsKnown:
		return g.knownTeamIDs()
	case TeamsMaybe:
		return g.maybeTeamIDs(make(map[string]bool))
	}

	if cached, ok := g.teamSets[category]; ok {
		return cached
	}

	var ids []string
	switch category {
	case TeamsPlaying:
		ids = g.collectSlotRefs(false)
	case TeamsOfficiating:
		ids = g.collectSlotRefs(true)
	case TeamsFixed:
		playing := g.teamIDs(TeamsPlaying)
		ids = make([]string, 0, len(playing))
		for _, id := range playing {
			if _, literal := mustParse(id).(*Literal); literal {
				ids = append(ids, id)
			}
		}
	}

	if g.teamSets == nil {
		g.teamSets = make(map[TeamCategory][]string)
	}
	g.teamSets[category] = ids
	return ids
}

func mustParse(ref string) Reference {
	parsed, err := ParseReference(ref)
	if err != nil {
		return nil
	}
	return parsed
}

// Collects the distinct raw slot entries of all matches, either
// the officiating slots or the playing slots, sorted.
func (g *Group) collectSlotRefs(officiating bool) []string {
	seen := make(map[string]bool)
	refs := make([]string, 0, 2*len(g.entries))

	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	for _, m := range g.Matches() {
		if officiating {
			add(m.OfficiatingTeamRef())
		} else {
			add(m.HomeTeam.Ref)
			add(m.AwayTeam.Ref)
		}
	}

	slices.Sort(refs)
	return refs
}

// Returns the resolved team IDs of every entry in the ALL set
// that currently resolves to a real team, sorted by team name.
func (g *Group) knownTeamIDs() []string {
	if g.competition == nil {
		return nil
	}

	seen := make(map[string]bool)
	known := make([]*Team, 0, 8)
	for _, ref := range g.GetTeamIDs(TeamsAll) {
		team := g.competition.GetTeam(ref)
		if team.IsUnknown() || seen[team.ID] {
			continue
		}
		seen[team.ID] = true
		known = append(known, team)
	}

	collator := newNameCollator()
	slices.SortFunc(known, func(a, b *Team) int {
		return collator.CompareString(a.Name, b.Name)
	})

	ids := make([]string, len(known))
	for i, t := range known {
		ids[i] = t.ID
	}
	return ids
}

// Returns the distinct (stage, group) pairs mentioned by the
// bracketed references in this group's slots. Built once and
// memoized until the schedule changes.
func (g *Group) referencedGroups() []groupKey {
	if g.refKeysCached {
		return g.refKeys
	}

	keys := make(map[groupKey]bool)
	for _, m := range g.Matches() {
		for _, ref := range []string{m.HomeTeam.Ref, m.AwayTeam.Ref, m.OfficiatingTeamRef()} {
			if ref == "" {
				continue
			}
			parsed, err := ParseReference(ref)
			if err != nil {
				continue
			}
			referencedGroupKeys(parsed, keys)
		}
	}

	ordered := make([]groupKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	slices.SortFunc(ordered, func(a, b groupKey) int {
		if a.Stage != b.Stage {
			return cmp.Compare(a.Stage, b.Stage)
		}
		return cmp.Compare(a.Group, b.Group)
	})

	g.refKeys = ordered
	g.refKeysCached = true
	return ordered
}

// Returns the groups this group's slots reference. Served from
// the competition's reference graph when it has been built,
// otherwise derived from the parsed slot references.
func (g *Group) feederGroups() []*Group {
	if g.competition == nil {
		return nil
	}
	if refGraph := g.competition.refGraph; refGraph != nil {
		return refGraph.GetReferenced(g)
	}

	groups := make([]*Group, 0, 4)
	for _, key := range g.referencedGroups() {
		if referenced := g.competition.group(key.Stage, key.Group); referenced != nil {
			groups = append(groups, referenced)
		}
	}
	return groups
}

// Computes the MAYBE set: for an incomplete group, the teams
// that could still reach it through unresolved references.
//
// The recursion follows the directed group-reference edges. The
// visited set bounds the traversal so a hand-built cyclic
// document degrades instead of recursing without end; validated
// documents cannot cycle.
func (g *Group) maybeTeamIDs(visited map[string]bool) []string {
	if g.IsComplete() || g.competition == nil {
		return nil
	}
	if visited[g.Key()] {
		return nil
	}
	visited[g.Key()] = true

	seen := make(map[string]bool)
	maybe := make([]string, 0, 8)
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				maybe = append(maybe, id)
			}
		}
	}

	for _, referenced := range g.feederGroups() {
		if referenced == g || referenced.IsComplete() {
			continue
		}
		add(referenced.knownTeamIDs())
		add(referenced.maybeTeamIDs(visited))
	}

	slices.Sort(maybe)
	return maybe
}

// Returns true when the given team ID is a fixed participant
// of one of the group's matches.
func (g *Group) TeamHasMatches(id string) bool {
	for _, m := range g.Matches() {
		if m.ContainsTeam(id) {
			return true
		}
	}
	return false
}

// Returns true when the team is possibly still alive in this
// part of the bracket: an incomplete feeder group already has
// confirmed matches for the team or may itself still receive it.
func (g *Group) TeamMayHaveMatches(id string) bool {
	return g.teamMayHaveMatches(id, make(map[string]bool))
}

func (g *Group) teamMayHaveMatches(id string, visited map[string]bool) bool {
	if g.competition == nil || visited[g.Key()] {
		return false
	}
	visited[g.Key()] = true

	for _, referenced := range g.feederGroups() {
		if referenced == g || referenced.IsComplete() {
			continue
		}
		if referenced.TeamHasMatches(id) {
			return true
		}
		if referenced.teamMayHaveMatches(id, visited) {
			return true
		}
	}
	return false
}

// Resolves the team at a 1-based league position, lookup
// regime: failures collapse to the unknown team.
func (g *Group) resolveLeaguePosition(position int) *Team {
	team, err := g.LeaguePosition(position)
	if err != nil {
		return g.competition.UnknownTeam()
	}
	return team
}

// Returns the team at a 1-based position of the league's current
// standings, strict regime: an incomplete league, a non-league
// group and an out-of-range position are descriptive errors.
func (g *Group) LeaguePosition(position int) (*Team, error) {
	if g.Kind != KindLeague {
		return nil, fmt.Errorf("%w: group %s is a %s", ErrNotLeague, g.ID, g.Kind)
	}
	if !g.IsComplete() {
		return nil, ErrIncompleteLeague
	}

	table := g.LeagueTable()
	if position < 1 || position > len(table.Entries) {
		return nil, fmt.Errorf(
			"%w: position %d of %d teams in group %s",
			ErrPositionRange, position, len(table.Entries), g.ID,
		)
	}

	entry := table.Entries[position-1]
	team := g.competition.GetTeam(entry.TeamID)
	return team, nil
}

// Resolves a winner/loser match reference, lookup regime:
// an unknown match, an unplayed match and a drawn match all
// collapse to the unknown team.
func (g *Group) resolveMatchEntity(matchID string, loser bool) *Team {
	match, ok := g.matchIndex[matchID]
	if !ok {
		return g.competition.UnknownTeam()
	}

	var ref string
	var err error
	if loser {
		ref, err = match.Loser()
	} else {
		ref, err = match.Winner()
	}
	if err != nil {
		return g.competition.UnknownTeam()
	}

	// The winning slot may itself hold a reference
	return g.competition.GetTeam(ref)
}
