package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/courtside/gocompetition/core"
)

var (
	ErrNoName       = errors.New("document has no competition name")
	ErrNoTeams      = errors.New("document has no teams")
	ErrBadGroupType = errors.New("unknown group type")
	ErrBadMatchType = errors.New("unknown match type")
	ErrBadEntryType = errors.New("unknown schedule entry type")
)

// A Loader builds a core.Competition from the JSON document
// shape and runs the full load-time validation over it.
type Loader struct {
	log *logrus.Logger
}

func NewLoader(log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{log: log}
}

// Loads a competition document with the standard logger.
func Load(data []byte) (*core.Competition, error) {
	return NewLoader(nil).Load(data)
}

// Decodes the document, builds the competition object graph and
// validates it. Any malformed or dangling reference, duplicate
// ID, illegal draw or reference cycle fails the load with a
// descriptive error.
func (l *Loader) Load(data []byte) (*core.Competition, error) {
	var doc competitionJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding competition document: %w", err)
	}

	if doc.Name == "" {
		return nil, ErrNoName
	}
	if len(doc.Teams) == 0 {
		return nil, ErrNoTeams
	}

	competition := core.NewCompetition(doc.Name)
	if doc.Version != "" {
		competition.Version = doc.Version
	}
	competition.Notes = doc.Notes

	for _, entry := range doc.Metadata {
		competition.SetMetadata(entry.Key, entry.Value)
	}

	for _, c := range doc.Clubs {
		club, err := core.NewClub(c.ID, c.Name)
		if err != nil {
			return nil, fmt.Errorf("club %q: %w", c.ID, err)
		}
		club.Notes = c.Notes
		if err := competition.AddClub(club); err != nil {
			return nil, err
		}
	}

	for _, t := range doc.Teams {
		team, err := core.NewTeam(t.ID, t.Name)
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", t.ID, err)
		}
		team.ClubID = t.Club
		team.Notes = t.Notes
		if err := competition.AddTeam(team); err != nil {
			return nil, err
		}
	}

	for _, p := range doc.Players {
		player, err := core.NewPlayer(p.ID, p.Name)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", p.ID, err)
		}
		player.Number = p.Number
		player.TeamID = p.Team
		player.Notes = p.Notes
		if err := competition.AddPlayer(player); err != nil {
			return nil, err
		}
	}

	matchCount := 0
	for _, s := range doc.Stages {
		stage, count, err := l.buildStage(s)
		if err != nil {
			return nil, err
		}
		if err := competition.AddStage(stage); err != nil {
			return nil, err
		}
		matchCount += count
	}

	if err := competition.Validate(); err != nil {
		l.log.WithFields(logrus.Fields{
			"competition": doc.Name,
		}).WithError(err).Error("competition document failed validation")
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"competition": doc.Name,
		"stages":      len(doc.Stages),
		"teams":       len(doc.Teams),
		"matches":     matchCount,
	}).Info("competition document loaded")

	return competition, nil
}

func (l *Loader) buildStage(s stageJSON) (*core.Stage, int, error) {
	stage, err := core.NewStage(s.ID, s.Name)
	if err != nil {
		return nil, 0, fmt.Errorf("stage %q: %w", s.ID, err)
	}
	stage.Notes = s.Notes

	if s.IfUnknown != nil {
		ifUnknown := &core.IfUnknown{Description: s.IfUnknown.Description}
		for _, b := range s.IfUnknown.Breaks {
			ifUnknown.Breaks = append(ifUnknown.Breaks, &core.Break{
				Date:     b.Date,
				Start:    b.Start,
				Duration: b.Duration,
				Name:     b.Name,
			})
		}
		stage.IfUnknown = ifUnknown
	}

	matchCount := 0
	for _, g := range s.Groups {
		group, count, err := l.buildGroup(s.ID, g)
		if err != nil {
			return nil, 0, err
		}
		if err := stage.AddGroup(group); err != nil {
			return nil, 0, err
		}
		matchCount += count
	}

	return stage, matchCount, nil
}

func (l *Loader) buildGroup(stageID string, g groupJSON) (*core.Group, int, error) {
	kind, err := groupKind(g.Type)
	if err != nil {
		return nil, 0, fmt.Errorf("group %q in stage %q: %w", g.ID, stageID, err)
	}
	matchKind, err := matchKind(g.MatchType)
	if err != nil {
		return nil, 0, fmt.Errorf("group %q in stage %q: %w", g.ID, stageID, err)
	}

	group, err := core.NewGroup(g.ID, kind, matchKind)
	if err != nil {
		return nil, 0, fmt.Errorf("group %q in stage %q: %w", g.ID, stageID, err)
	}
	group.Name = g.Name
	group.Notes = g.Notes
	group.DrawsAllowed = g.DrawsAllowed

	if g.League != nil {
		group.League = buildLeagueConfig(g.League)
	}
	if g.Knockout != nil {
		group.Knockout = buildKnockoutConfig(g.Knockout)
	}
	if g.Sets != nil {
		group.Sets = buildSetsConfig(g.Sets)
	}

	matchCount := 0
	for _, entry := range g.Matches {
		switch entry.Type {
		case "break":
			group.AddBreak(&core.Break{
				Date:     entry.Date,
				Start:    entry.Start,
				Duration: entry.Duration,
				Name:     entry.Name,
			})

		case "match":
			match, err := buildMatch(entry)
			if err != nil {
				return nil, 0, fmt.Errorf("match %q in group %q: %w", entry.ID, g.ID, err)
			}
			if err := group.AddMatch(match); err != nil {
				return nil, 0, fmt.Errorf("group %q in stage %q: %w", g.ID, stageID, err)
			}
			// Scores are validated against the group's match
			// type, so they are recorded after the match has
			// joined the group
			if len(entry.HomeTeam.Scores) > 0 || len(entry.AwayTeam.Scores) > 0 {
				complete := entry.Complete != nil && *entry.Complete
				err := match.SetScores(entry.HomeTeam.Scores, entry.AwayTeam.Scores, complete)
				if err != nil {
					return nil, 0, fmt.Errorf("match %q in group %q: %w", entry.ID, g.ID, err)
				}
			}
			matchCount++

		default:
			return nil, 0, fmt.Errorf("%w: %q in group %q", ErrBadEntryType, entry.Type, g.ID)
		}
	}

	return group, matchCount, nil
}

func buildMatch(entry matchJSON) (*core.Match, error) {
	if entry.HomeTeam == nil || entry.AwayTeam == nil {
		return nil, errors.New("match without both team slots")
	}

	match, err := core.NewMatch(entry.ID, entry.HomeTeam.ID, entry.AwayTeam.ID)
	if err != nil {
		return nil, err
	}

	fillMatchTeam(match.HomeTeam, entry.HomeTeam)
	fillMatchTeam(match.AwayTeam, entry.AwayTeam)

	if entry.Officials != nil {
		match.Officials = &core.Officials{
			TeamRef: entry.Officials.Team,
			First:   entry.Officials.First,
			Second:  entry.Officials.Second,
			Scorer:  entry.Officials.Scorer,
		}
	}

	match.Court = entry.Court
	match.Venue = entry.Venue
	match.Date = entry.Date
	match.WarmUp = entry.WarmUp
	match.Start = entry.Start
	match.Duration = entry.Duration
	match.Notes = entry.Notes
	match.Friendly = entry.Friendly

	return match, nil
}

func fillMatchTeam(team *core.MatchTeam, slot *matchTeamJSON) {
	team.MVP = slot.MVP
	team.Forfeit = slot.Forfeit
	team.BonusPoints = slot.BonusPoints
	team.PenaltyPoints = slot.PenaltyPoints
	team.Notes = slot.Notes
}

func buildLeagueConfig(l *leagueJSON) *core.LeagueConfig {
	ordering := make([]core.OrderingCriterion, len(l.Ordering))
	for i, criterion := range l.Ordering {
		ordering[i] = core.OrderingCriterion(criterion)
	}
	config := &core.LeagueConfig{
		Ordering: ordering,
		Points: core.LeaguePoints{
			Played:    l.Points.Played,
			Win:       l.Points.Win,
			WinByOne:  l.Points.WinByOne,
			Lose:      l.Points.Lose,
			LoseByOne: l.Points.LoseByOne,
			PerSet:    l.Points.PerSet,
			Forfeit:   l.Points.Forfeit,
		},
	}
	return config
}

func buildKnockoutConfig(k *knockoutJSON) *core.KnockoutConfig {
	config := &core.KnockoutConfig{}
	for _, s := range k.Standing {
		config.Standing = append(config.Standing, core.KnockoutStanding{
			Position: s.Position,
			ID:       s.ID,
		})
	}
	return config
}

func buildSetsConfig(s *setsJSON) *core.SetsConfig {
	config := core.DefaultSetsConfig()
	if s.MaxSets > 0 {
		config.MaxSets = s.MaxSets
	}
	if s.SetsToWin > 0 {
		config.SetsToWin = s.SetsToWin
	}
	if s.ClearPoints > 0 {
		config.ClearPoints = s.ClearPoints
	}
	if s.MinPoints > 0 {
		config.MinPoints = s.MinPoints
	}
	if s.MaxPoints > 0 {
		config.MaxPoints = s.MaxPoints
	}
	if s.LastSetPoints > 0 {
		config.LastSetPoints = s.LastSetPoints
	}
	if s.LastSetMaxPoints > 0 {
		config.LastSetMaxPoints = s.LastSetMaxPoints
	}
	return config
}

func groupKind(s string) (core.GroupKind, error) {
	switch s {
	case "league":
		return core.KindLeague, nil
	case "knockout":
		return core.KindKnockout, nil
	case "crossover":
		return core.KindCrossover, nil
	default:
		return core.KindUnknown, fmt.Errorf("%w: %q", ErrBadGroupType, s)
	}
}

func matchKind(s string) (core.MatchKind, error) {
	switch s {
	case "continuous":
		return core.MatchContinuous, nil
	case "sets":
		return core.MatchSets, nil
	default:
		return core.MatchContinuous, fmt.Errorf("%w: %q", ErrBadMatchType, s)
	}
}
