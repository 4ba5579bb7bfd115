package document

import (
	"encoding/json"

	"github.com/courtside/gocompetition/core"
)

// Serializes the competition back to the document shape.
//
// The league configuration round-trips; the computed standings
// table is a derived view and is not persisted.
func Save(competition *core.Competition) ([]byte, error) {
	doc := competitionJSON{
		Version: competition.Version,
		Name:    competition.Name,
		Notes:   competition.Notes,
	}

	for _, entry := range competition.Metadata() {
		doc.Metadata = append(doc.Metadata, metadataJSON{Key: entry.Key, Value: entry.Value})
	}

	for _, club := range competition.Clubs() {
		doc.Clubs = append(doc.Clubs, clubJSON{ID: club.ID, Name: club.Name, Notes: club.Notes})
	}

	for _, team := range competition.Teams() {
		doc.Teams = append(doc.Teams, teamJSON{
			ID:    team.ID,
			Name:  team.Name,
			Club:  team.ClubID,
			Notes: team.Notes,
		})
	}

	for _, player := range competition.Players() {
		doc.Players = append(doc.Players, playerJSON{
			ID:     player.ID,
			Name:   player.Name,
			Number: player.Number,
			Team:   player.TeamID,
			Notes:  player.Notes,
		})
	}

	for _, stage := range competition.Stages() {
		doc.Stages = append(doc.Stages, saveStage(stage))
	}

	return json.MarshalIndent(doc, "", "  ")
}

func saveStage(stage *core.Stage) stageJSON {
	s := stageJSON{
		ID:    stage.ID,
		Name:  stage.Name,
		Notes: stage.Notes,
	}

	if stage.IfUnknown != nil {
		ifUnknown := &ifUnknownJSON{Description: stage.IfUnknown.Description}
		for _, b := range stage.IfUnknown.Breaks {
			ifUnknown.Breaks = append(ifUnknown.Breaks, breakJSON(b))
		}
		s.IfUnknown = ifUnknown
	}

	for _, group := range stage.Groups() {
		s.Groups = append(s.Groups, saveGroup(group))
	}
	return s
}

func saveGroup(group *core.Group) groupJSON {
	g := groupJSON{
		ID:           group.ID,
		Name:         group.Name,
		Notes:        group.Notes,
		Type:         group.Kind.String(),
		MatchType:    group.MatchKind.String(),
		DrawsAllowed: group.DrawsAllowed,
	}

	if group.League != nil {
		ordering := make([]string, len(group.League.Ordering))
		for i, criterion := range group.League.Ordering {
			ordering[i] = string(criterion)
		}
		g.League = &leagueJSON{
			Ordering: ordering,
			Points: leaguePointsJSON{
				Played:    group.League.Points.Played,
				Win:       group.League.Points.Win,
				WinByOne:  group.League.Points.WinByOne,
				Lose:      group.League.Points.Lose,
				LoseByOne: group.League.Points.LoseByOne,
				PerSet:    group.League.Points.PerSet,
				Forfeit:   group.League.Points.Forfeit,
			},
		}
	}

	if group.Knockout != nil {
		knockout := &knockoutJSON{}
		for _, standing := range group.Knockout.Standing {
			knockout.Standing = append(knockout.Standing, knockoutStandingJSON{
				Position: standing.Position,
				ID:       standing.ID,
			})
		}
		g.Knockout = knockout
	}

	if group.Sets != nil {
		g.Sets = &setsJSON{
			MaxSets:          group.Sets.MaxSets,
			SetsToWin:        group.Sets.SetsToWin,
			ClearPoints:      group.Sets.ClearPoints,
			MinPoints:        group.Sets.MinPoints,
			MaxPoints:        group.Sets.MaxPoints,
			LastSetPoints:    group.Sets.LastSetPoints,
			LastSetMaxPoints: group.Sets.LastSetMaxPoints,
		}
	}

	for _, entry := range group.Entries() {
		switch e := entry.(type) {
		case *core.Break:
			g.Matches = append(g.Matches, breakJSON(e))
		case *core.Match:
			g.Matches = append(g.Matches, saveMatch(e))
		}
	}
	return g
}

func breakJSON(b *core.Break) matchJSON {
	return matchJSON{
		Type:     "break",
		Date:     b.Date,
		Start:    b.Start,
		Duration: b.Duration,
		Name:     b.Name,
	}
}

func saveMatch(match *core.Match) matchJSON {
	m := matchJSON{
		Type:     "match",
		ID:       match.ID,
		HomeTeam: saveMatchTeam(match.HomeTeam),
		AwayTeam: saveMatchTeam(match.AwayTeam),
		Court:    match.Court,
		Venue:    match.Venue,
		Date:     match.Date,
		WarmUp:   match.WarmUp,
		Start:    match.Start,
		Duration: match.Duration,
		Notes:    match.Notes,
		Friendly: match.Friendly,
	}

	if match.Officials != nil {
		m.Officials = &officialsJSON{
			Team:   match.Officials.TeamRef,
			First:  match.Officials.First,
			Second: match.Officials.Second,
			Scorer: match.Officials.Scorer,
		}
	}

	if match.IsComplete() {
		complete := true
		m.Complete = &complete
	}

	return m
}

func saveMatchTeam(team *core.MatchTeam) *matchTeamJSON {
	return &matchTeamJSON{
		ID:            team.Ref,
		Scores:        team.Scores,
		MVP:           team.MVP,
		Forfeit:       team.Forfeit,
		BonusPoints:   team.BonusPoints,
		PenaltyPoints: team.PenaltyPoints,
		Notes:         team.Notes,
	}
}
