// Package document reads and writes the JSON competition
// document shape and runs the load-time semantic validation
// over it.
//
// The engine in the core package assumes a structurally valid
// object graph; this package is the boundary where structural
// decoding, semantic validation and logging happen.
package document

type competitionJSON struct {
	Version  string         `json:"version"`
	Name     string         `json:"name"`
	Notes    string         `json:"notes,omitempty"`
	Metadata []metadataJSON `json:"metadata,omitempty"`
	Clubs    []clubJSON     `json:"clubs,omitempty"`
	Teams    []teamJSON     `json:"teams"`
	Players  []playerJSON   `json:"players,omitempty"`
	Stages   []stageJSON    `json:"stages"`
}

type metadataJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type clubJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

type teamJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Club  string `json:"club,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type playerJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number,omitempty"`
	Team   string `json:"team,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type stageJSON struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Groups    []groupJSON    `json:"groups"`
	IfUnknown *ifUnknownJSON `json:"ifUnknown,omitempty"`
}

type ifUnknownJSON struct {
	Description []string    `json:"description,omitempty"`
	Breaks      []matchJSON `json:"breaks,omitempty"`
}

type groupJSON struct {
	ID           string        `json:"id"`
	Name         string        `json:"name,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Type         string        `json:"type"`
	MatchType    string        `json:"matchType"`
	DrawsAllowed bool          `json:"drawsAllowed,omitempty"`
	League       *leagueJSON   `json:"league,omitempty"`
	Knockout     *knockoutJSON `json:"knockout,omitempty"`
	Sets         *setsJSON     `json:"sets,omitempty"`
	Matches      []matchJSON   `json:"matches"`
}

type leagueJSON struct {
	Ordering []string         `json:"ordering"`
	Points   leaguePointsJSON `json:"points"`
}

type leaguePointsJSON struct {
	Played    int `json:"played,omitempty"`
	Win       int `json:"win,omitempty"`
	WinByOne  int `json:"winByOne,omitempty"`
	Lose      int `json:"lose,omitempty"`
	LoseByOne int `json:"loseByOne,omitempty"`
	PerSet    int `json:"perSet,omitempty"`
	Forfeit   int `json:"forfeit,omitempty"`
}

type knockoutJSON struct {
	Standing []knockoutStandingJSON `json:"standing,omitempty"`
}

type knockoutStandingJSON struct {
	Position string `json:"position"`
	ID       string `json:"id"`
}

type setsJSON struct {
	MaxSets          int `json:"maxSets,omitempty"`
	SetsToWin        int `json:"setsToWin,omitempty"`
	ClearPoints      int `json:"clearPoints,omitempty"`
	MinPoints        int `json:"minPoints,omitempty"`
	MaxPoints        int `json:"maxPoints,omitempty"`
	LastSetPoints    int `json:"lastSetPoints,omitempty"`
	LastSetMaxPoints int `json:"lastSetMaxPoints,omitempty"`
}

// A matchJSON is either a match or a break, discriminated by
// the type field.
type matchJSON struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	HomeTeam *matchTeamJSON `json:"homeTeam,omitempty"`
	AwayTeam *matchTeamJSON `json:"awayTeam,omitempty"`

	Officials *officialsJSON `json:"officials,omitempty"`

	Court    string `json:"court,omitempty"`
	Venue    string `json:"venue,omitempty"`
	Date     string `json:"date,omitempty"`
	WarmUp   string `json:"warmup,omitempty"`
	Start    string `json:"start,omitempty"`
	Duration string `json:"duration,omitempty"`
	Name     string `json:"name,omitempty"`
	Notes    string `json:"notes,omitempty"`

	Complete *bool `json:"complete,omitempty"`
	Friendly bool  `json:"friendly,omitempty"`
}

type matchTeamJSON struct {
	ID            string `json:"id"`
	Scores        []int  `json:"scores,omitempty"`
	MVP           string `json:"mvp,omitempty"`
	Forfeit       bool   `json:"forfeit,omitempty"`
	BonusPoints   int    `json:"bonusPoints,omitempty"`
	PenaltyPoints int    `json:"penaltyPoints,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type officialsJSON struct {
	Team   string `json:"team,omitempty"`
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Scorer string `json:"scorer,omitempty"`
}
