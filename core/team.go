package core

import (
	"errors"
	"fmt"
	"strings"
)

// The ID of the singleton sentinel team that every failed
// resolution collapses to.
const UnknownTeamID = "UNKNOWN"

var (
	ErrEmptyID    = errors.New("empty ID")
	ErrReservedID = errors.New("ID contains a reserved character")
)

// Characters that would collide with the reference grammar.
// IDs are checked here so the parser never needs escaping.
const reservedIDChars = ":{}?=\""

// Checks that the given ID is usable for a team, club, player,
// stage, group or match.
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if strings.ContainsAny(id, reservedIDChars) {
		return fmt.Errorf("%w: %q", ErrReservedID, id)
	}
	return nil
}

// A Team is one of the sides competing in the matches of
// a competition.
type Team struct {
	ID    string
	Name  string
	Notes string

	// The ID of the club this team belongs to.
	// Empty when the team is unaffiliated.
	ClubID string
}

// Returns true when this team is the unknown-team sentinel.
func (t *Team) IsUnknown() bool {
	return t.ID == UnknownTeamID
}

func (t *Team) String() string {
	return t.ID
}

func NewTeam(id, name string) (*Team, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return &Team{ID: id, Name: name}, nil
}

func newUnknownTeam() *Team {
	return &Team{ID: UnknownTeamID, Name: UnknownTeamID}
}

// A Club is an organization that teams belong to.
type Club struct {
	ID    string
	Name  string
	Notes string
}

func NewClub(id, name string) (*Club, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return &Club{ID: id, Name: name}, nil
}

// A Player is a person registered with one of the teams.
type Player struct {
	ID     string
	Name   string
	Number int
	Notes  string

	// The ID of the team the player is registered with.
	// Empty when the player is not currently on a roster.
	TeamID string
}

func NewPlayer(id, name string) (*Player, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return &Player{ID: id, Name: name}, nil
}

// A single key/value pair of competition metadata.
// The pairs keep their insertion order.
type MetadataEntry struct {
	Key   string
	Value string
}
