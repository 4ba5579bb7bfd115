package core

import (
	"errors"
	"fmt"
)

var (
	ErrSetsToWinZero   = errors.New("sets to win are zero or less")
	ErrMaxSetsTooFew   = errors.New("max sets are less than the sets to win")
	ErrMinPointsZero   = errors.New("minimum points are zero or less")
	ErrMaxPointsTooFew = errors.New("max points are less than the minimum points")

	ErrUnequalSets    = errors.New("home and away have an unequal number of set scores")
	ErrTooManySets    = errors.New("too many sets")
	ErrNegativePoints = errors.New("negative points")
	ErrScoreLength    = errors.New("continuous matches carry exactly one score entry")
)

// The configuration of a best-of-sets match type.
type SetsConfig struct {
	// The maximum number of sets that may be played
	MaxSets int

	// The number of set wins that decides the match
	SetsToWin int

	// The point lead required to win a set
	ClearPoints int

	// The points either side must reach for a set
	// to count towards the standings
	MinPoints int

	// The points that win a set
	MaxPoints int

	// The points that win the deciding set
	LastSetPoints int

	// The hard point cap of the deciding set
	LastSetMaxPoints int
}

// The set configuration that applies when a group
// does not carry its own.
func DefaultSetsConfig() *SetsConfig {
	config := &SetsConfig{
		MaxSets:          5,
		SetsToWin:        3,
		ClearPoints:      2,
		MinPoints:        1,
		MaxPoints:        25,
		LastSetPoints:    15,
		LastSetMaxPoints: 1000,
	}
	return config
}

func (c *SetsConfig) Validate() error {
	if c.SetsToWin <= 0 {
		return ErrSetsToWinZero
	}
	if c.MaxSets < c.SetsToWin {
		return ErrMaxSetsTooFew
	}
	if c.MinPoints <= 0 {
		return ErrMinPointsZero
	}
	if c.MaxPoints < c.MinPoints {
		return ErrMaxPointsTooFew
	}
	return nil
}

// Checks the plausibility of a pair of set score slices
// against the configuration.
func (c *SetsConfig) CheckScores(home, away []int) error {
	if len(home) != len(away) {
		return ErrUnequalSets
	}
	if len(home) > c.MaxSets {
		return fmt.Errorf("%w: %d sets with a maximum of %d", ErrTooManySets, len(home), c.MaxSets)
	}
	for i := range home {
		if home[i] < 0 || away[i] < 0 {
			return ErrNegativePoints
		}
	}
	return nil
}

// Counts the sets won by each side.
//
// A set only counts once either side has reached the configured
// minimum points, so a set that has not meaningfully started does
// not influence the result.
func (c *SetsConfig) SetsWon(home, away []int) (int, int) {
	homeSets, awaySets := 0, 0
	for i := 0; i < len(home) && i < len(away); i++ {
		if home[i] < c.MinPoints && away[i] < c.MinPoints {
			continue
		}
		if home[i] > away[i] {
			homeSets++
		}
		if away[i] > home[i] {
			awaySets++
		}
	}
	return homeSets, awaySets
}
