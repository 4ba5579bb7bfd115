package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyReference     = errors.New("empty team reference")
	ErrMalformedReference = errors.New("malformed team reference")
)

// The entity field of a league position reference.
const leagueEntity = "league"

// A Reference denotes a team indirectly. It is produced by
// ParseReference and resolved against a Competition at query time.
//
// The four shapes are Literal, LeaguePositionRef, MatchRef
// and Ternary.
type Reference interface {
	// Returns the canonical source form of the reference
	String() string

	isReference()
}

// A Literal is a plain team ID.
type Literal struct {
	TeamID string
}

func (r *Literal) String() string { return r.TeamID }
func (r *Literal) isReference()   {}

// A LeaguePositionRef denotes the team at a 1-based position
// in the final standings of a league group.
type LeaguePositionRef struct {
	Stage    string
	Group    string
	Position int
}

func (r *LeaguePositionRef) String() string {
	return fmt.Sprintf("{%s:%s:%s:%d}", r.Stage, r.Group, leagueEntity, r.Position)
}
func (r *LeaguePositionRef) isReference() {}

// A MatchRef denotes the winner or loser of a match in a group.
type MatchRef struct {
	Stage string
	Group string
	Match string

	// True when the reference denotes the loser of the match
	Loser bool
}

func (r *MatchRef) String() string {
	entity := "winner"
	if r.Loser {
		entity = "loser"
	}
	return fmt.Sprintf("{%s:%s:%s:%s}", r.Stage, r.Group, r.Match, entity)
}
func (r *MatchRef) isReference() {}

// A Ternary compares the resolutions of Left and Right and
// denotes the True branch when they are the same team, the
// False branch otherwise.
//
// Only one level of ternary is supported. The operands and
// branches are literals or bracketed references, never
// ternaries themselves.
type Ternary struct {
	Left  Reference
	Right Reference
	True  Reference
	False Reference
}

func (r *Ternary) String() string {
	return fmt.Sprintf("%s==%s?%s:%s", r.Left, r.Right, r.True, r.False)
}
func (r *Ternary) isReference() {}

// Parses a raw team reference string into its AST form without
// resolving it.
//
// A string that begins with '{' but matches none of the known
// shapes is a parse error, not a fallback to a literal.
func ParseReference(s string) (Reference, error) {
	return parseReference(s, true)
}

func parseReference(s string, allowTernary bool) (Reference, error) {
	if s == "" {
		return nil, ErrEmptyReference
	}

	if i := indexTopLevel(s, "=="); i >= 0 {
		if !allowTernary {
			return nil, fmt.Errorf("%w: nested ternary in %q", ErrMalformedReference, s)
		}
		return parseTernary(s)
	}

	if strings.HasPrefix(s, "{") {
		return parseBracketed(s)
	}

	if strings.ContainsAny(s, "{}?") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReference, s)
	}

	return &Literal{TeamID: s}, nil
}

func parseTernary(s string) (Reference, error) {
	leftStr, rest, _ := cutTopLevel(s, "==")

	rightStr, branches, found := cutTopLevel(rest, "?")
	if !found {
		return nil, fmt.Errorf("%w: ternary without '?' in %q", ErrMalformedReference, s)
	}

	trueStr, falseStr, found := cutTopLevel(branches, ":")
	if !found {
		return nil, fmt.Errorf("%w: ternary without ':' in %q", ErrMalformedReference, s)
	}

	left, err := parseReference(leftStr, false)
	if err != nil {
		return nil, err
	}
	right, err := parseReference(rightStr, false)
	if err != nil {
		return nil, err
	}
	trueBranch, err := parseReference(trueStr, false)
	if err != nil {
		return nil, err
	}
	falseBranch, err := parseReference(falseStr, false)
	if err != nil {
		return nil, err
	}

	ternary := &Ternary{
		Left:  left,
		Right: right,
		True:  trueBranch,
		False: falseBranch,
	}
	return ternary, nil
}

func parseBracketed(s string) (Reference, error) {
	if len(s) < 2 || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("%w: unterminated reference %q", ErrMalformedReference, s)
	}

	body := s[1 : len(s)-1]
	if strings.ContainsAny(body, "{}") {
		return nil, fmt.Errorf("%w: nested braces in %q", ErrMalformedReference, s)
	}

	fields := strings.Split(body, ":")
	if len(fields) != 4 {
		return nil, fmt.Errorf(
			"%w: expected 4 colon-delimited fields in %q, got %d",
			ErrMalformedReference, s, len(fields),
		)
	}
	for _, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("%w: empty field in %q", ErrMalformedReference, s)
		}
	}

	stage, group, kind, entity := fields[0], fields[1], fields[2], fields[3]

	if kind == leagueEntity {
		position, err := strconv.Atoi(entity)
		if err != nil || position < 1 {
			return nil, fmt.Errorf(
				"%w: league position must be a positive number in %q",
				ErrMalformedReference, s,
			)
		}
		ref := &LeaguePositionRef{Stage: stage, Group: group, Position: position}
		return ref, nil
	}

	switch entity {
	case "winner", "loser":
	default:
		return nil, fmt.Errorf(
			"%w: match entity must be winner or loser in %q",
			ErrMalformedReference, s,
		)
	}

	ref := &MatchRef{Stage: stage, Group: group, Match: kind, Loser: entity == "loser"}
	return ref, nil
}

// Returns the index of the first occurrence of sep that is not
// inside a '{...}' group, or -1.
func indexTopLevel(s, sep string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				return i
			}
		}
	}
	return -1
}

// Splits s around the first top-level occurrence of sep.
func cutTopLevel(s, sep string) (before, after string, found bool) {
	i := indexTopLevel(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// Collects the distinct (stage, group) pairs mentioned by the
// bracketed parts of a reference.
func referencedGroupKeys(ref Reference, keys map[groupKey]bool) {
	switch r := ref.(type) {
	case *LeaguePositionRef:
		keys[groupKey{Stage: r.Stage, Group: r.Group}] = true
	case *MatchRef:
		keys[groupKey{Stage: r.Stage, Group: r.Group}] = true
	case *Ternary:
		referencedGroupKeys(r.Left, keys)
		referencedGroupKeys(r.Right, keys)
		referencedGroupKeys(r.True, keys)
		referencedGroupKeys(r.False, keys)
	}
}
