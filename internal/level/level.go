// Package level maps accuracy and mastery signals to a proficiency level.
package level

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a proficiency tier. Levels are totally ordered.
type Level int

const (
	Beginner Level = iota
	Intermediate
	Advanced
)

// NoMastery marks an absent mastery signal for Adjust.
const NoMastery = -1.0

var ErrUnknownLevel = errors.New("unknown level")

var names = [...]string{"Beginner", "Intermediate", "Advanced"}

func (l Level) String() string {
	if l < Beginner || l > Advanced {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return names[l]
}

// Parse reads a level name, case-insensitively.
func Parse(s string) (Level, error) {
	for i, n := range names {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Level(i), nil
		}
	}
	return Beginner, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Classify maps a diagnostic score in [0,100] straight to a level.
func Classify(score float64) Level {
	switch {
	case score >= 75:
		return Advanced
	case score >= 40:
		return Intermediate
	default:
		return Beginner
	}
}

// Adjust moves current at most one step. With a mastery signal (>= 0)
// it promotes above 80 and demotes below 50; without one it uses accuracy,
// promoting above 80 and demoting below 40.
func Adjust(current Level, accuracy, mastery float64) Level {
	up, down := accuracy > 80, accuracy < 40
	if mastery >= 0 {
		up, down = mastery > 80, mastery < 50
	}
	switch {
	case up && current < Advanced:
		return current + 1
	case down && current > Beginner:
		return current - 1
	default:
		return current
	}
}

// Track is a session's current level plus the append-only history of
// levels it has held. A track is unassessed until the first diagnostic.
type Track struct {
	Current  Level   `json:"current"`
	Assessed bool    `json:"assessed"`
	History  []Level `json:"history"`
}

// Diagnose sets the level from a diagnostic score and records it.
func (t *Track) Diagnose(score float64) Level {
	t.Current = Classify(score)
	t.Assessed = true
	t.History = append(t.History, t.Current)
	return t.Current
}

// Adjust applies one transition and records the new level when it changed.
func (t *Track) Adjust(accuracy, mastery float64) (Level, bool) {
	next := Adjust(t.Current, accuracy, mastery)
	if next == t.Current {
		return next, false
	}
	t.Current = next
	t.History = append(t.History, next)
	return next, true
}

// Label is the current level name, or "unassessed".
func (t Track) Label() string {
	if !t.Assessed {
		return "unassessed"
	}
	return t.Current.String()
}
