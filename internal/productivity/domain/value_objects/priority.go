package value_objects

import (
	"errors"
	"strings"
)

// Priority represents task urgency level.
// Values read back from storage are kept verbatim, so a Priority may hold a
// name outside the known set; use IsValid to check.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned to tasks created without an explicit priority.
const DefaultPriority = PriorityMedium

var (
	ErrInvalidPriority = errors.New("invalid priority value")
)

var priorityWeights = map[Priority]int{
	PriorityLow:    25,
	PriorityMedium: 50,
	PriorityHigh:   75,
	PriorityUrgent: 100,
}

// unknownPriorityWeight scores priorities outside the known set like medium.
const unknownPriorityWeight = 50

// ParsePriority creates a Priority from a string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is a valid value.
func (p Priority) IsValid() bool {
	_, ok := priorityWeights[p]
	return ok
}

// Weight returns the base smart-sort score for the priority (higher = more important).
func (p Priority) Weight() int {
	if w, ok := priorityWeights[p]; ok {
		return w
	}
	return unknownPriorityWeight
}
