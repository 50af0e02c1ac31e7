package value_objects

import "errors"

var ErrInvalidEstimate = errors.New("estimated time must not be negative")

const (
	// QuickWinThreshold is the largest estimate, in minutes, that counts as a quick win.
	QuickWinThreshold = 15
	// DefaultTimeSpent is credited to daily stats when a completed task has no estimate.
	DefaultTimeSpent = 30
)

// Estimate is an optional effort estimate in whole minutes.
type Estimate struct {
	minutes int
	set     bool
}

// NewEstimate creates an Estimate of the given number of minutes.
func NewEstimate(minutes int) (Estimate, error) {
	if minutes < 0 {
		return Estimate{}, ErrInvalidEstimate
	}
	return Estimate{minutes: minutes, set: true}, nil
}

// EstimateFromPtr converts an optional minute count; nil yields no estimate.
func EstimateFromPtr(minutes *int) (Estimate, error) {
	if minutes == nil {
		return NoEstimate(), nil
	}
	return NewEstimate(*minutes)
}

// NoEstimate returns an absent estimate.
func NoEstimate() Estimate {
	return Estimate{}
}

// Minutes returns the estimate and whether one is set.
func (e Estimate) Minutes() (int, bool) {
	return e.minutes, e.set
}

// Ptr returns the estimate as an optional int for serialization.
func (e Estimate) Ptr() *int {
	if !e.set {
		return nil
	}
	m := e.minutes
	return &m
}

// IsZero returns true when no estimate is set.
func (e Estimate) IsZero() bool {
	return !e.set
}

// IsQuickWin reports whether the estimate is set, non-zero and at most QuickWinThreshold.
// A zero estimate is treated like a missing one.
func (e Estimate) IsQuickWin() bool {
	return e.set && e.minutes > 0 && e.minutes <= QuickWinThreshold
}

// TimeSpent returns the minutes credited when the task is completed.
func (e Estimate) TimeSpent() int {
	if !e.set || e.minutes == 0 {
		return DefaultTimeSpent
	}
	return e.minutes
}
