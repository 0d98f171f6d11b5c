// Package graduation decides whether a candidate alumnus has already
// graduated as of "now".
package graduation

import "time"

// Clock supplies the current time. Tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Policy is the graduation-eligibility predicate.
type Policy struct {
	clock Clock
}

// NewPolicy returns a Policy reading the current year from clock.
// A nil clock falls back to SystemClock.
func NewPolicy(clock Clock) *Policy {
	if clock == nil {
		clock = SystemClock
	}
	return &Policy{clock: clock}
}

// CurrentYear is the calendar year the policy evaluates against.
func (p *Policy) CurrentYear() int {
	return p.clock.Now().Year()
}

// IsGraduated reports whether someone passing out in passOutYear has
// graduated. The course duration does not gate the decision when a
// pass-out year is present; a non-positive year is never graduated.
func (p *Policy) IsGraduated(passOutYear, courseDurationYears int) bool {
	if passOutYear <= 0 {
		return false
	}
	return passOutYear <= p.CurrentYear()
}

// IsGraduatedFrom is the duration-based mode: someone who started in
// startYear has graduated once startYear+courseDurationYears is not in
// the future. The import pipeline never uses it since rows only carry a
// pass-out year.
func (p *Policy) IsGraduatedFrom(startYear, courseDurationYears int) bool {
	if startYear <= 0 || courseDurationYears <= 0 {
		return false
	}
	return startYear+courseDurationYears <= p.CurrentYear()
}
