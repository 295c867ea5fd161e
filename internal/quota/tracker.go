// Package quota enforces the per-plan daily analysis ceiling. Days roll over
// at midnight UTC-5 (the user base's timezone), regardless of server
// timezone. The check is advisory: nothing reserves a slot between the check
// and the record insert, so two concurrent requests from one account can
// both pass — accepted, the limit is a product ceiling, not a billing
// guarantee.
package quota

import (
	"strings"
	"time"
)

// Daily analysis limits per plan. Unknown plan strings get the free limit.
const (
	PlanFree  = "free"
	PlanPro   = "pro"
	PlanElite = "elite"
)

var planLimits = map[string]int{
	PlanFree:  3,
	PlanPro:   10,
	PlanElite: 25,
}

// dayZone is the fixed UTC-5 offset the calendar day is computed in.
var dayZone = time.FixedZone("UTC-5", -5*60*60)

// AnalysisCounter counts persisted analysis records for an account inside a
// time window. Implemented by storage.Repository.
type AnalysisCounter interface {
	CountAnalysesBetween(accountID uint, from, to time.Time) (int, error)
}

// Status is the outcome of a quota check.
type Status struct {
	Allowed   bool `json:"allowed"`
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
}

// Tracker answers whether an account may run another analysis today.
type Tracker struct {
	counter AnalysisCounter
	now     func() time.Time
}

func NewTracker(counter AnalysisCounter) *Tracker {
	return &Tracker{counter: counter, now: time.Now}
}

// NewTrackerWithClock is used by tests to pin the current time.
func NewTrackerWithClock(counter AnalysisCounter, now func() time.Time) *Tracker {
	return &Tracker{counter: counter, now: now}
}

// PlanLimit returns the daily limit for a plan name. The lookup is
// case-insensitive so a row stored as "PRO" still gets the pro limit.
func PlanLimit(plan string) int {
	if l, ok := planLimits[strings.ToLower(plan)]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// Check counts the account's analyses within the current UTC-5 calendar day
// and compares against the plan limit. Callers must re-check immediately
// before invoking the model; the result is never cached.
func (t *Tracker) Check(accountID uint, plan string) (Status, error) {
	from, to := t.dayWindow()
	used, err := t.counter.CountAnalysesBetween(accountID, from, to)
	if err != nil {
		return Status{}, err
	}

	limit := PlanLimit(plan)
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Allowed:   used < limit,
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}

// dayWindow returns the [start, end) bounds of the current calendar day in
// the fixed UTC-5 zone.
func (t *Tracker) dayWindow() (time.Time, time.Time) {
	now := t.now().In(dayZone)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, dayZone)
	return start, start.Add(24 * time.Hour)
}
