package core

import "time"

// Result is everything the engine derives from one record set.
type Result struct {
	Sorted     []Record
	Summary    Summary
	SummaryErr error // ErrNotEnoughData or ErrUndefinedMileage
	Breakdown  Breakdown
	Skips      []Skip
}

// Evaluate sorts records once and computes the summary and the breakdown
// from the same ordered slice. It never fails as a whole: a summary that
// cannot be produced is reported through SummaryErr.
func Evaluate(records []Record, now time.Time) Result {
	sorted := SortByDistance(records)
	summary, summarySkips, err := ComputeSummary(sorted, now)
	breakdown, breakdownSkips := ComputeBreakdown(sorted, now)
	return Result{
		Sorted:     sorted,
		Summary:    summary,
		SummaryErr: err,
		Breakdown:  breakdown,
		Skips:      append(summarySkips, breakdownSkips...),
	}
}
