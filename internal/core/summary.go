package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PricePerLiter converts money spent into liters of fuel.
var PricePerLiter = decimal.NewFromInt(103)

// WeekWindow is the trailing lookback used for weekly figures.
const WeekWindow = 7 * 24 * time.Hour

// inWeek reports whether t falls in [now-WeekWindow, now]. Records dated
// after now are outside the window.
func inWeek(t, now time.Time) bool {
	return !t.Before(now.Add(-WeekWindow)) && !t.After(now)
}

var (
	ErrNotEnoughData    = errors.New("not enough data")
	ErrUndefinedMileage = errors.New("mileage undefined: total fuel is zero")
)

// Summary holds fuel economy and spending totals for one record set.
// Only Mileage is rounded; the other figures keep full precision.
type Summary struct {
	TotalDistance  decimal.Decimal
	TotalFuel      decimal.Decimal
	Mileage        decimal.Decimal
	TotalExpense   decimal.Decimal
	MonthlyExpense decimal.Decimal
	WeeklyExpense  decimal.Decimal
}

// ComputeSummary derives the Summary from records sorted by SortByDistance.
//
// The last record's amount is left out of TotalExpense: its fuel has not been
// burned yet, so it has no distance to pay for. The monthly and weekly sums
// include every record whose date parses; the others are reported as skips.
func ComputeSummary(sorted []Record, now time.Time) (Summary, []Skip, error) {
	if len(sorted) < 2 {
		return Summary{}, nil, ErrNotEnoughData
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	totalDistance := last.AtDistance.Sub(first.AtDistance)

	totalExpense := decimal.Zero
	for _, r := range sorted[:len(sorted)-1] {
		totalExpense = totalExpense.Add(r.Amount)
	}
	if totalExpense.IsZero() {
		return Summary{}, nil, ErrUndefinedMileage
	}
	totalFuel := totalExpense.Div(PricePerLiter)
	// distance * price / expense is distance / fuel without rounding the
	// intermediate fuel quotient.
	mileage := Round2(totalDistance.Mul(PricePerLiter).Div(totalExpense))

	loc := now.Location()
	year, month, _ := now.Date()

	monthly := decimal.Zero
	weekly := decimal.Zero
	var skips []Skip
	for i, r := range sorted {
		t, err := ParseDate(r.DateChanged, loc)
		if err != nil {
			skips = append(skips, Skip{Position: i, Stage: StageSummary, Record: r, Err: err})
			continue
		}
		t = t.In(loc)
		if y, m, _ := t.Date(); y == year && m == month {
			monthly = monthly.Add(r.Amount)
		}
		if inWeek(t, now) {
			weekly = weekly.Add(r.Amount)
		}
	}

	return Summary{
		TotalDistance:  totalDistance,
		TotalFuel:      totalFuel,
		Mileage:        mileage,
		TotalExpense:   totalExpense,
		MonthlyExpense: monthly,
		WeeklyExpense:  weekly,
	}, skips, nil
}
