package core

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MonthExpense is the spending and distance attributed to one calendar month.
type MonthExpense struct {
	Month    string // "Jan".."Dec"
	Amount   decimal.Decimal
	Distance decimal.Decimal
}

// MonthlyExpenses lists the months of a year that have data, January first.
type MonthlyExpenses []MonthExpense

// Breakdown buckets spending per year/month and per day of the trailing week.
type Breakdown struct {
	Monthly map[string]MonthlyExpenses  // keyed by year, e.g. "2024"
	Weekly  map[string]decimal.Decimal // keyed by day, DayLayout
}

type monthBucket struct {
	amount   decimal.Decimal
	distance decimal.Decimal
}

// ComputeBreakdown groups records sorted by SortByDistance into monthly and
// weekly buckets.
//
// Each record is credited with the distance driven since the previous record
// in sorted order, clamped at zero; the first record has no predecessor and
// is credited nothing. Records whose date does not parse are skipped but still
// serve as the predecessor of the next one. Fewer than two records carry no
// distance information and yield empty maps.
func ComputeBreakdown(sorted []Record, now time.Time) (Breakdown, []Skip) {
	if len(sorted) < 2 {
		return Breakdown{
			Monthly: map[string]MonthlyExpenses{},
			Weekly:  map[string]decimal.Decimal{},
		}, nil
	}

	loc := now.Location()

	grouped := map[string]map[time.Month]*monthBucket{}
	weekly := map[string]decimal.Decimal{}
	var skips []Skip

	for i, r := range sorted {
		t, err := ParseDate(r.DateChanged, loc)
		if err != nil {
			skips = append(skips, Skip{Position: i, Stage: StageBreakdown, Record: r, Err: err})
			continue
		}
		t = t.In(loc)

		prev := r.AtDistance
		if i > 0 {
			prev = sorted[i-1].AtDistance
		}
		covered := decimal.Max(decimal.Zero, r.AtDistance.Sub(prev))

		year := strconv.Itoa(t.Year())
		months, ok := grouped[year]
		if !ok {
			months = map[time.Month]*monthBucket{}
			grouped[year] = months
		}
		b, ok := months[t.Month()]
		if !ok {
			b = &monthBucket{}
			months[t.Month()] = b
		}
		b.amount = b.amount.Add(r.Amount)
		b.distance = b.distance.Add(covered)

		if inWeek(t, now) {
			day := t.Format(DayLayout)
			weekly[day] = weekly[day].Add(r.Amount)
		}
	}

	out := Breakdown{
		Monthly: make(map[string]MonthlyExpenses, len(grouped)),
		Weekly:  make(map[string]decimal.Decimal, len(weekly)),
	}
	for year, months := range grouped {
		list := make(MonthlyExpenses, 0, len(months))
		for m := time.January; m <= time.December; m++ {
			b, ok := months[m]
			if !ok {
				continue
			}
			list = append(list, MonthExpense{
				Month:    MonthLabel(m),
				Amount:   Round2(b.amount),
				Distance: Round2(b.distance),
			})
		}
		out.Monthly[year] = list
	}
	for day, amount := range weekly {
		out.Weekly[day] = Round2(amount)
	}
	return out, skips
}

// Years returns the years present in the monthly breakdown in ascending order.
func (b Breakdown) Years() []string {
	years := make([]string, 0, len(b.Monthly))
	for y := range b.Monthly {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Days returns the weekly day labels in ascending order.
func (b Breakdown) Days() []string {
	days := make([]string, 0, len(b.Weekly))
	for d := range b.Weekly {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// TotalDistance sums the distance credited to every month.
func (b Breakdown) TotalDistance() decimal.Decimal {
	total := decimal.Zero
	for _, months := range b.Monthly {
		for _, m := range months {
			total = total.Add(m.Distance)
		}
	}
	return total
}
