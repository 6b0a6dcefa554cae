package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(amount, distance, date string) Record {
	return Record{
		Amount:      decimal.RequireFromString(amount),
		AtDistance:  decimal.RequireFromString(distance),
		DateChanged: date,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var processing = time.Date(2024, time.January, 22, 12, 0, 0, 0, time.UTC)

func TestComputeSummary_TwoRecords(t *testing.T) {
	records := []Record{
		rec("600", "1400", "2024-01-20"),
		rec("500", "1000", "2024-01-05"),
	}

	s, skips, err := ComputeSummary(SortByDistance(records), processing)
	require.NoError(t, err)
	assert.Empty(t, skips)

	assert.True(t, s.TotalDistance.Equal(dec("400")), "distance %s", s.TotalDistance)
	assert.True(t, s.TotalExpense.Equal(dec("500")), "last record must be excluded, got %s", s.TotalExpense)
	assert.Equal(t, "4.85", s.TotalFuel.StringFixed(2))
	assert.True(t, s.Mileage.Equal(dec("82.40")), "mileage %s", s.Mileage)
	// both purchases fall in January 2024
	assert.True(t, s.MonthlyExpense.Equal(dec("1100")))
	// only the 2024-01-20 purchase is within the 7 days before Jan 22 noon
	assert.True(t, s.WeeklyExpense.Equal(dec("600")))
}

func TestComputeSummary_NotEnoughData(t *testing.T) {
	for _, records := range [][]Record{nil, {}, {rec("10", "1", "2024-01-01")}} {
		_, _, err := ComputeSummary(records, processing)
		require.ErrorIs(t, err, ErrNotEnoughData)
	}
}

func TestComputeSummary_IdenticalDistances(t *testing.T) {
	sorted := SortByDistance([]Record{
		rec("300", "5000", "2024-01-10"),
		rec("200", "5000", "2024-01-11"),
	})

	s, _, err := ComputeSummary(sorted, processing)
	require.NoError(t, err)
	assert.True(t, s.TotalDistance.IsZero())
	assert.True(t, s.Mileage.IsZero())
	assert.True(t, s.TotalExpense.Equal(dec("300")))
}

func TestComputeSummary_UndefinedMileage(t *testing.T) {
	sorted := SortByDistance([]Record{
		rec("0", "100", "2024-01-01"),
		rec("0", "200", "2024-01-02"),
		rec("999", "300", "2024-01-03"), // excluded as the last record
	})

	_, _, err := ComputeSummary(sorted, processing)
	require.ErrorIs(t, err, ErrUndefinedMileage)
}

func TestComputeSummary_MalformedDateOnlyAffectsWindows(t *testing.T) {
	sorted := SortByDistance([]Record{
		rec("100", "1000", "2024-01-18"),
		rec("100", "1100", "yesterday"),
		rec("100", "1200", "2024-01-21T08:30:00"),
	})

	s, skips, err := ComputeSummary(sorted, processing)
	require.NoError(t, err)
	require.Len(t, skips, 1)
	assert.Equal(t, 1, skips[0].Position)
	assert.Equal(t, StageSummary, skips[0].Stage)
	assert.ErrorIs(t, skips[0].Err, ErrInvalidDate)

	// totals still include the malformed record
	assert.True(t, s.TotalExpense.Equal(dec("200")))
	assert.True(t, s.MonthlyExpense.Equal(dec("200")))
	assert.True(t, s.WeeklyExpense.Equal(dec("200")))
}

func TestComputeSummary_WeekBoundaryIsInclusive(t *testing.T) {
	boundary := processing.Add(-WeekWindow)
	sorted := SortByDistance([]Record{
		rec("10", "1", boundary.Format(time.RFC3339)),
		rec("20", "2", boundary.Add(-time.Second).Format(time.RFC3339)),
		rec("40", "3", processing.Format(time.RFC3339)),
	})

	s, _, err := ComputeSummary(sorted, processing)
	require.NoError(t, err)
	assert.True(t, s.WeeklyExpense.Equal(dec("50")), "got %s", s.WeeklyExpense)
}

func TestComputeSummary_MonthUsesProcessingLocation(t *testing.T) {
	cet := time.FixedZone("CET", 60*60)
	now := time.Date(2024, time.February, 10, 9, 0, 0, 0, cet)

	sorted := SortByDistance([]Record{
		// 23:30 UTC on Jan 31 is already February in CET
		rec("70", "10", "2024-01-31T23:30:00Z"),
		// naive values are read in the processing location
		rec("30", "20", "2024-02-01 00:10:00"),
		rec("50", "30", "2024-01-31"),
	})

	s, _, err := ComputeSummary(sorted, now)
	require.NoError(t, err)
	assert.True(t, s.MonthlyExpense.Equal(dec("100")), "got %s", s.MonthlyExpense)
}

func TestComputeSummary_TotalDistanceNeverNegative(t *testing.T) {
	// arrival order has the odometer going backwards
	records := []Record{
		rec("10", "900", "2024-01-03"),
		rec("10", "1200", "2024-01-01"),
		rec("10", "300", "2024-01-02"),
	}
	s, _, err := ComputeSummary(SortByDistance(records), processing)
	require.NoError(t, err)
	assert.False(t, s.TotalDistance.IsNegative())
	assert.True(t, s.TotalDistance.Equal(dec("900")))
}

func TestComputeSummary_FutureDatedRecordsOutsideWeek(t *testing.T) {
	sorted := SortByDistance([]Record{
		rec("100", "1000", "2024-01-20"),
		rec("999", "1100", "2025-06-01"),
		rec("50", "1200", processing.Add(time.Second).Format(time.RFC3339)),
	})

	s, _, err := ComputeSummary(sorted, processing)
	require.NoError(t, err)
	assert.True(t, s.WeeklyExpense.Equal(dec("100")), "got %s", s.WeeklyExpense)
	// the future record still counts toward totals
	assert.True(t, s.TotalExpense.Equal(dec("1099")))
}
