package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"fuelstats/internal/core"
	"fuelstats/internal/services"
)

func writeText(w io.Writer, rep services.Report) error {
	fmt.Fprintf(w, "Collection %s at %s\n\n", rep.Collection, rep.Now.Format(time.RFC3339))

	fmt.Fprintln(w, "Records (by distance):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tamount\tat_distance\tdate_changed")
	for i, r := range rep.Sorted {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i, r.Amount, r.AtDistance, r.DateChanged)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nSummary:")
	if rep.SummaryErr != nil {
		fmt.Fprintf(w, "  %s\n", rep.SummaryErr)
	} else {
		s := rep.Summary
		fmt.Fprintf(w, "  Total distance:  %s km\n", s.TotalDistance.StringFixed(2))
		fmt.Fprintf(w, "  Total fuel:      %s L\n", s.TotalFuel.StringFixed(2))
		fmt.Fprintf(w, "  Mileage:         %s km/L\n", s.Mileage.StringFixed(2))
		fmt.Fprintf(w, "  Total expense:   %s\n", s.TotalExpense.StringFixed(2))
		fmt.Fprintf(w, "  Monthly expense: %s\n", s.MonthlyExpense.StringFixed(2))
		fmt.Fprintf(w, "  Weekly expense:  %s\n", s.WeeklyExpense.StringFixed(2))
	}

	fmt.Fprintln(w, "\nMonthly expenses:")
	for _, year := range rep.Breakdown.Years() {
		fmt.Fprintf(w, "  %s\n", year)
		for _, m := range rep.Breakdown.Monthly[year] {
			fmt.Fprintf(w, "    %s  amount %s  distance %s\n", m.Month, m.Amount.StringFixed(2), m.Distance.StringFixed(2))
		}
	}

	fmt.Fprintln(w, "\nWeekly expenses:")
	for _, day := range rep.Breakdown.Days() {
		fmt.Fprintf(w, "  %s  %s\n", day, rep.Breakdown.Weekly[day].StringFixed(2))
	}

	if len(rep.Skips) > 0 {
		fmt.Fprintln(w, "\nSkipped:")
		for _, sk := range rep.Skips {
			fmt.Fprintf(w, "  %s\n", sk)
		}
	}
	return nil
}

type jsonRecord struct {
	Amount      string `json:"amount"`
	AtDistance  string `json:"at_distance"`
	DateChanged string `json:"date_changed"`
}

type jsonSkip struct {
	Position int    `json:"position"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

type jsonMonth struct {
	Month    string `json:"month"`
	Amount   string `json:"amount"`
	Distance string `json:"distance"`
}

type jsonReport struct {
	Collection string                 `json:"collection"`
	Now        time.Time              `json:"now"`
	Records    []jsonRecord           `json:"records"`
	Summary    map[string]string      `json:"summary,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Monthly    map[string][]jsonMonth `json:"monthly_expenses"`
	Weekly     map[string]string      `json:"weekly_expenses"`
	Skips      []jsonSkip             `json:"skips"`
}

func writeJSON(w io.Writer, rep services.Report) error {
	out := jsonReport{
		Collection: rep.Collection,
		Now:        rep.Now,
		Records:    make([]jsonRecord, len(rep.Sorted)),
		Monthly:    make(map[string][]jsonMonth, len(rep.Breakdown.Monthly)),
		Weekly:     make(map[string]string, len(rep.Breakdown.Weekly)),
		Skips:      make([]jsonSkip, len(rep.Skips)),
	}
	for i, r := range rep.Sorted {
		out.Records[i] = jsonRecord{r.Amount.String(), r.AtDistance.String(), r.DateChanged}
	}
	if rep.SummaryErr != nil {
		out.Error = rep.SummaryErr.Error()
	} else {
		out.Summary = summaryFields(rep.Summary)
	}
	for year, months := range rep.Breakdown.Monthly {
		list := make([]jsonMonth, len(months))
		for i, m := range months {
			list[i] = jsonMonth{m.Month, m.Amount.StringFixed(2), m.Distance.StringFixed(2)}
		}
		out.Monthly[year] = list
	}
	for day, amount := range rep.Breakdown.Weekly {
		out.Weekly[day] = amount.StringFixed(2)
	}
	for i, sk := range rep.Skips {
		out.Skips[i] = jsonSkip{sk.Position, string(sk.Stage), sk.Reason()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func summaryFields(s core.Summary) map[string]string {
	return map[string]string{
		"total_distance_km": s.TotalDistance.String(),
		"total_fuel_liters": s.TotalFuel.StringFixed(2),
		"mileage_kmpl":      s.Mileage.StringFixed(2),
		"total_expense":     s.TotalExpense.String(),
		"monthly_expense":   s.MonthlyExpense.String(),
		"weekly_expense":    s.WeeklyExpense.String(),
	}
}
