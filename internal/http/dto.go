package http

import (
	"bytes"
	"encoding/json"

	"fuelstats/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalFuelLiters float64 `json:"total_fuel_liters"`
	MileageKmpl     float64 `json:"mileage_kmpl"`
	TotalExpense    float64 `json:"total_expense"`
	MonthlyExpense  float64 `json:"monthly_expense"`
	WeeklyExpense   float64 `json:"weekly_expense"`
}

func newSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		TotalDistanceKm: s.TotalDistance.InexactFloat64(),
		TotalFuelLiters: core.Round2(s.TotalFuel).InexactFloat64(),
		MileageKmpl:     s.Mileage.InexactFloat64(),
		TotalExpense:    s.TotalExpense.InexactFloat64(),
		MonthlyExpense:  s.MonthlyExpense.InexactFloat64(),
		WeeklyExpense:   s.WeeklyExpense.InexactFloat64(),
	}
}

type monthResponse struct {
	Amount   float64 `json:"amount"`
	Distance float64 `json:"distance"`
}

// yearResponse encodes as an object whose month keys stay in calendar order.
type yearResponse core.MonthlyExpenses

func (y yearResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range y {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Month)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(monthResponse{
			Amount:   m.Amount.InexactFloat64(),
			Distance: m.Distance.InexactFloat64(),
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type breakdownResponse struct {
	MonthlyExpenses map[string]yearResponse `json:"monthly_expenses"`
	WeeklyExpenses  map[string]float64      `json:"weekly_expenses"`
}

func newBreakdownResponse(b core.Breakdown) breakdownResponse {
	out := breakdownResponse{
		MonthlyExpenses: make(map[string]yearResponse, len(b.Monthly)),
		WeeklyExpenses:  make(map[string]float64, len(b.Weekly)),
	}
	for year, months := range b.Monthly {
		out.MonthlyExpenses[year] = yearResponse(months)
	}
	for day, amount := range b.Weekly {
		out.WeeklyExpenses[day] = amount.InexactFloat64()
	}
	return out
}

// createRecordRequest accepts numbers either as JSON numbers or numeric strings.
type createRecordRequest struct {
	Amount      json.Number `json:"amount"`
	AtDistance  json.Number `json:"at_distance"`
	DateChanged string      `json:"date_changed"`
}

type createRecordResponse struct {
	Ref string `json:"ref"`
}
