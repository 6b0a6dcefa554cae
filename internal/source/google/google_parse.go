package google

import (
	"fmt"
	"strconv"
	"strings"

	"fuelstats/internal/core"
)

type badRow struct {
	row int // 1-based, as shown by the Sheets UI
	err error
}

// parseRows converts a values matrix (as returned by the Sheets API) into
// records. A leading header row is dropped; rows with missing or malformed
// numeric cells are reported and skipped. Dates are kept verbatim.
func parseRows(values [][]interface{}) ([]core.Record, []badRow) {
	var (
		out []core.Record
		bad []badRow
	)
	for i, raw := range values {
		cols := toStrings(raw)
		if isBlank(cols) {
			continue
		}
		if i == 0 && strings.EqualFold(safeGet(cols, 0), "amount") {
			continue
		}
		if len(cols) < 3 {
			bad = append(bad, badRow{row: i + 1, err: fmt.Errorf("expected 3 columns, got %d", len(cols))})
			continue
		}
		r, err := core.ParseRecord(cols[0], cols[1], cols[2])
		if err != nil {
			bad = append(bad, badRow{row: i + 1, err: err})
			continue
		}
		out = append(out, r)
	}
	return out, bad
}

// toStrings renders cells as text. Unformatted numeric cells arrive as
// float64 and are written without an exponent.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
