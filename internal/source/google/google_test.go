package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fuelstats/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestParseRows(t *testing.T) {
	values := [][]interface{}{
		{"amount", "at_distance", "date_changed"},
		{"500", "1000", "2024-01-05"},
		{},
		{"", "", ""},
		{"abc", "1100", "2024-01-10"},
		{"600,5", 1400, "2024-01-20"},
		{"10", "1500"},
	}
	records, bad := parseRows(values)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %v", len(records), records)
	}
	if records[1].Amount.String() != "600.5" || records[1].AtDistance.String() != "1400" {
		t.Fatalf("unexpected record: %v", records[1])
	}
	if len(bad) != 2 || bad[0].row != 5 || bad[1].row != 7 {
		t.Fatalf("unexpected bad rows: %+v", bad)
	}
	if !errors.Is(bad[0].err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", bad[0].err)
	}
}

func TestParseRows_UnformattedNumbers(t *testing.T) {
	values := [][]interface{}{
		{"amount", "at_distance", "date_changed"},
		{12.5, float64(1000000), "2024-01-05"},
	}
	records, bad := parseRows(values)
	if len(bad) != 0 || len(records) != 1 {
		t.Fatalf("unexpected result: %v %+v", records, bad)
	}
	if records[0].Amount.String() != "12.5" || records[0].AtDistance.String() != "1000000" {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestParseRows_NoHeader(t *testing.T) {
	records, bad := parseRows([][]interface{}{{"1", "2", "2024-01-01"}})
	if len(records) != 1 || len(bad) != 0 {
		t.Fatalf("unexpected parse: records=%v bad=%v", records, bad)
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sheet-id")
}

func TestClient_ReadRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.Contains(r.URL.Path, "/spreadsheets/sheet-id/values/bike_history!A:C") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("valueRenderOption") != "UNFORMATTED_VALUE" || q.Get("dateTimeRenderOption") != "FORMATTED_STRING" {
			t.Errorf("unexpected render options: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range": "bike_history!A1:C3",
			"values": [][]string{
				{"amount", "at_distance", "date_changed"},
				{"500", "1000", "2024-01-05"},
				{"600", "1400", "2024-01-20"},
			},
		})
	})

	got, err := c.ReadRecords(context.Background(), "bike_history")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].DateChanged != "2024-01-05" {
		t.Fatalf("unexpected records: %v", got)
	}
}

func TestClient_AppendRecord(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":append") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
			t.Errorf("valueInputOption = %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"updates":{"updatedRange":"bike_history!A4:C4"}}`)
	})

	rec, _ := core.ParseRecord("12.5", "1500", "2024-01-21")
	ref, err := c.AppendRecord(context.Background(), "bike_history", rec)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "bike_history!A4:C4" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if !strings.Contains(body, `"12.5"`) || !strings.Contains(body, `"2024-01-21"`) {
		t.Fatalf("unexpected request body: %s", body)
	}
}

func TestClient_Errors(t *testing.T) {
	c := &Client{spreadsheetID: "test"} // svc is nil

	if _, err := c.ReadRecords(context.Background(), "bike history"); !errors.Is(err, core.ErrInvalidCollection) {
		t.Fatalf("expected ErrInvalidCollection, got %v", err)
	}
	if _, err := c.ReadRecords(context.Background(), "bike_history"); err == nil {
		t.Fatal("expected error with nil service")
	}
	bad, _ := core.ParseRecord("1", "1", "yesterday")
	if _, err := c.AppendRecord(context.Background(), "bike_history", bad); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "x"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}
