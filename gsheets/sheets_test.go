package gsheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func TestColumn(t *testing.T) {
	tests := map[int64]string{
		1:   "A",
		8:   "H",
		10:  "J",
		26:  "Z",
		27:  "AA",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}

	for n, expected := range tests {
		if s := column(n); s != expected {
			t.Errorf("Incorrect column for %v - expected:%v, got:%v", n, expected, s)
		}
	}
}

func TestParseCell(t *testing.T) {
	row, col, err := parseCell("J1")
	if err != nil {
		t.Fatalf("Unexpected error parsing cell (%v)", err)
	}

	if row != 1 || col != 10 {
		t.Errorf("Incorrect cell - expected:%v,%v, got:%v,%v", 1, 10, row, col)
	}

	if row, col, _ := parseCell("aa12"); row != 12 || col != 27 {
		t.Errorf("Incorrect cell - expected:%v,%v, got:%v,%v", 12, 27, row, col)
	}

	for _, cell := range []string{"", "1J", "J", "J1:K2"} {
		if _, _, err := parseCell(cell); err == nil {
			t.Errorf("Expected error parsing invalid cell '%v'", cell)
		}
	}
}

func TestQuote(t *testing.T) {
	if q := quote("Mission"); q != "'Mission'" {
		t.Errorf("Incorrect quoted title - expected:%v, got:%v", "'Mission'", q)
	}

	if q := quote("Maíra's"); q != "'Maíra''s'" {
		t.Errorf("Incorrect quoted title - expected:%v, got:%v", "'Maíra''s'", q)
	}
}

func TestPlan(t *testing.T) {
	w := Worksheet{id: 7, title: "Mission", rows: 100, columns: 12, truncate: -1}

	w.Truncate(2)
	w.ClearRows(2)
	w.UpdateCells(2, 1, [][]any{{"A1", "H"}, {"A2", "H"}, {"A3", "H"}})
	w.SetCell("J1", "2024-01-01 10:00:00")

	p, err := w.plan()
	if err != nil {
		t.Fatalf("Unexpected error returned from plan (%v)", err)
	}

	requests := []*sheets.Request{
		{DeleteDimension: &sheets.DeleteDimensionRequest{Range: &sheets.DimensionRange{SheetId: 7, Dimension: "ROWS", StartIndex: 2, EndIndex: 100}}},
		{AppendDimension: &sheets.AppendDimensionRequest{SheetId: 7, Dimension: "ROWS", Length: 2}},
	}

	if !reflect.DeepEqual(p.requests, requests) {
		t.Errorf("Incorrect structural requests\n   expected: %+v\n   got:      %+v", requests, p.requests)
	}

	if !reflect.DeepEqual(p.clear, []string{"'Mission'!A2:L"}) {
		t.Errorf("Incorrect clear ranges - expected:%v, got:%v", []string{"'Mission'!A2:L"}, p.clear)
	}

	if len(p.data) != 2 || p.data[0].Range != "'Mission'!A2" || p.data[1].Range != "'Mission'!J1" {
		t.Errorf("Incorrect value ranges: %+v", p.data)
	}

	if p.rows != 4 || p.columns != 12 {
		t.Errorf("Incorrect grid size - expected:%vx%v, got:%vx%v", 4, 12, p.rows, p.columns)
	}
}

func TestPlanWithoutTruncation(t *testing.T) {
	w := Worksheet{id: 7, title: "Mission", rows: 2, columns: 8, truncate: -1}

	w.Truncate(2)
	w.ClearRows(2)
	w.UpdateCells(2, 1, [][]any{})

	p, err := w.plan()
	if err != nil {
		t.Fatalf("Unexpected error returned from plan (%v)", err)
	}

	if len(p.requests) != 0 {
		t.Errorf("Expected no structural requests, got %+v", p.requests)
	}

	if !reflect.DeepEqual(p.clear, []string{"'Mission'!A2:H"}) {
		t.Errorf("Incorrect clear ranges - expected:%v, got:%v", []string{"'Mission'!A2:H"}, p.clear)
	}
}

func TestPlanWithWideRows(t *testing.T) {
	w := Worksheet{id: 3, title: "SOMA", rows: 10, columns: 8, truncate: -1}

	w.UpdateCells(2, 1, [][]any{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}})

	p, err := w.plan()
	if err != nil {
		t.Fatalf("Unexpected error returned from plan (%v)", err)
	}

	requests := []*sheets.Request{
		{AppendDimension: &sheets.AppendDimensionRequest{SheetId: 3, Dimension: "COLUMNS", Length: 2}},
	}

	if !reflect.DeepEqual(p.requests, requests) {
		t.Errorf("Incorrect structural requests\n   expected: %+v\n   got:      %+v", requests, p.requests)
	}
}

func TestPlanWithInvalidCell(t *testing.T) {
	w := Worksheet{title: "Mission", rows: 10, columns: 8, truncate: -1}

	w.SetCell("nowhere", "x")

	if _, err := w.plan(); err == nil {
		t.Errorf("Expected error for invalid cell")
	}
}

func TestWorksheetRoundTrip(t *testing.T) {
	var mu sync.Mutex
	calls := []string{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/abc123"):
			json.NewEncoder(w).Encode(map[string]any{
				"spreadsheetId": "abc123",
				"sheets": []any{
					map[string]any{"properties": map[string]any{"sheetId": 0, "title": "Mission", "gridProperties": map[string]any{"rowCount": 5, "columnCount": 10}}},
					map[string]any{"properties": map[string]any{"sheetId": 9, "title": "SOMA", "gridProperties": map[string]any{"rowCount": 3, "columnCount": 10}}},
				},
			})

		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			json.NewEncoder(w).Encode(map[string]any{
				"range":  "Mission!A1:J5",
				"values": [][]any{{"Confirmation Code", "Host"}, {"XYZ", "H"}},
			})

		default:
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{}`))
		}
	}))
	defer ts.Close()

	ctx := context.Background()

	s, err := NewSpreadsheet(ctx, ts.Client(), "abc123", option.WithEndpoint(ts.URL+"/"))
	if err != nil {
		t.Fatalf("Unexpected error creating spreadsheet (%v)", err)
	}

	worksheets, err := s.Worksheets(ctx)
	if err != nil {
		t.Fatalf("Unexpected error retrieving worksheets (%v)", err)
	}

	if len(worksheets) != 2 || worksheets[0].Title() != "Mission" || worksheets[1].Title() != "SOMA" {
		t.Fatalf("Incorrect worksheets: %+v", worksheets)
	}

	rows, err := worksheets[0].Rows(ctx)
	if err != nil {
		t.Fatalf("Unexpected error retrieving rows (%v)", err)
	}

	if expected := [][]any{{"Confirmation Code", "Host"}, {"XYZ", "H"}}; !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v", expected, rows)
	}

	ws := worksheets[0]
	ws.Truncate(2)
	ws.ClearRows(2)
	ws.UpdateCells(2, 1, [][]any{{"XYZ", "H"}})
	ws.SetCell("J1", "now")

	if err := ws.Save(ctx); err != nil {
		t.Fatalf("Unexpected error saving worksheet (%v)", err)
	}

	mu.Lock()
	defer mu.Unlock()

	expected := []string{
		"GET /v4/spreadsheets/abc123",
		"GET /v4/spreadsheets/abc123/values/'Mission'",
		"POST /v4/spreadsheets/abc123:batchUpdate",
		"POST /v4/spreadsheets/abc123/values:batchClear",
		"POST /v4/spreadsheets/abc123/values:batchUpdate",
	}

	if !reflect.DeepEqual(calls, expected) {
		t.Errorf("Incorrect API calls\n   expected: %v\n   got:      %v", expected, calls)
	}
}
