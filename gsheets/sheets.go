package gsheets

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Spreadsheet is a Google Sheets spreadsheet identified by its ID.
type Spreadsheet struct {
	google *sheets.Service
	id     string
}

func NewSpreadsheet(ctx context.Context, client *http.Client, id string, opts ...option.ClientOption) (*Spreadsheet, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	google, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Spreadsheet{
		google: google,
		id:     id,
	}, nil
}

func (s *Spreadsheet) ID() string {
	return s.id
}

// Worksheets returns the tabs of the spreadsheet in display order.
func (s *Spreadsheet) Worksheets(ctx context.Context) ([]*Worksheet, error) {
	spreadsheet, err := s.google.Spreadsheets.Get(s.id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	list := []*Worksheet{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}

		w := Worksheet{
			google:      s.google,
			spreadsheet: s.id,
			id:          sheet.Properties.SheetId,
			title:       sheet.Properties.Title,
			truncate:    -1,
		}

		if grid := sheet.Properties.GridProperties; grid != nil {
			w.rows = grid.RowCount
			w.columns = grid.ColumnCount
		}

		list = append(list, &w)
	}

	return list, nil
}

// Worksheet is a single tab. Reads go straight to the API; writes are
// buffered and sent by Save.
type Worksheet struct {
	google      *sheets.Service
	spreadsheet string
	id          int64
	title       string
	rows        int64
	columns     int64

	truncate int64
	clear    int64
	updates  []update
}

type update struct {
	row    int64
	column int64
	values [][]any
}

func (w *Worksheet) Title() string {
	return w.title
}

// Rows returns every row of the worksheet, header included, as formatted
// cell values. Trailing empty cells are omitted by the API.
func (w *Worksheet) Rows(ctx context.Context) ([][]any, error) {
	response, err := w.google.Spreadsheets.Values.Get(w.spreadsheet, quote(w.title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from worksheet '%v' (%w)", w.title, err)
	}

	return response.Values, nil
}

// UpdateCells writes a block of rows with the top left cell at the 1-based
// row and column.
func (w *Worksheet) UpdateCells(row, column int, rows [][]any) {
	w.updates = append(w.updates, update{
		row:    int64(row),
		column: int64(column),
		values: rows,
	})
}

// SetCell writes a single value to an A1 cell e.g. 'J1'.
func (w *Worksheet) SetCell(cell string, value any) {
	row, column, err := parseCell(cell)
	if err != nil {
		row, column = 0, 0
	}

	w.updates = append(w.updates, update{
		row:    row,
		column: column,
		values: [][]any{{value}},
	})
}

// Truncate deletes every row after the first n rows.
func (w *Worksheet) Truncate(n int) {
	w.truncate = int64(n)
}

// ClearRows clears the values (but not the formatting) of every row from the
// 1-based row onwards.
func (w *Worksheet) ClearRows(from int) {
	w.clear = int64(from)
}

// Save sends the buffered changes: row deletion and grid expansion first,
// then clearing and finally the new values.
func (w *Worksheet) Save(ctx context.Context) error {
	p, err := w.plan()
	if err != nil {
		return err
	}

	if len(p.requests) > 0 {
		rq := sheets.BatchUpdateSpreadsheetRequest{
			Requests: p.requests,
		}

		if _, err := w.google.Spreadsheets.BatchUpdate(w.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error resizing worksheet '%v' (%w)", w.title, err)
		}
	}

	w.rows, w.columns = p.rows, p.columns

	if len(p.clear) > 0 {
		rq := sheets.BatchClearValuesRequest{
			Ranges: p.clear,
		}

		if _, err := w.google.Spreadsheets.Values.BatchClear(w.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error clearing worksheet '%v' (%w)", w.title, err)
		}
	}

	if len(p.data) > 0 {
		rq := sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             p.data,
		}

		if _, err := w.google.Spreadsheets.Values.BatchUpdate(w.spreadsheet, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error writing worksheet '%v' (%w)", w.title, err)
		}
	}

	w.truncate = -1
	w.clear = 0
	w.updates = nil

	return nil
}

type plan struct {
	requests []*sheets.Request
	clear    []string
	data     []*sheets.ValueRange
	rows     int64
	columns  int64
}

func (w *Worksheet) plan() (*plan, error) {
	p := plan{
		requests: []*sheets.Request{},
		clear:    []string{},
		data:     []*sheets.ValueRange{},
		rows:     w.rows,
		columns:  w.columns,
	}

	if w.truncate >= 0 && w.rows > w.truncate {
		p.requests = append(p.requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    w.id,
					Dimension:  "ROWS",
					StartIndex: w.truncate,
					EndIndex:   w.rows,
				},
			},
		})

		p.rows = w.truncate
	}

	if w.clear > 0 && w.clear <= p.rows {
		p.clear = append(p.clear, fmt.Sprintf("%v!A%v:%v", quote(w.title), w.clear, column(max(p.columns, 1))))
	}

	rows, columns := p.rows, p.columns
	for _, u := range w.updates {
		if u.row < 1 || u.column < 1 {
			return nil, fmt.Errorf("invalid cell for worksheet '%v' (row:%v column:%v)", w.title, u.row, u.column)
		}

		if len(u.values) == 0 {
			continue
		}

		width := 0
		for _, r := range u.values {
			width = max(width, len(r))
		}

		rows = max(rows, u.row+int64(len(u.values))-1)
		columns = max(columns, u.column+int64(width)-1)

		p.data = append(p.data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%v!%v%v", quote(w.title), column(u.column), u.row),
			Values: u.values,
		})
	}

	if rows > p.rows {
		p.requests = append(p.requests, &sheets.Request{
			AppendDimension: &sheets.AppendDimensionRequest{
				SheetId:   w.id,
				Dimension: "ROWS",
				Length:    rows - p.rows,
			},
		})
		p.rows = rows
	}

	if columns > p.columns {
		p.requests = append(p.requests, &sheets.Request{
			AppendDimension: &sheets.AppendDimensionRequest{
				SheetId:   w.id,
				Dimension: "COLUMNS",
				Length:    columns - p.columns,
			},
		})
		p.columns = columns
	}

	return &p, nil
}

func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// column converts a 1-based column number to its A1 letters.
func column(n int64) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}

	return s
}

func parseCell(cell string) (int64, int64, error) {
	match := regexp.MustCompile(`^\s*([A-Za-z]+)([0-9]+)\s*$`).FindStringSubmatch(cell)
	if len(match) < 3 {
		return 0, 0, fmt.Errorf("invalid cell '%v'", cell)
	}

	col := int64(0)
	for _, ch := range strings.ToUpper(match[1]) {
		col = col*26 + int64(ch-'A'+1)
	}

	row, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return row, col, nil
}
