package bookings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// MakeTSV writes a header and a set of worksheet rows as tab separated
// values. Rows wider than the header are written in full. The header is the
// worksheet's own and is written as is.
func MakeTSV(f io.Writer, header []string, rows [][]any) error {
	if len(header) == 0 {
		return fmt.Errorf("Missing/invalid header row")
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	record := make([]string, len(header))
	for i, v := range header {
		record[i] = clean(v)
	}

	if err := w.Write(record); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, len(row))
		for i := range row {
			record[i] = clean(cell(row, i))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// ReadTSV reads a TSV file written by MakeTSV. The first column must be the
// confirmation code. Ragged rows are accepted and returned as they are.
func ReadTSV(f io.Reader) ([]string, [][]any, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("TSV file is empty")
	}

	header := make([]string, len(records[0]))
	for i, v := range records[0] {
		header[i] = clean(v)
	}

	if expected := Columns[ConfirmationCode].Header; len(header) == 0 || normalise(header[0]) != normalise(expected) {
		found := ""
		if len(header) > 0 {
			found = header[0]
		}

		return nil, nil, fmt.Errorf("expected '%v' as the first column, found '%v'", expected, found)
	}

	rows := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}

		rows = append(rows, row)
	}

	return header, rows, nil
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
