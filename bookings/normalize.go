package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/garygangwu/cohosting-test/airbnb"
)

const (
	apiDateFormat   = "2006-01-02"
	sheetDateFormat = "1/2/2006"
)

// NormalizePayload converts an upstream reservations response into keyed
// reservations. A nil payload or a missing reservations list is not an
// error. A reservation that is missing a required field is: the whole
// payload is rejected.
func NormalizePayload(payload *airbnb.Payload) (*Reservations, error) {
	list := NewReservations()
	if payload == nil {
		return list, nil
	}

	for i, entry := range payload.Reservations {
		r, err := normalize(entry.Reservation)
		if err != nil {
			return nil, fmt.Errorf("reservation %d: %w", i, err)
		}

		list.Put(r.ConfirmationCode, *r)
	}

	return list, nil
}

func normalize(r *airbnb.Reservation) (*Reservation, error) {
	switch {
	case r == nil:
		return nil, fmt.Errorf("missing reservation")
	case r.StartDate == nil:
		return nil, fmt.Errorf("%v: missing start_date", r.ConfirmationCode)
	case r.Nights == nil:
		return nil, fmt.Errorf("%v: missing nights", r.ConfirmationCode)
	case r.Guest == nil || r.Guest.User == nil:
		return nil, fmt.Errorf("%v: missing guest", r.ConfirmationCode)
	case r.Guest.User.FirstName == nil || r.Guest.User.LastName == nil:
		return nil, fmt.Errorf("%v: missing guest name", r.ConfirmationCode)
	case r.Host == nil || r.Host.User == nil || r.Host.User.FirstName == nil:
		return nil, fmt.Errorf("%v: missing host", r.ConfirmationCode)
	case r.Listing == nil || r.Listing.Listing == nil || r.Listing.Listing.Name == nil:
		return nil, fmt.Errorf("%v: missing listing", r.ConfirmationCode)
	}

	checkin, err := time.Parse(apiDateFormat, strings.TrimSpace(*r.StartDate))
	if err != nil {
		return nil, fmt.Errorf("%v: invalid start_date '%v' (%w)", r.ConfirmationCode, *r.StartDate, err)
	}

	return &Reservation{
		ConfirmationCode: r.ConfirmationCode,
		CheckIn:          checkin,
		CheckOut:         checkin.AddDate(0, 0, *r.Nights),
		Guest:            *r.Guest.User.FirstName + " " + *r.Guest.User.LastName,
		NumberOfGuests:   r.NumberOfGuests,
		GuestEmail:       r.Guest.User.Email,
		Host:             *r.Host.User.FirstName,
		Listing:          *r.Listing.Listing.Name,
	}, nil
}

// NormalizeRows converts worksheet rows into keyed sheet records. The first
// headerRows rows are the worksheet header and are skipped, as are rows with
// no values at all.
//
// A row without a confirmation code (e.g. an owner block or a note) is not a
// booking but must survive the rewrite, so it is keyed by its 1-based sheet
// row ('#<row>') and an unparseable check-in is left as the zero date. For a
// row with a code a check-in that isn't a date is an error.
func NormalizeRows(rows [][]any, headerRows int) (*SheetRecords, error) {
	list := NewSheetRecords()
	if headerRows < 0 {
		headerRows = 0
	}

	if len(rows) <= headerRows {
		return list, nil
	}

	for i, row := range rows[headerRows:] {
		if blank(row) {
			continue
		}

		line := headerRows + i + 1
		code := clean(cell(row, ConfirmationCode.Index()))
		checkin, err := parseDate(cell(row, CheckIn.Index()))

		if code == "" {
			code = fmt.Sprintf("#%d", line)
		} else if err != nil {
			return nil, fmt.Errorf("row %d (%v): %w", line, code, err)
		}

		list.Put(code, SheetRecord{
			Code:    code,
			CheckIn: checkin,
			Row:     Row(row).clone(),
		})
	}

	return list, nil
}

// parseDate accepts the sheet's MM/DD/YYYY format and, for cells formatted as
// plain text, the ISO dates written back by the sync.
func parseDate(v string) (time.Time, error) {
	v = clean(v)
	if v == "" {
		return time.Time{}, nil
	}

	if d, err := time.Parse(sheetDateFormat, v); err == nil {
		return d, nil
	}

	if d, err := time.Parse(apiDateFormat, v); err == nil {
		return d, nil
	}

	return time.Time{}, fmt.Errorf("invalid check-in date '%v'", v)
}

func cell(row []any, ix int) string {
	if ix < 0 || ix >= len(row) || row[ix] == nil {
		return ""
	}

	if s, ok := row[ix].(string); ok {
		return s
	}

	return fmt.Sprintf("%v", row[ix])
}

func blank(row []any) bool {
	for i := range row {
		if clean(cell(row, i)) != "" {
			return false
		}
	}

	return true
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
