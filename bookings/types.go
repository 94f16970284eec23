package bookings

import (
	"fmt"
	"time"
)

// DateFormat is the layout used for dates written back to the worksheet.
const DateFormat = "2006-01-02"

type Reservation struct {
	ConfirmationCode string
	CheckIn          time.Time
	CheckOut         time.Time
	Guest            string
	NumberOfGuests   int
	GuestEmail       string
	Host             string
	Listing          string
}

type SheetRecord struct {
	Code    string
	CheckIn time.Time
	Row     Row
}

// Row is a verbatim worksheet row. Cells past the synced columns are opaque.
type Row []any

type Source int

const (
	Kept Source = iota
	Updated
	Added
)

func (s Source) String() string {
	switch s {
	case Kept:
		return "kept"
	case Updated:
		return "updated"
	case Added:
		return "added"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Booking is a reconciled record. Sheet derived bookings carry Row, upstream
// only bookings carry Reservation and a nil Row.
type Booking struct {
	Code        string
	CheckIn     time.Time
	Source      Source
	Reservation *Reservation
	Row         Row
}

func (r Reservation) value(f Field) any {
	switch f {
	case ConfirmationCode:
		return r.ConfirmationCode
	case Host:
		return r.Host
	case Listing:
		return r.Listing
	case CheckIn:
		return r.CheckIn.Format(DateFormat)
	case CheckOut:
		return r.CheckOut.Format(DateFormat)
	case Guest:
		return r.Guest
	case NumberOfGuests:
		return r.NumberOfGuests
	case GuestEmail:
		return r.GuestEmail
	default:
		return ""
	}
}

// Row builds the synced columns for a reservation in worksheet column order.
func (r Reservation) Row() Row {
	row := make(Row, Width())
	for f := Field(0); f < fields; f++ {
		row[f.Index()] = r.value(f)
	}

	return row
}

func (r Row) clone() Row {
	if r == nil {
		return nil
	}

	row := make(Row, len(r))
	copy(row, r)

	return row
}

// overwrite returns a copy of the row with the synced columns replaced by
// the reservation fields. Trailing cells are left as is.
func (r Row) overwrite(reservation Reservation) Row {
	row := r.clone()
	if w := Width(); len(row) < w {
		row = append(row, make(Row, w-len(row))...)
	}

	for f := Field(0); f < fields; f++ {
		row[f.Index()] = reservation.value(f)
	}

	return row
}

// keyed is an insertion ordered map. Re-putting an existing key replaces the
// value but keeps the key's original position.
type keyed[V any] struct {
	keys  []string
	index map[string]V
}

func (k *keyed[V]) Put(code string, v V) {
	if k.index == nil {
		k.index = map[string]V{}
	}

	if _, ok := k.index[code]; !ok {
		k.keys = append(k.keys, code)
	}

	k.index[code] = v
}

func (k *keyed[V]) Get(code string) (V, bool) {
	v, ok := k.index[code]

	return v, ok
}

func (k *keyed[V]) Has(code string) bool {
	_, ok := k.Get(code)

	return ok
}

func (k *keyed[V]) Len() int {
	return len(k.keys)
}

// Keys returns the codes in insertion order.
func (k *keyed[V]) Keys() []string {
	return append([]string(nil), k.keys...)
}

// Reservations is the upstream side of a sync, keyed by confirmation code.
type Reservations struct {
	keyed[Reservation]
}

func NewReservations(list ...Reservation) *Reservations {
	r := Reservations{}
	for _, v := range list {
		r.Put(v.ConfirmationCode, v)
	}

	return &r
}

// Merge adds every reservation in other. A code already present is replaced
// by the incoming reservation (later accounts win).
func (r *Reservations) Merge(other *Reservations) {
	if other == nil {
		return
	}

	for _, code := range other.keys {
		r.Put(code, other.index[code])
	}
}

// SheetRecords is the worksheet side of a sync, keyed by confirmation code.
type SheetRecords struct {
	keyed[SheetRecord]
}

func NewSheetRecords(list ...SheetRecord) *SheetRecords {
	s := SheetRecords{}
	for _, v := range list {
		s.Put(v.Code, v)
	}

	return &s
}
