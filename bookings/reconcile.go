package bookings

import (
	"sort"
)

// Reconcile merges the upstream reservations with the worksheet records.
//
// Every worksheet record is kept. If upstream has the same confirmation code
// the synced columns of the row are replaced with the upstream values and the
// upstream check-in date is used; columns past the synced ones are carried
// over untouched. Upstream reservations that aren't in the worksheet are
// appended. The result is stable sorted by check-in date, so on equal dates
// worksheet records come before new reservations and otherwise keep their
// original order.
func Reconcile(api *Reservations, sheet *SheetRecords) []Booking {
	if api == nil {
		api = NewReservations()
	}

	if sheet == nil {
		sheet = NewSheetRecords()
	}

	list := make([]Booking, 0, api.Len()+sheet.Len())

	for _, code := range sheet.Keys() {
		record, _ := sheet.Get(code)

		if r, ok := api.Get(code); ok {
			list = append(list, Booking{
				Code:    code,
				CheckIn: r.CheckIn,
				Source:  Updated,
				Row:     record.Row.overwrite(r),
			})
		} else {
			list = append(list, Booking{
				Code:    code,
				CheckIn: record.CheckIn,
				Source:  Kept,
				Row:     record.Row.clone(),
			})
		}
	}

	// NB: codes already merged above must not be added twice
	for _, code := range api.Keys() {
		if sheet.Has(code) {
			continue
		}

		r, _ := api.Get(code)
		list = append(list, Booking{
			Code:        code,
			CheckIn:     r.CheckIn,
			Source:      Added,
			Reservation: &r,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CheckIn.Before(list[j].CheckIn)
	})

	return list
}
