package bookings

// Serialize converts reconciled bookings to worksheet rows. New reservations
// are laid out by the column table; worksheet derived bookings are written
// back as they are, extra columns included.
func Serialize(list []Booking) [][]any {
	rows := make([][]any, 0, len(list))

	for _, b := range list {
		switch {
		case b.Row != nil:
			rows = append(rows, b.Row.clone())

		case b.Reservation != nil:
			rows = append(rows, b.Reservation.Row())
		}
	}

	return rows
}

// Tally counts the bookings by source.
func Tally(list []Booking) (kept, updated, added int) {
	for _, b := range list {
		switch b.Source {
		case Kept:
			kept++
		case Updated:
			updated++
		case Added:
			added++
		}
	}

	return
}
