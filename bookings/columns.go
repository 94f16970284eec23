package bookings

// Field identifies one of the worksheet columns owned by the sync. Columns
// to the right of the last field belong to whoever maintains the sheet.
type Field int

const (
	ConfirmationCode Field = iota
	Host
	Listing
	CheckIn
	CheckOut
	Guest
	NumberOfGuests
	GuestEmail

	fields
)

type Column struct {
	Name   string
	Header string
	Index  int
}

// Columns is the one place that maps a field to its (0-based) worksheet
// column. The sheet parser, the row builder and the merge all index through
// it.
var Columns = [fields]Column{
	ConfirmationCode: {Name: "confirmation_code", Header: "Confirmation Code", Index: 0},
	Host:             {Name: "host", Header: "Host", Index: 1},
	Listing:          {Name: "listing", Header: "Listing", Index: 2},
	CheckIn:          {Name: "check_in", Header: "Check In", Index: 3},
	CheckOut:         {Name: "check_out", Header: "Check Out", Index: 4},
	Guest:            {Name: "guest", Header: "Guest", Index: 5},
	NumberOfGuests:   {Name: "number_of_guests", Header: "Guests", Index: 6},
	GuestEmail:       {Name: "guest_email", Header: "Guest Email", Index: 7},
}

func (f Field) Index() int {
	return Columns[f].Index
}

func (f Field) String() string {
	return Columns[f].Name
}

// Width is the number of leading columns overwritten from upstream data.
func Width() int {
	width := 0
	for _, c := range Columns {
		if c.Index >= width {
			width = c.Index + 1
		}
	}

	return width
}

// Headers returns the column headers in column order.
func Headers() []string {
	header := make([]string, Width())
	for _, c := range Columns {
		header[c.Index] = c.Header
	}

	return header
}
