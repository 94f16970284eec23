package airbnb

// Payload is the decoded /v1/reservations response. Only the fields used by
// the sync are mapped. Pointer fields are required by the normaliser and a
// nil value is reported as an error rather than silently zeroed.
type Payload struct {
	Reservations []Entry `json:"reservations"`
}

type Entry struct {
	Reservation *Reservation `json:"reservation"`
}

type Reservation struct {
	ConfirmationCode string   `json:"confirmation_code"`
	StartDate        *string  `json:"start_date"`
	Nights           *int     `json:"nights"`
	NumberOfGuests   int      `json:"number_of_guests"`
	Guest            *Account `json:"guest"`
	Host             *Account `json:"host"`
	Listing          *Listing `json:"listing"`
}

type Account struct {
	User *User `json:"user"`
}

type User struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"`
}

type Listing struct {
	Listing *ListingDetail `json:"listing"`
}

type ListingDetail struct {
	Name *string `json:"name"`
}
