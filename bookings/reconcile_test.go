package bookings

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

func reservation(code, checkin string) Reservation {
	return Reservation{
		ConfirmationCode: code,
		CheckIn:          date(checkin),
		CheckOut:         date(checkin).AddDate(0, 0, 2),
		Guest:            "Guest " + code,
		NumberOfGuests:   2,
		GuestEmail:       code + "@guest.airbnb.com",
		Host:             "Host",
		Listing:          "Listing",
	}
}

func sheetRecord(code, checkin string, extra ...any) SheetRecord {
	d := date(checkin)
	row := Row{code, "H", "L", d.Format("01/02/2006"), "", "G", "1", ""}
	row = append(row, extra...)

	return SheetRecord{Code: code, CheckIn: d, Row: row}
}

func codes(list []Booking) []string {
	keys := []string{}
	for _, b := range list {
		keys = append(keys, b.Code)
	}

	return keys
}

func TestReconcile(t *testing.T) {
	api := NewReservations(
		reservation("A1", "2024-03-01"),
		reservation("B2", "2024-01-15"),
	)

	sheet := NewSheetRecords(
		sheetRecord("S1", "2024-02-01", "paid"),
		sheetRecord("B2", "2024-01-20", "cleaner booked"),
	)

	list := Reconcile(api, sheet)

	if !reflect.DeepEqual(codes(list), []string{"B2", "S1", "A1"}) {
		t.Fatalf("Incorrect reconciled order - expected:%v, got:%v", []string{"B2", "S1", "A1"}, codes(list))
	}

	b2 := list[0]
	expected := Row{"B2", "Host", "Listing", "2024-01-15", "2024-01-17", "Guest B2", 2, "B2@guest.airbnb.com", "cleaner booked"}

	if b2.Source != Updated {
		t.Errorf("Incorrect source for B2 - expected:%v, got:%v", Updated, b2.Source)
	}

	if !b2.CheckIn.Equal(date("2024-01-15")) {
		t.Errorf("Expected upstream check-in for B2, got %v", b2.CheckIn)
	}

	if !reflect.DeepEqual(b2.Row, expected) {
		t.Errorf("Incorrect merged row\n   expected: %v\n   got:      %v", expected, b2.Row)
	}

	if list[1].Source != Kept || !reflect.DeepEqual(list[1].Row, sheet.index["S1"].Row) {
		t.Errorf("Expected S1 to be kept unmodified, got %+v", list[1])
	}

	if list[2].Source != Added || list[2].Row != nil || list[2].Reservation == nil {
		t.Errorf("Expected A1 to be an upstream only booking, got %+v", list[2])
	}
}

func TestReconcileDoesNotModifyInputs(t *testing.T) {
	api := NewReservations(reservation("B2", "2024-01-15"))
	sheet := NewSheetRecords(sheetRecord("B2", "2024-01-20", "notes"))
	original := append(Row(nil), sheet.index["B2"].Row...)

	Reconcile(api, sheet)

	if !reflect.DeepEqual(sheet.index["B2"].Row, original) {
		t.Errorf("Reconcile modified sheet row\n   expected: %v\n   got:      %v", original, sheet.index["B2"].Row)
	}
}

func TestReconcileWithShortSheetRow(t *testing.T) {
	api := NewReservations(reservation("B2", "2024-01-15"))
	sheet := NewSheetRecords(SheetRecord{Code: "B2", CheckIn: date("2024-01-20"), Row: Row{"B2", "H"}})

	list := Reconcile(api, sheet)

	if len(list) != 1 {
		t.Fatalf("Expected 1 booking, got %v", len(list))
	}

	if !reflect.DeepEqual(list[0].Row, api.index["B2"].Row()) {
		t.Errorf("Incorrect padded row\n   expected: %v\n   got:      %v", api.index["B2"].Row(), list[0].Row)
	}
}

func TestReconcileSheetOnly(t *testing.T) {
	sheet := NewSheetRecords(
		sheetRecord("S2", "2024-02-01"),
		SheetRecord{Code: "XYZ", CheckIn: date("2024-01-05"), Row: Row{"XYZ", "H", "L", "01/05/2024", "x"}},
	)

	list := Reconcile(NewReservations(), sheet)

	if !reflect.DeepEqual(codes(list), []string{"XYZ", "S2"}) {
		t.Fatalf("Incorrect reconciled order - expected:%v, got:%v", []string{"XYZ", "S2"}, codes(list))
	}

	if !reflect.DeepEqual(list[0].Row, Row{"XYZ", "H", "L", "01/05/2024", "x"}) {
		t.Errorf("Expected XYZ row unmodified, got %v", list[0].Row)
	}

	if !list[0].CheckIn.Equal(date("2024-01-05")) {
		t.Errorf("Incorrect XYZ check-in - expected:%v, got:%v", "2024-01-05", list[0].CheckIn)
	}
}

func TestReconcileUpstreamOnly(t *testing.T) {
	api := NewReservations(
		reservation("A2", "2024-05-01"),
		reservation("A1", "2024-04-01"),
	)

	list := Reconcile(api, NewSheetRecords())

	if !reflect.DeepEqual(codes(list), []string{"A1", "A2"}) {
		t.Fatalf("Incorrect reconciled order - expected:%v, got:%v", []string{"A1", "A2"}, codes(list))
	}
}

func TestReconcileWithNothing(t *testing.T) {
	list := Reconcile(NewReservations(), NewSheetRecords())
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %v", list)
	}

	if list := Reconcile(nil, nil); len(list) != 0 {
		t.Errorf("Expected empty list for nil inputs, got %v", list)
	}
}

func TestReconcileTieBreak(t *testing.T) {
	api := NewReservations(
		reservation("A1", "2024-01-10"),
		reservation("A0", "2024-01-10"),
	)

	sheet := NewSheetRecords(
		sheetRecord("S1", "2024-01-10"),
		sheetRecord("S0", "2024-01-10"),
	)

	expected := []string{"S1", "S0", "A1", "A0"}

	for i := 0; i < 10; i++ {
		if list := Reconcile(api, sheet); !reflect.DeepEqual(codes(list), expected) {
			t.Fatalf("Incorrect tie break order - expected:%v, got:%v", expected, codes(list))
		}
	}
}

func TestReconcileIsDeterministic(t *testing.T) {
	api := NewReservations()
	sheet := NewSheetRecords()

	for i := 0; i < 50; i++ {
		day := fmt.Sprintf("2024-01-%02d", 1+i%7)
		api.Put(fmt.Sprintf("A%02d", i), reservation(fmt.Sprintf("A%02d", i), day))
		if i%3 == 0 {
			code := fmt.Sprintf("A%02d", i)
			sheet.Put(code, sheetRecord(code, "2024-02-01", "note"))
		} else {
			code := fmt.Sprintf("S%02d", i)
			sheet.Put(code, sheetRecord(code, day))
		}
	}

	first := Reconcile(api, sheet)
	second := Reconcile(api, sheet)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reconcile is not deterministic")
	}
}

func TestReconcileDisjoint(t *testing.T) {
	api := NewReservations()
	sheet := NewSheetRecords()

	for i := 0; i < 20; i++ {
		r := reservation(fmt.Sprintf("A%02d", i), fmt.Sprintf("2024-%02d-%02d", 1+(i*7)%12, 1+(i*5)%28))
		api.Put(r.ConfirmationCode, r)
	}

	for i := 0; i < 15; i++ {
		s := sheetRecord(fmt.Sprintf("S%02d", i), fmt.Sprintf("2024-%02d-%02d", 1+(i*5)%12, 1+(i*3)%28))
		sheet.Put(s.Code, s)
	}

	list := Reconcile(api, sheet)

	if len(list) != api.Len()+sheet.Len() {
		t.Fatalf("Incorrect number of bookings - expected:%v, got:%v", api.Len()+sheet.Len(), len(list))
	}

	if !sort.SliceIsSorted(list, func(i, j int) bool { return list[i].CheckIn.Before(list[j].CheckIn) }) {
		t.Errorf("Bookings not sorted by check-in date")
	}

	seen := map[string]bool{}
	for _, b := range list {
		if seen[b.Code] {
			t.Errorf("Duplicate booking %v", b.Code)
		}
		seen[b.Code] = true

		if api.Has(b.Code) == sheet.Has(b.Code) {
			t.Errorf("Booking %v not traceable to exactly one source", b.Code)
		}

		if api.Has(b.Code) && b.Source != Added {
			t.Errorf("Expected upstream booking %v to be 'added', got %v", b.Code, b.Source)
		}

		if sheet.Has(b.Code) && b.Source != Kept {
			t.Errorf("Expected sheet booking %v to be 'kept', got %v", b.Code, b.Source)
		}
	}
}

func TestReconcileOverlapEmitsOnce(t *testing.T) {
	api := NewReservations(reservation("ABC123", "2024-01-10"))
	sheet := NewSheetRecords(sheetRecord("ABC123", "2024-03-01", "extra", "columns"))

	list := Reconcile(api, sheet)

	if len(list) != 1 {
		t.Fatalf("Expected exactly one booking for ABC123, got %v", codes(list))
	}

	row := list[0].Row
	synced := api.index["ABC123"].Row()

	if !reflect.DeepEqual(row[:Width()], synced) {
		t.Errorf("Incorrect synced columns\n   expected: %v\n   got:      %v", synced, row[:Width()])
	}

	if !reflect.DeepEqual(row[Width():], Row{"extra", "columns"}) {
		t.Errorf("Extra columns not preserved - got %v", row[Width():])
	}

	if !list[0].CheckIn.Equal(date("2024-01-10")) {
		t.Errorf("Expected upstream check-in 2024-01-10, got %v", list[0].CheckIn)
	}
}

func TestReservationsMerge(t *testing.T) {
	first := NewReservations(reservation("A1", "2024-01-01"), reservation("C3", "2024-01-03"))
	second := NewReservations(reservation("B2", "2024-01-02"), reservation("A1", "2024-06-01"))

	merged := NewReservations()
	merged.Merge(first)
	merged.Merge(second)
	merged.Merge(nil)

	if !reflect.DeepEqual(merged.Keys(), []string{"A1", "C3", "B2"}) {
		t.Errorf("Incorrect merged keys - expected:%v, got:%v", []string{"A1", "C3", "B2"}, merged.Keys())
	}

	// a confirmation code shared by two accounts resolves to the later account
	if r, _ := merged.Get("A1"); !r.CheckIn.Equal(date("2024-06-01")) {
		t.Errorf("Expected later account to win for A1, got %v", r.CheckIn)
	}
}
