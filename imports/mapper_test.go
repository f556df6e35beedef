package imports

import (
	"context"
	"testing"

	"labinventory/models"
)

// fakeResolver hands out sequential IDs and remembers every name it saw, so
// tests can assert both the wiring and the resolution calls.
type fakeResolver struct {
	nextID int64
	labs   map[string]int64
	users  map[string]int64
	roles  map[string]string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		labs:  map[string]int64{},
		users: map[string]int64{},
		roles: map[string]string{},
	}
}

func (r *fakeResolver) ResolveLab(_ context.Context, name string) (int64, error) {
	if id, ok := r.labs[name]; ok {
		return id, nil
	}
	r.nextID++
	r.labs[name] = r.nextID
	return r.nextID, nil
}

func (r *fakeResolver) ResolveUser(_ context.Context, name, role string) (int64, error) {
	if id, ok := r.users[name]; ok {
		return id, nil
	}
	r.nextID++
	r.users[name] = r.nextID
	r.roles[name] = role
	return r.nextID, nil
}

// testRow builds a full-width raw row with the given cells set by offset.
func testRow(cells map[int]string) []string {
	row := make([]string, colRemarks+1)
	for offset, v := range cells {
		row[offset] = v
	}
	return row
}

func TestMapRowFullRow(t *testing.T) {
	r := newFakeResolver()
	row := testRow(map[int]string{
		colSerial:         "1",
		colItemCategory:   "Equipment",
		colItemName:       "Oscilloscope",
		colSpecifications: "100 MHz, 4 channel",
		colQuantity:       "2",
		colPOAmount:       "1,20,000.50",
		colPONumber:       "PO/2023/114",
		colPODate:         "15/03/2023",
		colLabName:        "Signals Lab",
		colLabIncharge:    "Dr. Rao",
		colLabTechnician:  "S. Kumar",
		colEquipmentID:    "EEE-OSC-001",
		colStatus:         "Working",
	})

	it, err := MapRow(context.Background(), row, r)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if it.ItemCategory != "Equipment" || it.ItemName != "Oscilloscope" {
		t.Fatalf("category/name mismatch: %q %q", it.ItemCategory, it.ItemName)
	}
	if it.Quantity == nil || *it.Quantity != 2 {
		t.Fatalf("quantity = %v, want 2", it.Quantity)
	}
	// Comma grouping in amounts is stripped before parsing.
	if it.POAmount == nil || *it.POAmount != 120000.50 {
		t.Fatalf("po amount = %v, want 120000.50", it.POAmount)
	}
	if it.PODate == nil || it.PODate.Year() != 2023 || int(it.PODate.Month()) != 3 || it.PODate.Day() != 15 {
		t.Fatalf("po date = %v, want 2023-03-15", it.PODate)
	}
	if it.LabID == 0 {
		t.Fatalf("lab not resolved")
	}
	if it.LabInchargeID == nil || it.LabTechnicianID == nil {
		t.Fatalf("incharge/technician not resolved")
	}
	if r.roles["Dr. Rao"] != models.RoleFaculty {
		t.Fatalf("incharge role = %q, want %q", r.roles["Dr. Rao"], models.RoleFaculty)
	}
	if r.roles["S. Kumar"] != models.RoleTechnician {
		t.Fatalf("technician role = %q, want %q", r.roles["S. Kumar"], models.RoleTechnician)
	}
	if it.EquipmentID != "EEE-OSC-001" {
		t.Fatalf("equipment id = %q", it.EquipmentID)
	}
}

func TestMapRowNASentinelMapsToNull(t *testing.T) {
	r := newFakeResolver()
	row := testRow(map[int]string{
		colItemCategory:   "NA",
		colItemName:       "MATLAB",
		colSpecifications: "NA",
		colQuantity:       "NA",
		colPODate:         "NA",
		colLabName:        "Computing Lab",
		colLabIncharge:    "NA",
		colLabTechnician:  "NA",
		colEquipmentID:    "NA",
	})

	it, err := MapRow(context.Background(), row, r)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if it.Specifications != nil || it.Quantity != nil || it.PODate != nil {
		t.Fatalf("NA cells must map to nil, got %v %v %v", it.Specifications, it.Quantity, it.PODate)
	}
	if it.ItemCategory != "" {
		t.Fatalf("NA category must map to empty, got %q", it.ItemCategory)
	}
	if it.LabInchargeID != nil || it.LabTechnicianID != nil {
		t.Fatalf("NA references must stay unresolved")
	}
	if len(r.users) != 0 {
		t.Fatalf("no user stubs expected for NA cells, got %v", r.users)
	}
	if it.EquipmentID != placeholderEquipmentID {
		t.Fatalf("equipment id = %q, want placeholder", it.EquipmentID)
	}
}

func TestMapRowMalformedDateBecomesNull(t *testing.T) {
	r := newFakeResolver()
	row := testRow(map[int]string{
		colItemCategory: "Equipment",
		colItemName:     "Power Supply",
		colPODate:       "31.02.2020",
		colLabName:      "Power Lab",
	})

	it, err := MapRow(context.Background(), row, r)
	if err != nil {
		t.Fatalf("a bad date must not fail the row: %v", err)
	}
	if it.PODate != nil {
		t.Fatalf("unparseable date must map to nil, got %v", it.PODate)
	}
	if it.ItemName != "Power Supply" {
		t.Fatalf("row content lost: %q", it.ItemName)
	}
}

func TestMapRowEmptyNameFails(t *testing.T) {
	r := newFakeResolver()
	row := testRow(map[int]string{colItemCategory: "Equipment", colLabName: "Lab"})
	if _, err := MapRow(context.Background(), row, r); err == nil {
		t.Fatalf("expected an error for a nameless row")
	}
}

func TestMapRowRepeatedNamesShareOneStub(t *testing.T) {
	r := newFakeResolver()
	cells := map[int]string{
		colItemCategory: "Equipment",
		colItemName:     "Router",
		colLabName:      "Networks Lab",
		colLabIncharge:  "Dr. Iyer",
	}

	first, err := MapRow(context.Background(), testRow(cells), r)
	if err != nil {
		t.Fatalf("first row: %v", err)
	}
	second, err := MapRow(context.Background(), testRow(cells), r)
	if err != nil {
		t.Fatalf("second row: %v", err)
	}
	if first.LabID != second.LabID {
		t.Fatalf("same lab name resolved to different IDs: %d vs %d", first.LabID, second.LabID)
	}
	if *first.LabInchargeID != *second.LabInchargeID {
		t.Fatalf("same incharge resolved to different IDs")
	}
	if len(r.labs) != 1 || len(r.users) != 1 {
		t.Fatalf("expected one stub each, got labs=%v users=%v", r.labs, r.users)
	}
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		y, d int
		m    int
	}{
		{"15/03/2023", true, 2023, 15, 3},
		{"15-03-2023", true, 2023, 15, 3},
		{"5/3/23", true, 2023, 5, 3},
		{"2023-03-15", true, 2023, 15, 3},
		{"15-Mar-2023", true, 2023, 15, 3},
		{"15 Mar 2023", true, 2023, 15, 3},
		{"not a date", false, 0, 0, 0},
		{"31.02.2020", false, 0, 0, 0},
	}
	for _, tc := range cases {
		in := tc.in
		got := parseDate(&in)
		if !tc.ok {
			if got != nil {
				t.Errorf("parseDate(%q) = %v, want nil", tc.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parseDate(%q) = nil, want a date", tc.in)
			continue
		}
		if got.Year() != tc.y || int(got.Month()) != tc.m || got.Day() != tc.d {
			t.Errorf("parseDate(%q) = %v, want %04d-%02d-%02d", tc.in, got, tc.y, tc.m, tc.d)
		}
	}
}

func TestParseNumberCommaGrouping(t *testing.T) {
	cases := map[string]float64{
		"42":          42,
		"1,234":       1234,
		"12,34,567":   1234567,
		"1,20,000.50": 120000.50,
	}
	for in, want := range cases {
		in := in
		got := parseNumber(&in)
		if got == nil || *got != want {
			t.Errorf("parseNumber(%q) = %v, want %v", in, got, want)
		}
	}
	bad := "twelve"
	if parseNumber(&bad) != nil {
		t.Errorf("parseNumber(%q) must be nil", bad)
	}
}
