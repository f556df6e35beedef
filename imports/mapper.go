package imports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"labinventory/models"
)

// sentinelNA marks a field the sheet author intentionally left out, distinct
// from a blank cell. It always maps to NULL, never to the literal string.
const sentinelNA = "NA"

// placeholderEquipmentID is assigned when the equipment ID cell is blank.
// Real equipment IDs are unique; the placeholder is exempt (partial index).
const placeholderEquipmentID = "EQUIPMENT-ID-NOT-ASSIGNED"

// Column offsets relative to the candidate's header column. The serial
// counter sits at the header column itself; everything else follows at a
// fixed position.
const (
	colSerial = iota
	colItemCategory
	colItemName
	colSpecifications
	colQuantity
	colNoOfLicenses
	colNatureOfLicense
	colYearOfLease
	colPOAmount
	colPONumber
	colPODate
	colLabName
	colLabIncharge
	colLabTechnician
	colEquipmentID
	colFundingSource
	colDateOfInstallation
	colVendorName
	colVendorAddress
	colVendorPOCName
	colVendorPOCPhone
	colVendorPOCEmail
	colWarrantyFrom
	colWarrantyTo
	colAMCFrom
	colAMCTo
	colCurrentLocation
	colSoftcopyOfPO
	colSoftcopyOfInvoice
	colSoftcopyOfNFA
	colSoftcopyOfAMC
	colStatus
	colEquipmentPhoto
	colRemarks
)

// EntityResolver turns lab/user names from a sheet into entity IDs, creating
// stub rows for names with no persisted match. Implementations must be
// idempotent within one import run: the same name resolves to the same ID.
type EntityResolver interface {
	ResolveLab(ctx context.Context, name string) (int64, error)
	ResolveUser(ctx context.Context, name, role string) (int64, error)
}

type columnKind int

const (
	kindText columnKind = iota
	kindNumber
	kindDate
)

// itemColumn describes one positional column of the recognized layout. The
// whole layout lives in this table so a column shift is a one-line fix.
type itemColumn struct {
	offset int
	name   string
	kind   columnKind
	text   func(*models.InventoryItem, *string)
	number func(*models.InventoryItem, *float64)
	date   func(*models.InventoryItem, *time.Time)
}

var itemColumns = []itemColumn{
	{offset: colSpecifications, name: "specifications", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.Specifications = v }},
	{offset: colQuantity, name: "quantity", kind: kindNumber, number: func(it *models.InventoryItem, v *float64) { it.Quantity = v }},
	{offset: colNoOfLicenses, name: "no_of_licenses", kind: kindNumber, number: func(it *models.InventoryItem, v *float64) { it.NoOfLicenses = v }},
	{offset: colNatureOfLicense, name: "nature_of_license", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.NatureOfLicense = v }},
	{offset: colYearOfLease, name: "year_of_lease", kind: kindNumber, number: func(it *models.InventoryItem, v *float64) { it.YearOfLease = v }},
	{offset: colPOAmount, name: "po_amount", kind: kindNumber, number: func(it *models.InventoryItem, v *float64) { it.POAmount = v }},
	{offset: colPONumber, name: "po_number", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.PONumber = v }},
	{offset: colPODate, name: "po_date", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.PODate = v }},
	{offset: colFundingSource, name: "funding_source", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.FundingSource = v }},
	{offset: colDateOfInstallation, name: "date_of_installation", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.DateOfInstallation = v }},
	{offset: colVendorName, name: "vendor_name", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.VendorName = v }},
	{offset: colVendorAddress, name: "vendor_address", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.VendorAddress = v }},
	{offset: colVendorPOCName, name: "vendor_poc_name", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.VendorPOCName = v }},
	{offset: colVendorPOCPhone, name: "vendor_poc_phone", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.VendorPOCPhone = v }},
	{offset: colVendorPOCEmail, name: "vendor_poc_email", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.VendorPOCEmail = v }},
	{offset: colWarrantyFrom, name: "warranty_from", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.WarrantyFrom = v }},
	{offset: colWarrantyTo, name: "warranty_to", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.WarrantyTo = v }},
	{offset: colAMCFrom, name: "amc_from", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.AMCFrom = v }},
	{offset: colAMCTo, name: "amc_to", kind: kindDate, date: func(it *models.InventoryItem, v *time.Time) { it.AMCTo = v }},
	{offset: colCurrentLocation, name: "current_location", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.CurrentLocation = v }},
	{offset: colSoftcopyOfPO, name: "softcopy_of_po", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.SoftcopyOfPO = v }},
	{offset: colSoftcopyOfInvoice, name: "softcopy_of_invoice", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.SoftcopyOfInvoice = v }},
	{offset: colSoftcopyOfNFA, name: "softcopy_of_nfa", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.SoftcopyOfNFA = v }},
	{offset: colSoftcopyOfAMC, name: "softcopy_of_amc", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.SoftcopyOfAMC = v }},
	{offset: colStatus, name: "status", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.Status = v }},
	{offset: colEquipmentPhoto, name: "equipment_photo", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.EquipmentPhoto = v }},
	{offset: colRemarks, name: "remarks", kind: kindText, text: func(it *models.InventoryItem, v *string) { it.Remarks = v }},
}

// MapRow converts one raw sheet row into an inventory item, resolving lab and
// user references through r. Malformed dates and numbers map to NULL rather
// than failing the row; only a resolver failure aborts.
func MapRow(ctx context.Context, row []string, r EntityResolver) (*models.InventoryItem, error) {
	name := cellAt(row, colItemName)
	if name == "" {
		return nil, fmt.Errorf("item name is empty")
	}

	category := cellAt(row, colItemCategory)
	if category == sentinelNA {
		category = ""
	}

	it := &models.InventoryItem{
		ItemCategory: category,
		ItemName:     name,
	}

	for _, col := range itemColumns {
		raw := optionalCell(row, col.offset)
		switch col.kind {
		case kindText:
			col.text(it, raw)
		case kindNumber:
			col.number(it, parseNumber(raw))
		case kindDate:
			col.date(it, parseDate(raw))
		}
	}

	labName := cellAt(row, colLabName)
	if labName == sentinelNA {
		labName = ""
	}
	labID, err := r.ResolveLab(ctx, labName)
	if err != nil {
		return nil, fmt.Errorf("resolve lab %q: %w", labName, err)
	}
	it.LabID = labID

	if n := cellAt(row, colLabIncharge); n != "" && n != sentinelNA {
		id, err := r.ResolveUser(ctx, n, models.RoleFaculty)
		if err != nil {
			return nil, fmt.Errorf("resolve incharge %q: %w", n, err)
		}
		it.LabInchargeID = &id
	}
	if n := cellAt(row, colLabTechnician); n != "" && n != sentinelNA {
		id, err := r.ResolveUser(ctx, n, models.RoleTechnician)
		if err != nil {
			return nil, fmt.Errorf("resolve technician %q: %w", n, err)
		}
		it.LabTechnicianID = &id
	}

	equipmentID := cellAt(row, colEquipmentID)
	if equipmentID == "" || equipmentID == sentinelNA {
		equipmentID = placeholderEquipmentID
	}
	it.EquipmentID = equipmentID

	return it, nil
}

// optionalCell returns nil for blank cells and for the NA sentinel.
func optionalCell(row []string, offset int) *string {
	v := cellAt(row, offset)
	if v == "" || v == sentinelNA {
		return nil
	}
	return &v
}

func parseNumber(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(*raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// Date layouts seen across department sheets: slash, dash and dot separated,
// two- and four-digit years, and a few spelled-out month forms.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02/01/06", "2/1/06",
	"02-01-2006", "2-1-2006", "02-01-06", "2-1-06",
	"02.01.2006", "2.1.2006", "02.01.06",
	"2006-01-02", "2006/01/02", "2006.01.02",
	"2-Jan-06", "02-Jan-06", "2-Jan-2006", "02-Jan-2006",
	"2 Jan 2006", "02 Jan 2006", "Jan 2, 2006", "January 2, 2006",
}

// parseDate tries every known layout and gives up quietly: an unreadable date
// becomes NULL so one bad cell cannot abort a whole import.
func parseDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	return nil
}
