package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User roles. Faculty and technician users can be created as stubs during a
// bulk import when a sheet references a name that does not exist yet.
const (
	RoleAdmin      = "admin"
	RoleFaculty    = "faculty"
	RoleTechnician = "technician"
)

// User represents a department member: admins log in, faculty and
// technicians are referenced by inventory items.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Username     string    `bun:"username,unique"`
	PasswordHash string    `bun:"password_hash"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Lab is a department laboratory. Imports create stub labs holding only the
// name when a sheet references one that is not persisted yet.
type Lab struct {
	bun.BaseModel `bun:"table:labs,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,unique,notnull"`
	Location  string    `bun:"location"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// InventoryItem is one piece of lab equipment. Optional columns are pointers
// so absent spreadsheet values persist as NULL rather than zero values.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items,alias:ii"`

	ID                 int64      `bun:"id,pk,autoincrement"`
	ItemCategory       string     `bun:"item_category,notnull"`
	ItemName           string     `bun:"item_name,notnull"`
	Specifications     *string    `bun:"specifications"`
	Quantity           *float64   `bun:"quantity"`
	NoOfLicenses       *float64   `bun:"no_of_licenses"`
	NatureOfLicense    *string    `bun:"nature_of_license"`
	YearOfLease        *float64   `bun:"year_of_lease"`
	POAmount           *float64   `bun:"po_amount"`
	PONumber           *string    `bun:"po_number"`
	PODate             *time.Time `bun:"po_date"`
	LabID              int64      `bun:"lab_id,notnull"`
	Lab                Lab        `bun:"rel:belongs-to,join:lab_id=id"`
	LabInchargeID      *int64     `bun:"lab_incharge_id"`
	LabTechnicianID    *int64     `bun:"lab_technician_id"`
	EquipmentID        string     `bun:"equipment_id,notnull"`
	FundingSource      *string    `bun:"funding_source"`
	DateOfInstallation *time.Time `bun:"date_of_installation"`
	VendorName         *string    `bun:"vendor_name"`
	VendorAddress      *string    `bun:"vendor_address"`
	VendorPOCName      *string    `bun:"vendor_poc_name"`
	VendorPOCPhone     *string    `bun:"vendor_poc_phone"`
	VendorPOCEmail     *string    `bun:"vendor_poc_email"`
	WarrantyFrom       *time.Time `bun:"warranty_from"`
	WarrantyTo         *time.Time `bun:"warranty_to"`
	AMCFrom            *time.Time `bun:"amc_from"`
	AMCTo              *time.Time `bun:"amc_to"`
	CurrentLocation    *string    `bun:"current_location"`
	SoftcopyOfPO       *string    `bun:"softcopy_of_po"`
	SoftcopyOfInvoice  *string    `bun:"softcopy_of_invoice"`
	SoftcopyOfNFA      *string    `bun:"softcopy_of_nfa"`
	SoftcopyOfAMC      *string    `bun:"softcopy_of_amc"`
	Status             *string    `bun:"status"`
	EquipmentPhoto     *string    `bun:"equipment_photo"`
	Remarks            *string    `bun:"remarks"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ImportRun records one completed bulk import.
type ImportRun struct {
	bun.BaseModel `bun:"table:import_runs,alias:ir"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	SheetsCount   int       `bun:"sheets_count,notnull"`
	InsertedCount int       `bun:"inserted_count,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
