package models

import "time"

// Detail row lifecycle states
const (
	DetailStatusActive = "active"
	DetailStatusExtra  = "extra" // added during editing, outside the generated weekly plan
)

// Allotment is one vehicle's diesel quota for a calendar month, derived
// from its vehicle package at generation time and frozen on save.
type Allotment struct {
	ID              int       `json:"id"`
	VehicleNo       string    `json:"vehicle_no"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	CompanyRouteID  *int      `json:"company_route_id"`
	RouteName       string    `json:"route_name"`
	MonthlyKms      float64   `json:"monthly_kms"`
	ActualKms       float64   `json:"actual_kms"`
	VehicleAverage  float64   `json:"vehicle_average"`
	VehicleCapacity string    `json:"vehicle_capacity"`
	NoOfDays        int       `json:"no_of_days"`
	DieselRequire   int       `json:"diesel_require"` // litres for the whole month
	SupervisorName  string    `json:"supervisor_name"`
	Status          string    `json:"status"`
	PackageID       *int      `json:"package_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AllotmentDetail is one weekly slice of an allotment, optionally tied to a
// specific receipt number once the clerk assigns one.
type AllotmentDetail struct {
	ID            int       `json:"id"`
	AllotmentID   int       `json:"allotment_id"`
	DetailDate    time.Time `json:"detail_date"`
	VendorID      *int      `json:"vendor_id"`
	VendorName    string    `json:"vendor_name,omitempty"`
	ReceiptBookID *int      `json:"receipt_book_id"`
	BookNo        string    `json:"book_no,omitempty"`
	ReceiptNumber *int      `json:"receipt_number"`
	DieselQty     float64   `json:"diesel_qty"`
	Status        string    `json:"status"`
	Remarks       string    `json:"remarks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AllotmentWithDetails is the editor view of a saved allotment
type AllotmentWithDetails struct {
	Allotment
	Details []AllotmentDetail `json:"details"`
}

// StagedDetail is one weekly row of a generated, not-yet-saved allotment.
// Vendor, book and receipt number start blank and are filled in by the clerk.
type StagedDetail struct {
	DetailDate    string  `json:"detail_date"` // YYYY-MM-DD
	VendorID      *int    `json:"vendor_id"`
	ReceiptBookID *int    `json:"receipt_book_id"`
	ReceiptNumber *int    `json:"receipt_number"`
	DieselQty     float64 `json:"diesel_qty"`
	Remarks       string  `json:"remarks"`
}

// StagedAllotment is one vehicle's proposed allotment within a staging batch
type StagedAllotment struct {
	VehicleNo       string         `json:"vehicle_no"`
	CompanyRouteID  *int           `json:"company_route_id"`
	RouteName       string         `json:"route_name"`
	MonthlyKms      float64        `json:"monthly_kms"`
	ActualKms       float64        `json:"actual_kms"`
	VehicleAverage  float64        `json:"vehicle_average"`
	VehicleCapacity string         `json:"vehicle_capacity"`
	NoOfDays        int            `json:"no_of_days"`
	DieselRequire   int            `json:"diesel_require"`
	SupervisorName  string         `json:"supervisor_name"`
	PackageID       *int           `json:"package_id"`
	Details         []StagedDetail `json:"details"`
}

// SaveAllotmentsRequest persists a whole staged month in one shot
type SaveAllotmentsRequest struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Allotments []StagedAllotment `json:"allotments"`
}

// DetailUpsert edits one detail row of a saved allotment. A nil ID inserts a
// new "extra" row; a set ID updates the row in place.
type DetailUpsert struct {
	ID            *int    `json:"id"`
	DetailDate    string  `json:"detail_date"`
	VendorID      *int    `json:"vendor_id"`
	ReceiptBookID *int    `json:"receipt_book_id"`
	ReceiptNumber *int    `json:"receipt_number"`
	DieselQty     float64 `json:"diesel_qty"`
	Remarks       string  `json:"remarks"`
}

// UpdateAllotmentRequest represents the editor's save payload
type UpdateAllotmentRequest struct {
	AllotmentID int            `json:"allotment_id"`
	Details     []DetailUpsert `json:"details"`
}

// PeriodCheckResponse answers whether a (year, month) already has a saved batch
type PeriodCheckResponse struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Exists bool `json:"exists"`
}
