package models

import "time"

// Supply types a vendor can be registered for
const (
	SupplyDiesel = "Diesel"
	SupplyPetrol = "Petrol"
	SupplyCNG    = "CNG"
)

// Vendor is a fuel supplier that issues receipt books
type Vendor struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	SupplyType    string    `json:"supply_type"`
	Status        string    `json:"status"` // active or inactive
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SaveVendorRequest represents the create/update form payload
type SaveVendorRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	SupplyType    string `json:"supply_type"`
	Status        string `json:"status"`
}

// VendorWithStock is a vendor annotated with its open receipt capacity,
// used to populate the vendor dropdown during allotment staging.
type VendorWithStock struct {
	Vendor
	ActiveBooks      int `json:"active_books"`
	ReceiptsBalance  int `json:"receipts_balance"`
}
