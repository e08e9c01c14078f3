package models

import "time"

// ReceiptBook is a vendor-issued block of sequentially numbered paper
// fuel receipts. The balance counts receipts not yet tied to an
// allotment detail; which exact numbers are used is derived by scanning
// allotment_details, not tracked in a separate table.
type ReceiptBook struct {
	ID              int        `json:"id"`
	VendorID        int        `json:"vendor_id"`
	VendorName      string     `json:"vendor_name,omitempty"`
	BookNo          string     `json:"book_no"` // external label printed on the book
	IssuedDate      *time.Time `json:"issued_date"`
	ReceiptFrom     int        `json:"receipt_from"`
	ReceiptTo       int        `json:"receipt_to"`
	ReceiptsCount   int        `json:"receipts_count"`
	ReceiptsBalance int        `json:"receipts_balance"`
	Status          string     `json:"status"` // active or inactive
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SaveReceiptBookRequest represents the create/update form payload.
// receipts_count and receipts_balance are derived server-side on create.
type SaveReceiptBookRequest struct {
	VendorID    int    `json:"vendor_id"`
	BookNo      string `json:"book_no"`
	IssuedDate  string `json:"issued_date"` // YYYY-MM-DD
	ReceiptFrom int    `json:"receipt_from"`
	ReceiptTo   int    `json:"receipt_to"`
	Status      string `json:"status"`
}

// ReceiptNumberOption is one entry of a book's number range. Used numbers
// are kept in the list but flagged, so an edit view can still display a
// previously chosen number as disabled instead of dropping it.
type ReceiptNumberOption struct {
	Number int  `json:"number"`
	Used   bool `json:"used"`
}
