package models

// Reconciliation outcomes per bill row
const (
	ReconcileSuccess   = "Success"
	ReconcileQtyExceed = "Qty Issued Exceed"
	ReconcileQtyLess   = "Qty Issued Less"
	ReconcileFail      = "Fail"
)

// BillRow is one line of a vendor's monthly bill after extraction from the
// uploaded PDF or spreadsheet. SlipNumber carries the vendor's receipt number;
// VendorName comes from the bill's title line and repeats on every row.
type BillRow struct {
	VendorName string  `json:"vendor_name"`
	SlipNumber string  `json:"slip_number"`
	BillDate   string  `json:"bill_date"`
	VehicleNo  string  `json:"vehicle_no"`
	Quantity   float64 `json:"quantity"`
	Amount     float64 `json:"amount"`
	Rate       float64 `json:"rate"`
}

// ReconcileRow is a bill row annotated with the ledger's view of its slip
type ReconcileRow struct {
	BillRow
	Status         string  `json:"status"`
	LedgerQty      float64 `json:"ledger_qty"`
	LedgerVehicle  string  `json:"ledger_vehicle,omitempty"`
	LedgerDate     string  `json:"ledger_date,omitempty"`
	Difference     float64 `json:"difference"`
}

// ReconcileSummary aggregates one reconciliation run
type ReconcileSummary struct {
	TotalRows   int            `json:"total_rows"`
	Matched     int            `json:"matched"`
	Mismatched  int            `json:"mismatched"`
	NotFound    int            `json:"not_found"`
	Rows        []ReconcileRow `json:"rows"`
}

// SlipDetails is the ledger-side record for one receipt number, shown when a
// clerk drills into a bill row.
type SlipDetails struct {
	ReceiptNumber int     `json:"receipt_number"`
	VehicleNo     string  `json:"vehicle_no"`
	DetailDate    string  `json:"detail_date"`
	VendorName    string  `json:"vendor_name"`
	BookNo        string  `json:"book_no"`
	DieselQty     float64 `json:"diesel_qty"`
	Status        string  `json:"status"`
	Remarks       string  `json:"remarks"`
}
