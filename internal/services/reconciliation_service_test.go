package services

import (
	"context"
	"errors"
	"testing"

	"fleet-backend/internal/models"
)

type fakeSlipStore struct {
	slips map[int]*models.SlipDetails
}

func (f *fakeSlipStore) FindBySlip(ctx context.Context, slipNumber int) (*models.SlipDetails, error) {
	s, ok := f.slips[slipNumber]
	if !ok {
		return nil, errors.New("no allotment detail for slip")
	}
	return s, nil
}

func TestParseSlipNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"123", 123, true},
		{" DS-0456 ", 456, true},
		{"No. 12/3", 123, true},
		{"abc", 0, false},
		{"", 0, false},
		{"000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseSlipNumber(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseSlipNumber(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	store := &fakeSlipStore{slips: map[int]*models.SlipDetails{
		101: {ReceiptNumber: 101, VehicleNo: "HR55AB1234", DetailDate: "2025-06-01", DieselQty: 250},
		102: {ReceiptNumber: 102, VehicleNo: "HR55CD5678", DetailDate: "2025-06-01", DieselQty: 250},
		103: {ReceiptNumber: 103, VehicleNo: "HR55EF9012", DetailDate: "2025-06-08", DieselQty: 250},
		104: {ReceiptNumber: 104, VehicleNo: "HR55AB1234", DetailDate: "2025-06-08", DieselQty: 250},
	}}
	svc := NewReconciliationService(store)

	rows := []models.BillRow{
		{SlipNumber: "101", Quantity: 250},       // exact match
		{SlipNumber: "102", Quantity: 250.005},   // inside tolerance
		{SlipNumber: "103", Quantity: 260},       // vendor billed more than issued
		{SlipNumber: "104", Quantity: 240},       // vendor billed less than issued
		{SlipNumber: "999", Quantity: 100},       // slip not in ledger
		{SlipNumber: "scrap", Quantity: 100},     // no digits at all
	}

	summary := svc.Reconcile(context.Background(), rows)

	if summary.TotalRows != 6 {
		t.Fatalf("total rows = %d, want 6", summary.TotalRows)
	}
	if summary.Matched != 2 || summary.Mismatched != 2 || summary.NotFound != 2 {
		t.Fatalf("counts = (%d, %d, %d), want (2, 2, 2)",
			summary.Matched, summary.Mismatched, summary.NotFound)
	}

	wantStatus := []string{
		models.ReconcileSuccess,
		models.ReconcileSuccess,
		models.ReconcileQtyExceed,
		models.ReconcileQtyLess,
		models.ReconcileFail,
		models.ReconcileFail,
	}
	for i, want := range wantStatus {
		if got := summary.Rows[i].Status; got != want {
			t.Errorf("row %d: status %q, want %q", i, got, want)
		}
	}

	over := summary.Rows[2]
	if over.Difference != 10 {
		t.Errorf("over-billed row: difference = %v, want 10", over.Difference)
	}
	if over.LedgerQty != 250 || over.LedgerVehicle != "HR55EF9012" {
		t.Errorf("over-billed row: ledger fields not carried through: %+v", over)
	}

	under := summary.Rows[3]
	if under.Difference != -10 {
		t.Errorf("under-billed row: difference = %v, want -10", under.Difference)
	}
}

func TestSlipDetails(t *testing.T) {
	store := &fakeSlipStore{slips: map[int]*models.SlipDetails{
		42: {ReceiptNumber: 42, VehicleNo: "HR55AB1234", DieselQty: 300},
	}}
	svc := NewReconciliationService(store)

	got, err := svc.SlipDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("SlipDetails: %v", err)
	}
	if got.VehicleNo != "HR55AB1234" || got.DieselQty != 300 {
		t.Errorf("unexpected details: %+v", got)
	}

	if _, err := svc.SlipDetails(context.Background(), 999); err == nil {
		t.Fatalf("expected error for unknown slip")
	}
}
