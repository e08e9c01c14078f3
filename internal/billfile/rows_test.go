package billfile

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"250", 250, true},
		{"1,234.50", 1234.5, true},
		{"500/-", 500, true},
		{" 80 Rs", 80, true},
		{"  42.7  ", 42.7, true},
		{"", 0, false},
		{"N/A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseAmount(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseTable(t *testing.T) {
	t.Run("standard layout", func(t *testing.T) {
		rows, err := ParseTable([][]string{
			{"Sharma Fuels"},
			{"Slip No", "Quantity", "Date", "Vehicle No", "Rate", "Amount"},
			{"101", "250", "2025-06-01", "HR55AB1234", "89.50", "22,375/-"},
			{"DS-102", "180.5", "01-06-2025", "HR55CD5678"},
			{"Total", "430.5"},
			{},
		})
		if err != nil {
			t.Fatalf("ParseTable: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		first := rows[0]
		if first.VendorName != "Sharma Fuels" {
			t.Errorf("vendor = %q, want Sharma Fuels", first.VendorName)
		}
		if first.SlipNumber != "101" || first.Quantity != 250 {
			t.Errorf("slip/qty = %q/%v, want 101/250", first.SlipNumber, first.Quantity)
		}
		if first.BillDate != "2025-06-01" || first.VehicleNo != "HR55AB1234" {
			t.Errorf("date/vehicle = %q/%q", first.BillDate, first.VehicleNo)
		}
		if first.Rate != 89.5 || first.Amount != 22375 {
			t.Errorf("rate/amount = %v/%v, want 89.5/22375", first.Rate, first.Amount)
		}
		if rows[1].SlipNumber != "DS-102" || rows[1].Quantity != 180.5 {
			t.Errorf("second row = %+v", rows[1])
		}
	})

	t.Run("slip column resolved by header, not position", func(t *testing.T) {
		rows, err := ParseTable([][]string{
			{"Verma Petroleum"},
			{"Date", "Vehicle", "Slip", "Qty"},
			{"01/06/2025", "HR55AB1234", "1042", "50"},
		})
		if err != nil {
			t.Fatalf("ParseTable: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].SlipNumber != "1042" {
			t.Errorf("slip = %q, want 1042", rows[0].SlipNumber)
		}
		if rows[0].Quantity != 50 {
			t.Errorf("qty = %v, want 50", rows[0].Quantity)
		}
		if rows[0].BillDate != "01/06/2025" || rows[0].VehicleNo != "HR55AB1234" {
			t.Errorf("date/vehicle = %q/%q", rows[0].BillDate, rows[0].VehicleNo)
		}
	})

	t.Run("header match is case-insensitive", func(t *testing.T) {
		rows, err := ParseTable([][]string{
			{"SLIP NUMBER", "Litres"},
			{"77", "35"},
		})
		if err != nil {
			t.Fatalf("ParseTable: %v", err)
		}
		if len(rows) != 1 || rows[0].SlipNumber != "77" || rows[0].Quantity != 35 {
			t.Errorf("rows = %+v", rows)
		}
		// No title line above the header
		if rows[0].VendorName != "" {
			t.Errorf("vendor = %q, want empty", rows[0].VendorName)
		}
	})

	t.Run("no slip header", func(t *testing.T) {
		_, err := ParseTable([][]string{
			{"Receipt", "Qty"},
			{"101", "250"},
		})
		if !errors.Is(err, ErrNoSlipColumn) {
			t.Fatalf("got %v, want ErrNoSlipColumn", err)
		}
	})

	t.Run("rows with unparseable quantity are dropped", func(t *testing.T) {
		rows, err := ParseTable([][]string{
			{"Slip No", "Quantity"},
			{"101", "n/a"},
			{"102", "40"},
		})
		if err != nil {
			t.Fatalf("ParseTable: %v", err)
		}
		if len(rows) != 1 || rows[0].SlipNumber != "102" {
			t.Errorf("rows = %+v", rows)
		}
	})
}
