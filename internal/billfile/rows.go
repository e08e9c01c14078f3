// Package billfile turns uploaded vendor bills, PDF or spreadsheet, into
// normalized rows the reconciliation service can match against the ledger.
package billfile

import (
	"errors"
	"strconv"
	"strings"

	"fleet-backend/internal/models"
)

// headerScanRows caps how deep the header search goes. Vendor bills put the
// column header right below the vendor name line.
const headerScanRows = 5

// ErrNoSlipColumn is returned when no header cell names a slip column
var ErrNoSlipColumn = errors.New("no slip column found in bill header")

// billColumns maps the bill's logical columns to cell indexes. Only slip and
// quantity are required; the rest are best-effort and -1 when absent.
type billColumns struct {
	slip    int
	qty     int
	date    int
	vehicle int
	rate    int
	amount  int
}

// findHeader locates the header row and resolves the column layout. The slip
// column is whichever header cell contains "slip" (case-insensitive); the
// billed quantity sits in the column immediately to its right, whatever the
// vendor titled it. Vendors order the remaining columns freely, so those are
// resolved by their own header words.
func findHeader(rows [][]string) (int, billColumns, bool) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	for i := 0; i < limit; i++ {
		cells := rows[i]
		for j, c := range cells {
			if !strings.Contains(strings.ToLower(c), "slip") {
				continue
			}

			cols := billColumns{slip: j, qty: j + 1, date: -1, vehicle: -1, rate: -1, amount: -1}
			for k, h := range cells {
				if k == cols.slip || k == cols.qty {
					continue
				}
				lh := strings.ToLower(h)
				switch {
				case strings.Contains(lh, "date"):
					cols.date = k
				case strings.Contains(lh, "veh"):
					cols.vehicle = k
				case strings.Contains(lh, "rate"):
					cols.rate = k
				case strings.Contains(lh, "amount"):
					cols.amount = k
				}
			}
			return i, cols, true
		}
	}
	return 0, billColumns{}, false
}

// vendorName reads the bill's title line: the first non-empty cell above the
// header row.
func vendorName(rows [][]string, headerRow int) string {
	for i := 0; i < headerRow; i++ {
		for _, c := range rows[i] {
			if v := strings.TrimSpace(c); v != "" {
				return v
			}
		}
	}
	return ""
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// parseAmount reads a numeric cell, tolerating thousand separators and
// currency suffixes.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "/-")
	s = strings.TrimSpace(strings.TrimSuffix(s, "Rs"))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseTable converts a bill's raw cell grid into normalized rows using the
// header-resolved column layout. Rows below the header whose slip cell has no
// digit (totals, signatures, blanks) are dropped, not errors.
func ParseTable(rows [][]string) ([]models.BillRow, error) {
	headerRow, cols, ok := findHeader(rows)
	if !ok {
		return nil, ErrNoSlipColumn
	}
	vendor := vendorName(rows, headerRow)

	var result []models.BillRow
	for _, cells := range rows[headerRow+1:] {
		slip := cellAt(cells, cols.slip)
		if slip == "" || !containsDigit(slip) {
			continue
		}
		qty, ok := parseAmount(cellAt(cells, cols.qty))
		if !ok {
			continue
		}

		row := models.BillRow{
			VendorName: vendor,
			SlipNumber: slip,
			BillDate:   cellAt(cells, cols.date),
			VehicleNo:  cellAt(cells, cols.vehicle),
			Quantity:   qty,
		}
		row.Rate, _ = parseAmount(cellAt(cells, cols.rate))
		row.Amount, _ = parseAmount(cellAt(cells, cols.amount))
		result = append(result, row)
	}
	return result, nil
}
