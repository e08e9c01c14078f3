package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"fleet-backend/internal/cache"
	"fleet-backend/internal/metrics"
	"fleet-backend/internal/models"
)

// qtyTolerance absorbs float noise from spreadsheet parsing
const qtyTolerance = 0.01

// SlipStore resolves a vendor slip number to the ledger's record of it
type SlipStore interface {
	FindBySlip(ctx context.Context, slipNumber int) (*models.SlipDetails, error)
}

type ReconciliationService struct {
	Store SlipStore
}

func NewReconciliationService(store SlipStore) *ReconciliationService {
	return &ReconciliationService{Store: store}
}

// Reconcile matches every bill row against the allotment ledger. A row whose
// slip is unknown fails outright; a known slip compares billed quantity to
// issued quantity.
func (s *ReconciliationService) Reconcile(ctx context.Context, rows []models.BillRow) *models.ReconcileSummary {
	summary := &models.ReconcileSummary{Rows: make([]models.ReconcileRow, 0, len(rows))}

	for _, row := range rows {
		r := models.ReconcileRow{BillRow: row}

		slip, ok := parseSlipNumber(row.SlipNumber)
		if !ok {
			r.Status = models.ReconcileFail
			summary.NotFound++
			s.appendRow(summary, r)
			continue
		}

		ledger, err := s.slipDetails(ctx, slip)
		if err != nil {
			r.Status = models.ReconcileFail
			summary.NotFound++
			s.appendRow(summary, r)
			continue
		}

		r.LedgerQty = ledger.DieselQty
		r.LedgerVehicle = ledger.VehicleNo
		r.LedgerDate = ledger.DetailDate
		r.Difference = row.Quantity - ledger.DieselQty

		switch {
		case math.Abs(r.Difference) <= qtyTolerance:
			r.Status = models.ReconcileSuccess
			summary.Matched++
		case r.Difference > 0:
			// Vendor billed more than the ledger issued
			r.Status = models.ReconcileQtyExceed
			summary.Mismatched++
		default:
			r.Status = models.ReconcileQtyLess
			summary.Mismatched++
		}
		s.appendRow(summary, r)
	}

	summary.TotalRows = len(summary.Rows)
	return summary
}

func (s *ReconciliationService) appendRow(summary *models.ReconcileSummary, r models.ReconcileRow) {
	metrics.BillRowsReconciled.WithLabelValues(r.Status).Inc()
	summary.Rows = append(summary.Rows, r)
}

// SlipDetails returns the ledger record for one slip number
func (s *ReconciliationService) SlipDetails(ctx context.Context, slipNumber int) (*models.SlipDetails, error) {
	return s.slipDetails(ctx, slipNumber)
}

func (s *ReconciliationService) slipDetails(ctx context.Context, slipNumber int) (*models.SlipDetails, error) {
	key := cache.SlipDetailsKey(slipNumber)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached models.SlipDetails
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	details, err := s.Store.FindBySlip(ctx, slipNumber)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(details); err == nil {
		cache.SetCached(ctx, key, data, 10*time.Minute)
	}
	return details, nil
}

// parseSlipNumber extracts the numeric slip from a bill cell. Vendors prefix
// their slip numbers inconsistently, so everything but digits is dropped.
func parseSlipNumber(raw string) (int, bool) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
