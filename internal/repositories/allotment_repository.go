package repositories

import (
	"context"
	"errors"
	"fmt"

	"fleet-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrPeriodExists is returned when saving a batch for an already saved month
	ErrPeriodExists = errors.New("allotment period already saved")

	// ErrDuplicateReceipt is returned when a receipt number is already claimed
	// within the same book
	ErrDuplicateReceipt = errors.New("receipt number already used in this book")
)

type AllotmentRepository struct {
	DB *pgxpool.Pool
}

func NewAllotmentRepository(db *pgxpool.Pool) *AllotmentRepository {
	return &AllotmentRepository{DB: db}
}

// PeriodExists reports whether a (year, month) already has a saved batch
func (r *AllotmentRepository) PeriodExists(ctx context.Context, year, month int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM allotment_periods WHERE year=$1 AND month=$2)`,
		year, month).Scan(&exists)
	return exists, err
}

// SaveBatch persists a whole staged month atomically: the period row, every
// allotment, every detail, and the receipt balance decrements all commit
// together or not at all.
func (r *AllotmentRepository) SaveBatch(ctx context.Context, req *models.SaveAllotmentsRequest) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Claim the period. A concurrent save for the same month loses here.
	tag, err := tx.Exec(ctx,
		`INSERT INTO allotment_periods(year, month) VALUES($1, $2)
         ON CONFLICT (year, month) DO NOTHING`,
		req.Year, req.Month)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodExists
	}

	for _, a := range req.Allotments {
		var allotmentID int
		err = tx.QueryRow(ctx,
			`INSERT INTO allotments(vehicle_no, year, month, company_route_id, route_name,
                                    monthly_kms, actual_kms, vehicle_average, vehicle_capacity,
                                    no_of_days, diesel_require, supervisor_name, status, package_id)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'active', $13)
             RETURNING id`,
			a.VehicleNo, req.Year, req.Month, a.CompanyRouteID, a.RouteName,
			a.MonthlyKms, a.ActualKms, a.VehicleAverage, a.VehicleCapacity,
			a.NoOfDays, a.DieselRequire, a.SupervisorName, a.PackageID,
		).Scan(&allotmentID)
		if err != nil {
			return err
		}

		for _, d := range a.Details {
			if err := insertDetail(ctx, tx, allotmentID, models.DetailStatusActive, d.DetailDate,
				d.VendorID, d.ReceiptBookID, d.ReceiptNumber, d.DieselQty, d.Remarks); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// insertDetail inserts one detail row and, if it claims a receipt, decrements
// the book balance. The decrement is guarded so an exhausted book stays at
// zero instead of violating the balance check.
func insertDetail(ctx context.Context, tx pgx.Tx, allotmentID int, status, detailDate string,
	vendorID, bookID, receiptNumber *int, qty float64, remarks string) error {

	_, err := tx.Exec(ctx,
		`INSERT INTO allotment_details(allotment_id, detail_date, vendor_id, receipt_book_id,
                                       receipt_number, diesel_qty, status, remarks)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		allotmentID, detailDate, vendorID, bookID, receiptNumber, qty, status, remarks)
	if err != nil {
		if isUniqueViolation(err, "uq_allotment_details_book_number") {
			return fmt.Errorf("%w: %v", ErrDuplicateReceipt, derefInt(receiptNumber))
		}
		return err
	}

	if bookID != nil && receiptNumber != nil {
		_, err = tx.Exec(ctx,
			`UPDATE receipt_books
             SET receipts_balance = receipts_balance - 1, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1 AND receipts_balance > 0`,
			*bookID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListByPeriod loads every allotment of a saved month with its details. The
// details come back in one query to avoid a round trip per vehicle.
func (r *AllotmentRepository) ListByPeriod(ctx context.Context, year, month int) ([]*models.AllotmentWithDetails, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, vehicle_no, year, month, company_route_id, route_name, monthly_kms,
		        actual_kms, vehicle_average, vehicle_capacity, no_of_days, diesel_require,
		        supervisor_name, status, package_id, created_at, updated_at
         FROM allotments
         WHERE year=$1 AND month=$2 AND status='active'
         ORDER BY vehicle_no`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.AllotmentWithDetails
	index := make(map[int]*models.AllotmentWithDetails)
	var ids []int
	for rows.Next() {
		var a models.AllotmentWithDetails
		err := rows.Scan(&a.ID, &a.VehicleNo, &a.Year, &a.Month, &a.CompanyRouteID,
			&a.RouteName, &a.MonthlyKms, &a.ActualKms, &a.VehicleAverage,
			&a.VehicleCapacity, &a.NoOfDays, &a.DieselRequire, &a.SupervisorName,
			&a.Status, &a.PackageID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		a.Details = []models.AllotmentDetail{}
		result = append(result, &a)
		index[a.ID] = &a
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	details, err := r.listDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if a, ok := index[d.AllotmentID]; ok {
			a.Details = append(a.Details, d)
		}
	}
	return result, nil
}

// GetWithDetails loads one allotment and its details for the editor
func (r *AllotmentRepository) GetWithDetails(ctx context.Context, id int) (*models.AllotmentWithDetails, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, vehicle_no, year, month, company_route_id, route_name, monthly_kms,
		        actual_kms, vehicle_average, vehicle_capacity, no_of_days, diesel_require,
		        supervisor_name, status, package_id, created_at, updated_at
         FROM allotments WHERE id=$1`, id)

	var a models.AllotmentWithDetails
	err := row.Scan(&a.ID, &a.VehicleNo, &a.Year, &a.Month, &a.CompanyRouteID,
		&a.RouteName, &a.MonthlyKms, &a.ActualKms, &a.VehicleAverage,
		&a.VehicleCapacity, &a.NoOfDays, &a.DieselRequire, &a.SupervisorName,
		&a.Status, &a.PackageID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Details, err = r.listDetails(ctx, []int{a.ID})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AllotmentRepository) listDetails(ctx context.Context, allotmentIDs []int) ([]models.AllotmentDetail, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT d.id, d.allotment_id, d.detail_date, d.vendor_id, COALESCE(v.name, ''),
		        d.receipt_book_id, COALESCE(b.book_no, ''), d.receipt_number, d.diesel_qty,
		        d.status, d.remarks, d.created_at, d.updated_at
         FROM allotment_details d
         LEFT JOIN diesel_vendors v ON v.id = d.vendor_id
         LEFT JOIN receipt_books b ON b.id = d.receipt_book_id
         WHERE d.allotment_id = ANY($1)
         ORDER BY d.detail_date, d.id`, allotmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.AllotmentDetail
	for rows.Next() {
		var d models.AllotmentDetail
		err := rows.Scan(&d.ID, &d.AllotmentID, &d.DetailDate, &d.VendorID, &d.VendorName,
			&d.ReceiptBookID, &d.BookNo, &d.ReceiptNumber, &d.DieselQty,
			&d.Status, &d.Remarks, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// UpsertDetails applies the editor's changes to one allotment in a single
// transaction. Rows without an id are inserted as "extra" and consume a
// receipt; rows with an id update in place without touching book balances.
// Claims move in two phases: every edited row's claim is cleared first, then
// the new values are written. Two rows swapping receipt numbers would
// otherwise collide with the unique book-number index mid-transaction.
func (r *AllotmentRepository) UpsertDetails(ctx context.Context, allotmentID int, details []models.DetailUpsert) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range details {
		if d.ID == nil {
			continue
		}
		_, err = tx.Exec(ctx,
			`UPDATE allotment_details
             SET receipt_book_id=NULL, receipt_number=NULL
             WHERE id=$1 AND allotment_id=$2`,
			*d.ID, allotmentID)
		if err != nil {
			return err
		}
	}

	for _, d := range details {
		if d.ID == nil {
			if err := insertDetail(ctx, tx, allotmentID, models.DetailStatusExtra, d.DetailDate,
				d.VendorID, d.ReceiptBookID, d.ReceiptNumber, d.DieselQty, d.Remarks); err != nil {
				return err
			}
			continue
		}

		_, err = tx.Exec(ctx,
			`UPDATE allotment_details
             SET detail_date=$1, vendor_id=$2, receipt_book_id=$3, receipt_number=$4,
                 diesel_qty=$5, remarks=$6, updated_at=CURRENT_TIMESTAMP
             WHERE id=$7 AND allotment_id=$8`,
			d.DetailDate, d.VendorID, d.ReceiptBookID, d.ReceiptNumber,
			d.DieselQty, d.Remarks, *d.ID, allotmentID)
		if err != nil {
			if isUniqueViolation(err, "uq_allotment_details_book_number") {
				return fmt.Errorf("%w: %v", ErrDuplicateReceipt, derefInt(d.ReceiptNumber))
			}
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE allotments SET updated_at=CURRENT_TIMESTAMP WHERE id=$1`, allotmentID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateStatus toggles an allotment active or inactive. Inactive allotments
// drop out of the period view but keep their details and receipt claims.
func (r *AllotmentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE allotments SET status=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("allotment not found")
	}
	return nil
}

// FindBySlip looks up the ledger record for a receipt number. When the same
// number exists in more than one book, the most recently created row wins.
func (r *AllotmentRepository) FindBySlip(ctx context.Context, slipNumber int) (*models.SlipDetails, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT d.receipt_number, a.vehicle_no, TO_CHAR(d.detail_date, 'YYYY-MM-DD'),
		        COALESCE(v.name, ''), COALESCE(b.book_no, ''), d.diesel_qty, d.status, d.remarks
         FROM allotment_details d
         JOIN allotments a ON a.id = d.allotment_id
         LEFT JOIN diesel_vendors v ON v.id = d.vendor_id
         LEFT JOIN receipt_books b ON b.id = d.receipt_book_id
         WHERE d.receipt_number=$1
         ORDER BY d.created_at DESC
         LIMIT 1`, slipNumber)

	var s models.SlipDetails
	err := row.Scan(&s.ReceiptNumber, &s.VehicleNo, &s.DetailDate, &s.VendorName,
		&s.BookNo, &s.DieselQty, &s.Status, &s.Remarks)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
