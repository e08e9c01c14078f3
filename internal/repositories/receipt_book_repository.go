package repositories

import (
	"context"
	"fleet-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReceiptBookRepository struct {
	DB *pgxpool.Pool
}

func NewReceiptBookRepository(db *pgxpool.Pool) *ReceiptBookRepository {
	return &ReceiptBookRepository{DB: db}
}

func (r *ReceiptBookRepository) Create(ctx context.Context, b *models.ReceiptBook) error {
	if b.Status == "" {
		b.Status = "active"
	}
	b.ReceiptsCount = b.ReceiptTo - b.ReceiptFrom + 1
	b.ReceiptsBalance = b.ReceiptsCount
	return r.DB.QueryRow(ctx,
		`INSERT INTO receipt_books(vendor_id, book_no, issued_date, receipt_from, receipt_to,
                                   receipts_count, receipts_balance, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at, updated_at`,
		b.VendorID, b.BookNo, b.IssuedDate, b.ReceiptFrom, b.ReceiptTo,
		b.ReceiptsCount, b.ReceiptsBalance, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *ReceiptBookRepository) Get(ctx context.Context, id int) (*models.ReceiptBook, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT b.id, b.vendor_id, v.name, b.book_no, b.issued_date, b.receipt_from, b.receipt_to,
		        b.receipts_count, b.receipts_balance, b.status, b.created_at, b.updated_at
         FROM receipt_books b
         JOIN diesel_vendors v ON v.id = b.vendor_id
         WHERE b.id=$1`, id)

	var b models.ReceiptBook
	err := row.Scan(&b.ID, &b.VendorID, &b.VendorName, &b.BookNo, &b.IssuedDate,
		&b.ReceiptFrom, &b.ReceiptTo, &b.ReceiptsCount, &b.ReceiptsBalance,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

// List returns all receipt books with vendor names, newest first
func (r *ReceiptBookRepository) List(ctx context.Context) ([]*models.ReceiptBook, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT b.id, b.vendor_id, v.name, b.book_no, b.issued_date, b.receipt_from, b.receipt_to,
		        b.receipts_count, b.receipts_balance, b.status, b.created_at, b.updated_at
         FROM receipt_books b
         JOIN diesel_vendors v ON v.id = b.vendor_id
         ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceiptBooks(rows)
}

// ListActiveByVendor returns a vendor's active books that still have balance,
// oldest issue first so clerks drain books in order.
func (r *ReceiptBookRepository) ListActiveByVendor(ctx context.Context, vendorID int) ([]*models.ReceiptBook, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT b.id, b.vendor_id, v.name, b.book_no, b.issued_date, b.receipt_from, b.receipt_to,
		        b.receipts_count, b.receipts_balance, b.status, b.created_at, b.updated_at
         FROM receipt_books b
         JOIN diesel_vendors v ON v.id = b.vendor_id
         WHERE b.vendor_id=$1 AND b.status='active' AND b.receipts_balance > 0
         ORDER BY b.issued_date NULLS LAST, b.id`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceiptBooks(rows)
}

func scanReceiptBooks(rows pgx.Rows) ([]*models.ReceiptBook, error) {
	var books []*models.ReceiptBook
	for rows.Next() {
		var b models.ReceiptBook
		err := rows.Scan(&b.ID, &b.VendorID, &b.VendorName, &b.BookNo, &b.IssuedDate,
			&b.ReceiptFrom, &b.ReceiptTo, &b.ReceiptsCount, &b.ReceiptsBalance,
			&b.Status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// UsedNumbers returns the receipt numbers of a book already claimed by
// allotment details.
func (r *ReceiptBookRepository) UsedNumbers(ctx context.Context, bookID int) (map[int]bool, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT receipt_number FROM allotment_details
         WHERE receipt_book_id=$1 AND receipt_number IS NOT NULL`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[int]bool)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		used[n] = true
	}
	return used, rows.Err()
}

// Update updates book metadata. The number range is immutable once receipts
// have been consumed; the service layer enforces that.
func (r *ReceiptBookRepository) Update(ctx context.Context, b *models.ReceiptBook) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE receipt_books
         SET vendor_id=$1, book_no=$2, issued_date=$3, receipt_from=$4, receipt_to=$5,
             receipts_count=$6, receipts_balance=$7, status=$8, updated_at=CURRENT_TIMESTAMP
         WHERE id=$9`,
		b.VendorID, b.BookNo, b.IssuedDate, b.ReceiptFrom, b.ReceiptTo,
		b.ReceiptsCount, b.ReceiptsBalance, b.Status, b.ID)
	return err
}

// Delete deletes a receipt book with no consumed receipts
func (r *ReceiptBookRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM receipt_books WHERE id=$1`, id)
	return err
}
