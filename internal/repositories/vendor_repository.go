package repositories

import (
	"context"
	"fleet-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VendorRepository struct {
	DB *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{DB: db}
}

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	if v.SupplyType == "" {
		v.SupplyType = models.SupplyDiesel
	}
	if v.Status == "" {
		v.Status = "active"
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO diesel_vendors(name, address, contact_person, supply_type, status)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Address, v.ContactPerson, v.SupplyType, v.Status,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VendorRepository) Get(ctx context.Context, id int) (*models.Vendor, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, address, contact_person, supply_type, status, created_at, updated_at
         FROM diesel_vendors WHERE id=$1`, id)

	var v models.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Address, &v.ContactPerson, &v.SupplyType,
		&v.Status, &v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

// List returns all vendors, newest first
func (r *VendorRepository) List(ctx context.Context) ([]*models.Vendor, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, address, contact_person, supply_type, status, created_at, updated_at
         FROM diesel_vendors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		var v models.Vendor
		err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.ContactPerson, &v.SupplyType,
			&v.Status, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, &v)
	}
	return vendors, nil
}

// ListActiveWithStock returns active vendors with aggregate open receipt
// capacity across their active books. Vendors with no open book still appear
// with zero balance so the staging UI can explain why they are unusable.
func (r *VendorRepository) ListActiveWithStock(ctx context.Context) ([]*models.VendorWithStock, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT v.id, v.name, v.address, v.contact_person, v.supply_type, v.status,
		        v.created_at, v.updated_at,
		        COUNT(b.id) FILTER (WHERE b.status='active' AND b.receipts_balance > 0),
		        COALESCE(SUM(b.receipts_balance) FILTER (WHERE b.status='active'), 0)
         FROM diesel_vendors v
         LEFT JOIN receipt_books b ON b.vendor_id = v.id
         WHERE v.status='active'
         GROUP BY v.id
         ORDER BY v.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.VendorWithStock
	for rows.Next() {
		var v models.VendorWithStock
		err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.ContactPerson, &v.SupplyType,
			&v.Status, &v.CreatedAt, &v.UpdatedAt, &v.ActiveBooks, &v.ReceiptsBalance)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, &v)
	}
	return vendors, nil
}

// Update updates an existing vendor
func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE diesel_vendors
         SET name=$1, address=$2, contact_person=$3, supply_type=$4, status=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		v.Name, v.Address, v.ContactPerson, v.SupplyType, v.Status, v.ID)
	return err
}

// Delete deletes a vendor. Fails with a foreign key error if receipt books
// reference it; callers should deactivate instead for vendors with history.
func (r *VendorRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM diesel_vendors WHERE id=$1`, id)
	return err
}
