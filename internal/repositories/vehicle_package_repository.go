package repositories

import (
	"context"
	"fleet-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VehiclePackageRepository reads the monthly vehicle-route assignments owned
// by the package module. Read-only from this subsystem's side.
type VehiclePackageRepository struct {
	DB *pgxpool.Pool
}

func NewVehiclePackageRepository(db *pgxpool.Pool) *VehiclePackageRepository {
	return &VehiclePackageRepository{DB: db}
}

// ListByPeriod returns the active packages for a (year, month)
func (r *VehiclePackageRepository) ListByPeriod(ctx context.Context, year, month int) ([]*models.VehiclePackage, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, vehicle_no, year, month, company_route_id, route_name, monthly_kms,
		        actual_kms, vehicle_average, vehicle_capacity, no_of_days,
		        supervisor_name, driver_name, status, created_at, updated_at
         FROM vehicle_packages
         WHERE year=$1 AND month=$2 AND status='active'
         ORDER BY vehicle_no`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []*models.VehiclePackage
	for rows.Next() {
		var p models.VehiclePackage
		err := rows.Scan(&p.ID, &p.VehicleNo, &p.Year, &p.Month, &p.CompanyRouteID,
			&p.RouteName, &p.MonthlyKms, &p.ActualKms, &p.VehicleAverage,
			&p.VehicleCapacity, &p.NoOfDays, &p.SupervisorName, &p.DriverName,
			&p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		packages = append(packages, &p)
	}
	return packages, rows.Err()
}
