package models

import "time"

// VehiclePackage is a monthly vehicle-route-driver assignment owned by the
// package module. The allotment generator reads these as its input; nothing
// here ever writes them.
type VehiclePackage struct {
	ID              int       `json:"id"`
	VehicleNo       string    `json:"vehicle_no"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	CompanyRouteID  *int      `json:"company_route_id"`
	RouteName       string    `json:"route_name"`
	MonthlyKms      float64   `json:"monthly_kms"`
	ActualKms       float64   `json:"actual_kms"`
	VehicleAverage  float64   `json:"vehicle_average"`
	VehicleCapacity string    `json:"vehicle_capacity"`
	NoOfDays        int       `json:"no_of_days"`
	SupervisorName  string    `json:"supervisor_name"`
	DriverName      string    `json:"driver_name"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
