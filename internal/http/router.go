package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleet-backend/internal/handlers"
	"fleet-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	vendorHandler *handlers.VendorHandler,
	receiptBookHandler *handlers.ReceiptBookHandler,
	allotmentHandler *handlers.AllotmentHandler,
	reconciliationHandler *handlers.ReconciliationHandler,
	vehiclePackageHandler *handlers.VehiclePackageHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireAdmin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	// Protected API routes - Diesel Vendors
	vendorsAPI := r.PathPrefix("/diesel-vendors").Subrouter()
	vendorsAPI.Use(authMiddleware.Authenticate)
	vendorsAPI.HandleFunc("", vendorHandler.List).Methods("GET")
	vendorsAPI.HandleFunc("", vendorHandler.Create).Methods("POST")
	vendorsAPI.HandleFunc("/active-receipts", vendorHandler.ListActiveWithStock).Methods("GET")
	vendorsAPI.HandleFunc("/{id}", vendorHandler.Get).Methods("GET")
	vendorsAPI.HandleFunc("/{id}", vendorHandler.Update).Methods("PUT")
	vendorsAPI.HandleFunc("/{id}", vendorHandler.Delete).Methods("DELETE")

	// Protected API routes - Receipt Books
	receiptsAPI := r.PathPrefix("/diesel-receipts").Subrouter()
	receiptsAPI.Use(authMiddleware.Authenticate)
	receiptsAPI.HandleFunc("", receiptBookHandler.List).Methods("GET")
	receiptsAPI.HandleFunc("", receiptBookHandler.Create).Methods("POST")
	receiptsAPI.HandleFunc("/{receiptBookId}/numbers", receiptBookHandler.Numbers).Methods("GET")
	receiptsAPI.HandleFunc("/{vendorId}", receiptBookHandler.ListByVendor).Methods("GET")
	receiptsAPI.HandleFunc("/{id}", receiptBookHandler.Update).Methods("PUT")
	receiptsAPI.HandleFunc("/{id}", receiptBookHandler.Delete).Methods("DELETE")

	// Protected API routes - Allotments
	allotmentsAPI := r.PathPrefix("/diesel-allotments").Subrouter()
	allotmentsAPI.Use(authMiddleware.Authenticate)
	allotmentsAPI.HandleFunc("", allotmentHandler.GenerateDetails).Methods("GET")
	allotmentsAPI.HandleFunc("/check-period", allotmentHandler.CheckPeriod).Methods("GET")
	allotmentsAPI.HandleFunc("/details", allotmentHandler.ListByPeriod).Methods("GET")
	allotmentsAPI.HandleFunc("/save", allotmentHandler.Save).Methods("POST")
	allotmentsAPI.HandleFunc("/update", allotmentHandler.Update).Methods("PUT")
	allotmentsAPI.HandleFunc("/{id}", allotmentHandler.Get).Methods("GET")
	allotmentsAPI.HandleFunc("/{id}/status", allotmentHandler.SetStatus).Methods("PUT")

	// Protected API routes - Bill reconciliation
	dieselAPI := r.PathPrefix("/diesel").Subrouter()
	dieselAPI.Use(authMiddleware.Authenticate)
	dieselAPI.HandleFunc("/convert-pdf", reconciliationHandler.ConvertPDF).Methods("POST")
	dieselAPI.HandleFunc("/reconcile", reconciliationHandler.Reconcile).Methods("POST")
	dieselAPI.HandleFunc("/slip-details/{slipNumber}", reconciliationHandler.SlipDetails).Methods("GET")

	// Protected API routes - Vehicle package catalog (read-only)
	packagesAPI := r.PathPrefix("/vehicle-packages").Subrouter()
	packagesAPI.Use(authMiddleware.Authenticate)
	packagesAPI.HandleFunc("", vehiclePackageHandler.ListByPeriod).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
