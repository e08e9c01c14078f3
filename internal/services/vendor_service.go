package services

import (
	"context"
	"errors"

	"fleet-backend/internal/cache"
	"fleet-backend/internal/models"
	"fleet-backend/internal/repositories"
)

type VendorService struct {
	Repo *repositories.VendorRepository
}

func NewVendorService(repo *repositories.VendorRepository) *VendorService {
	return &VendorService{Repo: repo}
}

func (s *VendorService) CreateVendor(ctx context.Context, req *models.SaveVendorRequest) (*models.Vendor, error) {
	if req.Name == "" {
		return nil, errors.New("vendor name is required")
	}

	v := &models.Vendor{
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		SupplyType:    req.SupplyType,
		Status:        req.Status,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return nil, err
	}

	cache.InvalidateVendorCaches(ctx)
	return v, nil
}

func (s *VendorService) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	return s.Repo.Get(ctx, id)
}

// ListVendors returns all vendors
func (s *VendorService) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	return s.Repo.List(ctx)
}

// ListActiveWithStock returns active vendors with open receipt capacity
func (s *VendorService) ListActiveWithStock(ctx context.Context) ([]*models.VendorWithStock, error) {
	return s.Repo.ListActiveWithStock(ctx)
}

// UpdateVendor updates an existing vendor
func (s *VendorService) UpdateVendor(ctx context.Context, id int, req *models.SaveVendorRequest) (*models.Vendor, error) {
	if req.Name == "" {
		return nil, errors.New("vendor name is required")
	}

	v, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("vendor not found")
	}

	v.Name = req.Name
	v.Address = req.Address
	v.ContactPerson = req.ContactPerson
	if req.SupplyType != "" {
		v.SupplyType = req.SupplyType
	}
	if req.Status != "" {
		v.Status = req.Status
	}

	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, err
	}

	cache.InvalidateVendorCaches(ctx)
	return v, nil
}

// DeleteVendor deletes a vendor without receipt book history
func (s *VendorService) DeleteVendor(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateVendorCaches(ctx)
	return nil
}
