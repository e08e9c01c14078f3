package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fleet-backend/internal/models"
)

type fakeAllotmentStore struct {
	exists    bool
	existsErr error
	saved     *models.SaveAllotmentsRequest
	saveErr   error
	byID      map[int]*models.AllotmentWithDetails
	upserted  []models.DetailUpsert
}

func (f *fakeAllotmentStore) PeriodExists(ctx context.Context, year, month int) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeAllotmentStore) SaveBatch(ctx context.Context, req *models.SaveAllotmentsRequest) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = req
	return nil
}

func (f *fakeAllotmentStore) ListByPeriod(ctx context.Context, year, month int) ([]*models.AllotmentWithDetails, error) {
	return nil, nil
}

func (f *fakeAllotmentStore) GetWithDetails(ctx context.Context, id int) (*models.AllotmentWithDetails, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (f *fakeAllotmentStore) UpsertDetails(ctx context.Context, allotmentID int, details []models.DetailUpsert) error {
	f.upserted = details
	return nil
}

func (f *fakeAllotmentStore) UpdateStatus(ctx context.Context, id int, status string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("not found")
	}
	a.Status = status
	return nil
}

type fakePackageStore struct {
	packages []*models.VehiclePackage
}

func (f *fakePackageStore) ListByPeriod(ctx context.Context, year, month int) ([]*models.VehiclePackage, error) {
	return f.packages, nil
}

func intPtr(n int) *int { return &n }

func TestWeeklyAnchors(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		days  []int
	}{
		{"month starting on Sunday", 2025, 6, []int{1, 8, 15, 22, 29}},
		{"31-day month starting Wednesday", 2025, 10, []int{5, 12, 19, 26}},
		{"February starting Sunday", 2026, 2, []int{1, 8, 15, 22}},
		{"month starting Saturday", 2025, 3, []int{2, 9, 16, 23, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchors := weeklyAnchors(tt.year, tt.month)
			if len(anchors) != len(tt.days) {
				t.Fatalf("got %d anchors, want %d", len(anchors), len(tt.days))
			}
			for i, d := range anchors {
				if d.Day() != tt.days[i] {
					t.Errorf("anchor %d: got day %d, want %d", i, d.Day(), tt.days[i])
				}
				if d.Weekday() != time.Sunday {
					t.Errorf("anchor %d: %s is not a Sunday", i, d.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestDieselRequirement(t *testing.T) {
	tests := []struct {
		name       string
		monthlyKms float64
		average    float64
		want       int
	}{
		{"even division", 5000, 4, 1250},
		{"rounds up", 5000, 3, 1667},
		{"rounds half away from zero", 100, 8, 13},
		{"zero kms", 0, 4, 0},
		{"zero average", 5000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dieselRequirement(tt.monthlyKms, tt.average); got != tt.want {
				t.Errorf("dieselRequirement(%v, %v) = %d, want %d", tt.monthlyKms, tt.average, got, tt.want)
			}
		})
	}
}

func TestSplitQty(t *testing.T) {
	tests := []struct {
		require int
		weeks   int
		want    float64
	}{
		{1250, 5, 250},
		{1667, 4, 417},
		{1000, 3, 333},
		{0, 4, 0},
		{500, 0, 0},
	}

	for _, tt := range tests {
		if got := splitQty(tt.require, tt.weeks); got != tt.want {
			t.Errorf("splitQty(%d, %d) = %v, want %v", tt.require, tt.weeks, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	packages := []*models.VehiclePackage{
		{ID: 1, VehicleNo: "HR55AB1234", MonthlyKms: 5000, VehicleAverage: 4, RouteName: "Rohtak"},
		{ID: 2, VehicleNo: "HR55CD5678", MonthlyKms: 0, VehicleAverage: 4},
	}
	svc := NewAllotmentService(&fakeAllotmentStore{}, &fakePackageStore{packages: packages})

	staged, err := svc.Generate(context.Background(), 2025, 6)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(staged) != 2 {
		t.Fatalf("got %d staged allotments, want 2", len(staged))
	}

	first := staged[0]
	if first.DieselRequire != 1250 {
		t.Errorf("diesel require = %d, want 1250", first.DieselRequire)
	}
	// June 2025 has five Sundays starting on the 1st
	if len(first.Details) != 5 {
		t.Fatalf("got %d detail rows, want 5", len(first.Details))
	}
	for _, d := range first.Details {
		if d.DieselQty != 250 {
			t.Errorf("weekly qty = %v, want 250", d.DieselQty)
		}
		if d.VendorID != nil || d.ReceiptBookID != nil || d.ReceiptNumber != nil {
			t.Errorf("generated detail should have blank vendor and receipt")
		}
	}
	if first.PackageID == nil || *first.PackageID != 1 {
		t.Errorf("package id not carried through")
	}

	// Incomplete package data yields zero litres, not an error
	if staged[1].DieselRequire != 0 {
		t.Errorf("zero-kms package: diesel require = %d, want 0", staged[1].DieselRequire)
	}
}

func TestGenerateRefusesSavedPeriod(t *testing.T) {
	svc := NewAllotmentService(&fakeAllotmentStore{exists: true}, &fakePackageStore{})

	if _, err := svc.Generate(context.Background(), 2025, 6); !errors.Is(err, ErrPeriodSaved) {
		t.Fatalf("got %v, want ErrPeriodSaved", err)
	}
}

func TestSave(t *testing.T) {
	valid := func() *models.SaveAllotmentsRequest {
		return &models.SaveAllotmentsRequest{
			Year: 2025, Month: 6,
			Allotments: []models.StagedAllotment{
				{
					VehicleNo: "HR55AB1234",
					Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: 250, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
						{DetailDate: "2025-06-08", DieselQty: 250},
					},
				},
			},
		}
	}

	t.Run("happy path", func(t *testing.T) {
		store := &fakeAllotmentStore{}
		svc := NewAllotmentService(store, &fakePackageStore{})
		if err := svc.Save(context.Background(), valid()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if store.saved == nil {
			t.Fatalf("SaveBatch was not called")
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := NewAllotmentService(&fakeAllotmentStore{}, &fakePackageStore{})
		req := valid()
		req.Allotments = nil
		if err := svc.Save(context.Background(), req); err == nil {
			t.Fatalf("expected error for empty batch")
		}
	})

	t.Run("saved period", func(t *testing.T) {
		svc := NewAllotmentService(&fakeAllotmentStore{exists: true}, &fakePackageStore{})
		if err := svc.Save(context.Background(), valid()); !errors.Is(err, ErrPeriodSaved) {
			t.Fatalf("got %v, want ErrPeriodSaved", err)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		svc := NewAllotmentService(&fakeAllotmentStore{}, &fakePackageStore{})
		req := valid()
		req.Month = 13
		if err := svc.Save(context.Background(), req); err == nil {
			t.Fatalf("expected error for month 13")
		}
	})
}

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.SaveAllotmentsRequest
		wantErr string
	}{
		{
			name: "duplicate receipt across vehicles",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{
					{VehicleNo: "HR55AB1234", Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: 100, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
					}},
					{VehicleNo: "HR55CD5678", Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: 100, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
					}},
				},
			},
			wantErr: "HR55CD5678",
		},
		{
			name: "book without number",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{
					{VehicleNo: "HR55AB1234", Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: 100, ReceiptBookID: intPtr(1)},
					}},
				},
			},
			wantErr: "set together",
		},
		{
			name: "bad detail date",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{
					{VehicleNo: "HR55AB1234", Details: []models.StagedDetail{
						{DetailDate: "01/06/2025", DieselQty: 100},
					}},
				},
			},
			wantErr: "bad detail date",
		},
		{
			name: "negative quantity",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{
					{VehicleNo: "HR55AB1234", Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: -5},
					}},
				},
			},
			wantErr: "negative",
		},
		{
			name: "missing vehicle number",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{{VehicleNo: ""}},
			},
			wantErr: "vehicle number",
		},
		{
			name: "same number in different books is fine",
			req: &models.SaveAllotmentsRequest{
				Year: 2025, Month: 6,
				Allotments: []models.StagedAllotment{
					{VehicleNo: "HR55AB1234", Details: []models.StagedDetail{
						{DetailDate: "2025-06-01", DieselQty: 100, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
						{DetailDate: "2025-06-08", DieselQty: 100, ReceiptBookID: intPtr(2), ReceiptNumber: intPtr(101)},
					}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBatch(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpserts(t *testing.T) {
	existing := &models.AllotmentWithDetails{
		Details: []models.AllotmentDetail{
			{ID: 10, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
			{ID: 11, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(102)},
			{ID: 12},
		},
	}

	tests := []struct {
		name    string
		details []models.DetailUpsert
		wantErr bool
	}{
		{
			name: "row keeps its own number",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 200, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
			},
		},
		{
			name: "row steals another row's number",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 200, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(102)},
			},
			wantErr: true,
		},
		{
			name: "two rows swap numbers",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 200, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(102)},
				{ID: intPtr(11), DetailDate: "2025-06-08", DieselQty: 200, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
			},
		},
		{
			name: "new row with a fresh number",
			details: []models.DetailUpsert{
				{DetailDate: "2025-06-15", DieselQty: 150, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(103)},
			},
		},
		{
			name: "new row duplicates a saved number",
			details: []models.DetailUpsert{
				{DetailDate: "2025-06-15", DieselQty: 150, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
			},
			wantErr: true,
		},
		{
			name: "clearing a row frees its number for another",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 200},
				{ID: intPtr(12), DetailDate: "2025-06-15", DieselQty: 200, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
			},
		},
		{
			name: "two new rows claim the same number",
			details: []models.DetailUpsert{
				{DetailDate: "2025-06-15", DieselQty: 150, ReceiptBookID: intPtr(2), ReceiptNumber: intPtr(5)},
				{DetailDate: "2025-06-22", DieselQty: 150, ReceiptBookID: intPtr(2), ReceiptNumber: intPtr(5)},
			},
			wantErr: true,
		},
		{
			name: "number without a book",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 200, ReceiptNumber: intPtr(101)},
			},
			wantErr: true,
		},
		{
			name: "bad date",
			details: []models.DetailUpsert{
				{ID: intPtr(10), DetailDate: "June 1", DieselQty: 200},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpserts(existing, tt.details)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	store := &fakeAllotmentStore{
		byID: map[int]*models.AllotmentWithDetails{
			7: {
				Allotment: models.Allotment{ID: 7, VehicleNo: "HR55AB1234"},
				Details: []models.AllotmentDetail{
					{ID: 10, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
				},
			},
		},
	}
	svc := NewAllotmentService(store, &fakePackageStore{})

	t.Run("unknown allotment", func(t *testing.T) {
		_, err := svc.Update(context.Background(), &models.UpdateAllotmentRequest{
			AllotmentID: 99,
			Details:     []models.DetailUpsert{{DetailDate: "2025-06-01"}},
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing allotment id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), &models.UpdateAllotmentRequest{
			Details: []models.DetailUpsert{{DetailDate: "2025-06-01"}},
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("valid edit reaches the store", func(t *testing.T) {
		upserts := []models.DetailUpsert{
			{ID: intPtr(10), DetailDate: "2025-06-01", DieselQty: 300, ReceiptBookID: intPtr(1), ReceiptNumber: intPtr(101)},
		}
		if _, err := svc.Update(context.Background(), &models.UpdateAllotmentRequest{AllotmentID: 7, Details: upserts}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(store.upserted) != 1 {
			t.Fatalf("UpsertDetails got %d rows, want 1", len(store.upserted))
		}
	})
}
