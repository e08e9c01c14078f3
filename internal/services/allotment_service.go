package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"fleet-backend/internal/cache"
	"fleet-backend/internal/metrics"
	"fleet-backend/internal/models"
	"fleet-backend/internal/timeutil"
)

// ErrPeriodSaved is returned when generating or saving a month that already
// has a persisted batch.
var ErrPeriodSaved = errors.New("allotments for this period are already saved")

// AllotmentStore is the persistence surface of the allotment workflow.
// Satisfied by repositories.AllotmentRepository; tests plug in a fake.
type AllotmentStore interface {
	PeriodExists(ctx context.Context, year, month int) (bool, error)
	SaveBatch(ctx context.Context, req *models.SaveAllotmentsRequest) error
	ListByPeriod(ctx context.Context, year, month int) ([]*models.AllotmentWithDetails, error)
	GetWithDetails(ctx context.Context, id int) (*models.AllotmentWithDetails, error)
	UpsertDetails(ctx context.Context, allotmentID int, details []models.DetailUpsert) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

// PackageStore provides the vehicle packages a generation run starts from
type PackageStore interface {
	ListByPeriod(ctx context.Context, year, month int) ([]*models.VehiclePackage, error)
}

type AllotmentService struct {
	Store    AllotmentStore
	Packages PackageStore
}

func NewAllotmentService(store AllotmentStore, packages PackageStore) *AllotmentService {
	return &AllotmentService{Store: store, Packages: packages}
}

// CheckPeriod reports whether a (year, month) already has a saved batch
func (s *AllotmentService) CheckPeriod(ctx context.Context, year, month int) (*models.PeriodCheckResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	exists, err := s.Store.PeriodExists(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return &models.PeriodCheckResponse{Year: year, Month: month, Exists: exists}, nil
}

// Generate proposes a staged batch for a month from its vehicle packages.
// Nothing is persisted; the clerk fills in vendors and receipt numbers before
// saving. Generation is refused for an already saved month.
func (s *AllotmentService) Generate(ctx context.Context, year, month int) ([]models.StagedAllotment, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	exists, err := s.Store.PeriodExists(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPeriodSaved
	}

	packages, err := s.Packages.ListByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	anchors := weeklyAnchors(year, month)
	staged := make([]models.StagedAllotment, 0, len(packages))
	for _, p := range packages {
		require := dieselRequirement(p.MonthlyKms, p.VehicleAverage)
		weekQty := splitQty(require, len(anchors))

		details := make([]models.StagedDetail, 0, len(anchors))
		for _, d := range anchors {
			details = append(details, models.StagedDetail{
				DetailDate: d.Format(timeutil.DateLayout),
				DieselQty:  weekQty,
			})
		}

		pkgID := p.ID
		staged = append(staged, models.StagedAllotment{
			VehicleNo:       p.VehicleNo,
			CompanyRouteID:  p.CompanyRouteID,
			RouteName:       p.RouteName,
			MonthlyKms:      p.MonthlyKms,
			ActualKms:       p.ActualKms,
			VehicleAverage:  p.VehicleAverage,
			VehicleCapacity: p.VehicleCapacity,
			NoOfDays:        p.NoOfDays,
			DieselRequire:   require,
			SupervisorName:  p.SupervisorName,
			PackageID:       &pkgID,
			Details:         details,
		})
	}
	return staged, nil
}

// Save persists a staged month atomically. The batch is validated first so a
// duplicate receipt number fails before anything is written.
func (s *AllotmentService) Save(ctx context.Context, req *models.SaveAllotmentsRequest) error {
	if err := validatePeriod(req.Year, req.Month); err != nil {
		return err
	}
	if len(req.Allotments) == 0 {
		return errors.New("nothing to save: staged batch is empty")
	}
	if err := validateBatch(req); err != nil {
		return err
	}

	exists, err := s.Store.PeriodExists(ctx, req.Year, req.Month)
	if err != nil {
		return err
	}
	if exists {
		return ErrPeriodSaved
	}

	if err := s.Store.SaveBatch(ctx, req); err != nil {
		metrics.AllotmentsSaved.WithLabelValues("error").Inc()
		return err
	}
	metrics.AllotmentsSaved.WithLabelValues("ok").Inc()

	cache.InvalidateAllotmentCaches(ctx)
	return nil
}

// ListByPeriod returns a saved month's allotments with details, cached for
// five minutes since the back office reloads this view constantly.
func (s *AllotmentService) ListByPeriod(ctx context.Context, year, month int) ([]*models.AllotmentWithDetails, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	key := cache.PeriodKey(year, month)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached []*models.AllotmentWithDetails
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	allotments, err := s.Store.ListByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(allotments); err == nil {
		cache.SetCached(ctx, key, data, 5*time.Minute)
	}
	return allotments, nil
}

// GetWithDetails loads one allotment for the editor
func (s *AllotmentService) GetWithDetails(ctx context.Context, id int) (*models.AllotmentWithDetails, error) {
	return s.Store.GetWithDetails(ctx, id)
}

// Update applies editor changes to a saved allotment. New rows enter as
// "extra" and consume a receipt; existing rows update in place.
func (s *AllotmentService) Update(ctx context.Context, req *models.UpdateAllotmentRequest) (*models.AllotmentWithDetails, error) {
	if req.AllotmentID == 0 {
		return nil, errors.New("allotment_id is required")
	}
	if len(req.Details) == 0 {
		return nil, errors.New("no detail changes supplied")
	}

	existing, err := s.Store.GetWithDetails(ctx, req.AllotmentID)
	if err != nil {
		return nil, errors.New("allotment not found")
	}

	if err := validateUpserts(existing, req.Details); err != nil {
		return nil, err
	}

	if err := s.Store.UpsertDetails(ctx, req.AllotmentID, req.Details); err != nil {
		return nil, err
	}

	cache.InvalidateAllotmentCaches(ctx)
	return s.Store.GetWithDetails(ctx, req.AllotmentID)
}

// SetStatus toggles an allotment active or inactive
func (s *AllotmentService) SetStatus(ctx context.Context, id int, status string) error {
	if status != "active" && status != "inactive" {
		return fmt.Errorf("invalid status %q", status)
	}
	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	cache.InvalidateAllotmentCaches(ctx)
	return nil
}

// validatePeriod bounds the period to plausible back-office values
func validatePeriod(year, month int) error {
	if year < 2000 || year > 2100 {
		return fmt.Errorf("invalid year %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}
	return nil
}

// validateBatch rejects malformed staged rows and receipt numbers claimed
// twice within the same batch.
func validateBatch(req *models.SaveAllotmentsRequest) error {
	type claim struct{ book, number int }
	seen := make(map[claim]string)

	for _, a := range req.Allotments {
		if a.VehicleNo == "" {
			return errors.New("staged allotment without vehicle number")
		}
		for _, d := range a.Details {
			if _, err := time.Parse(timeutil.DateLayout, d.DetailDate); err != nil {
				return fmt.Errorf("vehicle %s: bad detail date %q", a.VehicleNo, d.DetailDate)
			}
			if d.DieselQty < 0 {
				return fmt.Errorf("vehicle %s: negative diesel quantity", a.VehicleNo)
			}
			if (d.ReceiptBookID == nil) != (d.ReceiptNumber == nil) {
				return fmt.Errorf("vehicle %s: receipt book and number must be set together", a.VehicleNo)
			}
			if d.ReceiptBookID != nil && d.ReceiptNumber != nil {
				c := claim{*d.ReceiptBookID, *d.ReceiptNumber}
				if other, dup := seen[c]; dup {
					return fmt.Errorf("receipt %d of book %d assigned to both %s and %s",
						c.number, c.book, other, a.VehicleNo)
				}
				seen[c] = a.VehicleNo
			}
		}
	}
	return nil
}

// validateUpserts checks editor rows against each other and the rows already
// saved for this allotment. The database unique index is the final guard; this
// produces friendlier errors first. The check projects the allotment's state
// after the edit and rejects it if any (book, number) pair ends up claimed by
// two rows.
func validateUpserts(existing *models.AllotmentWithDetails, details []models.DetailUpsert) error {
	type claim struct{ book, number int }

	// Claims per row as they will be once the edit lands
	final := make(map[int]*claim)
	for _, d := range existing.Details {
		if d.ReceiptBookID != nil && d.ReceiptNumber != nil {
			final[d.ID] = &claim{*d.ReceiptBookID, *d.ReceiptNumber}
		}
	}

	nextNewID := -1
	for _, d := range details {
		if _, err := time.Parse(timeutil.DateLayout, d.DetailDate); err != nil {
			return fmt.Errorf("bad detail date %q", d.DetailDate)
		}
		if d.DieselQty < 0 {
			return errors.New("negative diesel quantity")
		}
		if (d.ReceiptBookID == nil) != (d.ReceiptNumber == nil) {
			return errors.New("receipt book and number must be set together")
		}

		id := nextNewID
		if d.ID != nil {
			id = *d.ID
		} else {
			nextNewID--
		}

		if d.ReceiptBookID == nil {
			delete(final, id)
			continue
		}
		final[id] = &claim{*d.ReceiptBookID, *d.ReceiptNumber}
	}

	counts := make(map[claim]int)
	for _, c := range final {
		counts[*c]++
		if counts[*c] > 1 {
			return fmt.Errorf("receipt %d of book %d is already used", c.number, c.book)
		}
	}
	return nil
}

// dieselRequirement converts a monthly distance target into litres. Either
// input at zero means the package data is incomplete and yields zero.
func dieselRequirement(monthlyKms, vehicleAverage float64) int {
	if monthlyKms == 0 || vehicleAverage == 0 {
		return 0
	}
	return int(math.Round(monthlyKms / vehicleAverage))
}

// splitQty divides a monthly requirement evenly across weekly slices
func splitQty(require, weeks int) float64 {
	if weeks == 0 {
		return 0
	}
	return math.Round(float64(require) / float64(weeks))
}

// weeklyAnchors returns the issue dates for a month: the first Sunday on or
// after the 1st, then every seventh day inside the month.
func weeklyAnchors(year, month int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timeutil.IST)
	lastDay := first.AddDate(0, 1, -1).Day()

	offset := (7 - int(first.Weekday())) % 7
	var anchors []time.Time
	for day := 1 + offset; day <= lastDay; day += 7 {
		anchors = append(anchors, time.Date(year, time.Month(month), day, 0, 0, 0, 0, timeutil.IST))
	}
	return anchors
}
