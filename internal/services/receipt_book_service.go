package services

import (
	"context"
	"errors"
	"fmt"

	"fleet-backend/internal/cache"
	"fleet-backend/internal/models"
	"fleet-backend/internal/timeutil"
)

// ReceiptBookStore is the persistence surface the ledger logic needs.
// Satisfied by repositories.ReceiptBookRepository; tests plug in a fake.
type ReceiptBookStore interface {
	Create(ctx context.Context, b *models.ReceiptBook) error
	Get(ctx context.Context, id int) (*models.ReceiptBook, error)
	List(ctx context.Context) ([]*models.ReceiptBook, error)
	ListActiveByVendor(ctx context.Context, vendorID int) ([]*models.ReceiptBook, error)
	UsedNumbers(ctx context.Context, bookID int) (map[int]bool, error)
	Update(ctx context.Context, b *models.ReceiptBook) error
	Delete(ctx context.Context, id int) error
}

type ReceiptBookService struct {
	Store ReceiptBookStore
}

func NewReceiptBookService(store ReceiptBookStore) *ReceiptBookService {
	return &ReceiptBookService{Store: store}
}

// CreateBook registers a new receipt book with a full balance
func (s *ReceiptBookService) CreateBook(ctx context.Context, req *models.SaveReceiptBookRequest) (*models.ReceiptBook, error) {
	if req.VendorID == 0 {
		return nil, errors.New("vendor is required")
	}
	if req.ReceiptTo < req.ReceiptFrom {
		return nil, errors.New("receipt range end must not be before its start")
	}
	if req.ReceiptFrom <= 0 {
		return nil, errors.New("receipt numbers must be positive")
	}

	b := &models.ReceiptBook{
		VendorID:    req.VendorID,
		BookNo:      req.BookNo,
		ReceiptFrom: req.ReceiptFrom,
		ReceiptTo:   req.ReceiptTo,
		Status:      req.Status,
	}
	if req.IssuedDate != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, req.IssuedDate)
		if err != nil {
			return nil, errors.New("issued_date must be YYYY-MM-DD")
		}
		b.IssuedDate = &t
	}

	if err := s.Store.Create(ctx, b); err != nil {
		return nil, err
	}

	cache.InvalidateReceiptBookCaches(ctx)
	return b, nil
}

func (s *ReceiptBookService) GetBook(ctx context.Context, id int) (*models.ReceiptBook, error) {
	return s.Store.Get(ctx, id)
}

// ListBooks returns all receipt books
func (s *ReceiptBookService) ListBooks(ctx context.Context) ([]*models.ReceiptBook, error) {
	return s.Store.List(ctx)
}

// ListActiveByVendor returns a vendor's books that can still issue receipts
func (s *ReceiptBookService) ListActiveByVendor(ctx context.Context, vendorID int) ([]*models.ReceiptBook, error) {
	return s.Store.ListActiveByVendor(ctx, vendorID)
}

// AvailableNumbers lists a book's full number range with used flags. Used
// numbers stay in the list flagged, so an edit form can still show a row's
// previous choice as disabled. When exclude carries the number an edited row
// already holds, only that number comes back; the row keeps its committed
// value and recomputing the free-list would be wasted work.
func (s *ReceiptBookService) AvailableNumbers(ctx context.Context, bookID int, exclude int) ([]models.ReceiptNumberOption, error) {
	book, err := s.Store.Get(ctx, bookID)
	if err != nil {
		return nil, errors.New("receipt book not found")
	}

	if exclude != 0 {
		return []models.ReceiptNumberOption{{Number: exclude}}, nil
	}

	used, err := s.Store.UsedNumbers(ctx, bookID)
	if err != nil {
		return nil, err
	}

	options := make([]models.ReceiptNumberOption, 0, book.ReceiptTo-book.ReceiptFrom+1)
	for n := book.ReceiptFrom; n <= book.ReceiptTo; n++ {
		options = append(options, models.ReceiptNumberOption{
			Number: n,
			Used:   used[n],
		})
	}
	return options, nil
}

// UpdateBook updates book metadata. Shrinking the range below already
// consumed receipts is rejected.
func (s *ReceiptBookService) UpdateBook(ctx context.Context, id int, req *models.SaveReceiptBookRequest) (*models.ReceiptBook, error) {
	b, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, errors.New("receipt book not found")
	}
	if req.ReceiptTo < req.ReceiptFrom {
		return nil, errors.New("receipt range end must not be before its start")
	}

	used, err := s.Store.UsedNumbers(ctx, id)
	if err != nil {
		return nil, err
	}
	for n := range used {
		if n < req.ReceiptFrom || n > req.ReceiptTo {
			return nil, fmt.Errorf("receipt %d already issued falls outside the new range", n)
		}
	}

	consumed := len(used)
	b.VendorID = req.VendorID
	b.BookNo = req.BookNo
	b.ReceiptFrom = req.ReceiptFrom
	b.ReceiptTo = req.ReceiptTo
	b.ReceiptsCount = req.ReceiptTo - req.ReceiptFrom + 1
	b.ReceiptsBalance = b.ReceiptsCount - consumed
	if req.Status != "" {
		b.Status = req.Status
	}
	if req.IssuedDate != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, req.IssuedDate)
		if err != nil {
			return nil, errors.New("issued_date must be YYYY-MM-DD")
		}
		b.IssuedDate = &t
	}

	if err := s.Store.Update(ctx, b); err != nil {
		return nil, err
	}

	cache.InvalidateReceiptBookCaches(ctx)
	return b, nil
}

// DeleteBook removes a book only while untouched
func (s *ReceiptBookService) DeleteBook(ctx context.Context, id int) error {
	used, err := s.Store.UsedNumbers(ctx, id)
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return errors.New("cannot delete a receipt book with issued receipts")
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateReceiptBookCaches(ctx)
	return nil
}
