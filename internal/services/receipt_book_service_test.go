package services

import (
	"context"
	"errors"
	"testing"

	"fleet-backend/internal/models"
)

type fakeReceiptBookStore struct {
	books   map[int]*models.ReceiptBook
	used    map[int]map[int]bool
	created *models.ReceiptBook
	updated *models.ReceiptBook
	deleted []int
}

func (f *fakeReceiptBookStore) Create(ctx context.Context, b *models.ReceiptBook) error {
	f.created = b
	return nil
}

func (f *fakeReceiptBookStore) Get(ctx context.Context, id int) (*models.ReceiptBook, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return b, nil
}

func (f *fakeReceiptBookStore) List(ctx context.Context) ([]*models.ReceiptBook, error) {
	return nil, nil
}

func (f *fakeReceiptBookStore) ListActiveByVendor(ctx context.Context, vendorID int) ([]*models.ReceiptBook, error) {
	return nil, nil
}

func (f *fakeReceiptBookStore) UsedNumbers(ctx context.Context, bookID int) (map[int]bool, error) {
	if f.used == nil {
		return map[int]bool{}, nil
	}
	used, ok := f.used[bookID]
	if !ok {
		return map[int]bool{}, nil
	}
	return used, nil
}

func (f *fakeReceiptBookStore) Update(ctx context.Context, b *models.ReceiptBook) error {
	f.updated = b
	return nil
}

func (f *fakeReceiptBookStore) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestCreateBook(t *testing.T) {
	tests := []struct {
		name    string
		req     models.SaveReceiptBookRequest
		wantErr bool
	}{
		{
			name: "valid book",
			req:  models.SaveReceiptBookRequest{VendorID: 1, BookNo: "B-12", ReceiptFrom: 101, ReceiptTo: 150, IssuedDate: "2025-06-01", Status: "active"},
		},
		{
			name:    "missing vendor",
			req:     models.SaveReceiptBookRequest{ReceiptFrom: 101, ReceiptTo: 150},
			wantErr: true,
		},
		{
			name:    "inverted range",
			req:     models.SaveReceiptBookRequest{VendorID: 1, ReceiptFrom: 150, ReceiptTo: 101},
			wantErr: true,
		},
		{
			name:    "non-positive start",
			req:     models.SaveReceiptBookRequest{VendorID: 1, ReceiptFrom: 0, ReceiptTo: 50},
			wantErr: true,
		},
		{
			name:    "bad issued date",
			req:     models.SaveReceiptBookRequest{VendorID: 1, ReceiptFrom: 101, ReceiptTo: 150, IssuedDate: "01/06/2025"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeReceiptBookStore{}
			svc := NewReceiptBookService(store)

			b, err := svc.CreateBook(context.Background(), &tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBook: %v", err)
			}
			if store.created == nil {
				t.Fatalf("Create was not called")
			}
			if b.BookNo != tt.req.BookNo || b.ReceiptFrom != tt.req.ReceiptFrom || b.ReceiptTo != tt.req.ReceiptTo {
				t.Errorf("book fields not carried through: %+v", b)
			}
			if b.IssuedDate == nil {
				t.Errorf("issued date was not parsed")
			}
		})
	}
}

func TestAvailableNumbers(t *testing.T) {
	store := &fakeReceiptBookStore{
		books: map[int]*models.ReceiptBook{
			1: {ID: 1, ReceiptFrom: 101, ReceiptTo: 105},
		},
		used: map[int]map[int]bool{
			1: {102: true, 104: true},
		},
	}
	svc := NewReceiptBookService(store)

	t.Run("used numbers flagged", func(t *testing.T) {
		options, err := svc.AvailableNumbers(context.Background(), 1, 0)
		if err != nil {
			t.Fatalf("AvailableNumbers: %v", err)
		}
		if len(options) != 5 {
			t.Fatalf("got %d options, want 5", len(options))
		}
		wantUsed := map[int]bool{101: false, 102: true, 103: false, 104: true, 105: false}
		for _, o := range options {
			if o.Used != wantUsed[o.Number] {
				t.Errorf("number %d: used = %v, want %v", o.Number, o.Used, wantUsed[o.Number])
			}
		}
	})

	t.Run("exclude short-circuits to the held number", func(t *testing.T) {
		options, err := svc.AvailableNumbers(context.Background(), 1, 104)
		if err != nil {
			t.Fatalf("AvailableNumbers: %v", err)
		}
		if len(options) != 1 {
			t.Fatalf("got %d options, want 1", len(options))
		}
		if options[0].Number != 104 || options[0].Used {
			t.Errorf("got %+v, want number 104 free", options[0])
		}
	})

	t.Run("unknown book", func(t *testing.T) {
		if _, err := svc.AvailableNumbers(context.Background(), 99, 0); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestUpdateBook(t *testing.T) {
	newStore := func() *fakeReceiptBookStore {
		return &fakeReceiptBookStore{
			books: map[int]*models.ReceiptBook{
				1: {ID: 1, VendorID: 1, ReceiptFrom: 101, ReceiptTo: 110, ReceiptsCount: 10, ReceiptsBalance: 8, Status: "active"},
			},
			used: map[int]map[int]bool{
				1: {102: true, 104: true},
			},
		}
	}

	t.Run("range cannot exclude issued receipts", func(t *testing.T) {
		svc := NewReceiptBookService(newStore())
		_, err := svc.UpdateBook(context.Background(), 1, &models.SaveReceiptBookRequest{
			VendorID: 1, ReceiptFrom: 103, ReceiptTo: 110,
		})
		if err == nil {
			t.Fatalf("expected error: receipt 102 falls outside the new range")
		}
	})

	t.Run("balance recomputed from new range", func(t *testing.T) {
		store := newStore()
		svc := NewReceiptBookService(store)
		b, err := svc.UpdateBook(context.Background(), 1, &models.SaveReceiptBookRequest{
			VendorID: 1, ReceiptFrom: 101, ReceiptTo: 120,
		})
		if err != nil {
			t.Fatalf("UpdateBook: %v", err)
		}
		if b.ReceiptsCount != 20 {
			t.Errorf("count = %d, want 20", b.ReceiptsCount)
		}
		if b.ReceiptsBalance != 18 {
			t.Errorf("balance = %d, want 18", b.ReceiptsBalance)
		}
		if store.updated == nil {
			t.Fatalf("Update was not called")
		}
		// Empty status keeps the stored one
		if b.Status != "active" {
			t.Errorf("status = %q, want active", b.Status)
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := NewReceiptBookService(newStore())
		_, err := svc.UpdateBook(context.Background(), 1, &models.SaveReceiptBookRequest{
			VendorID: 1, ReceiptFrom: 120, ReceiptTo: 101,
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("refused while receipts issued", func(t *testing.T) {
		store := &fakeReceiptBookStore{
			used: map[int]map[int]bool{1: {102: true}},
		}
		svc := NewReceiptBookService(store)
		if err := svc.DeleteBook(context.Background(), 1); err == nil {
			t.Fatalf("expected error")
		}
		if len(store.deleted) != 0 {
			t.Fatalf("Delete was called despite issued receipts")
		}
	})

	t.Run("untouched book deletes", func(t *testing.T) {
		store := &fakeReceiptBookStore{}
		svc := NewReceiptBookService(store)
		if err := svc.DeleteBook(context.Background(), 1); err != nil {
			t.Fatalf("DeleteBook: %v", err)
		}
		if len(store.deleted) != 1 || store.deleted[0] != 1 {
			t.Fatalf("Delete not called for book 1")
		}
	})
}
