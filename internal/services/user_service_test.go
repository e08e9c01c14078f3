package services

import (
	"context"
	"errors"
	"testing"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/config"
	"fleet-backend/internal/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.User, error) { return nil, nil }

func (f *fakeUserStore) Update(ctx context.Context, u *models.User) error { return nil }

func (f *fakeUserStore) Delete(ctx context.Context, id int) error { return nil }

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "fleet-backend"
	return auth.NewJWTManager(cfg)
}

func TestSignup(t *testing.T) {
	t.Run("new accounts come in as clerks", func(t *testing.T) {
		store := newFakeUserStore()
		svc := NewUserService(store, testJWTManager())

		resp, err := svc.Signup(context.Background(), &models.SignupRequest{
			Name: "Ramesh", Email: "Ramesh@Fleet.IN", Password: "secret12",
		})
		if err != nil {
			t.Fatalf("Signup: %v", err)
		}
		if resp.Token == "" {
			t.Errorf("no token issued")
		}
		if resp.User.Role != models.RoleClerk {
			t.Errorf("role = %q, want clerk", resp.User.Role)
		}
		if resp.User.Email != "ramesh@fleet.in" {
			t.Errorf("email not normalized: %q", resp.User.Email)
		}
		if !auth.VerifyPassword(resp.User.PasswordHash, "secret12") {
			t.Errorf("password was not hashed")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newFakeUserStore()
		store.byEmail["ramesh@fleet.in"] = &models.User{ID: 1, Email: "ramesh@fleet.in"}
		svc := NewUserService(store, testJWTManager())

		_, err := svc.Signup(context.Background(), &models.SignupRequest{
			Name: "Ramesh", Email: "RAMESH@fleet.in", Password: "secret12",
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewUserService(newFakeUserStore(), testJWTManager())
		if _, err := svc.Signup(context.Background(), &models.SignupRequest{Email: "x@y.z"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestLogin(t *testing.T) {
	seed := func(active bool) *fakeUserStore {
		store := newFakeUserStore()
		hashed, _ := auth.HashPassword("secret12")
		store.byEmail["ramesh@fleet.in"] = &models.User{
			ID: 1, Email: "ramesh@fleet.in", PasswordHash: hashed,
			Role: models.RoleClerk, IsActive: active,
		}
		return store
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc := NewUserService(seed(true), testJWTManager())
		resp, err := svc.Login(context.Background(), &models.LoginRequest{
			Email: "Ramesh@Fleet.IN", Password: "secret12",
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.Token == "" {
			t.Errorf("no token issued")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewUserService(seed(true), testJWTManager())
		if _, err := svc.Login(context.Background(), &models.LoginRequest{
			Email: "ramesh@fleet.in", Password: "wrong",
		}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("suspended account", func(t *testing.T) {
		svc := NewUserService(seed(false), testJWTManager())
		if _, err := svc.Login(context.Background(), &models.LoginRequest{
			Email: "ramesh@fleet.in", Password: "secret12",
		}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("unknown role rejected", func(t *testing.T) {
		svc := NewUserService(newFakeUserStore(), testJWTManager())
		err := svc.CreateUser(context.Background(), &models.User{
			Name: "Sita", Email: "sita@fleet.in", PasswordHash: "secret12", Role: "manager",
		})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("blank role defaults to clerk", func(t *testing.T) {
		store := newFakeUserStore()
		svc := NewUserService(store, testJWTManager())
		u := &models.User{Name: "Sita", Email: "sita@fleet.in", PasswordHash: "secret12"}
		if err := svc.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if u.Role != models.RoleClerk {
			t.Errorf("role = %q, want clerk", u.Role)
		}
		if !auth.VerifyPassword(u.PasswordHash, "secret12") {
			t.Errorf("password was not hashed")
		}
	})
}
