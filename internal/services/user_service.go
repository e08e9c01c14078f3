package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/models"
)

// UserStore is the persistence surface for back-office accounts.
// Satisfied by repositories.UserRepository; tests plug in a fake.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

type UserService struct {
	Store      UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(store UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Store:      store,
		JWTManager: jwtManager,
	}
}

// normalizeEmail keeps lookups and duplicate checks case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleClerk, models.RoleSupervisor:
		return true
	}
	return false
}

// CreateUser registers a back-office account with a known role. Accounts
// without an explicit role come in as clerks.
func (s *UserService) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = models.RoleClerk
	}
	if !validRole(u.Role) {
		return fmt.Errorf("unknown role %q", u.Role)
	}

	if u.PasswordHash != "" {
		hashed, err := auth.HashPassword(u.PasswordHash)
		if err != nil {
			return err
		}
		u.PasswordHash = hashed
	}
	return s.Store.Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Store.Get(ctx, id)
}

// ListUsers returns all back-office accounts
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Store.List(ctx)
}

// UpdateUser edits an account. A non-empty password re-hashes; a role change
// is validated like on create.
func (s *UserService) UpdateUser(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role != "" && !validRole(u.Role) {
		return fmt.Errorf("unknown role %q", u.Role)
	}

	if u.PasswordHash != "" {
		hashed, err := auth.HashPassword(u.PasswordHash)
		if err != nil {
			return err
		}
		u.PasswordHash = hashed
	}
	return s.Store.Update(ctx, u)
}

// DeleteUser removes an account
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Store.Delete(ctx, id)
}

// Signup registers a clerk account and logs it in. Promotion to supervisor
// or admin happens afterwards through the admin user management screens.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	email := normalizeEmail(req.Email)
	if _, err := s.Store.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("an account with this email already exists")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleClerk,
	}
	if err := s.Store.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates an account and returns a JWT. Suspended accounts are
// rejected after the password check so the error does not leak which part
// failed first.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Store.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account suspended, contact administrator")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
