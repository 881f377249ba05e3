package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/storage"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrUsernameExists  = errors.New("username already taken")
	ErrInvalidPassword = errors.New("invalid password")
)

// AccountStore creates and authenticates accounts. Accounts are immutable
// once created.
type AccountStore interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AccountService keeps accounts in memory and mirrors them to a JSON file.
type AccountService struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	byEmail    map[string]string // email -> userID
	byUsername map[string]string // lowercased username -> userID
	store      *storage.JSONStore
}

func NewAccountService(dataDir string) (*AccountService, error) {
	store, err := storage.NewJSONStore(dataDir, "accounts.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s := &AccountService{
		users:      make(map[string]*models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		store:      store,
	}

	var persisted []persistedUser
	if err := store.Load(&persisted); err != nil {
		return nil, fmt.Errorf("%w: load accounts: %v", ErrStorage, err)
	}
	for _, p := range persisted {
		u := p.toModel()
		s.index(&u)
	}
	return s, nil
}

// persistedUser exists because models.User hides the hash from JSON.
type persistedUser struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         models.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (p persistedUser) toModel() models.User {
	return models.User{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt,
	}
}

func (s *AccountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(req, models.RoleUser)
}

func (s *AccountService) CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(req, models.RoleAdmin)
}

func (s *AccountService) create(req *models.RegisterRequest, role models.Role) (*models.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(req.Email)
	if _, exists := s.byEmail[email]; exists {
		return nil, ErrEmailExists
	}
	if _, exists := s.byUsername[strings.ToLower(strings.TrimSpace(req.Username))]; exists {
		return nil, ErrUsernameExists
	}

	user, err := newUser(req, role)
	if err != nil {
		return nil, err
	}

	s.index(user)
	if err := s.persistLocked(); err != nil {
		s.unindex(user)
		return nil, err
	}
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[normalizeEmail(req.Email)]
	if !exists {
		return nil, ErrUserNotFound
	}

	user := s.users[userID]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	out := *user
	return &out, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	out := *user
	return &out, nil
}

func (s *AccountService) index(u *models.User) {
	s.users[u.ID] = u
	s.byEmail[normalizeEmail(u.Email)] = u.ID
	s.byUsername[strings.ToLower(u.Username)] = u.ID
}

func (s *AccountService) unindex(u *models.User) {
	delete(s.users, u.ID)
	delete(s.byEmail, normalizeEmail(u.Email))
	delete(s.byUsername, strings.ToLower(u.Username))
}

func (s *AccountService) persistLocked() error {
	out := make([]persistedUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, persistedUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			CreatedAt:    u.CreatedAt,
		})
	}
	if err := s.store.Save(out); err != nil {
		return fmt.Errorf("%w: save accounts: %v", ErrStorage, err)
	}
	return nil
}

func newUser(req *models.RegisterRequest, role models.Role) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
