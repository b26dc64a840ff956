package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/pkg/logger"
)

// Claims are the custom JWT claims. Subject holds the user id.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// AuthService issues and verifies bearer tokens and owns password handling.
type AuthService struct {
	users  repository.Users
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	log    *logger.Logger
}

func NewAuthService(users repository.Users, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		log:    logger.New("auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || strings.ContainsAny(username, " @") {
		return nil, invalid("username", "must be non-empty without spaces or @")
	}
	if len(in.Password) < 6 {
		return nil, invalid("password", "must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register: hash: %w", err)
	}
	now := s.now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleMember,
		Status:       model.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("username or email already registered")
		}
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}
	s.log.Infof("registered user %s (%s)", u.Username, u.ID)
	return u, nil
}

// Login accepts a username or an email address.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	login = strings.TrimSpace(login)
	var (
		u   *model.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.users.GetByUsername(ctx, login)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrUnauthorized
	}
	if err != nil {
		return "", nil, fmt.Errorf("AuthService.Login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrUnauthorized
	}
	if u.Status == model.UserSuspended {
		return "", nil, ErrAccountInactive
	}

	at := s.now().UTC()
	if err := s.users.TouchLogin(ctx, u.ID, at); err != nil {
		return "", nil, fmt.Errorf("AuthService.Login: %w", err)
	}
	u.LastLogin = &at
	u.UpdatedAt = at

	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) IssueToken(u *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("AuthService.IssueToken: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token to the current user record. Role and
// status are read from the store, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("AuthService.Authenticate: %w", err)
	}
	if u.Status == model.UserSuspended {
		return nil, ErrAccountInactive
	}
	return u, nil
}

// EnsureAdmin creates the configured admin account, or promotes an existing
// user with that username. It is safe to call on every start.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if password == "" {
		s.log.Warnf("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	u, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if u.Role == model.RoleAdmin && u.Status == model.UserActive {
			return nil
		}
		u.Role = model.RoleAdmin
		u.Status = model.UserActive
		u.UpdatedAt = s.now().UTC()
		if err := s.users.Update(ctx, u); err != nil {
			return fmt.Errorf("AuthService.EnsureAdmin: %w", err)
		}
		s.log.Infof("promoted %s to admin", username)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("AuthService.EnsureAdmin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("AuthService.EnsureAdmin: hash: %w", err)
	}
	now := s.now().UTC()
	admin := &model.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         strings.ToLower(email),
		PasswordHash:  string(hash),
		FullName:      "Administrator",
		Role:          model.RoleAdmin,
		Status:        model.UserActive,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("AuthService.EnsureAdmin: %w", err)
	}
	s.log.Infof("created admin account %s", username)
	return nil
}
