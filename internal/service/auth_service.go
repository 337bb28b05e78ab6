package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"urungetir/internal/domain"
	"urungetir/internal/repository"
)

// AuthService coordina el registro y el login de usuarios: normaliza el
// email, aplica las reglas de contraseña, persiste y emite el token.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	tokens  *JWTService
	limiter LoginRateLimiter
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens *JWTService, limiter LoginRateLimiter) *AuthService {
	if limiter == nil {
		limiter = NewLoginRateLimiter(15*time.Minute, 10)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		tokens:  tokens,
		limiter: limiter,
	}
}

var (
	ErrEmailRequired      = errors.New("email required")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRateLimited        = errors.New("rate limited")
)

const minPasswordChars = 6

// Register da de alta un usuario nuevo y devuelve el token de acceso.
// El alta es una única inserción: o se confirma completa o no deja rastro.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, string, error) {
	if s.users == nil || s.tokens == nil {
		return domain.User{}, "", errors.New("auth service not configured")
	}

	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, "", ErrEmailRequired
	}
	if utf8.RuneCountInString(password) < minPasswordChars {
		return domain.User{}, "", ErrPasswordTooShort
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.User{}, "", ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.users.Create(ctx, domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		// Dos registros simultáneos del mismo email compiten en la
		// restricción UNIQUE; el perdedor llega aquí.
		if isUniqueViolation(err) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}

	if s.logger != nil {
		s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	}
	return user, token, nil
}

// Login verifica las credenciales contra el hash almacenado y devuelve un
// token fresco. Email desconocido y contraseña errónea responden igual.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	if s.users == nil || s.tokens == nil {
		return domain.User{}, "", errors.New("auth service not configured")
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(email) {
		if s.logger != nil {
			s.logger.Warn("login rate limited", zap.String("email", email))
		}
		return domain.User{}, "", ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if user.PasswordHash == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// GetUser carga un usuario por id para los endpoints autenticados.
func (s *AuthService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 = unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// LoginRateLimiter limita la frecuencia de intentos de login por clave.
type LoginRateLimiter interface {
	Allow(key string) bool
}

type loginRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria de ventana fija.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
