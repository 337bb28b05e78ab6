package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"urungetir/internal/domain"
)

// JWTService emite y valida los tokens de acceso del backend.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Claims son las afirmaciones firmadas en cada token: el email viaja como
// subject y el id numérico como claim propio.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "urungetir",
	}
}

// Issue firma un token HS256 con subject = email y expiración now + ttl.
// No persiste nada; el token es la única evidencia de la sesión.
func (s *JWTService) Issue(user domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma, algoritmo, emisor y expiración, y devuelve las claims.
func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if claims.UserID <= 0 {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
