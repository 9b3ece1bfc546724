package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"musclemap/prescription-engine/internal/domain"
)

var (
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenInvalid    = errors.New("invalid token")
)

const tokenIssuer = "musclemap"

// Claims is the payload of tokens issued by the host identity service.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService verifies caller tokens. Issue exists for operators and tests;
// end-user login lives in the host's identity service.
type TokenService interface {
	Issue(userID string, role domain.Role, ttl time.Duration) (string, error)
	Verify(token string) (*Claims, error)
}

type tokenService struct {
	secret []byte
}

func NewTokenService(secret string) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &tokenService{secret: []byte(secret)}, nil
}

func (s *tokenService) Issue(userID string, role domain.Role, ttl time.Duration) (string, error) {
	if userID == "" || role == "" {
		return "", fmt.Errorf("%w: user id and role are required", ErrTokenGeneration)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, nil
}

func (s *tokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrTokenInvalid)
	}
	if claims.Role != domain.RoleUser && claims.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}
	return claims, nil
}
