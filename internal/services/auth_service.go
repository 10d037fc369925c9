package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrAuthNotConfigured = errors.New("token verification is not configured")
	ErrMissingToken      = errors.New("bearer token is required")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

// Identity is the caller as asserted by the identity provider.
type Identity struct {
	UserID string
	Email  string
}

type identityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthService verifies HMAC-signed access tokens issued by the identity
// provider. The subject claim carries the owning user id.
type AuthService struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewAuthService creates a new AuthService. Issuer and audience are only
// checked when non-empty.
func NewAuthService(secret, issuer, audience string) *AuthService {
	return &AuthService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// VerifyToken validates a raw bearer token and returns its identity.
func (s *AuthService) VerifyToken(raw string) (*Identity, error) {
	if len(s.secret) == 0 {
		return nil, ErrAuthNotConfigured
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IssueToken signs a token the way the identity provider would. It backs the
// development token command and tests.
func (s *AuthService) IssueToken(userID, email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrAuthNotConfigured
	}
	if userID == "" {
		return "", ErrUserRequired
	}

	now := s.now()
	claims := identityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
