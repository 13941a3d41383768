package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/messagely/internal/apperrors"
)

const defaultSigningMethod = "HS256"

type TokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Token manager with sensible default
type Config struct {
	// Secret key to sign token
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Token lifetime
	// Zero means token never expires
	TTL time.Duration
}

type TokenManager struct {
	// Secret key to sign token
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	ttl time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	alg := jwt.GetSigningMethod(cfg.Alg)
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %q is not supported, HMAC family expected", cfg.Alg)
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: alg,
		ttl: cfg.TTL,
	}, nil
}

// Sign token with username claim
func (m *TokenManager) Sign(username string) (string, error) {
	now := time.Now().Truncate(time.Second)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: username,
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token, err := jwt.NewWithClaims(m.alg, claims).SignedString([]byte(m.key))
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return token, nil
}

// Parse and validate token, return username it was issued for
func (m *TokenManager) Parse(token string) (string, error) {
	claims := &TokenClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	if claims.Username == "" {
		return "", fmt.Errorf("%w: username claim is empty", apperrors.ErrTokenInvalid)
	}

	return claims.Username, nil
}
