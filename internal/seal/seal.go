package seal

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/todmy/hamster-court/internal/verdict"
)

var ErrInvalidSeal = errors.New("invalid seal")

const (
	issuer  = "hamster-court"
	keySize = 32
	keyInfo = "hamster-court verdict seal v1"
)

// Claims is what a seal vouches for
type Claims struct {
	CaseID   string         `json:"case_id"`
	PercentA int            `json:"percent_a"`
	PercentB int            `json:"percent_b"`
	Winner   verdict.Winner `json:"winner"`
	Mode     string         `json:"mode"`
	jwt.RegisteredClaims
}

// Config holds sealing configuration
type Config struct {
	// Secret is the master secret the signing key is derived from. Empty
	// means a random key for the lifetime of the process.
	Secret   string
	Validity time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Validity: 30 * 24 * time.Hour,
	}
}

// Sealer signs and verifies verdict seals
type Sealer struct {
	key      []byte
	validity time.Duration
	now      func() time.Time
}

// NewSealer creates a sealer for config
func NewSealer(config Config) (*Sealer, error) {
	if config.Validity == 0 {
		config.Validity = DefaultConfig().Validity
	}

	secret := []byte(config.Secret)
	if len(secret) == 0 {
		secret = make([]byte, keySize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
	}

	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	return &Sealer{
		key:      key,
		validity: config.Validity,
		now:      time.Now,
	}, nil
}

func deriveKey(secret []byte) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Seal signs the outcome of doc
func (s *Sealer) Seal(doc verdict.Document) (string, error) {
	now := s.now()
	claims := &Claims{
		CaseID:   doc.CaseID,
		PercentA: doc.PercentA,
		PercentB: doc.PercentB,
		Winner:   doc.Winner,
		Mode:     string(doc.Mode),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign seal: %w", err)
	}
	return signed, nil
}

// Verify checks a seal and returns its claims
func (s *Sealer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeal, err)
	}

	if !token.Valid {
		return nil, ErrInvalidSeal
	}

	return claims, nil
}

// FromRequest extracts a seal from the Authorization header
func FromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
