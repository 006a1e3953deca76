// Package token issues and verifies the stateless session tokens handed out
// at login. A token is an HS256 JWT carrying a fixed, versioned claim set;
// signature and expiry are its only validity checks.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ClaimsVersion is bumped whenever the claim set changes shape.
const ClaimsVersion = 1

const DefaultTTL = 24 * time.Hour

var (
	ErrInvalid       = errors.New("invalid token")
	ErrMissingSecret = errors.New("token signing secret is empty")
)

// Identity is what gets embedded into a token.
type Identity struct {
	ID   uint
	Code string
	Role string
}

// Claims is the complete payload of a session token. Decoding rejects
// unknown fields, so this struct is the whole contract.
type Claims struct {
	Version   int    `json:"ver"`
	Subject   string `json:"sub"`
	Code      string `json:"code"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Valid checks that every field is present and well formed. Expiry is
// checked separately by Service.Verify against its own clock.
func (c Claims) Valid() error {
	switch {
	case c.Version != ClaimsVersion:
		return fmt.Errorf("unsupported claims version %d", c.Version)
	case c.Subject == "":
		return errors.New("missing subject")
	case c.Code == "":
		return errors.New("missing code")
	case c.Role != "admin" && c.Role != "member":
		return fmt.Errorf("unknown role %q", c.Role)
	case c.IssuedAt <= 0 || c.ExpiresAt <= 0:
		return errors.New("missing issue or expiry time")
	case c.ExpiresAt <= c.IssuedAt:
		return errors.New("expiry precedes issue time")
	}
	if _, err := strconv.ParseUint(c.Subject, 10, 64); err != nil {
		return fmt.Errorf("malformed subject: %w", err)
	}
	return nil
}

// MemberID returns the numeric member id carried in the subject.
func (c Claims) MemberID() uint {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)
	return uint(id)
}

func (c Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Issue(identity Identity) (Token, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)
	claims := Claims{
		Version:   ClaimsVersion,
		Subject:   strconv.FormatUint(uint64(identity.ID), 10),
		Code:      identity.Code,
		Role:      identity.Role,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := claims.Valid(); err != nil {
		return Token{}, fmt.Errorf("refusing to issue token: %w", err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify returns the claims of a well-signed, complete and unexpired token.
// Every failure wraps ErrInvalid.
func (s *Service) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, fmt.Errorf("%w: empty token", ErrInvalid)
	}

	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}
	if _, err := parser.Parse(raw, s.keyFunc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, err := decodeClaims(raw)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := claims.Valid(); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !s.now().Before(claims.Expiry()) {
		return Claims{}, fmt.Errorf("%w: expired at %s", ErrInvalid, claims.Expiry().UTC().Format(time.RFC3339))
	}
	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}

func decodeClaims(raw string) (Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Claims{}, errors.New("malformed token")
	}
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("decode payload: %w", err)
	}

	var claims Claims
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&claims); err != nil {
		return Claims{}, fmt.Errorf("parse claims: %w", err)
	}
	if decoder.More() {
		return Claims{}, errors.New("trailing data after claims")
	}
	return claims, nil
}
