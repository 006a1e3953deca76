package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "membergate/errors"
	"membergate/models"
	"membergate/services/logger"
	"membergate/services/token"
	"membergate/stores"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Principal is the authenticated caller of a protected operation. Only
// AuthService.Authorize produces a Principal that Require accepts.
type Principal struct {
	MemberID  uint
	Code      string
	Role      models.Role
	ExpiresAt time.Time
	verified  bool
}

func (p Principal) Authenticated() bool {
	return p.verified
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Member    models.Member
}

// TokenService is the subset of token.Service the auth core depends on.
type TokenService interface {
	Issue(identity token.Identity) (token.Token, error)
	Verify(raw string) (token.Claims, error)
}

type AuthServiceOptions struct {
	Members    stores.MemberStore
	Hasher     Hasher
	Tokens     TokenService
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	// LegacyAdminCode grants admin rights to one member code regardless of
	// its role. Empty disables it; kept only for old deployments.
	LegacyAdminCode string
}

type AuthService struct {
	members         stores.MemberStore
	hasher          Hasher
	tokens          TokenService
	logger          *slog.Logger
	metrics         *authMetrics
	legacyAdminCode string

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		members:         opts.Members,
		hasher:          opts.Hasher,
		tokens:          opts.Tokens,
		logger:          logger.OrDiscard(opts.Logger).With("component", "auth"),
		metrics:         newAuthMetrics(opts.Registerer),
		legacyAdminCode: strings.TrimSpace(opts.LegacyAdminCode),
	}
	if s.legacyAdminCode != "" {
		s.logger.Warn("legacy admin code enabled; this shim is deprecated and will be removed",
			"code", s.legacyAdminCode)
	}
	return s
}

// Authenticate verifies a code and PIN and issues a session token. The
// inactive check runs before the PIN check. Unknown codes and wrong PINs
// produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, code, secret string) (LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		s.metrics.logins.WithLabelValues("invalid_input").Inc()
		return LoginResult{}, apperrors.InvalidInput("code and PIN are required")
	}

	member, err := s.members.FindByCode(ctx, code)
	if errors.Is(err, stores.ErrMemberNotFound) {
		s.burnHashTime(secret)
		s.metrics.logins.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load member", "error", err)
		s.metrics.logins.WithLabelValues("error").Inc()
		return LoginResult{}, apperrors.Internal("failed to load member", err)
	}

	if !member.Active {
		s.metrics.logins.WithLabelValues("inactive").Inc()
		return LoginResult{}, apperrors.ErrInactive
	}

	if member.SecretHash == "" {
		s.logger.ErrorContext(ctx, "member has no PIN hash", "member_id", member.ID)
		s.metrics.logins.WithLabelValues("error").Inc()
		return LoginResult{}, apperrors.Misconfigured("PIN not set", ErrMissingHash)
	}

	ok, err := s.hasher.Verify(secret, member.SecretHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored PIN hash is unusable", "member_id", member.ID, "error", err)
		s.metrics.logins.WithLabelValues("error").Inc()
		return LoginResult{}, apperrors.Misconfigured("PIN hash unusable", err)
	}
	if !ok {
		s.metrics.logins.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, apperrors.ErrInvalidCredentials
	}

	if !member.Role.Valid() {
		s.logger.ErrorContext(ctx, "member has no valid role", "member_id", member.ID, "role", member.Role)
		s.metrics.logins.WithLabelValues("error").Inc()
		return LoginResult{}, apperrors.Misconfigured("member role missing", nil)
	}

	issued, err := s.tokens.Issue(token.Identity{
		ID:   member.ID,
		Code: member.Code,
		Role: member.Role.String(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue token", "member_id", member.ID, "error", err)
		s.metrics.logins.WithLabelValues("error").Inc()
		return LoginResult{}, apperrors.Internal("failed to issue token", err)
	}

	s.metrics.logins.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "member authenticated", "member_id", member.ID, "role", member.Role)
	return LoginResult{
		Token:     issued.Value,
		ExpiresAt: issued.ExpiresAt,
		Member:    member,
	}, nil
}

// Authorize verifies a bearer token and checks it against the required role.
// RoleMember admits any authenticated principal.
func (s *AuthService) Authorize(ctx context.Context, bearer string, required models.Role) (Principal, error) {
	if strings.TrimSpace(bearer) == "" {
		s.metrics.decisions.WithLabelValues(required.String(), "unauthenticated").Inc()
		return Principal{}, apperrors.ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(bearer)
	if err != nil {
		s.logger.DebugContext(ctx, "rejected token", "error", err)
		s.metrics.decisions.WithLabelValues(required.String(), "unauthenticated").Inc()
		return Principal{}, apperrors.ErrUnauthenticated
	}

	principal := Principal{
		MemberID:  claims.MemberID(),
		Code:      claims.Code,
		Role:      models.Role(claims.Role),
		ExpiresAt: claims.Expiry(),
		verified:  true,
	}
	if err := s.Require(principal, required); err != nil {
		s.metrics.decisions.WithLabelValues(required.String(), "forbidden").Inc()
		return Principal{}, err
	}

	s.metrics.decisions.WithLabelValues(required.String(), "allowed").Inc()
	return principal, nil
}

// Require checks an already authorized principal against a role. Services
// call it on entry so they cannot be reached with a hand-built Principal.
func (s *AuthService) Require(p Principal, required models.Role) error {
	if !p.verified {
		return apperrors.ErrUnauthenticated
	}
	switch required {
	case models.RoleMember:
		return nil
	case models.RoleAdmin:
		if p.Role == models.RoleAdmin {
			return nil
		}
		if s.legacyAdminCode != "" && p.Code == s.legacyAdminCode {
			s.logger.Warn("admin access granted through deprecated legacy admin code",
				"member_id", p.MemberID, "code", p.Code)
			return nil
		}
		return apperrors.ErrForbidden
	default:
		return apperrors.Misconfigured("unknown required role "+required.String(), nil)
	}
}

// Me returns the caller's own member record.
func (s *AuthService) Me(ctx context.Context, p Principal) (models.Member, error) {
	if err := s.Require(p, models.RoleMember); err != nil {
		return models.Member{}, err
	}
	member, err := s.members.FindByID(ctx, p.MemberID)
	if errors.Is(err, stores.ErrMemberNotFound) {
		return models.Member{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Member{}, apperrors.Internal("failed to load member", err)
	}
	return member, nil
}

// burnHashTime runs one comparison against a throwaway hash so unknown codes
// take as long as wrong PINs.
func (s *AuthService) burnHashTime(secret string) {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = hashed
		}
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(secret, s.dummyHash)
	}
}
