package services

import (
	"context"
	"testing"
	"time"

	apperrors "membergate/errors"
	"membergate/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateIssuesTokenForValidCredentials(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addMember(t, "FF01", "1991", models.RoleAdmin, true)

	result, err := env.auth.Authenticate(context.Background(), "FF01", "1991")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, env.clock.Now().Add(24*time.Hour), result.ExpiresAt.UTC())
	assert.Equal(t, admin.ID, result.Member.ID)

	claims, err := env.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "FF01", claims.Code)
	assert.Equal(t, admin.ID, claims.MemberID())

	assert.Equal(t, 1.0, testutil.ToFloat64(env.auth.metrics.logins.WithLabelValues("success")))
}

func TestAuthenticateUnknownCodeAndWrongSecretAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.addMember(t, "FF10", "4321", models.RoleMember, true)

	_, unknownErr := env.auth.Authenticate(context.Background(), "FF99", "4321")
	_, wrongErr := env.auth.Authenticate(context.Background(), "FF10", "0000")

	require.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, apperrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthenticateRejectsInactiveBeforeCheckingSecret(t *testing.T) {
	env := newTestEnv(t)
	env.addMember(t, "FF11", "1234", models.RoleMember, false)

	_, err := env.auth.Authenticate(context.Background(), "FF11", "1234")
	assert.ErrorIs(t, err, apperrors.ErrInactive)

	_, err = env.auth.Authenticate(context.Background(), "FF11", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInactive)
}

func TestAuthenticateValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ code, secret string }{
		{"", "1234"},
		{"FF10", ""},
		{"   ", "1234"},
	} {
		_, err := env.auth.Authenticate(context.Background(), tc.code, tc.secret)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "code=%q secret=%q", tc.code, tc.secret)
	}
}

func TestAuthenticateMisconfiguredMembers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	noHash := models.Member{Code: "FF20", Role: models.RoleMember, Active: true}
	require.NoError(t, env.members.Create(ctx, &noHash))
	_, err := env.auth.Authenticate(ctx, "FF20", "1234")
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)

	badHash := models.Member{Code: "FF21", SecretHash: "not-a-bcrypt-hash", Role: models.RoleMember, Active: true}
	require.NoError(t, env.members.Create(ctx, &badHash))
	_, err = env.auth.Authenticate(ctx, "FF21", "1234")
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)

	env.addMember(t, "FF22", "1234", models.Role("superuser"), true)
	_, err = env.auth.Authenticate(ctx, "FF22", "1234")
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)
}

func TestAuthenticateDoesNotInferRoleFromCode(t *testing.T) {
	env := newTestEnv(t)
	env.addMember(t, "FF01", "1991", models.RoleMember, true)

	principal := env.login(t, "FF01", "1991")
	assert.Equal(t, models.RoleMember, principal.Role)

	err := env.auth.Require(principal, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorizeRoleGate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addMember(t, "FF01", "1991", models.RoleAdmin, true)
	env.addMember(t, "FF10", "4321", models.RoleMember, true)

	adminLogin, err := env.auth.Authenticate(ctx, "FF01", "1991")
	require.NoError(t, err)
	memberLogin, err := env.auth.Authenticate(ctx, "FF10", "4321")
	require.NoError(t, err)

	p, err := env.auth.Authorize(ctx, adminLogin.Token, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, p.Authenticated())
	assert.Equal(t, models.RoleAdmin, p.Role)

	_, err = env.auth.Authorize(ctx, adminLogin.Token, models.RoleMember)
	require.NoError(t, err)

	p, err = env.auth.Authorize(ctx, memberLogin.Token, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "FF10", p.Code)

	_, err = env.auth.Authorize(ctx, memberLogin.Token, models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.auth.metrics.decisions.WithLabelValues("admin", "forbidden")))
}

func TestAuthorizeRejectsMissingAndInvalidTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addMember(t, "FF10", "4321", models.RoleMember, true)

	_, err := env.auth.Authorize(ctx, "", models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = env.auth.Authorize(ctx, "not.a.token", models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	login, err := env.auth.Authenticate(ctx, "FF10", "4321")
	require.NoError(t, err)
	env.clock.Advance(24 * time.Hour)
	_, err = env.auth.Authorize(ctx, login.Token, models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRequireRejectsPrincipalsNotProducedByAuthorize(t *testing.T) {
	env := newTestEnv(t)

	forged := Principal{MemberID: 1, Code: "FF01", Role: models.RoleAdmin}
	assert.False(t, forged.Authenticated())
	assert.ErrorIs(t, env.auth.Require(forged, models.RoleAdmin), apperrors.ErrUnauthenticated)
	assert.ErrorIs(t, env.auth.Require(forged, models.RoleMember), apperrors.ErrUnauthenticated)
}

func TestLegacyAdminCodeGrantsAdminWhenConfigured(t *testing.T) {
	env := newTestEnv(t, withLegacyAdminCode("FF00"))
	env.addMember(t, "FF00", "0000", models.RoleMember, true)
	env.addMember(t, "FF10", "4321", models.RoleMember, true)

	legacy := env.login(t, "FF00", "0000")
	assert.NoError(t, env.auth.Require(legacy, models.RoleAdmin))

	regular := env.login(t, "FF10", "4321")
	assert.ErrorIs(t, env.auth.Require(regular, models.RoleAdmin), apperrors.ErrForbidden)
}

func TestLegacyAdminCodeDisabledByDefault(t *testing.T) {
	env := newTestEnv(t)
	env.addMember(t, "FF00", "0000", models.RoleMember, true)

	p := env.login(t, "FF00", "0000")
	assert.ErrorIs(t, env.auth.Require(p, models.RoleAdmin), apperrors.ErrForbidden)
}

func TestDeactivationDoesNotRevokeIssuedTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	member := env.addMember(t, "FF10", "4321", models.RoleMember, true)

	login, err := env.auth.Authenticate(ctx, "FF10", "4321")
	require.NoError(t, err)

	inactive := false
	_, err = env.members.Update(ctx, member.ID, models.MemberFields{Active: &inactive})
	require.NoError(t, err)

	_, err = env.auth.Authorize(ctx, login.Token, models.RoleMember)
	assert.NoError(t, err)

	_, err = env.auth.Authenticate(ctx, "FF10", "4321")
	assert.ErrorIs(t, err, apperrors.ErrInactive)
}

func TestMeReturnsCallerRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	member := env.addMember(t, "FF10", "4321", models.RoleMember, true)

	p := env.login(t, "FF10", "4321")
	me, err := env.auth.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, member.ID, me.ID)

	_, err = env.members.Delete(ctx, member.ID)
	require.NoError(t, err)
	_, err = env.auth.Me(ctx, p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.auth.Me(ctx, Principal{MemberID: member.ID})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
