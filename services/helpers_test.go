package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"membergate/models"
	"membergate/services/token"
	"membergate/stores"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	members  *stores.GormMemberStore
	checkins *stores.GormCheckinStore
	hasher   *BcryptHasher
	tokens   *token.Service
	auth     *AuthService
	clock    *testClock
	registry *prometheus.Registry
}

type envOption func(*AuthServiceOptions)

func withLegacyAdminCode(code string) envOption {
	return func(o *AuthServiceOptions) { o.LegacyAdminCode = code }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db, err := stores.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, stores.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &testClock{now: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}
	tokens, err := token.NewService("test-secret", token.DefaultTTL, token.WithClock(clock.Now))
	require.NoError(t, err)

	env := &testEnv{
		members:  stores.NewMemberStore(db),
		checkins: stores.NewCheckinStore(db),
		hasher:   NewBcryptHasher(bcrypt.MinCost),
		tokens:   tokens,
		clock:    clock,
		registry: prometheus.NewRegistry(),
	}
	authOpts := AuthServiceOptions{
		Members:    env.members,
		Hasher:     env.hasher,
		Tokens:     env.tokens,
		Registerer: env.registry,
	}
	for _, opt := range opts {
		opt(&authOpts)
	}
	env.auth = NewAuthService(authOpts)
	return env
}

func (e *testEnv) addMember(t *testing.T, code, secret string, role models.Role, active bool) models.Member {
	t.Helper()
	hashed, err := e.hasher.Hash(secret)
	require.NoError(t, err)
	member := models.Member{
		Code:       code,
		SecretHash: hashed,
		Role:       role,
		Active:     active,
	}
	require.NoError(t, e.members.Create(context.Background(), &member))
	return member
}

// login authenticates and authorizes in one step, returning a usable Principal.
func (e *testEnv) login(t *testing.T, code, secret string) Principal {
	t.Helper()
	ctx := context.Background()
	result, err := e.auth.Authenticate(ctx, code, secret)
	require.NoError(t, err)
	principal, err := e.auth.Authorize(ctx, result.Token, models.RoleMember)
	require.NoError(t, err)
	return principal
}

type fakeCache struct {
	mu          sync.Mutex
	members     []models.MemberSummary
	cached      bool
	gets        int
	invalidated int
	failWith    error
}

func (c *fakeCache) Get(context.Context) ([]models.MemberSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failWith != nil {
		return nil, false, c.failWith
	}
	return c.members, c.cached, nil
}

func (c *fakeCache) Set(_ context.Context, members []models.MemberSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.members = members
	c.cached = true
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.members = nil
	c.cached = false
	return c.failWith
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages [][]byte
}

func (n *fakeNotifier) SendMessage(message []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}
