package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

type mockRevocations struct {
	revoked map[string]bool
	err     error
}

func (m *mockRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.revoked[tokenID], nil
}

func (m *mockRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	if m.revoked == nil {
		m.revoked = map[string]bool{}
	}
	m.revoked[tokenID] = true
	return nil
}

func TestResolveIdentityWithoutToken(t *testing.T) {
	resolver := NewSessionResolver(newTestCodec(t), nil, zap.NewNop())
	store := session.NewMemoryStore("")

	_, err := resolver.ResolveIdentity(context.Background(), store)
	require.ErrorIs(t, err, appErrors.ErrNotAuthenticated)
	assert.Equal(t, "You are not Logged In!", appErrors.UserMessage(err))
	assert.Zero(t, store.Deletes)
}

func TestResolveIdentityValid(t *testing.T) {
	codec := newTestCodec(t)
	token, claims, err := codec.Issue("u1")
	require.NoError(t, err)
	resolver := NewSessionResolver(codec, &mockRevocations{}, zap.NewNop())

	identity, err := resolver.ResolveIdentity(context.Background(), session.NewMemoryStore(token))
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, claims.ID, identity.TokenID)
	assert.False(t, identity.ExpiresAt.IsZero())
}

func TestResolveIdentityClearsBadTokens(t *testing.T) {
	codec := newTestCodec(t)
	codec.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := codec.Issue("u1")
	require.NoError(t, err)
	codec.now = time.Now

	for name, token := range map[string]string{
		"malformed": "not-a-token",
		"garbage":   "a.b.c",
		"expired":   expired,
	} {
		t.Run(name, func(t *testing.T) {
			store := session.NewMemoryStore(token)
			resolver := NewSessionResolver(codec, nil, zap.NewNop())

			_, err := resolver.ResolveIdentity(context.Background(), store)
			require.ErrorIs(t, err, appErrors.ErrTokenInvalidOrExpired)
			assert.Equal(t, "Token invalid or expired. Please log in again!", appErrors.UserMessage(err))
			assert.Equal(t, 1, store.Deletes)
			_, present := store.Get()
			assert.False(t, present)
		})
	}
}

func TestResolveIdentityRevokedToken(t *testing.T) {
	codec := newTestCodec(t)
	token, claims, err := codec.Issue("u1")
	require.NoError(t, err)
	revocations := &mockRevocations{revoked: map[string]bool{claims.ID: true}}
	store := session.NewMemoryStore(token)

	_, err = NewSessionResolver(codec, revocations, nil).ResolveIdentity(context.Background(), store)
	require.ErrorIs(t, err, appErrors.ErrTokenInvalidOrExpired)
	assert.Equal(t, 1, store.Deletes)
}

func TestResolveIdentityRevocationLookupFailure(t *testing.T) {
	codec := newTestCodec(t)
	token, _, err := codec.Issue("u1")
	require.NoError(t, err)
	store := session.NewMemoryStore(token)

	_, err = NewSessionResolver(codec, &mockRevocations{err: errors.New("redis down")}, nil).ResolveIdentity(context.Background(), store)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.False(t, IsSessionFailure(err))
	assert.Zero(t, store.Deletes)
}
