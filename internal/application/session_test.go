package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(api *fakeAuthAPI) (*Session, *memStore, *memStore) {
	creds, durable, ephemeral := newTestCredentials()
	return NewSession(creds, api, zerolog.Nop()), durable, ephemeral
}

func TestSessionInitWithoutTokenSkipsProfileFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{}
	session, _, _ := newTestSession(api)

	require.NoError(t, session.Init(ctx))

	assert.True(t, session.Initialized())
	assert.Nil(t, session.User())
	assert.Zero(t, api.meCount())
}

func TestSessionInitRestoresTokenAndFetchesProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{meOut: domain.Profile{Email: "admin@example.com"}}
	session, durable, _ := newTestSession(api)
	require.NoError(t, durable.Put(ctx, TokenKey, "persisted"))

	require.NoError(t, session.Init(ctx))

	assert.Equal(t, "persisted", session.Token())
	require.NotNil(t, session.User())
	assert.Equal(t, "admin@example.com", session.User().Email)
	assert.Equal(t, 1, api.meCount())
}

func TestSessionInitIsSingleFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gate := make(chan struct{})
	api := &fakeAuthAPI{meOut: domain.Profile{Email: "admin@example.com"}, meGate: gate}
	session, durable, _ := newTestSession(api)
	require.NoError(t, durable.Put(ctx, TokenKey, "persisted"))

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = session.Init(ctx)
		}(i)
	}

	close(gate)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, api.meCount(), "concurrent callers share one bootstrap")
	assert.True(t, session.Initialized())
}

func TestSessionInitAfterReadyReturnsImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{meOut: domain.Profile{Email: "a@b.c"}}
	session, durable, _ := newTestSession(api)
	require.NoError(t, durable.Put(ctx, TokenKey, "tok"))

	require.NoError(t, session.Init(ctx))
	require.NoError(t, session.Init(ctx))
	require.NoError(t, session.Init(ctx))

	assert.Equal(t, 1, api.meCount())
}

func TestSessionInitProfileFailureStillSucceeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{meErr: errors.New("gateway down")}
	session, durable, _ := newTestSession(api)
	require.NoError(t, durable.Put(ctx, TokenKey, "tok"))

	require.NoError(t, session.Init(ctx), "profile fetch failure is not a bootstrap failure")
	assert.True(t, session.Initialized())
	assert.Nil(t, session.User())
}

func TestSessionLoginTierSelection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("remember persists durably", func(t *testing.T) {
		t.Parallel()
		api := &fakeAuthAPI{
			loginOut: domain.LoginResponse{AccessToken: "tok-d"},
			meOut:    domain.Profile{Email: "a@b.c"},
		}
		session, durable, ephemeral := newTestSession(api)

		require.NoError(t, session.Login(ctx, "a@b.c", "pw", true))

		assert.Equal(t, "tok-d", durable.value(TokenKey))
		assert.False(t, ephemeral.has(TokenKey))
		assert.Equal(t, "tok-d", session.Token())
		require.NotNil(t, session.User())
	})

	t.Run("no remember stays ephemeral", func(t *testing.T) {
		t.Parallel()
		api := &fakeAuthAPI{
			loginOut: domain.LoginResponse{Token: "tok-e"},
			meOut:    domain.Profile{Email: "a@b.c"},
		}
		session, durable, ephemeral := newTestSession(api)

		require.NoError(t, session.Login(ctx, "a@b.c", "pw", false))

		assert.Equal(t, "tok-e", ephemeral.value(TokenKey))
		assert.False(t, durable.has(TokenKey))
	})
}

func TestSessionLoginTokenFieldFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{
		loginOut: domain.LoginResponse{JWT: "jwt-only"},
		meOut:    domain.Profile{Email: "a@b.c"},
	}
	session, _, _ := newTestSession(api)

	require.NoError(t, session.Login(ctx, "a@b.c", "pw", false))
	assert.Equal(t, "jwt-only", session.Token())
}

func TestSessionLoginWithoutAnyTokenField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{loginOut: domain.LoginResponse{}}
	session, _, _ := newTestSession(api)

	err := session.Login(ctx, "a@b.c", "pw", false)
	require.ErrorIs(t, err, domain.ErrMissingToken)
	assert.Empty(t, session.Token())
	assert.Zero(t, api.meCount(), "no profile fetch without a token")
}

func TestSessionLogoutResetsForFullReinit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{
		loginOut: domain.LoginResponse{AccessToken: "tok"},
		meOut:    domain.Profile{Email: "a@b.c"},
	}
	session, durable, ephemeral := newTestSession(api)
	require.NoError(t, session.Login(ctx, "a@b.c", "pw", true))
	require.NoError(t, session.Init(ctx))
	require.True(t, session.Initialized())

	require.NoError(t, session.Logout(ctx))

	assert.Empty(t, session.Token())
	assert.Nil(t, session.User())
	assert.False(t, session.Initialized())
	assert.False(t, durable.has(TokenKey))
	assert.False(t, ephemeral.has(TokenKey))

	// The next Init runs a full restore cycle again.
	require.NoError(t, session.Init(ctx))
	assert.True(t, session.Initialized())
	assert.Nil(t, session.User(), "nothing left to restore after logout")
}

func TestSessionFetchMeIfNeededCachesProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAuthAPI{meOut: domain.Profile{Email: "a@b.c"}}
	session, _, _ := newTestSession(api)
	require.NoError(t, session.creds.Set(ctx, "tok", TierEphemeral))

	session.FetchMeIfNeeded(ctx)
	session.FetchMeIfNeeded(ctx)

	assert.Equal(t, 1, api.meCount())
	require.NotNil(t, session.User())
}
