package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// tokenClients hands out one mock client per token; each validates to the
// login registered for its token.
type tokenClients struct {
	logins  map[string]string
	created map[string]*mockGitHubClient
}

func newTokenClients(logins map[string]string) *tokenClients {
	return &tokenClients{logins: logins, created: map[string]*mockGitHubClient{}}
}

func (f *tokenClients) factory(token, _ string) (driven.GitHubClient, error) {
	client := &mockGitHubClient{
		validateToken: func(_ context.Context, tok string) (*model.User, error) {
			login, ok := f.logins[tok]
			if !ok {
				return nil, errors.New("401 Bad credentials")
			}
			return &model.User{Login: login}, nil
		},
	}
	f.created[token] = client
	return client, nil
}

func TestAccountService_FirstAccountBecomesActive(t *testing.T) {
	store := newMockAccountStore()
	provider := application.NewGitHubClientProvider(nil, "")
	clients := newTokenClients(map[string]string{"tok-a": "alice", "tok-b": "bob"})
	svc := application.NewAccountService(store, provider, clients.factory)
	ctx := context.Background()

	alice, err := svc.Add(ctx, "tok-a", "")
	require.NoError(t, err)
	assert.True(t, alice.IsActive)
	assert.Equal(t, "alice", provider.Login())
	assert.Same(t, clients.created["tok-a"], provider.Get())

	bob, err := svc.Add(ctx, "tok-b", "")
	require.NoError(t, err)
	assert.False(t, bob.IsActive)
	assert.Equal(t, "alice", provider.Login(), "adding a second account keeps the active one")
}

func TestAccountService_AddRejectsInvalidToken(t *testing.T) {
	store := newMockAccountStore()
	provider := application.NewGitHubClientProvider(nil, "")
	svc := application.NewAccountService(store, provider, newTokenClients(nil).factory)

	_, err := svc.Add(context.Background(), "bad", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")
	assert.Empty(t, store.accounts)
	assert.False(t, provider.HasClient())

	_, err = svc.Add(context.Background(), "  ", "")
	require.ErrorIs(t, err, application.ErrTokenRequired)
}

func TestAccountService_ActivateSwapsClient(t *testing.T) {
	store := newMockAccountStore()
	provider := application.NewGitHubClientProvider(nil, "")
	clients := newTokenClients(map[string]string{"tok-a": "alice", "tok-b": "bob"})
	svc := application.NewAccountService(store, provider, clients.factory)
	ctx := context.Background()

	_, err := svc.Add(ctx, "tok-a", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "tok-b", "https://ghe.example.com/api/v3/")
	require.NoError(t, err)

	require.NoError(t, svc.Activate(ctx, "bob"))
	assert.Equal(t, "bob", provider.Login())

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", active.Login)
	assert.Equal(t, "https://ghe.example.com/api/v3/", active.APIURL)

	assert.ErrorIs(t, svc.Activate(ctx, "nobody"), driven.ErrAccountNotFound)
}

func TestAccountService_RemoveActiveClearsProvider(t *testing.T) {
	store := newMockAccountStore()
	provider := application.NewGitHubClientProvider(nil, "")
	svc := application.NewAccountService(store, provider, newTokenClients(map[string]string{"tok-a": "alice"}).factory)
	ctx := context.Background()

	_, err := svc.Add(ctx, "tok-a", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "alice"))
	assert.False(t, provider.HasClient())
	assert.Empty(t, provider.Login())

	assert.ErrorIs(t, svc.Remove(ctx, "alice"), driven.ErrAccountNotFound)
}

func TestAccountService_Restore(t *testing.T) {
	store := newMockAccountStore()
	store.accounts["alice"] = model.Account{Login: "alice", Token: "tok-a"}
	store.active = "alice"
	provider := application.NewGitHubClientProvider(nil, "")
	clients := newTokenClients(map[string]string{"tok-a": "alice"})
	svc := application.NewAccountService(store, provider, clients.factory)

	require.NoError(t, svc.Restore(context.Background()))
	assert.Equal(t, "alice", provider.Login())
	assert.Same(t, clients.created["tok-a"], provider.Get())
}

func TestAccountService_RestoreWithoutActive(t *testing.T) {
	provider := application.NewGitHubClientProvider(nil, "")
	svc := application.NewAccountService(newMockAccountStore(), provider, newTokenClients(nil).factory)

	require.NoError(t, svc.Restore(context.Background()))
	assert.False(t, provider.HasClient())
}
