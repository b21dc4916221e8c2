package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// ErrTokenRequired is returned by AccountService.Add for a blank token.
var ErrTokenRequired = errors.New("token is required")

// ClientFactory builds an API client for a token and API base URL. An empty
// apiURL selects github.com.
type ClientFactory func(token, apiURL string) (driven.GitHubClient, error)

// AccountService manages the locally stored accounts and keeps the client
// provider bound to the active one.
type AccountService struct {
	store     driven.AccountStore
	provider  *GitHubClientProvider
	newClient ClientFactory
}

// NewAccountService creates a new AccountService.
func NewAccountService(store driven.AccountStore, provider *GitHubClientProvider, newClient ClientFactory) *AccountService {
	return &AccountService{store: store, provider: provider, newClient: newClient}
}

// Add validates token against the API and stores the account it belongs to.
// The first account added becomes the active one.
func (s *AccountService) Add(ctx context.Context, token, apiURL string) (*model.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}

	client, err := s.newClient(token, apiURL)
	if err != nil {
		return nil, fmt.Errorf("adding account: %w", err)
	}

	user, err := client.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("adding account: %w", err)
	}

	account := model.Account{
		Login:     user.Login,
		AvatarURL: user.AvatarURL,
		APIURL:    apiURL,
		Token:     token,
	}
	if err := s.store.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("adding account %s: %w", user.Login, err)
	}

	slog.Info("account added", "login", user.Login, "api_url", apiURL)

	active, err := s.store.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("adding account %s: %w", user.Login, err)
	}
	if active == nil {
		if err := s.activate(ctx, account, client); err != nil {
			return nil, err
		}
		account.IsActive = true
	}

	return &account, nil
}

// Activate makes the account with the given login the active one and
// swaps the provider's client.
func (s *AccountService) Activate(ctx context.Context, login string) error {
	account, err := s.store.Get(ctx, login)
	if err != nil {
		return err
	}

	client, err := s.newClient(account.Token, account.APIURL)
	if err != nil {
		return fmt.Errorf("activating account %s: %w", login, err)
	}

	return s.activate(ctx, *account, client)
}

func (s *AccountService) activate(ctx context.Context, account model.Account, client driven.GitHubClient) error {
	if err := s.store.SetActive(ctx, account.Login); err != nil {
		return fmt.Errorf("activating account %s: %w", account.Login, err)
	}
	s.provider.Replace(client, account.Login)
	slog.Info("account activated", "login", account.Login)
	return nil
}

// Remove deletes the account. Removing the active account leaves the
// provider without a client.
func (s *AccountService) Remove(ctx context.Context, login string) error {
	if err := s.store.Delete(ctx, login); err != nil {
		return err
	}
	if s.provider.Login() == login {
		s.provider.Replace(nil, "")
	}
	slog.Info("account removed", "login", login)
	return nil
}

// List returns the stored accounts.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.store.List(ctx)
}

// Active returns the active account, or nil if none is active.
func (s *AccountService) Active(ctx context.Context) (*model.Account, error) {
	return s.store.GetActive(ctx)
}

// Restore binds the provider to the stored active account, if any. It is
// called once at startup.
func (s *AccountService) Restore(ctx context.Context) error {
	account, err := s.store.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("restoring active account: %w", err)
	}
	if account == nil {
		return nil
	}

	client, err := s.newClient(account.Token, account.APIURL)
	if err != nil {
		return fmt.Errorf("restoring account %s: %w", account.Login, err)
	}
	s.provider.Replace(client, account.Login)
	slog.Info("restored active account", "login", account.Login)
	return nil
}
