package application

import (
	"errors"
	"sync"

	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// ErrNoClient is returned when no GitHub account is configured.
var ErrNoClient = errors.New("no GitHub account configured: set CODEHUB_GITHUB_TOKEN or add an account")

// GitHubClientProvider enables runtime hot-swap of the GitHub client.
// It holds a mutex-protected reference to the current driven.GitHubClient
// and the login it acts as, so an account switch takes effect without
// restarting the application.
type GitHubClientProvider struct {
	mu     sync.RWMutex
	client driven.GitHubClient
	login  string
}

// NewGitHubClientProvider creates a new provider with the given initial client
// and login. client may be nil if no account is available at startup.
func NewGitHubClientProvider(client driven.GitHubClient, login string) *GitHubClientProvider {
	return &GitHubClientProvider{
		client: client,
		login:  login,
	}
}

// Get returns the current GitHub client, or nil.
func (p *GitHubClientProvider) Get() driven.GitHubClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Login returns the login of the account the current client acts as.
func (p *GitHubClientProvider) Login() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.login
}

// Replace swaps the current client and login. The next caller of Get
// receives the new client.
func (p *GitHubClientProvider) Replace(client driven.GitHubClient, login string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
	p.login = login
}

// HasClient returns true if a non-nil client is currently held.
func (p *GitHubClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
