package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by AccountStore operations when
// CODEHUB_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set CODEHUB_SECRET_KEY")

// ErrAccountNotFound indicates the requested account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// AccountStore defines the driven port for account persistence.
// The adapter layer is responsible for encrypting tokens; this interface
// operates on plaintext values at the domain boundary.
type AccountStore interface {
	// Save inserts the account or replaces the stored one with the same login.
	Save(ctx context.Context, account model.Account) error

	// Get returns the account with the given login. Returns ErrAccountNotFound
	// if it does not exist.
	Get(ctx context.Context, login string) (*model.Account, error)

	// GetActive returns the active account, or nil, nil if none is active.
	GetActive(ctx context.Context) (*model.Account, error)

	// SetActive marks the account with the given login as the only active one.
	SetActive(ctx context.Context, login string) error

	// List returns all accounts ordered by login.
	List(ctx context.Context) ([]model.Account, error)

	// Delete removes the account with the given login.
	Delete(ctx context.Context, login string) error
}
