package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

// Sentinel errors returned by PinnedRepoStore implementations.
var (
	// ErrRepoNotFound indicates the requested repository does not exist.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoAlreadyExists indicates a repository with the same name already exists.
	ErrRepoAlreadyExists = errors.New("repository already exists")
)

// PinnedRepoStore defines the driven port for pinned repository persistence.
// Add returns ErrRepoAlreadyExists if the repository is already pinned.
// Remove returns ErrRepoNotFound if the repository is not pinned.
type PinnedRepoStore interface {
	Add(ctx context.Context, repo model.PinnedRepo) error
	Remove(ctx context.Context, fullName string) error
	GetByFullName(ctx context.Context, fullName string) (*model.PinnedRepo, error)
	ListAll(ctx context.Context) ([]model.PinnedRepo, error)
}
