package vcs

import (
	"context"

	"github.com/thomas-vilte/forkdiff/internal/models"
)

// ForkSource defines the upstream queries needed to measure fork divergence.
// A resource the provider reports as not found is returned as a nil result
// with a nil error; callers decide what absence means.
type ForkSource interface {
	// GetRepository fetches the projected record of a repository.
	GetRepository(ctx context.Context, ref models.RepositoryRef) (*models.ForkRecord, error)
	// ListForks fetches one page of forks, newest first. Entries without the
	// shape of a repository are dropped.
	ListForks(ctx context.Context, ref models.RepositoryRef, page, perPage int) ([]models.ForkRecord, error)
	// CompareBranches lists the commits reachable from head but not from base.
	CompareBranches(ctx context.Context, ref models.RepositoryRef, base, head string) (*models.Comparison, error)
	// RefreshRateLimit queries the current quota without touching cached data.
	RefreshRateLimit(ctx context.Context) error
	// Quota returns the last observed quota snapshot.
	Quota() models.QuotaSnapshot
}
