package ports

import (
	"context"

	"github.com/aretw0/rpni/pkg/domain"
)

// RunStore defines the interface for persisting learning runs.
type RunStore interface {
	// Save persists a run under run.ID, replacing any previous run with that ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// Delete removes a run. Deleting an unknown run is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored runs.
	List(ctx context.Context) ([]string, error)
}
