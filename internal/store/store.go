package store

import (
	"context"
	"errors"
	"time"

	"bess-degradation/internal/lifetime"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run ID is unknown or has expired.
var ErrNotFound = errors.New("simulation not found")

// Run is a stored simulation result.
type Run struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Result    *lifetime.Result `json:"result"`
}

// Store persists simulation runs so they can be fetched again
// (CSV export, chart) after the request that produced them.
type Store interface {
	Put(ctx context.Context, run Run) error
	Get(ctx context.Context, id string) (Run, error)
	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// NewRun wraps a result with a fresh ID and creation time.
func NewRun(res *lifetime.Result) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
}
