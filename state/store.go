// Package state persists the single pipeline document between stages.
package state

import (
	"context"
	"errors"
	"fmt"

	"video-maker-pipeline/config"
	"video-maker-pipeline/types"
)

// DocumentKey is the fixed identifier of the one document this process manages.
const DocumentKey = "content"

// Store loads and saves the document. Save must be atomic: a crash while
// saving leaves the previous record intact.
type Store interface {
	Load(ctx context.Context) (*types.Document, error)
	Save(ctx context.Context, doc *types.Document) error
	Close() error
}

// New opens the backend selected by cfg.State.Backend.
func New(cfg *config.Config) (Store, error) {
	switch cfg.State.Backend {
	case "", "file":
		return NewFileStore(cfg.State.Path), nil
	case "sqlite":
		return NewSQLiteStore(cfg.State.Path)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}

// LoadOrDefault returns the stored document, or def when nothing has been
// persisted yet. With a nil def it behaves like Load.
func LoadOrDefault(ctx context.Context, s Store, def *types.Document) (*types.Document, error) {
	doc, err := s.Load(ctx)
	if errors.Is(err, types.ErrNotFound) && def != nil {
		return def, nil
	}
	return doc, err
}
