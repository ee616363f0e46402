// Package store persists the history of published widgets so editors can
// look up past embed URLs without digging through the hosting repo.
package store

import (
	"context"

	"github.com/bettercollective/embedforge/internal/model"
)

// PublicationFilter specifies criteria for listing publication history.
type PublicationFilter struct {
	Repo   string `json:"repo,omitempty"`
	Brand  string `json:"brand,omitempty"`
	Widget string `json:"widget,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for publication history.
type Store interface {
	RecordPublication(ctx context.Context, pub model.Publication) (*model.Publication, error)
	GetPublication(ctx context.Context, id string) (*model.Publication, error)
	ListPublications(ctx context.Context, filter PublicationFilter) ([]model.Publication, error)

	Migrate(ctx context.Context) error
	Close() error
}
