package repository

import (
	"context"

	"nss-bloodbank/backend/internal/event/domain"
)

// Repository defines read access to events.
type Repository interface {
	// List returns events in category (empty or "all" for every category), soonest first.
	List(ctx context.Context, category string) ([]*domain.Event, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
