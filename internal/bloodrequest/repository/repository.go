package repository

import (
	"context"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
)

// Repository defines persistence for blood requests.
type Repository interface {
	Create(ctx context.Context, req *domain.Request) error
	// ListRecent returns requests newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Request, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
