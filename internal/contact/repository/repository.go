package repository

import (
	"context"

	"nss-bloodbank/backend/internal/contact/domain"
)

// Repository defines persistence for contact messages.
type Repository interface {
	Create(ctx context.Context, m *domain.Message) error
	// ListRecent returns messages newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Message, error)
}
