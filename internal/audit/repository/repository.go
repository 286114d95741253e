package repository

import (
	"context"

	"nss-bloodbank/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	// ListRecent returns entries newest first.
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error)
}
