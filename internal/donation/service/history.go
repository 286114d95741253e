// Package service filters donation history by period.
package service

import (
	"context"
	"time"

	"nss-bloodbank/backend/internal/donation/domain"
	"nss-bloodbank/backend/internal/donation/repository"
)

// History returns the donations of repo within period ending at now, with their stats.
func History(ctx context.Context, repo repository.Repository, period domain.Period, now time.Time) ([]*domain.Donation, domain.Stats, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	out := make([]*domain.Donation, 0, len(all))
	for _, d := range all {
		if period.Contains(d.DonationDate, now) {
			out = append(out, d)
		}
	}
	return out, domain.Summarize(out), nil
}
