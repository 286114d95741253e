package repository

import (
	"time"

	"nss-bloodbank/backend/internal/donation/domain"
)

// Fixtures returns the donation history the site ships with.
func Fixtures() []*domain.Donation {
	on := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	return []*domain.Donation{
		{ID: "1", DonorName: "Rahul Kumar", BloodGroup: "O+", DonationDate: on(time.January, 15), Location: "MMMUT Medical Center", Units: 1, Status: domain.StatusCompleted},
		{ID: "2", DonorName: "Priya Sharma", BloodGroup: "A+", DonationDate: on(time.February, 10), Location: "City Blood Bank", Units: 1, Status: domain.StatusCompleted},
		{ID: "3", DonorName: "Amit Singh", BloodGroup: "B+", DonationDate: on(time.January, 28), Location: "NSS Camp - MMMUT", Units: 1, Status: domain.StatusCompleted},
		{ID: "4", DonorName: "Neha Gupta", BloodGroup: "AB+", DonationDate: on(time.February, 25), Location: "Emergency Request", Units: 1, Status: domain.StatusPending},
	}
}
