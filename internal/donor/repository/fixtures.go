package repository

import (
	"time"

	"nss-bloodbank/backend/internal/donor/domain"
)

// Fixtures returns the donors the site ships with. Each call returns fresh copies.
func Fixtures() []*domain.Donor {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.Donor{
		{
			ID: "1", Name: "Rahul Kumar", Email: "rahul@example.com", Phone: "+919876543210",
			BloodGroup: "O+", Age: 25, City: "Allahabad", State: "Uttar Pradesh", Country: domain.DefaultCountry,
			LastDonation: day(2024, time.January, 15), TotalDonations: 5, CreatedAt: created,
		},
		{
			ID: "2", Name: "Priya Sharma", Email: "priya@example.com", Phone: "+919876543211",
			BloodGroup: "A+", Age: 23, City: "Lucknow", State: "Uttar Pradesh", Country: domain.DefaultCountry,
			LastDonation: day(2024, time.February, 10), TotalDonations: 3, CreatedAt: created.Add(time.Minute),
		},
		{
			ID: "3", Name: "Amit Singh", Email: "amit@example.com", Phone: "+919876543212",
			BloodGroup: "B+", Age: 28, City: "Allahabad", State: "Uttar Pradesh", Country: domain.DefaultCountry,
			LastDonation: day(2024, time.January, 28), TotalDonations: 8, CreatedAt: created.Add(2 * time.Minute),
		},
	}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
