package repository

import (
	"time"

	"nss-bloodbank/backend/internal/event/domain"
)

// Fixtures returns the events the site ships with.
func Fixtures() []*domain.Event {
	return []*domain.Event{
		{
			ID:               "1",
			Title:            "Annual Blood Donation Camp 2024",
			Description:      "Join us for our annual blood donation camp at MMMUT campus. Free health checkup and refreshments for all donors.",
			Date:             time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Time:             "09:00",
			Location:         "MMMUT Main Auditorium",
			Organizer:        "NSS MMMUT",
			ExpectedDonors:   200,
			RegisteredDonors: 87,
			Status:           domain.StatusUpcoming,
			Category:         domain.CategoryCamp,
		},
		{
			ID:               "2",
			Title:            "Emergency Blood Drive",
			Description:      "Urgent blood donation drive for accident victims at local hospital. All blood groups needed.",
			Date:             time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
			Time:             "10:00",
			Location:         "City Hospital, Allahabad",
			Organizer:        "Red Cross Society",
			ExpectedDonors:   50,
			RegisteredDonors: 23,
			Status:           domain.StatusUpcoming,
			Category:         domain.CategoryEmergency,
		},
		{
			ID:               "3",
			Title:            "Blood Donation Awareness Workshop",
			Description:      "Educational session on importance of blood donation and health benefits for donors.",
			Date:             time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Time:             "14:00",
			Location:         "MMMUT Conference Hall",
			Organizer:        "NSS MMMUT",
			ExpectedDonors:   100,
			RegisteredDonors: 45,
			Status:           domain.StatusUpcoming,
			Category:         domain.CategoryAwareness,
		},
	}
}
