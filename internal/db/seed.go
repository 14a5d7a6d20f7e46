package db

import (
	"context"

	"github.com/ertis-service/backend/internal/models"
)

type seedCategory struct {
	name        string
	description string
	specialties []string
}

var seedCategories = []seedCategory{
	{"Water supply", "Plumbing, sewage, hot and cold water problems", []string{"Plumber", "Pipe fitter"}},
	{"Electricity", "Wiring, lighting and switchboard problems", []string{"Electrician", "Electrical fitter"}},
	{"Road surface", "Potholes, cracked asphalt, sidewalk problems", []string{"Road worker", "Asphalt layer"}},
	{"Garbage collection", "Overflowing containers, missed pickups", []string{"Yard keeper", "Waste collector"}},
	{"Area cleaning", "Snow, leaves and litter in yards and entrances", []string{"Street cleaner"}},
	{"Elevator", "Elevator faults, stalling, noise", []string{"Elevator mechanic"}},
	{"Landscaping", "Greenery, playgrounds, benches, yard lighting", []string{"Groundskeeper", "Carpenter"}},
	{"Heating", "Heating, radiator and heat-supply problems", []string{"Heating technician"}},
	{"Building entrance", "Entrance lighting, locks, intercoms, mailboxes", []string{"Locksmith"}},
}

// Seed creates the initial categories and specialties. It is a no-op when any
// category already exists, so it is safe to run on every start.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, sc := range seedCategories {
		desc := sc.description
		cat, err := s.CreateCategory(ctx, models.Category{Name: sc.name, Description: &desc})
		if err != nil {
			return err
		}
		for _, spName := range sc.specialties {
			if _, err := s.CreateSpecialty(ctx, models.Specialty{Name: spName, CategoryID: cat.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}
