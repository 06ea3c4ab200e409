package catalog

import (
	"slices"
	"time"
	"tourbook/src/models"
	"tourbook/src/types"
)

// Filter keeps the packages that pass every active category of criteria.
// Input order is preserved and the input slice is not modified.
func Filter(packages []models.PackageView, criteria types.FilterCriteria) []models.PackageView {
	result := make([]models.PackageView, 0, len(packages))
	for _, p := range packages {
		if matches(&p, &criteria) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p *models.PackageView, c *types.FilterCriteria) bool {
	if c.Date != nil {
		if p.StartDate == nil || !SameDay(*p.StartDate, *c.Date) {
			return false
		}
	}
	if p.Price > c.PriceCeiling {
		return false
	}
	if c.RatingFloor > 0 && p.Rating < c.RatingFloor {
		return false
	}
	if len(c.TimeFilters) > 0 {
		found := false
		for _, t := range p.TimeOfTour {
			if slices.Contains(c.TimeFilters, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range c.SpecialFilters {
		if !slices.Contains(p.Specials, s) {
			return false
		}
	}
	return true
}

// SameDay compares calendar days only; the clock time is ignored.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
