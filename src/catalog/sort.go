package catalog

import (
	"sort"
	"tourbook/src/models"
	"tourbook/src/types"
)

// Sort returns a reordered copy of packages. Equal keys keep their input order.
func Sort(packages []models.PackageView, strategy types.SortStrategy) []models.PackageView {
	sorted := make([]models.PackageView, len(packages))
	copy(sorted, packages)

	switch strategy {
	case types.SORT_PRICE_ASC:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case types.SORT_PRICE_DESC:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case types.SORT_RATING_DESC:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	}
	return sorted
}
