package admin

import (
	"context"
	"tourbook/src/models"
)

type PackageSource interface {
	ListPackages(ctx context.Context) ([]models.PackageView, error)
}

// Ratings reports the review average of every package, in catalog order.
func Ratings(ctx context.Context, src PackageSource) ([]models.PackageRating, error) {
	packages, err := src.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PackageRating, 0, len(packages))
	for _, p := range packages {
		out = append(out, models.PackageRating{
			PackageID: p.ID,
			Title:     p.Name,
			Average:   p.Rating,
			Count:     p.Reviews,
		})
	}
	return out, nil
}
