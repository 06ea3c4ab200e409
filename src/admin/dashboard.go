package admin

import (
	"context"
	"sort"
	"tourbook/src/config"
	"tourbook/src/models"
)

const LatestBookingsLimit = 5

type DashboardSource interface {
	ListPayments(ctx context.Context) ([]models.Payment, error)
	CountUsers(ctx context.Context) (int, error)
}

// Summary totals every payment and lists the most recent ones first.
func Summary(ctx context.Context, src DashboardSource) (*models.DashboardSummary, error) {
	payments, err := src.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := src.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TotalCustomers: customers,
		NewBookings:    len(payments),
		LatestBookings: []models.LatestBooking{},
	}
	for _, p := range payments {
		summary.TotalEarnings += p.Amount
	}

	sorted := make([]models.Payment, len(payments))
	copy(sorted, payments)
	// payment_date is ISO 8601, so string order is date order
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaymentDate > sorted[j].PaymentDate
	})
	for i, p := range sorted {
		if i == LatestBookingsLimit {
			break
		}
		summary.LatestBookings = append(summary.LatestBookings, models.LatestBooking{
			Tour: orNA(p.PackageTitle),
			Name: orNA(p.CustomerName),
			Date: orNA(p.PaymentDate),
		})
	}
	return summary, nil
}

func orNA(s string) string {
	if s == "" {
		return config.NotAvailable
	}
	return s
}
