package models

import "tourbook/src/types"

type BookingRecord struct {
	PaymentID    uint                `json:"paymentId"`
	CustomerName string              `json:"customerName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Status       types.PaymentStatus `json:"status"`
	Amount       float64             `json:"amount"`
	PaymentDate  string              `json:"paymentDate"`
	SlipURL      *string             `json:"slipUrl"`
}

type LatestBooking struct {
	Tour string `json:"tour"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type DashboardSummary struct {
	TotalEarnings  float64         `json:"totalEarnings"`
	TotalCustomers int             `json:"totalCustomers"`
	NewBookings    int             `json:"newBookings"`
	LatestBookings []LatestBooking `json:"latestBookings"`
}

// Payment is a CMS payment row with the relations needed by the dashboard.
type Payment struct {
	ID           uint
	Amount       float64
	PaymentDate  string
	Status       types.PaymentStatus
	PackageTitle string
	CustomerName string
}

type Media struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}
