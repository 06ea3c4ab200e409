package models

import "tourbook/src/types"

type CartLine struct {
	PackageID       uint               `json:"packageId"`
	Title           string             `json:"title"`
	Price           float64            `json:"price"`
	Image           string             `json:"image"`
	Duration        string             `json:"duration"`
	TimeOfTour      types.TimeTag      `json:"timeOfTour"`
	Specials        []string           `json:"specials"`
	SelectedDate    string             `json:"selectedDate"`
	Travelers       int                `json:"travelers"`
	PickupOption    types.PickupOption `json:"pickupOption"`
	PickupLocation  string             `json:"pickupLocation,omitempty"`
	DropoffLocation string             `json:"dropoffLocation,omitempty"`
	Quantity        int                `json:"quantity"`
}

// CartOptions are the choices made when a package is first added.
type CartOptions struct {
	TimeOfTour      types.TimeTag
	Specials        []string
	SelectedDate    string
	Travelers       int
	PickupOption    types.PickupOption
	PickupLocation  string
	DropoffLocation string
}

// BookingSubmission is the single history record produced by checkout.
type BookingSubmission struct {
	Username string  `json:"username"`
	Title    string  `json:"title"`
	Number   int     `json:"Number"`
	Price    float64 `json:"price"`
	Special  string  `json:"special"`
	Date     string  `json:"Date"`
}

type HistoryEntry struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Number        int     `json:"number"`
	Price         float64 `json:"price"`
	Special       string  `json:"special"`
	Date          string  `json:"date"`
	PaymentStatus string  `json:"payment_status"`
}

// PaymentDetails completes a history record once the customer pays.
type PaymentDetails struct {
	Name     string  `json:"name"`
	Lastname string  `json:"lastname"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Price    float64 `json:"price"`
	SlipID   uint    `json:"-"`
}
