package models

import (
	"time"
	"tourbook/src/types"
)

type Capacity struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// SoldOut reports whether current bookings reached the total.
func (c Capacity) SoldOut() bool {
	return c.Total > 0 && c.Current >= c.Total
}

// PackageView is the normalized, fully defaulted shape of a CMS package.
type PackageView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	Capacity    Capacity        `json:"capacity"`
	Duration    string          `json:"duration"`
	Price       float64         `json:"price"`
	TimeOfTour  []types.TimeTag `json:"timeOfTour"`
	Specials    []types.Special `json:"specials"`
	StartDate   *time.Time      `json:"startDate"`
	IsAvailable bool            `json:"isAvailable"`
}

type Review struct {
	ID      uint   `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// PackageRating is the admin overview of one package's reviews.
type PackageRating struct {
	PackageID uint    `json:"package_id"`
	Title     string  `json:"title"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}
