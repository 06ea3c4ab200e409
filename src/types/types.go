package types

import (
	"slices"
	"time"
	"tourbook/src/config"
)

type SortStrategy string

const (
	SORT_RECOMMENDED SortStrategy = "recommended"
	SORT_PRICE_ASC   SortStrategy = "price_asc"
	SORT_PRICE_DESC  SortStrategy = "price_desc"
	SORT_RATING_DESC SortStrategy = "rating_desc"
)

var sortLabels = map[SortStrategy]string{
	SORT_RECOMMENDED: "Recommended",
	SORT_PRICE_ASC:   "Price: Low to High",
	SORT_PRICE_DESC:  "Price: High to Low",
	SORT_RATING_DESC: "Rating: High to Low",
}

func (s SortStrategy) Label() string {
	return sortLabels[s]
}

func (s SortStrategy) IsValid() bool {
	_, ok := sortLabels[s]
	return ok
}

// ParseSortStrategy accepts either the strategy key or its display label.
// Unknown or empty input falls back to SORT_RECOMMENDED.
func ParseSortStrategy(v string) SortStrategy {
	if SortStrategy(v).IsValid() {
		return SortStrategy(v)
	}
	for k, label := range sortLabels {
		if label == v {
			return k
		}
	}
	return SORT_RECOMMENDED
}

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "Pending"
	PAYMENT_APPROVED PaymentStatus = "Approved"
	PAYMENT_REJECTED PaymentStatus = "Rejected"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PAYMENT_PENDING, PAYMENT_APPROVED, PAYMENT_REJECTED:
		return true
	}
	return false
}

type TimeTag string

const (
	TIME_MORNING   TimeTag = "morning"
	TIME_AFTERNOON TimeTag = "afternoon"
	TIME_ALL_DAY   TimeTag = "allDay"
)

var TimeTags = []TimeTag{TIME_MORNING, TIME_AFTERNOON, TIME_ALL_DAY}

func (t TimeTag) IsValid() bool {
	return slices.Contains(TimeTags, t)
}

type Special string

const (
	SPECIAL_HALAL   Special = "Halal"
	SPECIAL_ENGLISH Special = "english"
	SPECIAL_KIDS    Special = "kids"
	SPECIAL_PRIVATE Special = "private"
	SPECIAL_PICKUP  Special = "pickup"
)

var Specials = []Special{SPECIAL_HALAL, SPECIAL_ENGLISH, SPECIAL_KIDS, SPECIAL_PRIVATE, SPECIAL_PICKUP}

func (s Special) IsValid() bool {
	return slices.Contains(Specials, s)
}

type PickupOption string

const (
	PICKUP_AND_DROP PickupOption = "pickAndDrop"
	PICKUP_SPLIT    PickupOption = "split"
)

func (p PickupOption) IsValid() bool {
	return p == PICKUP_AND_DROP || p == PICKUP_SPLIT
}

type SessionState string

const (
	SESSION_ANONYMOUS     SessionState = "anonymous"
	SESSION_RESOLVING     SessionState = "resolving"
	SESSION_AUTHENTICATED SessionState = "authenticated"
	SESSION_ERROR         SessionState = "error"
)

// FilterCriteria narrows the package list. Zero values of the optional
// fields mean the category is off; PriceCeiling is always applied.
type FilterCriteria struct {
	Date           *time.Time
	PriceCeiling   float64
	RatingFloor    float64
	TimeFilters    []TimeTag
	SpecialFilters []Special
}

// DefaultCriteria returns criteria with every category off.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{PriceCeiling: config.MaxPriceCeiling}
}

type PackageQueryFilters struct {
	Date     string   `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Price    *float64 `form:"price" binding:"omitempty,gte=0"`
	Rating   float64  `form:"rating" binding:"omitempty,gte=0,lte=5"`
	Time     []string `form:"time" binding:"omitempty,dive,timetag"`
	Specials []string `form:"specials" binding:"omitempty,dive,special"`
	Sort     string   `form:"sort" binding:"omitempty,sortstrategy"`
	Refresh  bool     `form:"refresh"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type BookingURIParams struct {
	PackageID uint `uri:"id" binding:"required"`
	PaymentID uint `uri:"paymentId" binding:"required"`
}

type LoginRequestBody struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type RegisterUserRequestBody struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type AddToCartRequestBody struct {
	PackageID       uint     `json:"package_id" binding:"required"`
	TimeOfTour      string   `json:"timeOfTour,omitempty" binding:"omitempty,timetag"`
	Specials        []string `json:"specials,omitempty" binding:"omitempty,dive,special"`
	SelectedDate    string   `json:"selectedDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Travelers       int      `json:"travelers,omitempty" binding:"omitempty,min=1"`
	PickupOption    string   `json:"pickupOption,omitempty" binding:"omitempty,pickup"`
	PickupLocation  string   `json:"pickupLocation,omitempty"`
	DropoffLocation string   `json:"dropoffLocation,omitempty"`
}

type UpdatePaymentStatusRequestBody struct {
	Status string `json:"status" binding:"required,paymentstatus"`
}

type ProfileRequestBody struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhonePrefix string `json:"phonePrefix"`
	PhoneNumber string `json:"phoneNumber"`
}

type PaymentDetailsRequestBody struct {
	Name     string  `form:"name" binding:"required"`
	Lastname string  `form:"lastname" binding:"required"`
	Email    string  `form:"email" binding:"required,email"`
	Phone    string  `form:"phone" binding:"required"`
	Price    float64 `form:"price" binding:"omitempty,gte=0"`
}

type TourRequestBody struct {
	Title       string   `form:"title" json:"title" binding:"required"`
	Description string   `form:"description" json:"description"`
	Price       float64  `form:"price" json:"price" binding:"gte=0"`
	Duration    string   `form:"duration" json:"duration"`
	Capacity    int      `form:"capacity" json:"capacity" binding:"gte=0"`
	CapacityMax int      `form:"capacity_max" json:"capacity_max" binding:"gte=0"`
	StartDate   string   `form:"startDate" json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	TimeOfTour  []string `form:"timeOfTour" json:"timeOfTour" binding:"omitempty,dive,timetag"`
	Specials    []string `form:"specials" json:"specials" binding:"omitempty,dive,special"`
	Available   bool     `form:"available" json:"available"`
}

type QRRequestQuery struct {
	Amount float64 `form:"amount" binding:"omitempty,gte=0"`
}
