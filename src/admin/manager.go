package admin

import (
	"context"
	"log"
	"sync"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/models"
	"tourbook/src/types"
)

// Principal is the session the manager acts for.
type Principal interface {
	IsLoggedIn() bool
	User() *models.UserRecord
}

type Gateway interface {
	ListBookingsForPackage(ctx context.Context, packageID uint) ([]models.BookingRecord, error)
	UpdatePaymentStatus(ctx context.Context, paymentID uint, status types.PaymentStatus) error
	GetPaymentSlip(ctx context.Context, paymentID uint) (*string, error)
}

// Manager holds the booking lists an admin has loaded, per package.
// Local records only change after the CMS accepted the change.
type Manager struct {
	mu       sync.RWMutex
	gw       Gateway
	bookings map[uint][]models.BookingRecord
}

func NewManager(gw Gateway) *Manager {
	return &Manager{gw: gw, bookings: map[uint][]models.BookingRecord{}}
}

func (m *Manager) ListBookingsForPackage(ctx context.Context, packageID uint) ([]models.BookingRecord, error) {
	records, err := m.gw.ListBookingsForPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.bookings[packageID] = records
	m.mu.Unlock()
	return clone(records), nil
}

// Bookings returns the last loaded list for packageID.
func (m *Manager) Bookings(packageID uint) []models.BookingRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.bookings[packageID])
}

// UpdateStatus sets the status of one payment. The refreshed slip url is
// best-effort; a failed refetch keeps the previous url.
func (m *Manager) UpdateStatus(ctx context.Context, principal Principal, packageID, paymentID uint, status types.PaymentStatus) (*models.BookingRecord, error) {
	if principal == nil || !principal.IsLoggedIn() {
		return nil, domain.AuthRequiredError{}
	}
	if !status.IsValid() {
		return nil, domain.ValidationError{Field: "status", Msg: "must be one of Pending, Approved, Rejected"}
	}

	if err := m.gw.UpdatePaymentStatus(ctx, paymentID, status); err != nil {
		log.Printf("[admin] payment %d: status update failed: %s\n", paymentID, err.Error())
		return nil, err
	}
	record := m.commit(packageID, paymentID, func(r *models.BookingRecord) {
		r.Status = status
	})

	slip, err := m.gw.GetPaymentSlip(ctx, paymentID)
	if err != nil {
		log.Printf("[admin] payment %d: slip refresh failed: %s\n", paymentID, err.Error())
		return record, nil
	}
	m.commit(packageID, paymentID, func(r *models.BookingRecord) {
		r.SlipURL = slip
	})
	record.SlipURL = slip
	return record, nil
}

func (m *Manager) commit(packageID, paymentID uint, apply func(r *models.BookingRecord)) *models.BookingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.bookings[packageID]
	for i := range records {
		if records[i].PaymentID == paymentID {
			apply(&records[i])
			out := records[i]
			return &out
		}
	}
	// not loaded yet; answer with what is known
	out := models.BookingRecord{
		PaymentID:    paymentID,
		CustomerName: config.NotAvailable,
		Email:        config.NotAvailable,
		Phone:        config.NotAvailable,
	}
	apply(&out)
	return &out
}

func clone(records []models.BookingRecord) []models.BookingRecord {
	out := make([]models.BookingRecord, len(records))
	copy(out, records)
	return out
}
