package cms

import (
	"context"
	"fmt"
	"net/http"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/tidwall/gjson"
)

func (c *Client) ListBookingsForPackage(ctx context.Context, packageID uint) ([]models.BookingRecord, error) {
	path := fmt.Sprintf("/payments?filters[package][id]=%d&populate[users_permissions_user][populate]=*&populate[payment_slip][populate]=*", packageID)
	payload, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	records := []models.BookingRecord{}
	gjson.GetBytes(payload, "data").ForEach(func(_, item gjson.Result) bool {
		records = append(records, NormalizeBooking(item, c.origin))
		return true
	})
	return records, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, paymentID uint, status types.PaymentStatus) error {
	_, err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/payments/%d", paymentID), dataEnvelope(map[string]any{
		"payment_status": status,
	}))
	return err
}

// GetPaymentSlip re-reads the slip of one payment.
func (c *Client) GetPaymentSlip(ctx context.Context, paymentID uint) (*string, error) {
	payload, err := c.get(ctx, fmt.Sprintf("/payments/%d?populate[payment_slip][populate]=*", paymentID))
	if err != nil {
		return nil, err
	}
	return SlipURL(gjson.GetBytes(payload, "data"), c.origin), nil
}

func (c *Client) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payload, err := c.get(ctx, "/payments?populate=package,users_permissions_user")
	if err != nil {
		return nil, err
	}
	payments := []models.Payment{}
	gjson.GetBytes(payload, "data").ForEach(func(_, item gjson.Result) bool {
		payments = append(payments, NormalizePayment(item))
		return true
	})
	return payments, nil
}
