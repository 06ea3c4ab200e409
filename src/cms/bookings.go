package cms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"tourbook/src/domain"
	"tourbook/src/models"

	"github.com/tidwall/gjson"
)

// SubmitBooking creates the history record of a checkout and returns its id.
func (c *Client) SubmitBooking(ctx context.Context, sub *models.BookingSubmission) (uint, error) {
	payload, err := c.sendJSON(ctx, http.MethodPost, "/history-packages", dataEnvelope(sub))
	if err != nil {
		return 0, err
	}
	return uint(gjson.GetBytes(payload, "data.id").Uint()), nil
}

func (c *Client) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	payload, err := c.get(ctx, "/history-packages?populate[payments][populate]=*")
	if err != nil {
		return nil, err
	}
	entries := []models.HistoryEntry{}
	gjson.GetBytes(payload, "data").ForEach(func(_, item gjson.Result) bool {
		entries = append(entries, NormalizeHistory(item))
		return true
	})
	return entries, nil
}

// UpdatePaymentDetails attaches the payer details, and the slip when one
// was uploaded, to a history record.
func (c *Client) UpdatePaymentDetails(ctx context.Context, historyID uint, d *models.PaymentDetails) error {
	data := map[string]any{
		"name":     d.Name,
		"lastname": d.Lastname,
		"email":    d.Email,
		"phone":    d.Phone,
		"price":    d.Price,
	}
	if d.SlipID > 0 {
		data["slip"] = map[string]any{"id": d.SlipID}
	}
	_, err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/history-packages/%d", historyID), dataEnvelope(data))
	return err
}

// Upload stores a file in the CMS media library under the "files" field.
func (c *Client) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*models.Media, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := writeFilePart(w, "files", filename, contentType, body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	payload, err := c.do(ctx, http.MethodPost, "/upload", buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	first := gjson.GetBytes(payload, "0")
	if !first.Exists() {
		return nil, domain.TransportError{Method: http.MethodPost, Path: "/upload", Status: http.StatusOK, Body: "empty upload response"}
	}
	return &models.Media{
		ID:  uint(first.Get("id").Uint()),
		URL: absoluteURL(c.origin, first.Get("url").String()),
	}, nil
}
