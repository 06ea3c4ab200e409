package common

import (
	"bytes"
	"context"
	"io"
	"log"
	"tourbook/src/models"
)

type PaymentGateway interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*models.Media, error)
	UpdatePaymentDetails(ctx context.Context, historyID uint, d *models.PaymentDetails) error
}

// Archiver keeps an out-of-band copy of a slip.
type Archiver interface {
	Archive(ctx context.Context, historyID uint, filename, contentType string, body io.Reader) (*string, error)
}

type Slip struct {
	Filename    string
	ContentType string
	Body        []byte
}

type PaymentResult struct {
	HistoryID  uint          `json:"history_id"`
	Slip       *models.Media `json:"slip,omitempty"`
	ArchiveURL *string       `json:"archive_url,omitempty"`
}

// SubmitPaymentDetails uploads the slip, when given, then attaches it with
// the payer details to the history record. A failed archive copy does not
// fail the submission.
func SubmitPaymentDetails(ctx context.Context, gw PaymentGateway, archive Archiver, historyID uint, details models.PaymentDetails, slip *Slip) (*PaymentResult, error) {
	result := &PaymentResult{HistoryID: historyID}
	if slip != nil {
		media, err := gw.Upload(ctx, slip.Filename, slip.ContentType, bytes.NewReader(slip.Body))
		if err != nil {
			log.Printf("[payments] %d: slip upload failed: %s\n", historyID, err.Error())
			return nil, err
		}
		details.SlipID = media.ID
		result.Slip = media
	}
	if err := gw.UpdatePaymentDetails(ctx, historyID, &details); err != nil {
		log.Printf("[payments] %d: updating details failed: %s\n", historyID, err.Error())
		return nil, err
	}
	if slip != nil && archive != nil {
		url, err := archive.Archive(ctx, historyID, slip.Filename, slip.ContentType, bytes.NewReader(slip.Body))
		if err != nil {
			log.Printf("[payments] %d: slip archive failed: %s\n", historyID, err.Error())
		} else {
			result.ArchiveURL = url
		}
	}
	return result, nil
}
