package cart

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/models"
)

// Principal is the session state checkout is gated on.
type Principal interface {
	IsLoggedIn() bool
	User() *models.UserRecord
}

type Submitter interface {
	SubmitBooking(ctx context.Context, sub *models.BookingSubmission) (uint, error)
}

type Receipt struct {
	HistoryID  uint                     `json:"history_id"`
	Submission models.BookingSubmission `json:"booking"`
	Lines      []models.CartLine        `json:"lines"`
}

// BuildSubmission folds every line into one history record.
func BuildSubmission(lines []models.CartLine, username string, now time.Time) models.BookingSubmission {
	titles := make([]string, 0, len(lines))
	specials := make([]string, 0, len(lines))
	quantity := 0
	for _, l := range lines {
		titles = append(titles, fmt.Sprintf("%s (%d)", l.Title, l.Quantity))
		quantity += l.Quantity
		if len(l.Specials) == 0 {
			specials = append(specials, "halal")
		} else {
			specials = append(specials, strings.Join(l.Specials, ", "))
		}
	}
	return models.BookingSubmission{
		Username: username,
		Title:    strings.Join(titles, ", "),
		Number:   quantity,
		Price:    Total(lines),
		Special:  strings.Join(specials, ", "),
		Date:     now.Format(config.SUBMISSION_DATE_FORMAT),
	}
}

// Checkout submits the whole cart as one booking and clears it on success.
// Nothing is sent when the session is anonymous or the cart is empty, and a
// failed submission leaves the cart as it was. Once the CMS accepted the
// booking a receipt is always returned, even if the cart could not be
// cleared.
func (c *Cart) Checkout(ctx context.Context, principal Principal, submitter Submitter, now time.Time) (*Receipt, error) {
	if principal == nil || !principal.IsLoggedIn() {
		return nil, domain.AuthRequiredError{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()

	lines, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.EmptyCartError{}
	}

	username := ""
	if u := principal.User(); u != nil {
		username = u.Username
	}
	sub := BuildSubmission(lines, username, now)
	id, err := submitter.SubmitBooking(ctx, &sub)
	if err != nil {
		log.Printf("[cart] %s: checkout failed: %s\n", c.id, err.Error())
		return nil, err
	}
	if err := c.clear(ctx); err != nil {
		log.Printf("[cart] %s: booking %d submitted but cart not cleared: %s\n", c.id, id, err.Error())
	}
	log.Printf("[cart] %s: submitted booking %d (%d items)\n", c.id, id, sub.Number)
	return &Receipt{HistoryID: id, Submission: sub, Lines: lines}, nil
}
