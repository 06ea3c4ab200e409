package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"tourbook/src/config"
	"tourbook/src/lib"
	awslib "tourbook/src/lib/aws"
	"tourbook/src/models"
)

// New picks the mail driver named by MAIL_DRIVER. Anything unknown, or a
// driver that fails to initialize, falls back to logging.
func New() lib.Mailer {
	switch config.MailDriver() {
	case "smtp":
		return lib.SMTPMailer{}
	case "ses":
		if m := awslib.NewSESMailer(); m != nil {
			return m
		}
		log.Println("[mail] SES unavailable, falling back to log driver")
	}
	return lib.LogMailer{}
}

// BookingConfirmation renders the mail sent after a successful checkout.
func BookingConfirmation(to string, historyID uint, sub *models.BookingSubmission, lines []models.CartLine) *lib.SendMailInput {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", sub.Username)
	fmt.Fprintf(&b, "Your booking #%d was received on %s.\n\n", historyID, sub.Date)
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s x%d, %s, %d travelers, %s\n", l.Title, l.Quantity, l.SelectedDate, l.Travelers, l.TimeOfTour)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f THB\n", sub.Price)
	b.WriteString("Please upload your payment slip to confirm the booking.\n")
	return &lib.SendMailInput{
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
		To:       []string{to},
		Subject:  fmt.Sprintf("Booking #%d received", historyID),
		Body:     b.String(),
	}
}

// SendAsync delivers input in the background; failures are only logged.
func SendAsync(m lib.Mailer, input *lib.SendMailInput) {
	go func() {
		if err := m.Send(context.Background(), input); err != nil {
			log.Printf("[mail] Failed to send %q: %s\n", input.Subject, err.Error())
		}
	}()
}
