package aws

import (
	"context"
	"log"
	"tourbook/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient() *ses.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := ses.NewFromConfig(cfg)
	return svc
}

type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends mail through Amazon SES.
type SESMailer struct {
	Client SESAPI
}

func NewSESMailer() *SESMailer {
	c := GetSESClient()
	if c == nil {
		return nil
	}
	return &SESMailer{Client: c}
}

func (m *SESMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	out, err := m.Client.SendEmail(ctx, SendEmailInput(input))
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return err
	}
	log.Printf("Sent email with id: %s\n", aws.ToString(out.MessageId))
	return nil
}

func SendEmailInput(input *lib.SendMailInput) *ses.SendEmailInput {
	source := input.From
	if input.FromName != "" {
		source = input.FromName + " <" + input.From + ">"
	}
	body := &types.Body{}
	content := &types.Content{Data: aws.String(input.Body), Charset: aws.String("UTF-8")}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	out := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(input.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
	if input.ReplyTo != "" {
		out.ReplyToAddresses = []string{input.ReplyTo}
	}
	return out
}
