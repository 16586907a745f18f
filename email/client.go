// Package email provides email client functionality
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
)

type Client struct {
	resend    *resend.Client
	fromEmail string
	fromName  string
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("BUSTER_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@yourdomain.com"
	}

	fromName := os.Getenv("BUSTER_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Brainrot Buster"
	}

	client := resend.NewClient(apiKey)

	return &Client{
		resend:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendInterventionEmail delivers the inbox digest behind the email-kind
// intervention after the user engages it.
func (c *Client) SendInterventionEmail(to string, sessionMinutes float64, brainrotPercent, points int) error {
	subject := "Your inbox beat the feed 📧"

	content := GetInterventionEmailContent(InterventionEmailProps{
		SessionMinutes:  sessionMinutes,
		BrainrotPercent: brainrotPercent,
		Points:          points,
	})

	htmlContent := GetEmailLayout(EmailLayoutProps{
		Content: content,
	})

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.resend.Emails.Send(request)
	if err != nil {
		return fmt.Errorf("failed to send intervention email: %w", err)
	}

	return nil
}
