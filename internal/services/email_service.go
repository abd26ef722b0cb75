package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/mhersel/vitae/pkg/logger"
)

// AWSSESEmailService sends the access-code emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	siteBaseURL string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, siteBaseURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		siteBaseURL: siteBaseURL,
		logger:      logger,
	}, nil
}

// SendAccessCode emails the raw access code together with a link back to the
// endorsement's manage page
func (s *AWSSESEmailService) SendAccessCode(ctx context.Context, email, endorsementID, code string, expiresAt time.Time) error {
	manageLink := fmt.Sprintf("%s/endorsements/%s/manage", s.siteBaseURL, endorsementID)
	minutes := int(time.Until(expiresAt).Minutes())

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; padding: 16px; background-color: #f8f9fa; border-radius: 4px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <p>Someone asked to edit the endorsement you submitted. Enter this code on the manage page to continue:</p>
        <p class="code">%s</p>
        <p>The code expires in %d minutes and works only once.</p>
        <p>Manage page: <a href="%s">%s</a></p>
        <div class="footer">
            <p>If you didn't request this, you can ignore this email. Your endorsement stays as it is.</p>
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, code, minutes, manageLink, manageLink)

	textBody := fmt.Sprintf(`Someone asked to edit the endorsement you submitted.

Your access code: %s

The code expires in %d minutes and works only once.

Manage page: %s

If you didn't request this, you can ignore this email. Your endorsement stays as it is.
`, code, minutes, manageLink)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Your endorsement access code"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send access code via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("access code email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("message_id", *result.MessageId))

	return nil
}
