package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"

	"kidsmoney/internal/models"
)

// sesSender is the part of the SES client the email service uses
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailConfig configures the SES notifier
type EmailConfig struct {
	Region     string
	FromEmail  string
	FromName   string
	AppBaseURL string
	Debug      bool
}

// EmailService sends parent notifications via Amazon SES
type EmailService struct {
	client     sesSender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
	logger     zerolog.Logger
}

// NewEmailService creates a new email service. An empty FromEmail gives a disabled service.
func NewEmailService(ctx context.Context, cfg EmailConfig, logger zerolog.Logger) (*EmailService, error) {
	if cfg.FromEmail == "" {
		logger.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: cfg.Debug, logger: logger}, nil
	}

	if cfg.Debug {
		logger.Debug().
			Str("region", cfg.Region).
			Str("from", cfg.FromEmail).
			Str("base_url", cfg.AppBaseURL).
			Msg("initializing email service with AWS SES")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info().Str("from", cfg.FromEmail).Str("region", cfg.Region).Msg("email service enabled")
	return newEmailService(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

func newEmailService(client sesSender, cfg EmailConfig, logger zerolog.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		debug:      cfg.Debug,
		logger:     logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// TaskAwaitingApproval implements Notifier
func (s *EmailService) TaskAwaitingApproval(ctx context.Context, parent *models.User, kid *models.Kid, task *models.Task) error {
	subject := fmt.Sprintf("%s finished a task", kid.Name)
	text := fmt.Sprintf("%s marked \"%s\" as done. Approve it to pay the %.2f reward.", kid.Name, task.Title, task.RewardAmount)
	return s.notify(ctx, parent, subject, text, "/tasks")
}

// LoanRequested implements Notifier
func (s *EmailService) LoanRequested(ctx context.Context, parent *models.User, kid *models.Kid, loan *models.Loan) error {
	subject := fmt.Sprintf("%s asked for a loan", kid.Name)
	text := fmt.Sprintf("%s would like to borrow %.2f for \"%s\" over %d months (EMI %.2f).",
		kid.Name, loan.Principal, loan.Purpose, loan.DurationMonths, loan.EMIAmount)
	return s.notify(ctx, parent, subject, text, "/loans")
}

// GoalCompleted implements Notifier
func (s *EmailService) GoalCompleted(ctx context.Context, parent *models.User, kid *models.Kid, goal *models.Goal) error {
	subject := fmt.Sprintf("%s reached a savings goal", kid.Name)
	text := fmt.Sprintf("%s has saved %.2f and completed the goal \"%s\".", kid.Name, goal.SavedAmount, goal.Title)
	return s.notify(ctx, parent, subject, text, "/goals")
}

func (s *EmailService) notify(ctx context.Context, parent *models.User, subject, message, path string) error {
	if !s.enabled {
		s.logger.Debug().Str("to", parent.Email).Str("subject", subject).Msg("skipping email send (service disabled)")
		return nil
	}

	link := s.appBaseURL + path
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4F7DF3; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4F7DF3; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Open KidsMoney</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from KidsMoney. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(subject), html.EscapeString(parent.FullName), html.EscapeString(message), link)

	textBody := fmt.Sprintf(`Hi %s,

%s

Open KidsMoney: %s

---
This is an automated email from KidsMoney. Please do not reply.
`, parent.FullName, message, link)

	return s.sendEmail(ctx, parent.Email, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		s.logger.Debug().
			Str("from", fromAddress).
			Str("to", toEmail).
			Str("subject", subject).
			Int("html_bytes", len(htmlBody)).
			Int("text_bytes", len(textBody)).
			Msg("calling SES SendEmail")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	ev := s.logger.Info().Str("to", toEmail).Str("subject", subject)
	if result != nil && result.MessageId != nil {
		ev = ev.Str("message_id", *result.MessageId)
	}
	ev.Msg("email sent")
	return nil
}
