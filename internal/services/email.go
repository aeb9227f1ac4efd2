package services

import (
  "context"
  "fmt"
  "os"

  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error
}

type emailService struct {
  log                    *logger.Logger
  client                 *sendgrid.Client
  fromSupportEmail       string
  fromAuthorizationEmail string
}

func NewEmailService(log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("service", "EmailService")
  apiKey := os.Getenv("SENDGRID_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing SENDGRID_API_KEY environment variable")
  }
  fromSupport := os.Getenv("SENDGRID_SUPPORT_EMAIL")
  if fromSupport == "" {
    serviceLog.Warn("SENDGRID_SUPPORT_EMAIL not set; using fallback no-reply@skillswap.app")
    fromSupport = "no-reply@skillswap.app"
  }
  fromAuth := os.Getenv("SENDGRID_AUTHORIZATION_EMAIL")
  if fromAuth == "" {
    serviceLog.Warn("SENDGRID_AUTHORIZATION_EMAIL not set; using fallback authorization@skillswap.app")
    fromAuth = "authorization@skillswap.app"
  }
  client := sendgrid.NewSendClient(apiKey)

  return &emailService{
    log:                    serviceLog,
    client:                 client,
    fromSupportEmail:       fromSupport,
    fromAuthorizationEmail: fromAuth,
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error {
  var fromName = "SkillSwap"
  var fromEmail = es.fromSupportEmail
  switch emailType {
  case "authorization":
    fromName = "SkillSwap Verification"
    fromEmail = es.fromAuthorizationEmail
  case "support":
    fromName = "SkillSwap Support"
    fromEmail = es.fromSupportEmail
  default:

  }
  from := mail.NewEmail(fromName, fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
  response, err := es.client.SendWithContext(ctx, message)
  if err != nil {
    es.log.Warn("Sendgrid email send failed", "error", err)
    return err
  }
  es.log.Info("Email sent", "to", toEmail, "statusCode", response.StatusCode)
  return nil
}
