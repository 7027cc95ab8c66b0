package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"dekontrol/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendAnalysisComplete(ctx context.Context, n port.AnalysisNotification) error {
	subject := fmt.Sprintf("Dekont analizi tamamlandı: %s (%s)", n.StudentName, n.PeriodLabel)
	if n.HasErrors {
		subject = fmt.Sprintf("Dekont incelemesi gerekli: %s (%s)", n.StudentName, n.PeriodLabel)
	}

	htmlBody := buildAnalysisHTML(n)
	textBody := buildAnalysisText(n)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{n.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildAnalysisText(n port.AnalysisNotification) string {
	status := "No issues were flagged."
	if n.HasErrors {
		status = fmt.Sprintf("%d issue(s) were flagged and the receipt needs manual review.", n.FlagCount)
	} else if n.FlagCount > 0 {
		status = fmt.Sprintf("%d warning(s) were flagged.", n.FlagCount)
	}
	return fmt.Sprintf(
		"The payment receipt for %s (%s) has been analyzed.\n\nReliability score: %.0f%%\n%s\n\nDekontrol",
		n.StudentName, n.PeriodLabel, n.Reliability*100, status)
}

func buildAnalysisHTML(n port.AnalysisNotification) string {
	statusColor := "#16A34A"
	statusText := "No issues were flagged."
	if n.HasErrors {
		statusColor = "#DC2626"
		statusText = fmt.Sprintf("%d issue(s) were flagged. Manual review is required.", n.FlagCount)
	} else if n.FlagCount > 0 {
		statusColor = "#D97706"
		statusText = fmt.Sprintf("%d warning(s) were flagged.", n.FlagCount)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Receipt analysis complete</h2>
  <p>The payment receipt for <strong>%s</strong> (%s) has been analyzed.</p>
  <p>Reliability score: <strong>%.0f%%</strong></p>
  <p style="color: %s;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Dekontrol - Internship Receipt Portal</p>
</body>
</html>`, n.StudentName, n.PeriodLabel, n.Reliability*100, statusColor, statusText)
}
