package port

import "context"

// AnalysisNotification carries the details for an analysis-complete email.
type AnalysisNotification struct {
	To          string
	StudentName string
	PeriodLabel string
	Reliability float64
	FlagCount   int
	HasErrors   bool
}

// EmailSender abstracts outbound notification delivery.
type EmailSender interface {
	SendAnalysisComplete(ctx context.Context, n AnalysisNotification) error
}
