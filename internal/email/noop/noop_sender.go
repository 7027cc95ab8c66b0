package noop

import (
	"context"
	"log"

	"dekontrol/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendAnalysisComplete(_ context.Context, n port.AnalysisNotification) error {
	log.Printf("[NOOP EMAIL] Analysis complete for %s (%s): reliability=%.2f flags=%d errors=%t to=%s",
		n.StudentName, n.PeriodLabel, n.Reliability, n.FlagCount, n.HasErrors, n.To)
	return nil
}
