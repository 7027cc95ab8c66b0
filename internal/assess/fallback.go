package assess

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"dekontrol/internal/analysis"
)

// circuitState tracks rate-limit backoff for a single assessor.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackAssessor tries assessors in order, skipping those with open circuits.
// It implements analysis.AIAssessor.
type FallbackAssessor struct {
	assessors []analysis.AIAssessor
	circuits  []*circuitState
	names     []string
}

// NewFallbackAssessor creates a FallbackAssessor from an ordered list of
// assessors and their names.
func NewFallbackAssessor(assessors []analysis.AIAssessor, names []string) *FallbackAssessor {
	circuits := make([]*circuitState, len(assessors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackAssessor{
		assessors: assessors,
		circuits:  circuits,
		names:     names,
	}
}

func (f *FallbackAssessor) Assess(ctx context.Context, rawText string, expected analysis.ExpectedRecord) (*analysis.ExternalAIAssessment, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, a := range f.assessors {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("assess.FallbackAssessor: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := a.Assess(ctx, rawText, expected)
		if err == nil {
			return out, nil
		}

		log.Printf("assess.FallbackAssessor: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil {
		// All assessors were skipped due to open circuits
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all assessors rate limited"), int(retryAfter.Seconds()))
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all assessors rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all assessors failed: %w", lastErr)
}
