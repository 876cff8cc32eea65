package services

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
)

// RetryPolicy bounds how often a failed ledger unit of work is re-run.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy matches the LEDGER_TX_* configuration defaults.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Backoff: 25 * time.Millisecond}

// retryOnTxFailure calls fn until it succeeds, fails with anything other than
// ErrTransactionFailure, or the policy runs out. The wait grows linearly per attempt.
func retryOnTxFailure(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(attempt)
		if err == nil || !errors.Is(err, apperrors.ErrTransactionFailure) || attempt >= policy.MaxRetries {
			return err
		}

		timer := time.NewTimer(policy.Backoff * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
