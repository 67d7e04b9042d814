package store

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	retryBase       = 50 * time.Millisecond
	retryMaxRetries = 3
)

// withRetry runs op, retrying it with exponential backoff while the
// classifier reports the failure as [Retryable]. The whole attempt is bounded
// by db.timeout when set.
func (db *DB) withRetry(ctx context.Context, funcName string, op func(ctx context.Context) error) error {
	if db.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.timeout)
		defer cancel()
	}

	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Str("func", funcName).Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}
