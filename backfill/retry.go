// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package backfill

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds repeated embedding calls: up to MaxAttempts tries
// with a pause that doubles after every failed attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// retryPolicy derives the retry policy from the run configuration.
func (c *Config) retryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: c.MaxRetries, BaseDelay: c.RetryDelay}
}

// Do runs op until it succeeds, the attempts are exhausted, or ctx is
// cancelled. When every attempt fails, the error of the last one is
// returned.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	pause := p.BaseDelay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		if err == nil {
			if attempt > 1 {
				slog.Debug("embedding call recovered", "attempt", attempt)
			}
			return nil
		}
		if attempt == p.MaxAttempts {
			return err
		}

		slog.Debug("embedding call failed, backing off",
			"attempt", attempt, "maxAttempts", p.MaxAttempts, "pause", pause, "err", err)

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		pause *= 2
	}
}
