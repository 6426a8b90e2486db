// internal/client/eligibility.go
package client

import (
	"context"
	"errors"
	"time"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/store"
	"fitness-nutri/internal/validation"
)

// defaultWatchInterval is the poll cadence for eligibility re-checks when no
// push source is available.
const defaultWatchInterval = 2 * time.Second

// WatchEligibility re-runs the checkout validator whenever the user's
// registration or meal selections may have changed, emitting only verdicts
// that differ from the previous one. Rows that do not exist yet validate as
// empty.
func WatchEligibility(ctx context.Context, source Source, st store.Store, userID string) *Watcher[validation.Result] {
	return Watch(ctx, source, func(ctx context.Context) (validation.Result, error) {
		reg, err := st.GetRegistration(ctx, userID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return validation.Result{}, err
		}
		meals, err := st.GetMealSelections(ctx, userID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return validation.Result{}, err
		}
		return validation.CheckCheckout(reg, meals), nil
	})
}

// WatchEligibilityPolling is WatchEligibility over a timer source at the
// default cadence.
func WatchEligibilityPolling(ctx context.Context, st store.Store, userID string) *Watcher[validation.Result] {
	return WatchEligibility(ctx, NewPollSource(defaultWatchInterval), st, userID)
}
