// Package client holds the client-facing reconciliation pieces: the
// post-checkout confirmation poller, the debounced form writer, and the
// entitlement watcher.
package client

import (
	"context"
	"errors"
	"net/url"
	"time"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/store"
	"fitness-nutri/pkg/logger"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollAttempts = 10
)

// Outcome is the terminal state surfaced to the UI after redirect-back.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomePending  Outcome = "pending"
	OutcomeRejected Outcome = "rejected"
	OutcomeTimeout  Outcome = "timeout"
)

// CallbackParams are the query parameters the provider appends on
// redirect-back. Both the plain and "collection_" prefixed names occur.
type CallbackParams struct {
	Status            string
	PaymentID         string
	ExternalReference string
}

// ParseCallbackParams reads the redirect query, preferring the plain names
// and falling back to the collection_ variants.
func ParseCallbackParams(q url.Values) CallbackParams {
	pick := func(primary, fallback string) string {
		if v := q.Get(primary); v != "" {
			return v
		}
		return q.Get(fallback)
	}
	return CallbackParams{
		Status:            pick("status", "collection_status"),
		PaymentID:         pick("payment_id", "collection_id"),
		ExternalReference: q.Get("external_reference"),
	}
}

// Poller confirms that an approved redirect is reflected in the store: the
// entitlement flag set and the initial plan created by the webhook.
type Poller struct {
	store    store.Store
	interval time.Duration
	attempts int
	log      *logger.Logger
}

func NewPoller(st store.Store, log *logger.Logger) *Poller {
	return &Poller{
		store:    st,
		interval: defaultPollInterval,
		attempts: defaultPollAttempts,
		log:      log,
	}
}

// NewPollerWithSchedule overrides the fixed interval and attempt cap.
func NewPollerWithSchedule(st store.Store, interval time.Duration, attempts int, log *logger.Logger) *Poller {
	return &Poller{store: st, interval: interval, attempts: attempts, log: log}
}

// Confirm resolves the redirect into a terminal outcome. Non-approved
// statuses resolve immediately. An approved status polls the store at the
// fixed interval until the entitlement and plan are both visible; if they
// never appear within the attempt cap the result is OutcomeTimeout with a
// TimeoutError. Cancelling the context stops the loop.
func (p *Poller) Confirm(ctx context.Context, params CallbackParams) (Outcome, error) {
	if params.Status == "" {
		return OutcomeRejected, apperr.Validation("missing payment status in callback")
	}

	switch params.Status {
	case "approved":
	case "pending":
		return OutcomePending, nil
	default:
		return OutcomeRejected, nil
	}

	if params.PaymentID == "" {
		return OutcomeRejected, apperr.Validation("missing payment id in callback")
	}
	userID := params.ExternalReference
	if userID == "" {
		return OutcomeRejected, apperr.Validation("missing external reference in callback")
	}
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if p.entitlementVisible(ctx, userID) {
			return OutcomeApproved, nil
		}
		if attempt == p.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return OutcomeTimeout, ctx.Err()
		case <-time.After(p.interval):
		}
	}

	p.log.Warnw("payment confirmation timed out",
		"user_id", userID, "payment_id", params.PaymentID, "attempts", p.attempts)
	return OutcomeTimeout, &apperr.TimeoutError{Attempts: p.attempts}
}

func (p *Poller) entitlementVisible(ctx context.Context, userID string) bool {
	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil || !profile.HasPaidPlan {
		return false
	}
	if _, err := p.store.GetPlanByUserID(ctx, userID); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			p.log.Warnw("plan lookup failed while confirming", "user_id", userID, "error", err)
		}
		return false
	}
	return true
}
