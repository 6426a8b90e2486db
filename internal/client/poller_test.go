package client

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/models"
	"fitness-nutri/internal/store"
	"fitness-nutri/pkg/logger"
)

func TestParseCallbackParams(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  CallbackParams
	}{
		{
			"plain names",
			"status=approved&payment_id=123&external_reference=user-1",
			CallbackParams{Status: "approved", PaymentID: "123", ExternalReference: "user-1"},
		},
		{
			"collection names",
			"collection_status=approved&collection_id=123&external_reference=user-1",
			CallbackParams{Status: "approved", PaymentID: "123", ExternalReference: "user-1"},
		},
		{
			"plain wins over collection",
			"status=approved&collection_status=pending&payment_id=1&collection_id=2",
			CallbackParams{Status: "approved", PaymentID: "1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ParseCallbackParams(q))
		})
	}
}

func TestConfirm_NonApprovedIsImmediate(t *testing.T) {
	p := NewPollerWithSchedule(store.NewMemory(), time.Hour, 10, logger.NewNop())

	outcome, err := p.Confirm(context.Background(), CallbackParams{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)

	outcome, err = p.Confirm(context.Background(), CallbackParams{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)

	outcome, err = p.Confirm(context.Background(), CallbackParams{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)

	// in_process is not a pending state; anything but approved/pending is
	// terminal rejected
	outcome, err = p.Confirm(context.Background(), CallbackParams{Status: "in_process"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
}

// Missing callback params terminate immediately without polling.
func TestConfirm_MissingParams(t *testing.T) {
	p := NewPollerWithSchedule(store.NewMemory(), time.Hour, 10, logger.NewNop())

	outcome, err := p.Confirm(context.Background(), CallbackParams{})
	assert.Equal(t, OutcomeRejected, outcome)
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))

	outcome, err = p.Confirm(context.Background(), CallbackParams{Status: "approved", ExternalReference: "user-1"})
	assert.Equal(t, OutcomeRejected, outcome)
	assert.True(t, errors.As(err, &verr), "missing payment id must not start the poll loop")

	outcome, err = p.Confirm(context.Background(), CallbackParams{Status: "approved", PaymentID: "123"})
	assert.Equal(t, OutcomeRejected, outcome)
	assert.True(t, errors.As(err, &verr))
}

func TestConfirm_ApprovedAndVisible(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", HasPaidPlan: true})
	require.NoError(t, st.InsertPlan(context.Background(), &models.NutritionalPlan{
		UserID: "user-1", PaymentID: "pay-1", DailyCalories: 2172,
	}))

	p := NewPollerWithSchedule(st, time.Millisecond, 10, logger.NewNop())
	outcome, err := p.Confirm(context.Background(), CallbackParams{
		Status: "approved", PaymentID: "123", ExternalReference: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, outcome)
}

// Entitlement without a plan is not enough; the poller waits for both.
func TestConfirm_WaitsForPlan(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", HasPaidPlan: true})

	p := NewPollerWithSchedule(st, time.Millisecond, 3, logger.NewNop())
	done := make(chan struct{})
	go func() {
		// plan appears while the poller is waiting
		time.Sleep(time.Millisecond)
		st.InsertPlan(context.Background(), &models.NutritionalPlan{
			UserID: "user-1", PaymentID: "pay-1",
		})
		close(done)
	}()

	outcome, err := p.Confirm(context.Background(), CallbackParams{
		Status: "approved", PaymentID: "123", ExternalReference: "user-1",
	})
	<-done
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, outcome)
}

// Approved redirect with a store that never reflects the entitlement must
// terminate in a timeout after the attempt cap, not loop forever.
func TestConfirm_TimesOutAfterAttemptCap(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", HasPaidPlan: false})

	p := NewPollerWithSchedule(st, time.Millisecond, 10, logger.NewNop())
	outcome, err := p.Confirm(context.Background(), CallbackParams{
		Status: "approved", PaymentID: "123", ExternalReference: "user-1",
	})

	assert.Equal(t, OutcomeTimeout, outcome)
	var timeout *apperr.TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, 10, timeout.Attempts)
}

func TestConfirm_Cancellable(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", HasPaidPlan: false})

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPollerWithSchedule(st, time.Hour, 10, logger.NewNop())

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Confirm(ctx, CallbackParams{Status: "approved", PaymentID: "123", ExternalReference: "user-1"})
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}
