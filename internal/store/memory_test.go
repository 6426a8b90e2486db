package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/models"
)

// Updating the entitlement flag for a profile that does not exist is a not
// found error, never a silent no-op. Both store implementations follow this.
func TestSetHasPaidPlan_UnknownProfile(t *testing.T) {
	st := NewMemory()

	err := st.SetHasPaidPlan(context.Background(), "nobody", true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetHasPaidPlan_UpdatesProfile(t *testing.T) {
	st := NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", Email: "user@example.com"})

	require.NoError(t, st.SetHasPaidPlan(context.Background(), "user-1", true))

	profile, err := st.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, profile.HasPaidPlan)
}

// One injected failure fails exactly one call; the store recovers after.
func TestErrInjection_OneShot(t *testing.T) {
	st := NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1"})
	st.Err = errors.New("boom")

	err := st.SetHasPaidPlan(context.Background(), "user-1", true)
	require.Error(t, err)
	require.NoError(t, st.SetHasPaidPlan(context.Background(), "user-1", true))
}
