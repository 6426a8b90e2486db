package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-nutri/internal/store"
	"fitness-nutri/internal/validation"
)

func TestWatchEligibility_EmptyUserIsInvalid(t *testing.T) {
	st := store.NewMemory()
	ch := make(chan struct{})
	w := WatchEligibility(context.Background(), NewChannelSource(ch), st, "user-1")
	defer w.Stop()

	select {
	case result := <-w.Updates():
		assert.False(t, result.IsValid)
		assert.Len(t, result.MissingFields, 10)
		assert.Len(t, result.InvalidMeals, 4)
	case <-time.After(time.Second):
		t.Fatal("no initial verdict emitted")
	}
}

func TestWatchEligibility_ReactsToMealChanges(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ch := make(chan struct{})
	w := WatchEligibility(ctx, NewChannelSource(ch), st, "user-1")
	defer w.Stop()

	first := <-w.Updates()
	require.Len(t, first.InvalidMeals, 4)

	items := []string{"Ovos", "Pão integral", "Aveia", "Banana", "Iogurte", "Queijo"}
	require.NoError(t, st.SaveMealItems(ctx, "user-1", "breakfast", items))

	ch <- struct{}{}
	select {
	case result := <-w.Updates():
		assert.Len(t, result.InvalidMeals, 3)
		assert.NotContains(t, result.InvalidMeals, "Café da Manhã (nenhum item selecionado)")
	case <-time.After(time.Second):
		t.Fatal("meal change never produced a new verdict")
	}
}

func TestWatchEligibility_DeduplicatesVerdicts(t *testing.T) {
	st := store.NewMemory()
	ch := make(chan struct{})
	w := WatchEligibility(context.Background(), NewChannelSource(ch), st, "user-1")
	defer w.Stop()

	var first validation.Result
	select {
	case first = <-w.Updates():
	case <-time.After(time.Second):
		t.Fatal("no initial verdict emitted")
	}
	require.False(t, first.IsValid)

	// nothing changed, so notifications produce no update
	ch <- struct{}{}
	ch <- struct{}{}
	select {
	case result := <-w.Updates():
		t.Fatalf("unexpected update %+v for unchanged data", result)
	case <-time.After(50 * time.Millisecond):
	}
}
