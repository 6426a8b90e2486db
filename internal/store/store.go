// Package store is the persistence boundary. Postgres backs production; the
// in-memory implementation backs tests. Write operations used by the webhook
// path are idempotent at the SQL level so redeliveries converge.
package store

import (
	"context"

	"fitness-nutri/internal/models"
)

// Store is the query surface the handlers depend on. Lookups return
// apperr.ErrNotFound when no row matches; other failures surface as
// *apperr.StoreError after retries are exhausted.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	SetHasPaidPlan(ctx context.Context, userID string, paid bool) error

	GetRegistration(ctx context.Context, userID string) (*models.Registration, error)
	SaveRegistrationField(ctx context.Context, userID, field string, value interface{}) error

	GetMealSelections(ctx context.Context, userID string) (*models.MealSelections, error)
	SaveMealItems(ctx context.Context, userID, meal string, items []string) error

	GetPaymentByExternalID(ctx context.Context, externalID string) (*models.Payment, error)
	UpsertPayment(ctx context.Context, payment *models.Payment) error

	InsertSubscription(ctx context.Context, sub *models.Subscription) error

	GetPlanByUserID(ctx context.Context, userID string) (*models.NutritionalPlan, error)
	InsertPlan(ctx context.Context, plan *models.NutritionalPlan) error
	InsertPlanObjectives(ctx context.Context, obj *models.PlanObjectives) error
}

// RegistrationFields maps API field names to their registration columns.
// Field-level writes only accept names in this set.
var RegistrationFields = map[string]string{
	"weight":               "weight",
	"height":               "height",
	"age":                  "age",
	"goal":                 "goal",
	"calories_target":      "calories_target",
	"gender":               "gender",
	"activity_level":       "activity_level",
	"training_preference":  "training_preference",
	"meal_times":           "meal_times",
	"chocolate_preference": "chocolate_preference",
}

// MealColumns maps meal names to their meal_selections columns.
var MealColumns = map[string]string{
	"breakfast": "breakfast_items",
	"lunch":     "lunch_items",
	"snack":     "snack_items",
	"dinner":    "dinner_items",
}
