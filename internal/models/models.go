// internal/models/models.go
package models

import (
	"time"
)

// Profile is the account-lifetime user record. HasPaidPlan is mutated only
// by the webhook reconciliation handler.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	HasPaidPlan bool      `json:"has_paid_plan"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Registration holds the biometric data and plan preferences. Exactly one
// row per user (upsert keyed by user id). Fields are written one at a time
// by the debounced form, so any subset may be absent mid-editing.
type Registration struct {
	UserID             string   `json:"user_id"`
	Weight             *float64 `json:"weight"`
	Height             *float64 `json:"height"`
	Age                *int     `json:"age"`
	Goal               string   `json:"goal"`
	CaloriesTarget     string   `json:"calories_target"`
	Gender             string   `json:"gender"`
	ActivityLevel      string   `json:"activity_level"`
	TrainingPreference string   `json:"training_preference"`
	MealTimes          string   `json:"meal_times"`
	ChocolatePref      string   `json:"chocolate_preference"`

	UpdatedAt time.Time `json:"updated_at"`
}

// MealSelections holds the food labels the user picked for each meal, one
// row per user.
type MealSelections struct {
	UserID         string   `json:"user_id"`
	BreakfastItems []string `json:"breakfast_items"`
	LunchItems     []string `json:"lunch_items"`
	SnackItems     []string `json:"snack_items"`
	DinnerItems    []string `json:"dinner_items"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Payment mirrors one payment attempt at the provider. ExternalID is the
// provider's payment id and the upsert key; status transitions
// pending -> approved|rejected are terminal.
type Payment struct {
	ID            string        `json:"id"`
	ExternalID    string        `json:"external_id"`
	UserID        string        `json:"user_id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Subscription is created once per approved payment. Append-only; PaymentID
// is the idempotence key so webhook redeliveries converge on one row.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanType  string    `json:"plan_type"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	PaymentID string    `json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NutritionalPlan is derived once per purchase and immutable afterwards.
type NutritionalPlan struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	PaymentID         string    `json:"payment_id"`
	DailyCalories     int       `json:"daily_calories"`
	ProteinPercentage int       `json:"protein_percentage"`
	CarbsPercentage   int       `json:"carbs_percentage"`
	FatPercentage     int       `json:"fat_percentage"`
	Objective         string    `json:"objective"`
	StartDate         time.Time `json:"start_date"`
	CreatedAt         time.Time `json:"created_at"`
}

// PlanObjectives snapshots the inputs a plan was computed from.
type PlanObjectives struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	InitialWeight float64   `json:"initial_weight"`
	ActivityLevel string    `json:"activity_level"`
	WeeklyGoal    float64   `json:"weekly_goal"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeeklyGoalFor returns the signed kg/week target recorded in PlanObjectives.
func WeeklyGoalFor(goal Goal) float64 {
	switch goal {
	case GoalLoseWeight:
		return -0.5
	case GoalGainMuscle:
		return 0.5
	default:
		return 0
	}
}
