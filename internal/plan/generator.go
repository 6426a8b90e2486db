// Package plan turns a completed registration into the personalized plan:
// five meals with calorie and macro targets, a weekly training schedule, and
// a prioritized shopping list. Everything here is a deterministic transform
// over static catalogs; the only inputs are the registration fields and the
// calorie target from the calculator.
package plan

import (
	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/calculator"
	"fitness-nutri/internal/models"
)

// Plan is the full generated artifact served by the plan view.
type Plan struct {
	Nutrition NutritionSection `json:"nutrition"`
	Training  TrainingSection  `json:"training"`
	Shopping  ShoppingSection  `json:"shopping"`
}

// NutritionSection carries the headline metrics plus the five meals.
type NutritionSection struct {
	TDEE           int     `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
	WaterLiters    float64 `json:"water_liters"`
	MealsPerDay    int     `json:"meals_per_day"`
	Meals          []Meal  `json:"meals"`
}

// TrainingSection is empty (Included=false) when the user opted out.
type TrainingSection struct {
	Included    bool         `json:"included"`
	DaysPerWeek int          `json:"days_per_week"`
	Intensity   string       `json:"intensity,omitempty"`
	Days        []WorkoutDay `json:"days"`
}

type ShoppingSection struct {
	Categories []Category `json:"categories"`
	Tips       []string   `json:"tips"`
}

// Generate builds the plan for a registration. An incomplete registration is
// reported as a validation error; callers treat it as "plan unavailable —
// complete your registration", never as a server fault.
func Generate(reg *models.Registration) (*Plan, error) {
	profile, ok := calculator.FromRegistration(reg)
	if !ok {
		return nil, apperr.Validation("registration incomplete, plan unavailable")
	}

	target := calculator.TargetCalories(profile)

	return &Plan{
		Nutrition: NutritionSection{
			TDEE:           calculator.TDEE(profile),
			TargetCalories: target,
			WaterLiters:    2.5,
			MealsPerDay:    len(mealSlots),
			Meals:          generateMeals(target, profile.Goal, reg.MealTimes, reg.ChocolatePref),
		},
		Training: generateTraining(profile.Activity, models.ParseTrainingPreference(reg.TrainingPreference)),
		Shopping: generateShopping(profile.Goal),
	}, nil
}
