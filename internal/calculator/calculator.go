// Package calculator computes the metabolic numbers a plan is built from:
// BMR (Harris-Benedict), TDEE, and the goal-adjusted daily calorie target.
//
// The functions are pure and total over validated input; malformed values
// (NaN, non-positive) are rejected upstream by the checkout validator.
package calculator

import (
	"math"

	"fitness-nutri/internal/models"
)

// activityMultipliers maps each activity level to its TDEE multiplier.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary: 1.2,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityHigh:      1.725,
	models.ActivityExtreme:   1.9,
}

// Profile is the validated biometric input.
type Profile struct {
	WeightKG float64
	HeightCM float64
	Age      int
	Gender   models.Gender
	Activity models.ActivityLevel
	Goal     models.Goal
}

// BMR computes basal metabolic rate via Harris-Benedict.
func BMR(p Profile) float64 {
	if p.Gender == models.GenderMale {
		return 88.362 + 13.397*p.WeightKG + 4.799*p.HeightCM - 5.677*float64(p.Age)
	}
	return 447.593 + 9.247*p.WeightKG + 3.098*p.HeightCM - 4.330*float64(p.Age)
}

// TDEE is BMR scaled by the activity multiplier, rounded to the nearest
// calorie. Unknown levels fall back to sedentary via ParseActivityLevel, so
// the map lookup here always hits.
func TDEE(p Profile) int {
	mult, ok := activityMultipliers[p.Activity]
	if !ok {
		mult = activityMultipliers[models.ActivitySedentary]
	}
	return int(math.Round(BMR(p) * mult))
}

// TargetCalories applies the goal delta to TDEE. Goals outside the known set
// mean maintenance.
func TargetCalories(p Profile) int {
	tdee := TDEE(p)
	switch p.Goal {
	case models.GoalLoseWeight:
		return tdee - 500
	case models.GoalGainMuscle:
		return tdee + 500
	case models.GoalDefinition:
		return tdee - 300
	case models.GoalDefinitionAndMuscle:
		return tdee + 200
	case models.GoalLoseWeightAndMuscle:
		return tdee
	default:
		return tdee
	}
}

// FromRegistration builds a calculator Profile from a stored registration.
// Returns ok=false when any required field is missing or non-positive; the
// caller treats that as "plan unavailable", not as an error.
func FromRegistration(reg *models.Registration) (Profile, bool) {
	if reg == nil || reg.Weight == nil || reg.Height == nil || reg.Age == nil {
		return Profile{}, false
	}
	if *reg.Weight <= 0 || *reg.Height <= 0 || *reg.Age <= 0 {
		return Profile{}, false
	}
	gender, ok := models.ParseGender(reg.Gender)
	if !ok {
		return Profile{}, false
	}
	goal, ok := models.ParseGoal(reg.Goal)
	if !ok {
		return Profile{}, false
	}
	return Profile{
		WeightKG: *reg.Weight,
		HeightCM: *reg.Height,
		Age:      *reg.Age,
		Gender:   gender,
		Activity: models.ParseActivityLevel(reg.ActivityLevel),
		Goal:     goal,
	}, true
}
