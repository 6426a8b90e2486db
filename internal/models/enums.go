// internal/models/enums.go
//
// Closed enum types for the free-form labels the legacy web client stores.
// All translation between stored display strings and enum values lives here;
// nothing outside this file does substring matching on user data.
package models

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), true
	}
	return "", false
}

// Goal values match the stored registration column.
type Goal string

const (
	GoalLoseWeight          Goal = "emagrecer"
	GoalGainMuscle          Goal = "massa"
	GoalDefinitionAndMuscle Goal = "definicao_massa"
	GoalDefinition          Goal = "definicao"
	GoalLoseWeightAndMuscle Goal = "emagrecer_massa"
)

func ParseGoal(s string) (Goal, bool) {
	switch Goal(s) {
	case GoalLoseWeight, GoalGainMuscle, GoalDefinitionAndMuscle, GoalDefinition, GoalLoseWeightAndMuscle:
		return Goal(s), true
	}
	return "", false
}

type ActivityLevel int

const (
	ActivitySedentary ActivityLevel = iota
	ActivityLight
	ActivityModerate
	ActivityHigh
	ActivityExtreme
)

// activityLabels are the display strings the legacy client stores, in enum
// order. ParseActivityLevel matches on the distinguishing prefix of each.
var activityLabels = [...]string{
	"Sedentário (pouca ou nenhuma atividade física)",
	"Levemente ativo (exercícios 1 a 3 vezes por semana)",
	"Moderadamente ativo (exercícios de 3 a 5 vezes por semana)",
	"Altamente ativo (exercícios de 5 a 7 dias por semana)",
	"Extremamente ativo (exercícios todos os dias e faz trabalho braçal)",
}

// ParseActivityLevel maps a stored activity label to its enum value.
// Absent or unrecognised labels default to sedentary, matching the legacy
// calculator's fallback multiplier.
func ParseActivityLevel(s string) ActivityLevel {
	switch {
	case strings.Contains(s, "Levemente ativo"):
		return ActivityLight
	case strings.Contains(s, "Moderadamente ativo"):
		return ActivityModerate
	case strings.Contains(s, "Altamente ativo"):
		return ActivityHigh
	case strings.Contains(s, "Extremamente ativo"):
		return ActivityExtreme
	default:
		return ActivitySedentary
	}
}

func (a ActivityLevel) Label() string {
	if a < ActivitySedentary || a > ActivityExtreme {
		return activityLabels[ActivitySedentary]
	}
	return activityLabels[a]
}

type TrainingPreference int

const (
	TrainingHome TrainingPreference = iota
	TrainingGym
	TrainingNone
)

// ParseTrainingPreference maps the stored training label. "Não" opts out;
// anything mentioning the gym is a gym plan; everything else (including an
// empty value) falls back to home training, as the legacy generator did.
func ParseTrainingPreference(s string) TrainingPreference {
	switch {
	case s == "Não":
		return TrainingNone
	case strings.Contains(s, "academia"):
		return TrainingGym
	default:
		return TrainingHome
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}
