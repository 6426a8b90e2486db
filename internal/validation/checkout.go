// Package validation decides whether a user may proceed to checkout: every
// registration field must be filled and each meal must have enough selected
// items. The field and meal labels are the exact strings the client renders,
// so their order and wording are part of the contract.
package validation

import (
	"fmt"
	"strings"

	"fitness-nutri/internal/models"
)

// RequiredMealItems is the minimum selection count per meal.
const RequiredMealItems = 6

// Result is the checkout eligibility verdict. MissingFields and InvalidMeals
// keep the declaration order of the checks that produced them.
type Result struct {
	IsValid       bool     `json:"is_valid"`
	MissingFields []string `json:"missing_fields"`
	InvalidMeals  []string `json:"invalid_meals"`
}

// CheckCheckout validates a registration and meal selections, either of
// which may be nil or partial.
func CheckCheckout(reg *models.Registration, meals *models.MealSelections) Result {
	var missing []string

	addIf := func(cond bool, label string) {
		if cond {
			missing = append(missing, label)
		}
	}

	addIf(reg == nil || reg.Weight == nil || *reg.Weight <= 0, "Peso (deve ser maior que 0)")
	addIf(reg == nil || reg.Height == nil || *reg.Height <= 0, "Altura (deve ser maior que 0)")
	addIf(reg == nil || reg.Age == nil || *reg.Age <= 0, "Idade (deve ser maior que 0)")
	addIf(reg == nil || reg.Goal == "", "Objetivo")
	addIf(reg == nil || reg.CaloriesTarget == "", "Meta Calórica")
	addIf(reg == nil || reg.Gender == "", "Gênero")
	addIf(reg == nil || reg.ActivityLevel == "", "Nível de Atividade")
	addIf(reg == nil || reg.TrainingPreference == "", "Preferência de Treino")
	addIf(reg == nil || reg.MealTimes == "", "Horários das Refeições")
	addIf(reg == nil || reg.ChocolatePref == "", "Preferência de Chocolate")

	var invalid []string
	checkMeal := func(items []string, mealName string) {
		switch {
		case len(items) == 0:
			invalid = append(invalid, mealName+" (nenhum item selecionado)")
		case len(items) < RequiredMealItems:
			invalid = append(invalid, fmt.Sprintf("%s (mínimo %d itens, selecionados %d)", mealName, RequiredMealItems, len(items)))
		}
	}

	var breakfast, lunch, snack, dinner []string
	if meals != nil {
		breakfast, lunch, snack, dinner = meals.BreakfastItems, meals.LunchItems, meals.SnackItems, meals.DinnerItems
	}
	checkMeal(breakfast, "Café da Manhã")
	checkMeal(lunch, "Almoço")
	checkMeal(snack, "Lanche")
	checkMeal(dinner, "Jantar")

	return Result{
		IsValid:       len(missing) == 0 && len(invalid) == 0,
		MissingFields: missing,
		InvalidMeals:  invalid,
	}
}

// Message renders the verdict the way the promo screen shows it: a bulleted
// block per problem group. Empty for a valid result.
func (r Result) Message() string {
	if r.IsValid {
		return ""
	}
	var sections []string
	if len(r.MissingFields) > 0 {
		sections = append(sections, "Campos Incompletos:\n"+bulleted(r.MissingFields))
	}
	if len(r.InvalidMeals) > 0 {
		sections = append(sections, "Refeições Incompletas:\n"+bulleted(r.InvalidMeals))
	}
	return strings.Join(sections, "\n\n")
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "• " + it
	}
	return strings.Join(lines, "\n")
}
