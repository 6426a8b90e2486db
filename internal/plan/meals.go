// internal/plan/meals.go
package plan

import (
	"math"
	"strings"

	"fitness-nutri/internal/models"
)

// Meal is one of the five daily meals with its calorie share and macro
// targets in grams.
type Meal struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Time     string        `json:"time"`
	Icon     string        `json:"icon"`
	Calories int           `json:"calories"`
	ProteinG int           `json:"protein_g"`
	CarbsG   int           `json:"carbs_g"`
	FatG     int           `json:"fat_g"`
	Options  []OptionGroup `json:"options"`
}

// OptionGroup is one column of interchangeable food choices for a meal.
type OptionGroup struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// customScheduleLabel is the meal-times value meaning "no fixed schedule".
const customScheduleLabel = "Tenho meu próprio horário"

// defaultMealTimes are used for the custom schedule and for any slot missing
// from a stored schedule string.
var defaultMealTimes = [5]string{"07:00", "10:00", "13:00", "16:00", "19:00"}

// defaultChocolate fills the afternoon-snack complement slot when the user
// stated no chocolate preference.
const defaultChocolate = "🍫 Chocolate 70% (2 quadrados)"

// mealSlot is the static definition of one meal: calorie ratio of the daily
// target, base macros in grams, and the food option catalog.
type mealSlot struct {
	id       string
	title    string
	icon     string
	ratio    float64
	proteinG int
	carbsG   int
	fatG     int
	options  []OptionGroup
}

// mealSlots is the fixed five-meal layout. The ratios are per-meal shares of
// the daily target, carried over from the legacy plan view verbatim.
var mealSlots = [5]mealSlot{
	{
		id: "breakfast", title: "Café da Manhã", icon: "☕",
		ratio: 0.25, proteinG: 20, carbsG: 40, fatG: 10,
		options: []OptionGroup{
			{Title: "Proteínas", Items: []string{
				"🥚 Ovos (2 unidades)",
				"🥛 Iogurte (200ml)",
				"🧀 Queijo (2 fatias)",
			}},
			{Title: "Carboidratos", Items: []string{
				"🥖 Pão Integral (2 fatias)",
				"🥣 Aveia (4 colheres)",
				"🥞 Tapioca (2 unidades)",
			}},
			{Title: "Complementos", Items: []string{
				"🍌 Banana (1 unidade)",
				"🍯 Mel (1 colher)",
				"🥜 Amendoim (1 punhado)",
			}},
		},
	},
	{
		id: "morning-snack", title: "Lanche da Manhã", icon: "🥪",
		ratio: 0.15, proteinG: 15, carbsG: 30, fatG: 8,
		options: []OptionGroup{
			{Title: "Proteínas", Items: []string{
				"🥛 Whey Protein (1 scoop)",
				"🥜 Mix de Castanhas (30g)",
				"🧀 Queijo Cottage (100g)",
			}},
			{Title: "Carboidratos", Items: []string{
				"🍎 Maçã (1 unidade)",
				"🍌 Banana (1 unidade)",
				"🥣 Granola (2 colheres)",
			}},
			{Title: "Complementos", Items: []string{
				"🍯 Mel (1 colher)",
				"🥜 Pasta de Amendoim (1 colher)",
				"🫐 Frutas Vermelhas (100g)",
			}},
		},
	},
	{
		id: "lunch", title: "Almoço", icon: "🍽️",
		ratio: 0.35, proteinG: 35, carbsG: 50, fatG: 15,
		options: []OptionGroup{
			{Title: "Proteínas", Items: []string{
				"🍗 Frango Grelhado (150g)",
				"🥩 Carne Magra (150g)",
				"🐟 Peixe (150g)",
			}},
			{Title: "Carboidratos", Items: []string{
				"🍚 Arroz Integral (5 colheres)",
				"🥔 Batata Doce (150g)",
				"🍝 Macarrão Integral (100g)",
			}},
			{Title: "Vegetais", Items: []string{
				"🥗 Salada Verde (à vontade)",
				"🥦 Legumes Cozidos (100g)",
				"🥕 Vegetais Crus (100g)",
			}},
		},
	},
	{
		id: "afternoon-snack", title: "Lanche da Tarde", icon: "🥪",
		ratio: 0.15, proteinG: 15, carbsG: 25, fatG: 8,
		options: []OptionGroup{
			{Title: "Proteínas", Items: []string{
				"🥛 Whey Protein (1 scoop)",
				"🥜 Mix de Castanhas (30g)",
				"🧀 Queijo (2 fatias)",
			}},
			{Title: "Carboidratos", Items: []string{
				"🍎 Fruta (1 unidade)",
				"🥨 Biscoito Integral (4 unidades)",
				"🥜 Barra de Cereal (1 unidade)",
			}},
			{Title: "Complementos", Items: []string{
				"🍯 Mel (1 colher)",
				"🥜 Pasta de Amendoim (1 colher)",
				defaultChocolate, // replaced by the user's chocolate preference
			}},
		},
	},
	{
		id: "dinner", title: "Jantar", icon: "🍽️",
		ratio: 0.25, proteinG: 30, carbsG: 35, fatG: 12,
		options: []OptionGroup{
			{Title: "Proteínas", Items: []string{
				"🍗 Frango Grelhado (120g)",
				"🐟 Peixe Assado (120g)",
				"🥚 Omelete (3 ovos)",
			}},
			{Title: "Carboidratos", Items: []string{
				"🍚 Arroz Integral (3 colheres)",
				"🥔 Batata Doce (100g)",
				"🥗 Quinoa (4 colheres)",
			}},
			{Title: "Vegetais", Items: []string{
				"🥦 Brócolis (100g)",
				"🥕 Legumes Cozidos (100g)",
				"🥗 Salada Verde (à vontade)",
			}},
		},
	},
}

// resolveMealTimes parses the stored schedule string positionally. The
// custom-schedule label and empty input mean the defaults; a short or
// partially empty schedule falls back slot by slot.
func resolveMealTimes(stored string) [5]string {
	times := defaultMealTimes
	if stored == "" || stored == customScheduleLabel {
		return times
	}
	parts := strings.Split(stored, ", ")
	for i := 0; i < len(times) && i < len(parts); i++ {
		if parts[i] != "" {
			times[i] = parts[i]
		}
	}
	return times
}

// macroMultipliers returns the per-goal protein/carb/fat scale factors.
func macroMultipliers(goal models.Goal) (protein, carbs, fat float64) {
	switch goal {
	case models.GoalGainMuscle:
		return 1.3, 1.2, 1.0
	case models.GoalLoseWeight:
		return 1.0, 0.8, 0.8
	case models.GoalDefinition:
		return 1.2, 0.9, 0.9
	default:
		return 1.0, 1.0, 1.0
	}
}

// generateMeals instantiates the five meal slots against the daily calorie
// target. Each meal's calories are rounded independently.
func generateMeals(targetCalories int, goal models.Goal, storedTimes, chocolatePref string) []Meal {
	times := resolveMealTimes(storedTimes)
	pMult, cMult, fMult := macroMultipliers(goal)

	meals := make([]Meal, 0, len(mealSlots))
	for i, slot := range mealSlots {
		options := slot.options
		if slot.id == "afternoon-snack" && chocolatePref != "" {
			options = withChocolate(options, chocolatePref)
		}
		meals = append(meals, Meal{
			ID:       slot.id,
			Title:    slot.title,
			Time:     times[i],
			Icon:     slot.icon,
			Calories: int(math.Round(float64(targetCalories) * slot.ratio)),
			ProteinG: int(math.Round(float64(slot.proteinG) * pMult)),
			CarbsG:   int(math.Round(float64(slot.carbsG) * cMult)),
			FatG:     int(math.Round(float64(slot.fatG) * fMult)),
			Options:  options,
		})
	}
	return meals
}

// withChocolate copies the option groups with the user's chocolate choice in
// the last complement slot.
func withChocolate(groups []OptionGroup, pref string) []OptionGroup {
	out := make([]OptionGroup, len(groups))
	for i, g := range groups {
		items := make([]string, len(g.Items))
		copy(items, g.Items)
		if g.Title == "Complementos" && len(items) > 0 {
			items[len(items)-1] = "🍫 " + pref
		}
		out[i] = OptionGroup{Title: g.Title, Items: items}
	}
	return out
}
