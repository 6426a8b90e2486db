// internal/plan/shopping.go
package plan

import (
	"strings"

	"fitness-nutri/internal/models"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type ShoppingItem struct {
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
}

type Category struct {
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

const (
	categoryProteins   = "Proteínas"
	categoryCarbs      = "Carboidratos"
	categoryFats       = "Gorduras Saudáveis"
	categoryProduce    = "Vegetais e Frutas"
	categorySeasonings = "Temperos e Condimentos"
)

// baseCategories is the fixed catalog. Goal-specific overrides only ever
// raise priorities; they never remove or add items.
var baseCategories = []Category{
	{
		Name: categoryProteins,
		Items: []ShoppingItem{
			{"Peito de Frango", PriorityHigh},
			{"Ovos", PriorityHigh},
			{"Whey Protein", PriorityHigh},
			{"Carne Vermelha Magra", PriorityMedium},
			{"Atum em Água", PriorityMedium},
			{"Tilápia", PriorityMedium},
		},
	},
	{
		Name: categoryCarbs,
		Items: []ShoppingItem{
			{"Arroz Integral", PriorityHigh},
			{"Batata Doce", PriorityHigh},
			{"Aveia", PriorityHigh},
			{"Massa Integral", PriorityMedium},
			{"Pão Integral", PriorityMedium},
			{"Quinoa", PriorityLow},
		},
	},
	{
		Name: categoryFats,
		Items: []ShoppingItem{
			{"Azeite de Oliva Extra Virgem", PriorityHigh},
			{"Abacate", PriorityHigh},
			{"Castanha do Pará", PriorityHigh},
			{"Amêndoas", PriorityMedium},
			{"Chia", PriorityMedium},
			{"Linhaça", PriorityMedium},
		},
	},
	{
		Name: categoryProduce,
		Items: []ShoppingItem{
			{"Brócolis", PriorityHigh},
			{"Espinafre", PriorityHigh},
			{"Banana", PriorityHigh},
			{"Maçã", PriorityMedium},
			{"Cenoura", PriorityMedium},
			{"Tomate", PriorityMedium},
			{"Laranja", PriorityMedium},
			{"Limão", PriorityLow},
		},
	},
	{
		Name: categorySeasonings,
		Items: []ShoppingItem{
			{"Sal Marinho", PriorityHigh},
			{"Pimenta do Reino", PriorityHigh},
			{"Alho", PriorityHigh},
			{"Cebola", PriorityHigh},
			{"Orégano", PriorityMedium},
			{"Manjericão", PriorityMedium},
			{"Curry", PriorityLow},
			{"Açafrão", PriorityLow},
		},
	},
}

var baseShoppingTips = []string{
	"Priorize alimentos frescos e da estação",
	"Compare preços entre marcas",
	"Verifique as datas de validade",
	"Compre primeiro os itens de alta prioridade",
}

// generateShopping copies the base catalog and applies the goal's priority
// override rule. The override table is a contract surface: muscle gain
// promotes chicken/eggs/whey, weight loss promotes all produce, definition
// promotes chicken/tuna.
func generateShopping(goal models.Goal) ShoppingSection {
	categories := cloneCategories()

	switch goal {
	case models.GoalGainMuscle:
		overridePriority(categories, categoryProteins, func(name string) bool {
			return strings.Contains(name, "Frango") ||
				strings.Contains(name, "Ovos") ||
				strings.Contains(name, "Whey")
		})
	case models.GoalLoseWeight:
		overridePriority(categories, categoryProduce, func(string) bool { return true })
	case models.GoalDefinition:
		overridePriority(categories, categoryProteins, func(name string) bool {
			return strings.Contains(name, "Frango") || strings.Contains(name, "Atum")
		})
	}

	return ShoppingSection{
		Categories: categories,
		Tips:       shoppingTips(goal),
	}
}

func shoppingTips(goal models.Goal) []string {
	tips := make([]string, len(baseShoppingTips))
	copy(tips, baseShoppingTips)
	switch goal {
	case models.GoalGainMuscle:
		tips = append(tips, "Mantenha estoque extra de proteínas e carboidratos")
	case models.GoalLoseWeight:
		tips = append(tips, "Priorize vegetais e proteínas magras")
	case models.GoalDefinition:
		tips = append(tips, "Foque em alimentos com alto valor nutricional")
	}
	return tips
}

func cloneCategories() []Category {
	out := make([]Category, len(baseCategories))
	for i, c := range baseCategories {
		items := make([]ShoppingItem, len(c.Items))
		copy(items, c.Items)
		out[i] = Category{Name: c.Name, Items: items}
	}
	return out
}

// overridePriority re-tags matching items in one category to high.
func overridePriority(categories []Category, categoryName string, match func(name string) bool) {
	for i := range categories {
		if categories[i].Name != categoryName {
			continue
		}
		for j := range categories[i].Items {
			if match(categories[i].Items[j].Name) {
				categories[i].Items[j].Priority = PriorityHigh
			}
		}
	}
}
