// internal/plan/training.go
package plan

import (
	"fmt"

	"fitness-nutri/internal/models"
)

type Exercise struct {
	Name  string   `json:"name"`
	Sets  string   `json:"sets"`
	Reps  string   `json:"reps"`
	Rest  string   `json:"rest"`
	Notes []string `json:"notes"`
}

type WorkoutDay struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Intensity string     `json:"intensity"`
	Duration  string     `json:"duration"`
	Warmup    []string   `json:"warmup"`
	Exercises []Exercise `json:"exercises"`
	Cooldown  []string   `json:"cooldown"`
	Tips      []string   `json:"tips"`
}

const (
	IntensityBeginner     = "Iniciante"
	IntensityIntermediate = "Intermediário"
	IntensityAdvanced     = "Avançado"
)

// trainingParams derive from the activity level: how many days per week, how
// many exercises per session, and the intensity tier that scales set counts.
type trainingParams struct {
	daysPerWeek     int
	exercisesPerDay int
	intensity       string
}

var trainingParamsByActivity = map[models.ActivityLevel]trainingParams{
	models.ActivitySedentary: {2, 4, IntensityBeginner},
	models.ActivityLight:     {3, 5, IntensityBeginner},
	models.ActivityModerate:  {4, 6, IntensityIntermediate},
	models.ActivityHigh:      {5, 8, IntensityAdvanced},
	models.ActivityExtreme:   {6, 10, IntensityAdvanced},
}

var gymWorkoutTypes = []string{
	"Peito e Tríceps", "Costas e Bíceps", "Pernas", "Ombros e Abdômen", "Full Body", "Cardio e Core",
}

var homeWorkoutTypes = []string{
	"Parte Superior", "Parte Inferior", "Core e Cardio", "Full Body", "Mobilidade", "Resistência",
}

// exerciseCatalog is the fixed exercise pool for one workout type. Exercises
// are drawn positionally (modulo the pool) to fill a session; set counts
// scale with intensity when setsByTier is present, otherwise they are fixed.
type exerciseCatalog struct {
	names      []string
	reps       string
	rest       string
	notes      []string
	setsByTier map[string]string
	fixedSets  string
}

var gymCatalogs = map[string]exerciseCatalog{
	"Peito e Tríceps": {
		names:      []string{"Supino Reto", "Crucifixo", "Extensão de Tríceps", "Supino Inclinado"},
		reps:       "12-15",
		rest:       "60s",
		notes:      []string{"Mantenha os cotovelos alinhados", "Respiração controlada"},
		setsByTier: map[string]string{IntensityBeginner: "3", IntensityIntermediate: "4", IntensityAdvanced: "5"},
	},
	"Costas e Bíceps": {
		names:      []string{"Puxada na Frente", "Remada Baixa", "Rosca Direta", "Rosca Alternada"},
		reps:       "12-15",
		rest:       "60s",
		notes:      []string{"Mantenha as costas retas", "Controle o movimento"},
		setsByTier: map[string]string{IntensityBeginner: "3", IntensityIntermediate: "4", IntensityAdvanced: "5"},
	},
}

var gymDefaultCatalog = exerciseCatalog{
	names:     []string{"Exercício Composto"},
	reps:      "12-15",
	rest:      "60s",
	notes:     []string{"Mantenha a forma correta"},
	fixedSets: "3",
}

var homeCatalogs = map[string]exerciseCatalog{
	"Parte Superior": {
		names:      []string{"Flexão de Braço", "Dips em Cadeira", "Pike Push-up", "Superman"},
		reps:       "10-12",
		rest:       "45s",
		notes:      []string{"Mantenha o core ativado", "Respiração controlada"},
		setsByTier: map[string]string{IntensityBeginner: "2", IntensityIntermediate: "3", IntensityAdvanced: "4"},
	},
	"Parte Inferior": {
		names:      []string{"Agachamento", "Afundo", "Elevação de Panturrilha", "Ponte"},
		reps:       "15-20",
		rest:       "45s",
		notes:      []string{"Mantenha os joelhos alinhados", "Core ativado"},
		setsByTier: map[string]string{IntensityBeginner: "2", IntensityIntermediate: "3", IntensityAdvanced: "4"},
	},
}

var homeDefaultCatalog = exerciseCatalog{
	names:     []string{"Exercício Funcional"},
	reps:      "12-15",
	rest:      "45s",
	notes:     []string{"Mantenha a forma correta"},
	fixedSets: "3",
}

var workoutWarmup = []string{
	"Mobilidade articular - 3 minutos",
	"Alongamento dinâmico - 4 minutos",
	"Exercício leve de cardio - 3 minutos",
}

var workoutCooldown = []string{
	"Alongamento estático - 5 minutos",
	"Respiração e relaxamento - 2 minutos",
}

var workoutTips = []string{
	"Mantenha-se hidratado durante o treino",
	"Foque na execução correta dos movimentos",
	"Ajuste as cargas conforme necessário",
}

// generateTraining builds the weekly schedule. "Não" produces an explicit
// empty section rather than an error; the plan view renders it as
// "training not included".
func generateTraining(activity models.ActivityLevel, pref models.TrainingPreference) TrainingSection {
	if pref == models.TrainingNone {
		return TrainingSection{Included: false}
	}

	params, ok := trainingParamsByActivity[activity]
	if !ok {
		params = trainingParamsByActivity[models.ActivitySedentary]
	}

	isGym := pref == models.TrainingGym
	workoutTypes := homeWorkoutTypes
	catalogs, fallback := homeCatalogs, homeDefaultCatalog
	if isGym {
		workoutTypes = gymWorkoutTypes
		catalogs, fallback = gymCatalogs, gymDefaultCatalog
	}

	days := make([]WorkoutDay, 0, params.daysPerWeek)
	for i := 0; i < params.daysPerWeek; i++ {
		workoutType := workoutTypes[i%len(workoutTypes)]
		catalog, ok := catalogs[workoutType]
		if !ok {
			catalog = fallback
		}

		exercises := make([]Exercise, 0, params.exercisesPerDay)
		for j := 0; j < params.exercisesPerDay; j++ {
			exercises = append(exercises, Exercise{
				Name:  catalog.names[j%len(catalog.names)],
				Sets:  catalog.sets(params.intensity),
				Reps:  catalog.reps,
				Rest:  catalog.rest,
				Notes: catalog.notes,
			})
		}

		days = append(days, WorkoutDay{
			ID:        fmt.Sprintf("day-%d", i+1),
			Title:     fmt.Sprintf("Dia %d: %s", i+1, workoutType),
			Intensity: params.intensity,
			Duration:  fmt.Sprintf("%d minutos", params.exercisesPerDay*5+10),
			Warmup:    workoutWarmup,
			Exercises: exercises,
			Cooldown:  workoutCooldown,
			Tips:      workoutTips,
		})
	}

	return TrainingSection{
		Included:    true,
		DaysPerWeek: params.daysPerWeek,
		Intensity:   params.intensity,
		Days:        days,
	}
}

func (c exerciseCatalog) sets(intensity string) string {
	if c.setsByTier != nil {
		if s, ok := c.setsByTier[intensity]; ok {
			return s
		}
	}
	return c.fixedSets
}
