// internal/store/memory.go
package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/models"
)

// Memory is an in-memory Store for tests. Safe for concurrent use. Writes
// counts every mutating call so tests can assert that a rejected request
// touched nothing.
type Memory struct {
	mu sync.Mutex

	profiles      map[string]*models.Profile
	registrations map[string]*models.Registration
	meals         map[string]*models.MealSelections
	payments      map[string]*models.Payment      // keyed by external id
	subscriptions map[string]*models.Subscription // keyed by payment id
	plans         map[string]*models.NutritionalPlan
	objectives    map[string]*models.PlanObjectives

	nextID int

	// Writes counts mutating calls; Err, when set, fails the next call.
	Writes int
	Err    error
}

func NewMemory() *Memory {
	return &Memory{
		profiles:      make(map[string]*models.Profile),
		registrations: make(map[string]*models.Registration),
		meals:         make(map[string]*models.MealSelections),
		payments:      make(map[string]*models.Payment),
		subscriptions: make(map[string]*models.Subscription),
		plans:         make(map[string]*models.NutritionalPlan),
		objectives:    make(map[string]*models.PlanObjectives),
	}
}

func (m *Memory) genID() string {
	m.nextID++
	return "id-" + strconv.Itoa(m.nextID)
}

func (m *Memory) fail() error {
	if m.Err != nil {
		err := m.Err
		m.Err = nil
		return err
	}
	return nil
}

// SeedProfile installs a profile for tests.
func (m *Memory) SeedProfile(p *models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// SeedRegistration installs a registration for tests.
func (m *Memory) SeedRegistration(r *models.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[r.UserID] = r
}

// SeedMealSelections installs meal selections for tests.
func (m *Memory) SeedMealSelections(s *models.MealSelections) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meals[s.UserID] = s
}

// Subscriptions returns all subscription rows, for assertions.
func (m *Memory) Subscriptions() []*models.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Subscription, 0, len(m.subscriptions))
	for _, s := range m.subscriptions {
		out = append(out, s)
	}
	return out
}

// Objectives returns all plan objectives rows, for assertions.
func (m *Memory) Objectives() []*models.PlanObjectives {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.PlanObjectives, 0, len(m.objectives))
	for _, o := range m.objectives {
		out = append(out, o)
	}
	return out
}

// Payments returns all payment rows, for assertions.
func (m *Memory) Payments() []*models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	return out
}

func (m *Memory) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) SetHasPaidPlan(_ context.Context, userID string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	p.HasPaidPlan = paid
	p.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) GetRegistration(_ context.Context, userID string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	r, ok := m.registrations[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) SaveRegistrationField(_ context.Context, userID, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := RegistrationFields[field]; !ok {
		return apperr.Validation("unknown registration field", field)
	}
	r, ok := m.registrations[userID]
	if !ok {
		r = &models.Registration{UserID: userID}
		m.registrations[userID] = r
	}
	switch field {
	case "weight":
		v := toFloat(value)
		r.Weight = &v
	case "height":
		v := toFloat(value)
		r.Height = &v
	case "age":
		v := int(toFloat(value))
		r.Age = &v
	case "goal":
		r.Goal = value.(string)
	case "calories_target":
		r.CaloriesTarget = value.(string)
	case "gender":
		r.Gender = value.(string)
	case "activity_level":
		r.ActivityLevel = value.(string)
	case "training_preference":
		r.TrainingPreference = value.(string)
	case "meal_times":
		r.MealTimes = value.(string)
	case "chocolate_preference":
		r.ChocolatePref = value.(string)
	}
	r.UpdatedAt = time.Now()
	return nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (m *Memory) GetMealSelections(_ context.Context, userID string) (*models.MealSelections, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	s, ok := m.meals[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) SaveMealItems(_ context.Context, userID, meal string, items []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := MealColumns[meal]; !ok {
		return apperr.Validation("unknown meal", meal)
	}
	s, ok := m.meals[userID]
	if !ok {
		s = &models.MealSelections{UserID: userID}
		m.meals[userID] = s
	}
	switch meal {
	case "breakfast":
		s.BreakfastItems = items
	case "lunch":
		s.LunchItems = items
	case "snack":
		s.SnackItems = items
	case "dinner":
		s.DinnerItems = items
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) GetPaymentByExternalID(_ context.Context, externalID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	p, ok := m.payments[externalID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) UpsertPayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if existing, ok := m.payments[payment.ExternalID]; ok {
		existing.Status = payment.Status
		existing.UpdatedAt = time.Now()
		payment.ID = existing.ID
		return nil
	}
	payment.ID = m.genID()
	payment.CreatedAt = time.Now()
	cp := *payment
	m.payments[payment.ExternalID] = &cp
	return nil
}

func (m *Memory) InsertSubscription(_ context.Context, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.subscriptions[sub.PaymentID]; ok {
		return nil
	}
	sub.ID = m.genID()
	sub.CreatedAt = time.Now()
	cp := *sub
	m.subscriptions[sub.PaymentID] = &cp
	return nil
}

func (m *Memory) GetPlanByUserID(_ context.Context, userID string) (*models.NutritionalPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	for _, p := range m.plans {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *Memory) InsertPlan(_ context.Context, plan *models.NutritionalPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.plans[plan.PaymentID]; ok {
		plan.ID = ""
		return nil
	}
	plan.ID = m.genID()
	plan.CreatedAt = time.Now()
	cp := *plan
	m.plans[plan.PaymentID] = &cp
	return nil
}

func (m *Memory) InsertPlanObjectives(_ context.Context, obj *models.PlanObjectives) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.objectives[obj.PlanID]; ok {
		return nil
	}
	obj.ID = m.genID()
	obj.CreatedAt = time.Now()
	cp := *obj
	m.objectives[obj.PlanID] = &cp
	return nil
}
