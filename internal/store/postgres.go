// internal/store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/models"
)

const (
	maxAttempts  = 3
	retryBackoff = 100 * time.Millisecond
)

type Postgres struct {
	pool *pgxpool.Pool
}

type PostgresConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

func NewPostgres(cfg PostgresConfig) (*Postgres, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// withRetry runs fn up to maxAttempts times with exponential backoff. Not
// found is never retried; everything else is wrapped in a StoreError with
// the provider code when one is available.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	backoff := retryBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrNotFound
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return &apperr.StoreError{Op: op, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &apperr.StoreError{Op: op, Code: pgErr.Code, Err: err}
	}
	return &apperr.StoreError{Op: op, Err: err}
}

func (p *Postgres) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
        SELECT id, email, has_paid_plan, created_at, updated_at
        FROM profiles
        WHERE id = $1
    `

	var profile models.Profile
	err := withRetry(ctx, "get profile", func() error {
		return p.pool.QueryRow(ctx, query, userID).Scan(
			&profile.ID, &profile.Email, &profile.HasPaidPlan,
			&profile.CreatedAt, &profile.UpdatedAt,
		)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *Postgres) SetHasPaidPlan(ctx context.Context, userID string, paid bool) error {
	query := `
        UPDATE profiles
        SET has_paid_plan = $2, updated_at = NOW()
        WHERE id = $1
    `

	return withRetry(ctx, "set has_paid_plan", func() error {
		tag, err := p.pool.Exec(ctx, query, userID, paid)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (p *Postgres) GetRegistration(ctx context.Context, userID string) (*models.Registration, error) {
	query := `
        SELECT user_id, weight, height, age, goal, calories_target, gender,
               activity_level, training_preference, meal_times, chocolate_preference,
               updated_at
        FROM registrations
        WHERE user_id = $1
    `

	var reg models.Registration
	err := withRetry(ctx, "get registration", func() error {
		return p.pool.QueryRow(ctx, query, userID).Scan(
			&reg.UserID, &reg.Weight, &reg.Height, &reg.Age, &reg.Goal,
			&reg.CaloriesTarget, &reg.Gender, &reg.ActivityLevel,
			&reg.TrainingPreference, &reg.MealTimes, &reg.ChocolatePref,
			&reg.UpdatedAt,
		)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// SaveRegistrationField upserts a single registration column. The debounced
// form writes one field at a time, so a partial row is a normal state.
func (p *Postgres) SaveRegistrationField(ctx context.Context, userID, field string, value interface{}) error {
	column, ok := RegistrationFields[field]
	if !ok {
		return apperr.Validation("unknown registration field", field)
	}

	query := fmt.Sprintf(`
        INSERT INTO registrations (user_id, %s)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET %s = $2, updated_at = NOW()
    `, column, column)

	return withRetry(ctx, "save registration field", func() error {
		_, err := p.pool.Exec(ctx, query, userID, value)
		return err
	})
}

func (p *Postgres) GetMealSelections(ctx context.Context, userID string) (*models.MealSelections, error) {
	query := `
        SELECT user_id, breakfast_items, lunch_items, snack_items, dinner_items, updated_at
        FROM meal_selections
        WHERE user_id = $1
    `

	var meals models.MealSelections
	err := withRetry(ctx, "get meal selections", func() error {
		return p.pool.QueryRow(ctx, query, userID).Scan(
			&meals.UserID, &meals.BreakfastItems, &meals.LunchItems,
			&meals.SnackItems, &meals.DinnerItems, &meals.UpdatedAt,
		)
	})
	if err != nil {
		return nil, err
	}
	return &meals, nil
}

func (p *Postgres) SaveMealItems(ctx context.Context, userID, meal string, items []string) error {
	column, ok := MealColumns[meal]
	if !ok {
		return apperr.Validation("unknown meal", meal)
	}

	query := fmt.Sprintf(`
        INSERT INTO meal_selections (user_id, %s)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET %s = $2, updated_at = NOW()
    `, column, column)

	return withRetry(ctx, "save meal items", func() error {
		_, err := p.pool.Exec(ctx, query, userID, items)
		return err
	})
}

func (p *Postgres) GetPaymentByExternalID(ctx context.Context, externalID string) (*models.Payment, error) {
	query := `
        SELECT id, external_id, user_id, amount, currency, status, payment_method, created_at, updated_at
        FROM payments
        WHERE external_id = $1
    `

	var payment models.Payment
	err := withRetry(ctx, "get payment", func() error {
		return p.pool.QueryRow(ctx, query, externalID).Scan(
			&payment.ID, &payment.ExternalID, &payment.UserID, &payment.Amount,
			&payment.Currency, &payment.Status, &payment.PaymentMethod,
			&payment.CreatedAt, &payment.UpdatedAt,
		)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpsertPayment writes the payment keyed by external_id. Redelivered
// webhooks hit the conflict branch and converge on one row.
func (p *Postgres) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	query := `
        INSERT INTO payments (external_id, user_id, amount, currency, status, payment_method)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (external_id) DO UPDATE
        SET status = $5, updated_at = NOW()
        RETURNING id
    `

	return withRetry(ctx, "upsert payment", func() error {
		return p.pool.QueryRow(ctx, query,
			payment.ExternalID, payment.UserID, payment.Amount,
			payment.Currency, payment.Status, payment.PaymentMethod,
		).Scan(&payment.ID)
	})
}

// InsertSubscription is insert-if-absent keyed by payment_id, so a second
// delivery of the same approved payment does not create a second row.
func (p *Postgres) InsertSubscription(ctx context.Context, sub *models.Subscription) error {
	query := `
        INSERT INTO subscriptions (user_id, plan_type, status, start_date, payment_id)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (payment_id) DO NOTHING
    `

	return withRetry(ctx, "insert subscription", func() error {
		_, err := p.pool.Exec(ctx, query,
			sub.UserID, sub.PlanType, sub.Status, sub.StartDate, sub.PaymentID,
		)
		return err
	})
}

func (p *Postgres) GetPlanByUserID(ctx context.Context, userID string) (*models.NutritionalPlan, error) {
	query := `
        SELECT id, user_id, payment_id, daily_calories, protein_percentage,
               carbs_percentage, fat_percentage, objective, start_date, created_at
        FROM nutritional_plans
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `

	var plan models.NutritionalPlan
	err := withRetry(ctx, "get plan", func() error {
		return p.pool.QueryRow(ctx, query, userID).Scan(
			&plan.ID, &plan.UserID, &plan.PaymentID, &plan.DailyCalories,
			&plan.ProteinPercentage, &plan.CarbsPercentage, &plan.FatPercentage,
			&plan.Objective, &plan.StartDate, &plan.CreatedAt,
		)
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// InsertPlan is insert-if-absent keyed by payment_id. ID comes back empty
// when the plan already existed.
func (p *Postgres) InsertPlan(ctx context.Context, plan *models.NutritionalPlan) error {
	query := `
        INSERT INTO nutritional_plans (user_id, payment_id, daily_calories,
            protein_percentage, carbs_percentage, fat_percentage, objective, start_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (payment_id) DO NOTHING
        RETURNING id
    `

	return withRetry(ctx, "insert plan", func() error {
		err := p.pool.QueryRow(ctx, query,
			plan.UserID, plan.PaymentID, plan.DailyCalories,
			plan.ProteinPercentage, plan.CarbsPercentage, plan.FatPercentage,
			plan.Objective, plan.StartDate,
		).Scan(&plan.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			// conflict branch: plan already exists for this payment
			plan.ID = ""
			return nil
		}
		return err
	})
}

func (p *Postgres) InsertPlanObjectives(ctx context.Context, obj *models.PlanObjectives) error {
	query := `
        INSERT INTO plan_objectives (plan_id, initial_weight, activity_level, weekly_goal)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (plan_id) DO NOTHING
    `

	return withRetry(ctx, "insert plan objectives", func() error {
		_, err := p.pool.Exec(ctx, query,
			obj.PlanID, obj.InitialWeight, obj.ActivityLevel, obj.WeeklyGoal,
		)
		return err
	})
}
