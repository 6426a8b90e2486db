// Package webhook reconciles payment notifications from the provider into
// entitlement state. The handler is safe to invoke any number of times for
// the same event: every write converges on the same rows.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/calculator"
	"fitness-nutri/internal/models"
	"fitness-nutri/internal/payment"
	"fitness-nutri/internal/store"
	"fitness-nutri/pkg/logger"
)

// PaymentFetcher is the provider lookup the handler needs. Satisfied by
// *payment.Client.
type PaymentFetcher interface {
	FetchPayment(ctx context.Context, paymentID string) (*payment.PaymentDetails, error)
}

type Handler struct {
	store         store.Store
	payments      PaymentFetcher
	webhookSecret string
	log           *logger.Logger
}

func NewHandler(st store.Store, payments PaymentFetcher, webhookSecret string, log *logger.Logger) *Handler {
	return &Handler{
		store:         st,
		payments:      payments,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// notification is the webhook body. Only the event type and payment id are
// read from it; everything else comes from the authoritative fetch.
type notification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Process runs the reconciliation state machine over a raw webhook request.
// Signature verification happens before anything else; on mismatch no fetch
// and no write is performed.
func (h *Handler) Process(ctx context.Context, body []byte, signature string) error {
	if err := payment.VerifySignature(body, signature, h.webhookSecret); err != nil {
		h.log.Warn("webhook signature rejected")
		return err
	}

	var note notification
	if err := json.Unmarshal(body, &note); err != nil {
		return apperr.Validation("invalid webhook payload")
	}
	if note.Type == "" || note.Data.ID.String() == "" {
		return apperr.Validation("invalid webhook payload")
	}

	if note.Type != "payment" {
		h.log.Infow("ignoring webhook event", "type", note.Type)
		return nil
	}

	paymentID := note.Data.ID.String()
	details, err := h.payments.FetchPayment(ctx, paymentID)
	if err != nil {
		h.log.Errorw("payment fetch failed", "payment_id", paymentID, "error", err)
		return err
	}

	record := &models.Payment{
		ExternalID:    paymentID,
		UserID:        details.ExternalReference,
		Amount:        details.TransactionAmount,
		Currency:      details.CurrencyID,
		Status:        models.PaymentStatus(details.Status),
		PaymentMethod: details.PaymentTypeID,
	}
	if err := h.store.UpsertPayment(ctx, record); err != nil {
		return err
	}

	if record.Status != models.PaymentApproved {
		h.log.Infow("payment recorded without entitlement change",
			"payment_id", paymentID, "status", record.Status)
		return nil
	}

	return h.grantEntitlement(ctx, record)
}

// grantEntitlement runs the approved path: subscription, entitlement flag,
// initial plan. Each write is individually idempotent, so a partial failure
// followed by a webhook retry converges.
func (h *Handler) grantEntitlement(ctx context.Context, record *models.Payment) error {
	sub := &models.Subscription{
		UserID:    record.UserID,
		PlanType:  "premium",
		Status:    "active",
		StartDate: time.Now(),
		PaymentID: record.ID,
	}
	if err := h.store.InsertSubscription(ctx, sub); err != nil {
		return err
	}

	if err := h.store.SetHasPaidPlan(ctx, record.UserID, true); err != nil {
		return err
	}

	reg, err := h.store.GetRegistration(ctx, record.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		// entitlement stands; the plan view will route the user back to
		// registration
		h.log.Warnw("approved payment without registration, skipping plan creation",
			"user_id", record.UserID, "payment_id", record.ExternalID)
		return nil
	}
	if err != nil {
		return err
	}

	return h.createInitialPlan(ctx, record, reg)
}

func (h *Handler) createInitialPlan(ctx context.Context, record *models.Payment, reg *models.Registration) error {
	profile, ok := calculator.FromRegistration(reg)
	if !ok {
		h.log.Warnw("registration incomplete, skipping plan creation",
			"user_id", record.UserID, "payment_id", record.ExternalID)
		return nil
	}

	plan := &models.NutritionalPlan{
		UserID:            record.UserID,
		PaymentID:         record.ID,
		DailyCalories:     calculator.TargetCalories(profile),
		ProteinPercentage: 30,
		CarbsPercentage:   40,
		FatPercentage:     30,
		Objective:         string(profile.Goal),
		StartDate:         time.Now(),
	}
	if err := h.store.InsertPlan(ctx, plan); err != nil {
		return err
	}
	if plan.ID == "" {
		// plan already existed for this payment
		return nil
	}

	objectives := &models.PlanObjectives{
		PlanID:        plan.ID,
		InitialWeight: profile.WeightKG,
		ActivityLevel: reg.ActivityLevel,
		WeeklyGoal:    models.WeeklyGoalFor(profile.Goal),
	}
	return h.store.InsertPlanObjectives(ctx, objectives)
}
