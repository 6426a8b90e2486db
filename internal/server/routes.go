// internal/server/routes.go
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitness-nutri/internal/apperr"
	"fitness-nutri/internal/payment"
	"fitness-nutri/internal/plan"
	"fitness-nutri/internal/store"
	"fitness-nutri/internal/validation"
	"fitness-nutri/internal/webhook"
	"fitness-nutri/pkg/logger"
)

const userIDHeader = "X-User-ID"

// PreferenceCreator is the slice of the payment client the checkout route
// needs.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, userID, email, originURL string) (*payment.Preference, error)
}

type Handlers struct {
	store     store.Store
	payments  PreferenceCreator
	webhook   *webhook.Handler
	originURL string
	log       *logger.Logger
}

func NewHandlers(st store.Store, payments PreferenceCreator, wh *webhook.Handler, originURL string, log *logger.Logger) *Handlers {
	return &Handlers{
		store:     st,
		payments:  payments,
		webhook:   wh,
		originURL: originURL,
		log:       log,
	}
}

// NewRouter wires the routes. User-scoped routes require the X-User-ID
// header; the webhook route authenticates by signature instead.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	router.POST("/api/webhook/mercadopago", h.handleWebhook)

	api := router.Group("/api", requireUserID())
	api.GET("/profile", h.getProfile)
	api.GET("/registration", h.getRegistration)
	api.PATCH("/registration", h.patchRegistration)
	api.GET("/meal-selections", h.getMealSelections)
	api.PUT("/meal-selections/:meal", h.putMealItems)
	api.GET("/checkout/eligibility", h.getEligibility)
	api.POST("/checkout/preference", h.createPreference)
	api.GET("/plan", h.getPlan)

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			apiError(c, http.StatusUnauthorized, "missing user identity")
			c.Abort()
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps the error taxonomy onto HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	var upstream *apperr.UpstreamFetchError

	switch {
	case errors.As(err, &verr):
		apiError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, apperr.ErrNotFound):
		apiError(c, http.StatusNotFound, "not found")
	case errors.As(err, &upstream):
		h.log.Errorw("upstream failure", "error", err)
		apiError(c, http.StatusBadGateway, "payment provider unavailable")
	default:
		h.log.Errorw("request failed", "error", err)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handlers) getProfile(c *gin.Context) {
	profile, err := h.store.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handlers) getRegistration(c *gin.Context) {
	reg, err := h.store.GetRegistration(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// patchRegistration accepts any subset of registration fields and writes
// each one independently, matching the field-level granularity of the
// debounced form.
func (h *Handlers) patchRegistration(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		apiError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if len(fields) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	for field := range fields {
		if _, ok := store.RegistrationFields[field]; !ok {
			apiError(c, http.StatusBadRequest, "unknown field: "+field)
			return
		}
	}

	uid := userID(c)
	for field, value := range fields {
		if err := h.store.SaveRegistrationField(c.Request.Context(), uid, field, value); err != nil {
			h.respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) getMealSelections(c *gin.Context) {
	meals, err := h.store.GetMealSelections(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *Handlers) putMealItems(c *gin.Context) {
	meal := c.Param("meal")
	if _, ok := store.MealColumns[meal]; !ok {
		apiError(c, http.StatusBadRequest, "unknown meal: "+meal)
		return
	}

	var body struct {
		Items []string `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.store.SaveMealItems(c.Request.Context(), userID(c), meal, body.Items); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getEligibility runs the checkout validator over whatever registration and
// meal data exists. Missing rows are validated as empty, not treated as
// errors.
func (h *Handlers) getEligibility(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	reg, err := h.store.GetRegistration(ctx, uid)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		h.respondError(c, err)
		return
	}
	meals, err := h.store.GetMealSelections(ctx, uid)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		h.respondError(c, err)
		return
	}

	result := validation.CheckCheckout(reg, meals)
	c.JSON(http.StatusOK, gin.H{
		"is_valid":       result.IsValid,
		"missing_fields": result.MissingFields,
		"invalid_meals":  result.InvalidMeals,
		"message":        result.Message(),
	})
}

// createPreference gates checkout behind the validator, then asks the
// provider for a preference.
func (h *Handlers) createPreference(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	reg, err := h.store.GetRegistration(ctx, uid)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		h.respondError(c, err)
		return
	}
	meals, err := h.store.GetMealSelections(ctx, uid)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		h.respondError(c, err)
		return
	}

	if result := validation.CheckCheckout(reg, meals); !result.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "checkout requirements not met",
			"missing_fields": result.MissingFields,
			"invalid_meals":  result.InvalidMeals,
			"message":        result.Message(),
		})
		return
	}

	profile, err := h.store.GetProfile(ctx, uid)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pref, err := h.payments.CreatePreference(ctx, uid, profile.Email, h.originURL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// getPlan generates the plan on demand from the stored registration. 402
// without entitlement, 409 while the registration is incomplete.
func (h *Handlers) getPlan(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	profile, err := h.store.GetProfile(ctx, uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !profile.HasPaidPlan {
		apiError(c, http.StatusPaymentRequired, "plan not purchased")
		return
	}

	reg, err := h.store.GetRegistration(ctx, uid)
	if errors.Is(err, apperr.ErrNotFound) {
		apiError(c, http.StatusConflict, "plan unavailable, registration incomplete")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	generated, err := plan.Generate(reg)
	if err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			apiError(c, http.StatusConflict, "plan unavailable, registration incomplete")
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

// handleWebhook feeds the raw body and signature header to the
// reconciliation handler. Any failure is a 400 with the error message;
// redeliveries after partial failures converge because every write is
// idempotent.
func (h *Handlers) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable body")
		return
	}

	if err := h.webhook.Process(c.Request.Context(), body, c.GetHeader("x-signature")); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
