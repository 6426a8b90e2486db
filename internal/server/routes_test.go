package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-nutri/internal/models"
	"fitness-nutri/internal/payment"
	"fitness-nutri/internal/store"
	"fitness-nutri/internal/webhook"
	"fitness-nutri/pkg/logger"
)

const testSecret = "webhook-secret"

type fakePreferences struct {
	pref *payment.Preference
	err  error
}

func (f *fakePreferences) CreatePreference(_ context.Context, _, _, _ string) (*payment.Preference, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pref, nil
}

type fakeFetcher struct {
	details *payment.PaymentDetails
}

func (f *fakeFetcher) FetchPayment(_ context.Context, _ string) (*payment.PaymentDetails, error) {
	return f.details, nil
}

func newTestRouter(st *store.Memory, prefs PreferenceCreator, fetcher webhook.PaymentFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	wh := webhook.NewHandler(st, fetcher, testSecret, log)
	return NewRouter(NewHandlers(st, prefs, wh, "https://app.example", log))
}

func seedEligibleUser(st *store.Memory) {
	st.SeedProfile(&models.Profile{ID: "user-1", Email: "user@example.com"})
	weight, height, age := 70.0, 175.0, 25
	st.SeedRegistration(&models.Registration{
		UserID:             "user-1",
		Weight:             &weight,
		Height:             &height,
		Age:                &age,
		Goal:               "emagrecer",
		CaloriesTarget:     "2000_2300",
		Gender:             "male",
		ActivityLevel:      "Moderadamente ativo (exercícios de 3 a 5 vezes por semana)",
		TrainingPreference: "Sim, Treino na academia",
		MealTimes:          "Tenho meu próprio horário",
		ChocolatePref:      "Sim, um Bis",
	})
	items := []string{"a", "b", "c", "d", "e", "f"}
	st.SeedMealSelections(&models.MealSelections{
		UserID:         "user-1",
		BreakfastItems: items,
		LunchItems:     items,
		SnackItems:     items,
		DinnerItems:    items,
	})
}

func doRequest(router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeaders() map[string]string {
	return map[string]string{"X-User-ID": "user-1", "Content-Type": "application/json"}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &fakePreferences{}, &fakeFetcher{})
	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestUserRoutes_RequireIdentity(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &fakePreferences{}, &fakeFetcher{})
	for _, path := range []string{"/api/profile", "/api/registration", "/api/plan"} {
		w := doRequest(router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetProfile(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/profile", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "user-1", profile.ID)
	assert.False(t, profile.HasPaidPlan)
}

func TestGetProfile_NotFound(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &fakePreferences{}, &fakeFetcher{})
	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/profile", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchRegistration(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	body := []byte(`{"weight": 75.5, "goal": "massa"}`)
	headers := authHeaders()
	w := doRequest(router, http.MethodPatch, "/api/registration", body, headers)
	require.Equal(t, http.StatusOK, w.Code)

	reg, err := st.GetRegistration(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 75.5, *reg.Weight)
	assert.Equal(t, "massa", reg.Goal)
}

func TestPatchRegistration_UnknownField(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	body := []byte(`{"favorite_color": "green"}`)
	headers := authHeaders()
	w := doRequest(router, http.MethodPatch, "/api/registration", body, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reg, err := st.GetRegistration(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 70.0, *reg.Weight, "rejected patch must not write anything")
}

func TestPutMealItems(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	body := []byte(`{"items": ["x", "y"]}`)
	headers := authHeaders()
	w := doRequest(router, http.MethodPut, "/api/meal-selections/lunch", body, headers)
	require.Equal(t, http.StatusOK, w.Code)

	meals, err := st.GetMealSelections(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, meals.LunchItems)

	w = doRequest(router, http.MethodPut, "/api/meal-selections/brunch", body, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEligibility(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/checkout/eligibility", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		IsValid bool   `json:"is_valid"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Message)
}

// Eligibility treats a user with no rows as empty data, not as an error.
func TestGetEligibility_NoData(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/checkout/eligibility", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		IsValid       bool     `json:"is_valid"`
		MissingFields []string `json:"missing_fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsValid)
	assert.Len(t, res.MissingFields, 10)
}

func TestCreatePreference(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	prefs := &fakePreferences{pref: &payment.Preference{
		ID:        "pref-1",
		InitPoint: "https://mp.example/checkout/pref-1",
	}}
	router := newTestRouter(st, prefs, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodPost, "/api/checkout/preference", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var pref payment.Preference
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pref))
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://mp.example/checkout/pref-1", pref.InitPoint)
}

func TestCreatePreference_Ineligible(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", Email: "user@example.com"})
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodPost, "/api/checkout/preference", nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_fields")
}

func TestGetPlan_PaymentRequired(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/plan", nil, headers)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestGetPlan_Entitled(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	require.NoError(t, st.SetHasPaidPlan(context.Background(), "user-1", true))
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/plan", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Nutrition struct {
			TDEE           int `json:"tdee"`
			TargetCalories int `json:"target_calories"`
		} `json:"nutrition"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2672, body.Nutrition.TDEE)
	assert.Equal(t, 2172, body.Nutrition.TargetCalories)
}

func TestGetPlan_IncompleteRegistration(t *testing.T) {
	st := store.NewMemory()
	st.SeedProfile(&models.Profile{ID: "user-1", HasPaidPlan: true})
	st.SeedRegistration(&models.Registration{UserID: "user-1"})
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	headers := authHeaders()
	w := doRequest(router, http.MethodGet, "/api/plan", nil, headers)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWebhookRoute(t *testing.T) {
	st := store.NewMemory()
	seedEligibleUser(st)
	fetcher := &fakeFetcher{details: &payment.PaymentDetails{
		ID:                "12345",
		Status:            "approved",
		TransactionAmount: 9.9,
		CurrencyID:        "BRL",
		PaymentTypeID:     "credit_card",
		ExternalReference: "user-1",
	}}
	router := newTestRouter(st, &fakePreferences{}, fetcher)

	body := []byte(`{"type":"payment","data":{"id":12345}}`)
	sig := payment.SignBody(body, testSecret)
	w := doRequest(router, http.MethodPost, "/api/webhook/mercadopago", body, map[string]string{"x-signature": sig})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())

	profile, err := st.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, profile.HasPaidPlan)
}

func TestWebhookRoute_BadSignature(t *testing.T) {
	st := store.NewMemory()
	router := newTestRouter(st, &fakePreferences{}, &fakeFetcher{})

	body := []byte(`{"type":"payment","data":{"id":12345}}`)
	sig := payment.SignBody(body, "wrong-secret")
	w := doRequest(router, http.MethodPost, "/api/webhook/mercadopago", body, map[string]string{"x-signature": sig})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Zero(t, st.Writes)
}
