// internal/payment/mercadopago.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitness-nutri/internal/apperr"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"

	// Fixed product definition for the single premium plan.
	productID          = "premium-plan"
	productTitle       = "Plano Premium Fitness Nutri"
	productDescription = "Plano nutricional personalizado com suporte por 30 dias"
	productPrice       = 9.90
	productCurrency    = "BRL"

	statementDescriptor = "FITNESSNUTRI"
)

// Client talks to the Mercado Pago REST API with a bearer access token.
type Client struct {
	baseURL       string
	accessToken   string
	publicKey     string
	webhookSecret string
	httpClient    *http.Client
}

type ClientConfig struct {
	BaseURL       string
	AccessToken   string
	PublicKey     string
	WebhookSecret string
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:       baseURL,
		accessToken:   cfg.AccessToken,
		publicKey:     cfg.PublicKey,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) WebhookSecret() string {
	return c.webhookSecret
}

func (c *Client) PublicKey() string {
	return c.publicKey
}

// Preference is the provider's checkout handle: an opaque id plus the
// redirect URL the user is sent to.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type preferenceItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type preferenceRequest struct {
	Items []preferenceItem `json:"items"`
	Payer struct {
		Email string `json:"email"`
	} `json:"payer"`
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
		Pending string `json:"pending"`
	} `json:"back_urls"`
	AutoReturn          string `json:"auto_return"`
	ExternalReference   string `json:"external_reference"`
	NotificationURL     string `json:"notification_url"`
	StatementDescriptor string `json:"statement_descriptor"`
	PaymentMethods      struct {
		ExcludedPaymentMethods []string `json:"excluded_payment_methods"`
		ExcludedPaymentTypes   []string `json:"excluded_payment_types"`
		Installments           int      `json:"installments"`
	} `json:"payment_methods"`
}

// CreatePreference registers a checkout preference for the premium plan.
// originURL is the public site origin used to build the three redirect
// routes and the webhook notification URL.
func (c *Client) CreatePreference(ctx context.Context, userID, email, originURL string) (*Preference, error) {
	reqBody := preferenceRequest{
		Items: []preferenceItem{{
			ID:          productID,
			Title:       productTitle,
			Description: productDescription,
			Quantity:    1,
			CurrencyID:  productCurrency,
			UnitPrice:   productPrice,
		}},
		AutoReturn:          "approved",
		ExternalReference:   userID,
		NotificationURL:     originURL + "/api/webhook/mercadopago",
		StatementDescriptor: statementDescriptor,
	}
	reqBody.Payer.Email = email
	reqBody.BackURLs.Success = originURL + "/payment/success"
	reqBody.BackURLs.Failure = originURL + "/payment/failure"
	reqBody.BackURLs.Pending = originURL + "/payment/pending"
	reqBody.PaymentMethods.ExcludedPaymentMethods = []string{}
	reqBody.PaymentMethods.ExcludedPaymentTypes = []string{}
	reqBody.PaymentMethods.Installments = 1

	var pref Preference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", reqBody, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

// PaymentDetails is the authoritative payment object fetched from the
// provider. Webhook bodies are never trusted for these fields.
type PaymentDetails struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	TransactionAmount float64     `json:"transaction_amount"`
	CurrencyID        string      `json:"currency_id"`
	PaymentTypeID     string      `json:"payment_type_id"`
	ExternalReference string      `json:"external_reference"`
}

// FetchPayment looks up a payment by the provider's id.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*PaymentDetails, error) {
	var details PaymentDetails
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &apperr.UpstreamFetchError{Operation: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &apperr.UpstreamFetchError{Operation: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.UpstreamFetchError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &apperr.UpstreamFetchError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.UpstreamFetchError{Operation: op, Err: err}
	}
	return nil
}
