package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"lms/config"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CheckoutSessionParams describes one hosted-checkout session request.
// UnitAmount is in minor currency units (paise, 100 paise = 1 INR).
type CheckoutSessionParams struct {
	CourseID     uint
	CourseTitle  string
	ThumbnailURL string
	UnitAmount   int64
	SuccessURL   string
	CancelURL    string
}

// CheckoutSession is the gateway's hosted checkout session
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutSessionData is the session object embedded in a webhook event.
// AmountTotal is the settled amount in minor currency units.
type CheckoutSessionData struct {
	ID          string `json:"id"`
	AmountTotal int64  `json:"amount_total"`
}

// GatewayEvent is a verified webhook notification
type GatewayEvent struct {
	ID      string
	Type    string
	Session CheckoutSessionData
}

// PaymentGateway abstracts the hosted-checkout payment provider so the
// enrollment workflow can be exercised with fakes in tests.
type PaymentGateway interface {
	CreateCheckoutSession(params CheckoutSessionParams) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, sigHeader string) (*GatewayEvent, error)
}

// StripeGateway talks to the Stripe REST API
type StripeGateway struct {
	secretKey     string
	webhookSecret string
	client        *resty.Client
}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{
		secretKey:     config.AppConfig.StripeSecretKey,
		webhookSecret: config.AppConfig.WebhookSecret,
		client: resty.New().
			SetBaseURL("https://api.stripe.com/v1").
			SetTimeout(15 * time.Second),
	}
}

// CreateCheckoutSession creates a hosted checkout session with a single
// line item priced in paise
func (g *StripeGateway) CreateCheckoutSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	resp, err := g.client.R().
		SetBasicAuth(g.secretKey, "").
		SetFormData(map[string]string{
			"mode": "payment",
			"line_items[0][price_data][currency]":                "inr",
			"line_items[0][price_data][product_data][name]":      params.CourseTitle,
			"line_items[0][price_data][product_data][images][0]": params.ThumbnailURL,
			"line_items[0][price_data][unit_amount]":             strconv.FormatInt(params.UnitAmount, 10),
			"line_items[0][quantity]":                            "1",
			"success_url":                                        params.SuccessURL,
			"cancel_url":                                         params.CancelURL,
			"metadata[courseId]":                                 strconv.FormatUint(uint64(params.CourseID), 10),
		}).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("checkout session request failed: %s", resp.String())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid checkout session response: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout session response has no redirect url")
	}

	return &session, nil
}

// VerifyWebhook authenticates the raw payload against the signature header
// (format: "t=<unix>,v1=<hex hmac>") and parses the event
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*GatewayEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("webhook secret is not configured")
	}

	timestamp, signature, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	expected := ComputeWebhookSignature(g.webhookSecret, timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("webhook signature mismatch")
	}

	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object CheckoutSessionData `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	return &GatewayEvent{
		ID:      envelope.ID,
		Type:    envelope.Type,
		Session: envelope.Data.Object,
	}, nil
}

// ComputeWebhookSignature returns hex(hmac-sha256(secret, timestamp + "." + payload))
func ComputeWebhookSignature(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// parseSignatureHeader splits "t=1714000000,v1=abcdef..." into its parts
func parseSignatureHeader(header string) (timestamp, signature string, err error) {
	if strings.TrimSpace(header) == "" {
		return "", "", fmt.Errorf("missing signature header")
	}

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}

	if timestamp == "" || signature == "" {
		return "", "", fmt.Errorf("malformed signature header")
	}
	return timestamp, signature, nil
}
