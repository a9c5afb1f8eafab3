package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"genius-server/internal/domain"
)

type nopLogger struct{}

func (l *nopLogger) Info(msg string, fields ...interface{})             {}
func (l *nopLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *nopLogger) Debug(msg string, fields ...interface{})            {}
func (l *nopLogger) Warn(msg string, fields ...interface{})             {}

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the webhook verifier accepts.
func signPayload(t *testing.T, payload []byte) string {
	t.Helper()
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func newTestGateway() *Gateway {
	return &Gateway{
		webhookSecret: testWebhookSecret,
		priceID:       "price_1",
		frontendURL:   "http://localhost:3000",
		logger:        &nopLogger{},
	}
}

func TestGateway_VerifyEvent_BadSignature(t *testing.T) {
	g := newTestGateway()
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := g.VerifyEvent(payload, "t=1,v1=deadbeef")
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestGateway_VerifyEvent_MalformedCheckoutObject(t *testing.T) {
	g := newTestGateway()
	// Signature is valid but the checkout object cannot be decoded:
	// metadata must be a string map.
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"metadata":123}}}`)

	_, err := g.VerifyEvent(payload, signPayload(t, payload))
	if !errors.Is(err, domain.ErrMalformedEventPayload) {
		t.Fatalf("expected ErrMalformedEventPayload, got %v", err)
	}
}

func TestGateway_VerifyEvent_MalformedInvoiceObject(t *testing.T) {
	g := newTestGateway()
	payload := []byte(`{"type":"invoice.payment_succeeded","data":{"object":{"subscription":[]}}}`)

	_, err := g.VerifyEvent(payload, signPayload(t, payload))
	if !errors.Is(err, domain.ErrMalformedEventPayload) {
		t.Fatalf("expected ErrMalformedEventPayload, got %v", err)
	}
}

func TestGateway_VerifyEvent_MapsCheckoutFields(t *testing.T) {
	g := newTestGateway()
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"subscription":"sub_1","metadata":{"userId":"user-1"}}}}`)

	event, err := g.VerifyEvent(payload, signPayload(t, payload))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Type != domain.EventCheckoutCompleted {
		t.Fatalf("unexpected event type %s", event.Type)
	}
	if event.CheckoutSession == nil {
		t.Fatalf("expected checkout session payload")
	}
	if event.CheckoutSession.SubscriptionID != "sub_1" {
		t.Fatalf("expected subscription id sub_1, got %q", event.CheckoutSession.SubscriptionID)
	}
	if event.CheckoutSession.Metadata["userId"] != "user-1" {
		t.Fatalf("expected userId metadata, got %v", event.CheckoutSession.Metadata)
	}
}

func TestGateway_VerifyEvent_PassesThroughUnknownTypes(t *testing.T) {
	g := newTestGateway()
	payload := []byte(`{"type":"customer.updated","data":{"object":{}}}`)

	event, err := g.VerifyEvent(payload, signPayload(t, payload))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if event.Type != "customer.updated" {
		t.Fatalf("unexpected event type %s", event.Type)
	}
	if event.CheckoutSession != nil || event.Invoice != nil {
		t.Fatalf("expected no payload for unhandled event type")
	}
}
