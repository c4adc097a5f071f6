package mercadopago

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/payment/models"
	dErrors "cosmonumero/pkg/domain-errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		AccessToken:         "TEST-token",
		BaseURL:             srv.URL,
		StatementDescriptor: "Numerologia Cósmica",
		SuccessURL:          "https://app.example/checkout/return/success",
		FailureURL:          "https://app.example/checkout/return/failure",
		PendingURL:          "https://app.example/checkout/return/pending",
		NotificationURL:     "https://app.example/checkout/webhook",
	}, append([]Option{WithRetry(3, 0)}, opts...)...)
}

func TestCreateSession(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp.example/init/pref-1"}`))
	})

	session, err := client.CreateSession(context.Background(), models.SessionRequest{
		Title:             "Análise Numerológica Cósmica",
		AmountCents:       2990,
		Currency:          "BRL",
		PayerName:         "Maria Silva",
		BirthDate:         "1990-05-15",
		ExternalReference: "NUM-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", session.ID)
	assert.Equal(t, "https://mp.example/init/pref-1", session.RedirectURL)

	items := got["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, 29.9, item["unit_price"])
	assert.Equal(t, "BRL", item["currency_id"])
	assert.Equal(t, float64(1), item["quantity"])
	assert.Equal(t, "NUM-1", got["external_reference"])
	assert.Equal(t, "approved", got["auto_return"])
	assert.Equal(t, "https://app.example/checkout/webhook", got["notification_url"])
	backURLs := got["back_urls"].(map[string]any)
	assert.Equal(t, "https://app.example/checkout/return/success", backURLs["success"])
	methods := got["payment_methods"].(map[string]any)
	assert.Len(t, methods["excluded_payment_types"], 2)
	metadata := got["metadata"].(map[string]any)
	assert.Equal(t, "1990-05-15", metadata["birth_date"])
}

func TestCreateSessionRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid unit_price","status":400}`))
	})

	_, err := client.CreateSession(context.Background(), models.SessionRequest{ExternalReference: "NUM-1"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	assert.Contains(t, err.Error(), "invalid unit_price")
}

func TestCreateSessionNotConfigured(t *testing.T) {
	client := New(Config{})
	_, err := client.CreateSession(context.Background(), models.SessionRequest{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestGetPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/123456", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":123456,"status":"in_process","status_detail":"pending_review_manual","external_reference":"NUM-1","transaction_amount":29.9}`))
	})

	payment, err := client.GetPayment(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", payment.ID)
	assert.Equal(t, models.StatusPending, payment.Status)
	assert.Equal(t, "in_process", payment.RawStatus)
	assert.Equal(t, "NUM-1", payment.ExternalReference)
	assert.Equal(t, int64(2990), payment.AmountCents)
}

func TestGetPaymentRejectsNonNumericID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called")
	})

	_, err := client.GetPayment(context.Background(), "abc")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestGetPaymentNotFound(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Payment not found","error":"not_found","status":404}`))
	})

	_, err := client.GetPayment(context.Background(), "999")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetPaymentRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"status":"approved","external_reference":"NUM-1","transaction_amount":29.9}`))
	})

	payment, err := client.GetPayment(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, payment.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetPaymentGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetPayment(context.Background(), "1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetPaymentHonoursCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetry(3, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.GetPayment(ctx, "1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestRequesterReplaysBody(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	rq := &retryRequester{baseURL: srv.URL, http: srv.Client(), maxRetries: 2}
	req, err := http.NewRequest(http.MethodPost, "https://api.mercadopago.com/checkout/preferences", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)

	resp, err := rq.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{`{"a":1}`, `{"a":1}`}, bodies)
}
