package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/crypto-notifier/internal/application/notification"
	"github.com/crypto-notifier/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) RequestNotification(ctx context.Context, req domain.NotificationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockNotificationSvc) Confirm(ctx context.Context, id string) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *mockNotificationSvc) Unsubscribe(ctx context.Context, id string) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *mockNotificationSvc) DeliverUpdate(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotificationSvc) Stats() notification.Stats {
	return m.Called().Get(0).(notification.Stats)
}

// --- helpers ---

func newTestRouter(svc notification.Service) http.Handler {
	h := NewSubscriptionHandler(svc)
	hh := NewHealthHandler(svc)
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/", h.Request)
	r.Get("/confirm", h.Confirm)
	r.Get("/cancel", h.Cancel)
	r.Get("/health-check/{action}", hh.Ping)
	r.Get("/health", hh.Health)
	return r
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- tests ---

func TestIndex_ListsCurrencies(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(&mockNotificationSvc{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	for _, want := range []string{`value="BTC"`, `value="ETH"`, `value="EUR"`, `value="USD"`, "Bitcoin"} {
		assert.Contains(t, body, want)
	}
}

func TestRequest_Form(t *testing.T) {
	svc := &mockNotificationSvc{}
	want := domain.NotificationRequest{
		Email:            "a@b.com",
		FiatCurrency:     "EUR",
		CryptoCurrencies: []domain.CryptoCurrency{"ETH", "BTC"},
	}
	svc.On("RequestNotification", mock.Anything, want).Return("tok", nil)

	form := url.Values{"email": {" a@b.com "}, "fiat_currency": {"EUR"}, "crypto_currencies": {"ETH", "BTC"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgRequested)
	assert.NotContains(t, rr.Body.String(), "tok")
	svc.AssertExpectations(t)
}

func TestRequest_JSON_SingleCrypto(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("RequestNotification", mock.Anything, domain.NotificationRequest{
		Email:            "a@b.com",
		FiatCurrency:     "USD",
		CryptoCurrencies: []domain.CryptoCurrency{"BTC"},
	}).Return("tok", nil)

	body := `{"email":"a@b.com","fiat_currency":"USD","crypto_currencies":"BTC"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MsgRequested, decodeEnvelope(t, rr).Message)
	svc.AssertExpectations(t)
}

func TestRequest_JSON_ValidationErrors(t *testing.T) {
	svc := &mockNotificationSvc{}

	body := `{"email":"not-an-email","fiat_currency":"JPY","crypto_currencies":["BTC","DOGE"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Contains(t, env.Errors, `Unsupported currency "JPY" in fiat_currency field`)
	assert.Contains(t, env.Errors, `Unsupported currency "DOGE" in crypto_currencies[1] field`)
	assert.Contains(t, env.Errors, "Malformed email field")
	svc.AssertNotCalled(t, "RequestNotification", mock.Anything, mock.Anything)
}

func TestRequest_Form_MissingCryptos(t *testing.T) {
	svc := &mockNotificationSvc{}

	form := url.Values{"email": {"a@b.com"}, "fiat_currency": {"GBP"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing crypto_currencies field")
	// Submitted values are kept in the form.
	assert.Contains(t, rr.Body.String(), `value="a@b.com"`)
	assert.Contains(t, rr.Body.String(), `value="GBP" checked`)
	svc.AssertNotCalled(t, "RequestNotification", mock.Anything, mock.Anything)
}

func TestRequest_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(&mockNotificationSvc{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", decodeEnvelope(t, rr).Error)
}

func TestRequest_ServiceError(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("RequestNotification", mock.Anything, mock.Anything).Return("", errors.New("template exploded"))

	body := `{"email":"a@b.com","fiat_currency":"USD","crypto_currencies":["BTC"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "template exploded")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		known    bool
		wantCode int
		wantBody string
	}{
		{"known id", "/confirm?id=abc", true, http.StatusOK, MsgConfirmed},
		{"unknown id", "/confirm?id=nope", false, http.StatusNotFound, MsgConfirmUnknown},
		{"missing id", "/confirm", false, http.StatusBadRequest, "Missing id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockNotificationSvc{}
			if id := strings.TrimPrefix(tc.target, "/confirm?id="); id != tc.target {
				svc.On("Confirm", mock.Anything, id).Return(tc.known)
			}
			rr := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, nil))

			assert.Equal(t, tc.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		known    bool
		wantCode int
		wantBody string
	}{
		{"active id", "/cancel?id=abc", true, http.StatusOK, MsgCanceled},
		{"unknown id", "/cancel?id=nope", false, http.StatusNotFound, MsgSubscriptionUnknown},
		{"missing id", "/cancel", false, http.StatusBadRequest, "Missing id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockNotificationSvc{}
			if id := strings.TrimPrefix(tc.target, "/cancel?id="); id != tc.target {
				svc.On("Unsubscribe", mock.Anything, id).Return(tc.known)
			}
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			req.Header.Set("Accept", "application/json")
			rr := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.Equal(t, tc.wantBody, env.Message+env.Error)
			svc.AssertExpectations(t)
		})
	}
}

func TestHealth(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Stats").Return(notification.Stats{Pending: 2, Active: 1})

	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var env HealthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, notification.Stats{Pending: 2, Active: 1}, env.Subscriptions)
}

func TestPing(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(&mockNotificationSvc{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", decodeEnvelope(t, rr).Message)

	rr = httptest.NewRecorder()
	newTestRouter(&mockNotificationSvc{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health-check/bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
