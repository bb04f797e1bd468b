package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/crypto-notifier/internal/application/notification"
	"github.com/crypto-notifier/internal/domain"
	"github.com/crypto-notifier/internal/pkg/validate"
)

// Response messages shown on the page and in JSON envelopes.
const (
	MsgRequested           = "A confirmation email has been sent! Please click the confirmation link"
	MsgConfirmed           = "Successfully signed up for updates"
	MsgConfirmUnknown      = "Confirmation unknown"
	MsgCanceled            = "Canceled subscription"
	MsgSubscriptionUnknown = "Subscription unknown"
)

// SubscriptionHandler serves the sign-up page and the confirm/cancel links.
type SubscriptionHandler struct {
	svc notification.Service
}

func NewSubscriptionHandler(svc notification.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) Index(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, http.StatusOK, newPageView())
}

// Request accepts a form post or a JSON body.
func (h *SubscriptionHandler) Request(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.respond(w, r, http.StatusBadRequest, MessageEnvelope{Error: "invalid request body"}, nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		env := MessageEnvelope{Error: "invalid request"}
		var verr *validate.Error
		if errors.As(err, &verr) {
			env.Errors = verr.Messages
		}
		h.respond(w, r, statusFor(err), env, &req)
		return
	}
	if _, err := h.svc.RequestNotification(r.Context(), req); err != nil {
		slog.Error("failed to request notification", "err", err)
		h.respond(w, r, statusFor(err), MessageEnvelope{Error: "could not process request"}, &req)
		return
	}
	h.respond(w, r, http.StatusOK, MessageEnvelope{Message: MsgRequested}, nil)
}

func (h *SubscriptionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.respond(w, r, http.StatusBadRequest, MessageEnvelope{Error: "Missing id"}, nil)
		return
	}
	if !h.svc.Confirm(r.Context(), id) {
		h.respond(w, r, http.StatusNotFound, MessageEnvelope{Error: MsgConfirmUnknown}, nil)
		return
	}
	h.respond(w, r, http.StatusOK, MessageEnvelope{Message: MsgConfirmed}, nil)
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.respond(w, r, http.StatusBadRequest, MessageEnvelope{Error: "Missing id"}, nil)
		return
	}
	if !h.svc.Unsubscribe(r.Context(), id) {
		h.respond(w, r, http.StatusNotFound, MessageEnvelope{Error: MsgSubscriptionUnknown}, nil)
		return
	}
	h.respond(w, r, http.StatusOK, MessageEnvelope{Message: MsgCanceled}, nil)
}

// respond writes env as JSON for API clients and as the sign-up page otherwise.
// A non-nil prefill keeps the submitted values in the form.
func (h *SubscriptionHandler) respond(w http.ResponseWriter, r *http.Request, status int, env MessageEnvelope, prefill *domain.NotificationRequest) {
	if wantsJSON(r) {
		writeJSON(w, status, env)
		return
	}
	view := newPageView()
	view.Success = env.Message
	switch {
	case len(env.Errors) > 0:
		view.Errors = env.Errors
	case env.Error != "":
		view.Errors = []string{env.Error}
	}
	if prefill != nil {
		view.Email = prefill.Email
		if prefill.FiatCurrency != "" {
			view.Fiat = prefill.FiatCurrency
		}
	}
	renderPage(w, status, view)
}

func wantsJSON(r *http.Request) bool {
	if isJSON(r.Header.Get("Content-Type")) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// cryptoList decodes either a single code or a list of codes.
type cryptoList []domain.CryptoCurrency

func (l *cryptoList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = cryptoList{domain.CryptoCurrency(one)}
		return nil
	}
	var many []domain.CryptoCurrency
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

func decodeRequest(r *http.Request) (domain.NotificationRequest, error) {
	if isJSON(r.Header.Get("Content-Type")) {
		var body struct {
			Email            string              `json:"email"`
			FiatCurrency     domain.FiatCurrency `json:"fiat_currency"`
			CryptoCurrencies cryptoList          `json:"crypto_currencies"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return domain.NotificationRequest{}, err
		}
		return domain.NotificationRequest{
			Email:            strings.TrimSpace(body.Email),
			FiatCurrency:     body.FiatCurrency,
			CryptoCurrencies: body.CryptoCurrencies,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return domain.NotificationRequest{}, err
	}
	req := domain.NotificationRequest{
		Email:        strings.TrimSpace(r.PostForm.Get("email")),
		FiatCurrency: domain.FiatCurrency(r.PostForm.Get("fiat_currency")),
	}
	for _, c := range r.PostForm["crypto_currencies"] {
		req.CryptoCurrencies = append(req.CryptoCurrencies, domain.CryptoCurrency(c))
	}
	return req, nil
}
