package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/crypto-notifier/internal/domain"
	"github.com/crypto-notifier/internal/metrics"
	"github.com/crypto-notifier/internal/pkg/id"
	"github.com/crypto-notifier/internal/scheduler"
)

// Email subjects.
const (
	SubjectConfirmation = "Crypto notifier confirmation email"
	SubjectUpdate       = "Crypto updates"
)

// Service manages the double opt-in lifecycle of price update subscriptions.
//
// An id is either pending (waiting for the confirmation click) or active
// (receiving updates), never both. Unsubscribe is lazy: the recurring task of
// a removed subscription stops itself on its next firing.
type Service interface {
	// RequestNotification stores req as pending and mails a confirmation link.
	// req must already be validated.
	RequestNotification(ctx context.Context, req domain.NotificationRequest) (string, error)
	// Confirm promotes a pending id, sends the first update and schedules the rest.
	Confirm(ctx context.Context, id string) bool
	Unsubscribe(ctx context.Context, id string) bool
	// DeliverUpdate mails one price update. It reports false when id is no
	// longer active, which stops the recurring task.
	DeliverUpdate(ctx context.Context, id string) (bool, error)
	Stats() Stats
}

type Stats struct {
	Pending int `json:"pending"`
	Active  int `json:"active"`
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type quoter interface {
	Quote(ctx context.Context, cryptos []domain.CryptoCurrency, fiat domain.FiatCurrency) (domain.QuoteResult, error)
}

type taskScheduler interface {
	Schedule(task scheduler.Task) error
}

type ServiceDeps struct {
	Mailer        mailer
	Quoter        quoter
	Scheduler     taskScheduler
	PublicRoot    string
	EmailInterval time.Duration
}

type service struct {
	mailer     mailer
	quoter     quoter
	scheduler  taskScheduler
	publicRoot string
	interval   time.Duration
	newID      func() string

	mu      sync.Mutex
	pending map[string]domain.NotificationRequest
	active  map[string]domain.NotificationRequest
}

func NewService(deps ServiceDeps) Service {
	return &service{
		mailer:     deps.Mailer,
		quoter:     deps.Quoter,
		scheduler:  deps.Scheduler,
		publicRoot: deps.PublicRoot,
		interval:   deps.EmailInterval,
		newID:      id.NewToken,
		pending:    make(map[string]domain.NotificationRequest),
		active:     make(map[string]domain.NotificationRequest),
	}
}

func (s *service) RequestNotification(ctx context.Context, req domain.NotificationRequest) (string, error) {
	id := s.newID()
	body, err := renderConfirmation(req, s.link("confirm", id))
	if err != nil {
		return "", fmt.Errorf("render confirmation email: %w", err)
	}

	s.mu.Lock()
	s.pending[id] = req.Clone()
	s.publishCounts()
	s.mu.Unlock()

	slog.Info("notification requested", "id", id, "fiat", req.FiatCurrency, "cryptos", req.Symbols())
	metrics.RecordLifecycle("request", true)
	s.send(ctx, id, req.Email, SubjectConfirmation, body)
	return id, nil
}

func (s *service) Confirm(ctx context.Context, id string) bool {
	s.mu.Lock()
	req, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
		s.active[id] = req
		s.publishCounts()
	}
	s.mu.Unlock()

	metrics.RecordLifecycle("confirm", ok)
	if !ok {
		return false
	}
	slog.Info("subscription confirmed", "id", id)

	// A failed first update must not leave the subscription without its task.
	if _, err := s.DeliverUpdate(ctx, id); err != nil {
		slog.Warn("initial price update failed", "id", id, "err", err)
	}

	err := s.scheduler.Schedule(scheduler.Task{
		Name:     fmt.Sprintf("Notifying %s", req.Email),
		Interval: s.interval,
		Run: func(ctx context.Context) (bool, error) {
			return s.DeliverUpdate(ctx, id)
		},
	})
	if err != nil {
		slog.Error("failed to schedule price updates", "id", id, "err", err)
	}
	return true
}

func (s *service) Unsubscribe(_ context.Context, id string) bool {
	s.mu.Lock()
	_, ok := s.active[id]
	if ok {
		delete(s.active, id)
		s.publishCounts()
	}
	s.mu.Unlock()

	metrics.RecordLifecycle("unsubscribe", ok)
	if ok {
		slog.Info("subscription cancelled", "id", id)
	}
	return ok
}

func (s *service) DeliverUpdate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	req, ok := s.active[id]
	s.mu.Unlock()
	if !ok {
		metrics.RecordDelivery("skipped", 0)
		return false, nil
	}

	start := time.Now()
	quotes, err := s.quoter.Quote(ctx, req.CryptoCurrencies, req.FiatCurrency)
	if err != nil {
		metrics.RecordDelivery("failed", time.Since(start))
		return true, fmt.Errorf("quote %v in %s: %w", req.Symbols(), req.FiatCurrency, err)
	}
	body, err := renderUpdate(req, quotes, s.link("cancel", id))
	if err != nil {
		metrics.RecordDelivery("failed", time.Since(start))
		return true, fmt.Errorf("render price update: %w", err)
	}
	s.send(ctx, id, req.Email, SubjectUpdate, body)
	metrics.RecordDelivery("sent", time.Since(start))
	return true, nil
}

func (s *service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Pending: len(s.pending), Active: len(s.active)}
}

// send is fire-and-forget: failures are logged and never retried.
func (s *service) send(ctx context.Context, id, to, subject, body string) {
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		slog.Warn("failed to send email", "id", id, "subject", subject, "err", err)
	}
}

func (s *service) link(action, id string) string {
	return fmt.Sprintf("%s/%s?id=%s", s.publicRoot, action, url.QueryEscape(id))
}

// publishCounts must be called with s.mu held.
func (s *service) publishCounts() {
	metrics.SetSubscriptions(len(s.pending), len(s.active))
}
