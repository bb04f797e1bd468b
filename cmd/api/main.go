package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crypto-notifier/internal/application/notification"
	"github.com/crypto-notifier/internal/config"
	"github.com/crypto-notifier/internal/infrastructure/coinmarketcap"
	"github.com/crypto-notifier/internal/infrastructure/smtp"
	"github.com/crypto-notifier/internal/infrastructure/sns"
	"github.com/crypto-notifier/internal/infrastructure/stream"
	"github.com/crypto-notifier/internal/scheduler"
	transporthttp "github.com/crypto-notifier/internal/transport/http"
	appmiddleware "github.com/crypto-notifier/internal/transport/http/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	m, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	sched := scheduler.New()
	svc := notification.NewService(notification.ServiceDeps{
		Mailer:        m,
		Quoter:        coinmarketcap.NewQuoter(cfg),
		Scheduler:     sched,
		PublicRoot:    cfg.PublicEndpoint,
		EmailInterval: cfg.EmailInterval,
	})

	signupRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.SignupRatePerSec), cfg.SignupBurst)
	defer signupRL.Close()

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Notifications: svc,
		SignupLimiter: signupRL,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, mail=%s, interval=%s)", cfg.AppPort, cfg.AppEnv, cfg.MailTransport, cfg.EmailInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if err := sched.Stop(ctx); err != nil {
		log.Printf("scheduler stop: %v", err)
	}
	log.Println("Server stopped")
}

func newMailer(cfg *config.Config) (mailer, error) {
	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		return smtp.NewMailer(cfg), nil
	case config.MailTransportSNS:
		m, err := sns.NewMailer(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return stream.NewMailer(cfg.EmailSender, os.Stdout), nil
	}
}
