package http

import (
	"github.com/crypto-notifier/internal/application/notification"
	appmiddleware "github.com/crypto-notifier/internal/transport/http/middleware"
)

// Deps holds the application services and shared middleware the router wires.
type Deps struct {
	Notifications notification.Service
	// SignupLimiter throttles POST /. A nil limiter disables throttling.
	SignupLimiter *appmiddleware.RateLimiter
}
