package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/content"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// StrategyLister lists the content strategies shown in the dashboard picker.
type StrategyLister interface {
	Strategies() []content.Strategy
}

// PublicHandler handles public API endpoints
type PublicHandler struct {
	Strategies  StrategyLister
	Environment string
	startedAt   time.Time
	now         func() time.Time
}

// NewPublicHandler creates a new instance of PublicHandler
func NewPublicHandler(strategies StrategyLister, environment string) *PublicHandler {
	return &PublicHandler{
		Strategies:  strategies,
		Environment: environment,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

// Root is the plain-text liveness check.
// GET /
func (h *PublicHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "✅ DailyDiff Backend is Active")
}

// Health reports process status.
// GET /health
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "active",
		"timestamp":   now.UTC().Format(time.RFC3339),
		"uptime":      now.Sub(h.startedAt).Seconds(),
		"environment": h.Environment,
		"version":     Version,
	})
}

// ContentStrategies lists the available content strategies.
// GET /api/content-strategies
func (h *PublicHandler) ContentStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"strategies": h.Strategies.Strategies()})
}
