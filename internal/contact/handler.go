package contact

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/galaxyfolio/backend/internal/metrics"
	"github.com/galaxyfolio/backend/internal/ratelimit"
)

// Mailer submits a composed email and returns the provider message
// identifier. Exactly one attempt per call; retry policy belongs to
// the caller and no caller retries here.
type Mailer interface {
	Send(ctx context.Context, email *Email) (string, error)
}

// Response is the JSON body every endpoint returns. Success and
// Message are always present; the rest are additive and optional.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	MessageID  string `json:"messageId,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Handler orchestrates the submission pipeline: rate-limit check,
// validation, composition, send, response.
type Handler struct {
	limiter  ratelimit.Store
	composer *Composer
	mailer   Mailer
	log      *slog.Logger
	devMode  bool
}

// NewHandler creates a contact endpoint handler
func NewHandler(limiter ratelimit.Store, composer *Composer, mailer Mailer, log *slog.Logger, devMode bool) *Handler {
	return &Handler{
		limiter:  limiter,
		composer: composer,
		mailer:   mailer,
		log:      log,
		devMode:  devMode,
	}
}

// Submit handles POST /api/contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	res, err := h.limiter.Consume(r.Context(), ip)
	switch {
	case err != nil:
		// Counter store unreachable. Fail open: throttling protects the
		// owner's inbox, it must not take the form down with it.
		h.log.Warn("rate limit store unavailable", "error", err, "client_ip", ip)
	case !res.Allowed:
		metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
		writeJSON(w, http.StatusTooManyRequests, Response{
			Success:    false,
			Message:    "Too many requests. Please try again later.",
			RetryAfter: res.RetryAfter,
		})
		return
	}

	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	sub, err = Validate(sub)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: verr.Reason})
			return
		}
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	email, err := h.composer.Compose(sub)
	if err != nil {
		h.log.Error("compose failed", "error", err)
		h.writeSendFailure(w, err)
		return
	}

	start := time.Now()
	messageID, err := h.mailer.Send(r.Context(), email)
	metrics.MailSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		h.log.Error("mail send failed", "error", err, "client_ip", ip)
		h.writeSendFailure(w, err)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("sent").Inc()
	h.log.Info("contact message relayed", "message_id", messageID, "client_ip", ip)
	writeJSON(w, http.StatusOK, Response{
		Success:   true,
		Message:   "Message sent successfully! I'll get back to you soon.",
		MessageID: messageID,
	})
}

// writeSendFailure responds with a generic 500. The underlying cause
// is included only in development mode so infrastructure details do
// not leak to callers.
func (h *Handler) writeSendFailure(w http.ResponseWriter, err error) {
	resp := Response{
		Success: false,
		Message: "Failed to send message. Please try again later.",
	}
	if h.devMode {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// clientIP returns the throttling key for a request. middleware.RealIP
// has already folded X-Forwarded-For/X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON writes a Response with the given status code
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
