package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/service"
	"pharmapulse/backend/internal/store"
)

const maxBodyBytes = 1 << 20

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	log           *logger.Logger
	loginLimiter  *attemptLimiter
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, log *logger.Logger) *API {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	if log == nil {
		log = logger.Default()
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		log:           log.WithComponent("httpapi"),
		loginLimiter:  newAttemptLimiter(5, time.Minute),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.securityHeaders)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(limitBody)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w)
	})

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)

		r.Group(func(pr chi.Router) {
			pr.Use(a.requireAuth)

			pr.Route("/medicines", func(r chi.Router) {
				r.Get("/", a.handleListMedicines)
				r.Post("/", a.handleCreateMedicine)
				r.Get("/{id}", a.handleGetMedicine)
				r.Patch("/{id}", a.handleUpdateMedicine)
				r.Delete("/{id}", a.handleDeleteMedicine)
				r.Post("/{id}/adjust", a.handleAdjustStock)
			})
			pr.Get("/vendors", a.handleListVendors)

			pr.Post("/checkout", a.handleCheckout)
			pr.Post("/checkout/recommendation", a.handleRecommendation)
			pr.Route("/sales", func(r chi.Router) {
				r.Get("/", a.handleListSales)
				r.Get("/{id}", a.handleGetSale)
				r.Get("/{id}/receipt", a.handleReceipt)
			})

			pr.Route("/orders", func(r chi.Router) {
				r.Get("/suggestions", a.handleOrderSuggestions)
				r.Post("/suggestions/{medicineId}/place", a.handlePlaceOrder)
				r.Post("/place-all", a.handlePlaceAllOrders)
			})

			pr.Get("/dashboard", a.handleDashboard)
			pr.Get("/analytics", a.handleAnalytics)

			pr.Route("/reports", func(r chi.Router) {
				r.Get("/sales.csv", a.handleSalesCSV)
				r.Get("/sales.pdf", a.handleSalesPDF)
				r.Get("/restock.csv", a.handleRestockCSV)
			})

			pr.Get("/settings", a.handleGetSettings)
			pr.Put("/settings", a.handleSaveSettings)
			pr.Get("/settings/regions", a.handleRegions)
			pr.Get("/audit-logs", a.handleAuditLogs)

			pr.Post("/assistant/insights", a.handleAssistantInsights)
			pr.Post("/assistant/ask", a.handleAssistantAsk)
		})
	})

	return r
}

func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(service.WithActor(r.Context(), actor)))
	})
}

func (a *API) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request and hands a request-scoped
// logger to the handlers through the context.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLog := a.log.With("request_id", middleware.GetReqID(r.Context()))
		ctx := logger.WithLogger(r.Context(), reqLog)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		startedAt := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLog.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(startedAt),
		)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return apperror.NewValidation("invalid request body").WithCause(err)
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// writeAppError maps service errors onto HTTP statuses.
func (a *API) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperror.AsAppError(err); ok {
		if appErr.HTTPStatus >= 500 {
			logger.Error(r.Context(), "request failed", "code", appErr.Code, "error", err)
		}
		writeJSON(w, appErr.HTTPStatus, errorBody(appErr))
		return
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, err)
		return
	}
	logger.Error(r.Context(), "request failed", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

func errorBody(appErr *apperror.AppError) errorEnvelope {
	msg := appErr.Message
	if appErr.HTTPStatus >= 500 && appErr.Code == apperror.CodeInternal {
		msg = "internal server error"
	}
	return errorEnvelope{Error: errorPayload{
		Code:    appErr.Code,
		Message: msg,
		Details: appErr.Details,
	}}
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 5xx bodies never carry internal details.
	msg := err.Error()
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, errorEnvelope{Error: errorPayload{
		Code:    statusCode(status),
		Message: msg,
	}})
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return apperror.CodeValidation
	case http.StatusUnauthorized:
		return apperror.CodeUnauthorized
	case http.StatusNotFound:
		return apperror.CodeNotFound
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return apperror.CodeTooManyRequests
	default:
		return apperror.CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDocument(w http.ResponseWriter, doc service.Document, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", disposition+`; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
