package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
	"pharmapulse/backend/internal/service"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.Allow(clientKey(r)) {
		a.writeAppError(w, r, apperror.NewTooManyRequests("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	resp, actor, err := a.auth.Login(req)
	if err != nil {
		a.writeAppError(w, r, apperror.NewUnauthorized("invalid pin"))
		return
	}

	a.service.RecordLogin(service.WithActor(r.Context(), actor))
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleListMedicines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := metrics.InventoryQuery{
		Search:     query.Get("search"),
		Expiry:     query.Get("expiry"),
		Stock:      query.Get("stock"),
		SortKey:    query.Get("sort"),
		Descending: strings.EqualFold(query.Get("order"), "desc"),
		WindowDays: parsePositiveLimit(query.Get("windowDays"), 0, 3650),
	}

	view, err := a.service.ListInventory(r.Context(), q)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medicines": view.Items, "summary": view.Summary})
}

func (a *API) handleCreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req domain.MedicineCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	medicine, err := a.service.CreateMedicine(r.Context(), req)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"medicine": medicine})
}

func (a *API) handleGetMedicine(w http.ResponseWriter, r *http.Request) {
	medicine, err := a.service.GetMedicine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medicine": medicine})
}

func (a *API) handleUpdateMedicine(w http.ResponseWriter, r *http.Request) {
	var req domain.MedicineUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	medicine, err := a.service.UpdateMedicine(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"medicine": medicine})
}

func (a *API) handleDeleteMedicine(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteMedicine(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req domain.StockAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	stock, err := a.service.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.StockAdjustResponse{MedicineID: id, Stock: stock})
}

func (a *API) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := a.service.ListVendors(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": vendors})
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	sale, err := a.service.Checkout(r.Context(), req)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"sale": sale})
}

func (a *API) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	resp, err := a.service.Recommend(r.Context(), req)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// salesQuery reads search, from and to (YYYY-MM-DD) from the query string.
func salesQuery(r *http.Request) (metrics.SalesQuery, error) {
	query := r.URL.Query()
	q := metrics.SalesQuery{Search: query.Get("search")}
	for _, bound := range []struct {
		key  string
		dest **domain.Date
	}{{"from", &q.From}, {"to", &q.To}} {
		raw := strings.TrimSpace(query.Get(bound.key))
		if raw == "" {
			continue
		}
		day, err := domain.ParseDate(raw)
		if err != nil {
			return metrics.SalesQuery{}, apperror.NewValidation("invalid date").WithDetail(bound.key, raw)
		}
		*bound.dest = &day
	}
	return q, nil
}

func (a *API) handleListSales(w http.ResponseWriter, r *http.Request) {
	q, err := salesQuery(r)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	sales, err := a.service.ListSales(r.Context(), q)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
}

func (a *API) handleGetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := a.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
}

func (a *API) handleReceipt(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	doc, err := a.service.Receipt(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeDocument(w, doc, format != service.ReceiptFormatPDF)
}

func (a *API) handleOrderSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := a.service.OrderSuggestions(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	placed, err := a.service.PlaceOrder(r.Context(), chi.URLParam(r, "medicineId"))
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"placed": placed})
}

func (a *API) handlePlaceAllOrders(w http.ResponseWriter, r *http.Request) {
	placed, err := a.service.PlaceAllOrders(r.Context())
	if err != nil && len(placed) == 0 {
		a.writeAppError(w, r, err)
		return
	}

	body := map[string]any{"placed": placed}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Dashboard(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Analytics(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleSalesCSV(w http.ResponseWriter, r *http.Request) {
	q, err := salesQuery(r)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	doc, err := a.service.SalesCSV(r.Context(), q)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeDocument(w, doc, false)
}

func (a *API) handleSalesPDF(w http.ResponseWriter, r *http.Request) {
	q, err := salesQuery(r)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	doc, err := a.service.SalesPDF(r.Context(), q)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeDocument(w, doc, false)
}

func (a *API) handleRestockCSV(w http.ResponseWriter, r *http.Request) {
	doc, err := a.service.RestockCSV(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeDocument(w, doc, false)
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

func (a *API) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.AppSettings
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	settings, err := a.service.SaveSettings(r.Context(), req)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

func (a *API) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": a.service.Regions()})
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 50, 200)
	logs, err := a.service.ListAuditLogs(r.Context(), limit)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"auditLogs": logs})
}

func (a *API) handleAssistantInsights(w http.ResponseWriter, r *http.Request) {
	text, err := a.service.BusinessInsights(r.Context())
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": text})
}

func (a *API) handleAssistantAsk(w http.ResponseWriter, r *http.Request) {
	var req domain.AssistantQuery
	if err := decodeJSON(r, &req); err != nil {
		a.writeAppError(w, r, err)
		return
	}

	answer, err := a.service.Ask(r.Context(), req.Query)
	if err != nil {
		a.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.AssistantAnswer{Answer: answer})
}
