// Package httpapi exposes the reconciliation engine over HTTP. The
// handlers translate between the JSON contract the dashboard UI speaks
// and the service operations; no reconciliation logic lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
	"github.com/sycamoredash/statusboard/pkg/statusboard"
)

// Handler routes the dashboard API onto a Service.
type Handler struct {
	svc    *statusboard.Service
	logger *zap.Logger
	mux    *http.ServeMux
	now    func() time.Time
}

// New builds the API handler. The clock is injectable for tests via
// WithClock.
func New(svc *statusboard.Service, logger *zap.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger, now: time.Now}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/weeks", h.handleWeeks)
	mux.HandleFunc("GET /api/data", h.handleData)
	mux.HandleFunc("GET /api/search", h.handleSearch)

	mux.HandleFunc("GET /api/customers", h.handleListCustomers)
	mux.HandleFunc("POST /api/customers", h.handleAddCustomer)
	mux.HandleFunc("GET /api/customers/{name}", h.handleGetCustomer)
	mux.HandleFunc("DELETE /api/customers/{name}", h.handleDeleteCustomer)
	mux.HandleFunc("PUT /api/customers/{name}/data", h.handleSaveCustomerData)
	mux.HandleFunc("GET /api/customers/{name}/export", h.handleExport)

	mux.HandleFunc("GET /api/customers/{name}/product-update", h.handleGetProductUpdate)
	mux.HandleFunc("PUT /api/customers/{name}/product-update", h.handlePutProductUpdate)
	mux.HandleFunc("GET /api/customers/{name}/client-specific-details", h.handleGetClientDetails)
	mux.HandleFunc("PUT /api/customers/{name}/client-specific-details", h.handlePutClientDetails)
	mux.HandleFunc("GET /api/customers/{name}/tracker", h.handleGetTracker)
	mux.HandleFunc("PUT /api/customers/{name}/tracker", h.handlePutTracker)
	mux.HandleFunc("GET /api/customers/{name}/project-list", h.handleGetProjectList)
	mux.HandleFunc("PUT /api/customers/{name}/project-list", h.handlePutProjectList)

	mux.HandleFunc("GET /api/weekly-update", h.handleGetWeeklyUpdate)
	mux.HandleFunc("POST /api/weekly-update", h.handlePostWeeklyUpdate)

	mux.HandleFunc("POST /api/cache/clear", h.handleClearCaches)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	h.mux = mux
	return h
}

// WithClock replaces the handler's clock.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// week returns the request's week parameter, defaulting to the
// current ISO week.
func (h *Handler) week(r *http.Request) string {
	if week := r.URL.Query().Get("week"); week != "" {
		return week
	}
	return statusboard.CurrentWeek(h.now())
}

func (h *Handler) handleWeeks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Weeks(h.now()))
}

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.WeekData(r.Context(), h.week(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data.Records)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Search(r.Context(), h.week(r), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers(r.Context(), h.week(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Customer(r.Context(), h.week(r), r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerName string                     `json:"customerName"`
		CustomerData statusboard.CustomerRecord `json:"customerData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.AddCustomer(r.Context(), h.week(r), body.CustomerName, &body.CustomerData); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCustomer(r.Context(), r.PathValue("name")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleSaveCustomerData(w http.ResponseWriter, r *http.Request) {
	edits, err := decodeEdits(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid edit payload")
		return
	}
	if err := h.svc.SaveCustomerEdits(r.Context(), h.week(r), r.PathValue("name"), edits); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.Export(r.Context(), h.week(r), r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleGetProductUpdate(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.ProductUpdate(r.Context(), h.week(r), r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

func (h *Handler) handlePutProductUpdate(w http.ResponseWriter, r *http.Request) {
	var u statusboard.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SaveProductUpdate(r.Context(), h.week(r), r.PathValue("name"), &u); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGetClientDetails(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.ClientDetails(r.Context(), h.week(r), r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": d})
}

func (h *Handler) handlePutClientDetails(w http.ResponseWriter, r *http.Request) {
	var d statusboard.ClientSpecificDetails
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SaveClientDetails(r.Context(), h.week(r), r.PathValue("name"), &d); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGetTracker(w http.ResponseWriter, r *http.Request) {
	year := h.now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	entries, err := h.svc.TrackerEntries(r.Context(), r.PathValue("name"), year)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *Handler) handlePutTracker(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date    string  `json:"date"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Date == "" || body.Content == nil {
		writeError(w, http.StatusBadRequest, "missing date or content")
		return
	}
	if err := h.svc.SaveTrackerEntry(r.Context(), r.PathValue("name"), body.Date, *body.Content); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGetProjectList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ProjectListEntries(r.Context(), r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *Handler) handlePutProjectList(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Year    string  `json:"year"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Year == "" || body.Content == nil {
		writeError(w, http.StatusBadRequest, "missing year or content")
		return
	}
	if err := h.svc.SaveProjectListEntry(r.Context(), r.PathValue("name"), body.Year, *body.Content); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleGetWeeklyUpdate(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.WeeklyUpdateText(r.Context(), h.week(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handlePostWeeklyUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SaveWeeklyUpdate(r.Context(), h.week(r), body.Text); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleClearCaches(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearCaches()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// decodeEdits reads only the three category lists out of the request
// body, ignoring side-channel keys like _logoUrl.
func decodeEdits(r *http.Request) (statusboard.Edits, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	edits := make(statusboard.Edits)
	for _, category := range []string{
		statusboard.CategoryClient,
		statusboard.CategorySycamore,
		statusboard.CategoryBoth,
	} {
		msg, ok := raw[category]
		if !ok {
			continue
		}
		var items []string
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, err
		}
		edits[category] = statusboard.ParseFieldStrings(items)
	}
	return edits, nil
}

// fail maps engine errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, statusboard.ErrCustomerNotFound),
		errors.Is(err, gridstore.ErrSheetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, statusboard.ErrCustomerExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, statusboard.ErrSourceNotConfigured),
		errors.Is(err, statusboard.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
