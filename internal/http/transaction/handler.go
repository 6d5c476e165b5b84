package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/recent", h.recent)
	r.Get("/types", h.types)
	r.Get("/customer/{customerID}", h.byCustomer)
	r.Get("/merchant/{merchantID}", h.byMerchant)
	r.Get("/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.List(page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Search(filter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", paginate.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Recent(limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *Handler) types(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.ChannelCounts()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]channelCountResponse, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, channelCountResponse{Type: string(c.Channel), Count: c.Count})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) byCustomer(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.ByCustomer(chi.URLParam(r, "customerID"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *Handler) byMerchant(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.ByMerchant(chi.URLParam(r, "merchantID"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	var filter ledger.Filter

	q := r.URL.Query()

	if v := q.Get("client_id"); v != "" {
		filter.CustomerID = &v
	}

	if v := q.Get("merchant_city"); v != "" {
		filter.MerchantCity = &v
	}

	if v := q.Get("use_chip"); v != "" {
		ch := ledger.Channel(v)
		filter.Channel = &ch
	}

	if v := q.Get("min_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("%w: bad min_amount", ledger.ErrInvalidFilter)
		}

		filter.MinAmount = &d
	}

	if v := q.Get("max_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("%w: bad max_amount", ledger.ErrInvalidFilter)
		}

		filter.MaxAmount = &d
	}

	return filter, nil
}

func pageParams(r *http.Request) (int, int, error) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}

	limit, err := intParam(r, "limit", paginate.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}

	return page, limit, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", paginate.ErrInvalidParams, name)
	}

	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrMerchantNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidFilter), errors.Is(err, paginate.ErrInvalidParams):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotLoaded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
