package customer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/customer"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

type Handler struct {
	svc *customer.Service
}

func NewHandler(svc *customer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/top", h.top)
	r.Get("/{customerID}", h.details)
}

type summaryResponse struct {
	CustomerID       string `json:"customer_id"`
	TransactionCount int    `json:"transaction_count"`
}

type detailsResponse struct {
	CustomerID       string          `json:"customer_id"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AverageAmount    decimal.Decimal `json:"average_amount"`
}

type topResponse struct {
	CustomerID       string          `json:"customer_id"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

type paginationResponse struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
}

type pageResponse struct {
	Data       []summaryResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, err)
		return
	}

	limit, err := intParam(r, "limit", paginate.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.List(page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]summaryResponse, 0, len(result.Items))
	for _, s := range result.Items {
		data = append(data, summaryResponse{
			CustomerID:       s.CustomerID,
			TransactionCount: s.TransactionCount,
		})
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Data: data,
		Pagination: paginationResponse{
			Page:        result.Page,
			Limit:       result.Limit,
			TotalCount:  result.TotalCount,
			TotalPages:  result.TotalPages,
			HasNextPage: result.HasNextPage,
		},
	})
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.Details(chi.URLParam(r, "customerID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailsResponse{
		CustomerID:       details.CustomerID,
		TransactionCount: details.TransactionCount,
		TotalAmount:      details.TotalAmount,
		AverageAmount:    details.AverageAmount,
	})
}

func (h *Handler) top(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 10)
	if err != nil {
		writeError(w, err)
		return
	}

	ranked, err := h.svc.Top(n)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]topResponse, 0, len(ranked))
	for _, c := range ranked {
		resp = append(resp, topResponse{
			CustomerID:       c.CustomerID,
			TransactionCount: c.TransactionCount,
			TotalAmount:      c.TotalAmount,
		})
	}

	writeJSON(w, http.StatusOK, resp)
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
	case errors.Is(err, ledger.ErrCustomerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, paginate.ErrInvalidParams):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotLoaded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
