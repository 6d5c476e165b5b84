package statistics

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/stats"
)

type Handler struct {
	repo ledger.Repository
	svc  *stats.Service
}

func NewHandler(repo ledger.Repository, svc *stats.Service) *Handler {
	return &Handler{repo: repo, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/daily", h.daily)
	r.Get("/amounts", h.amounts)
	r.Get("/channels", h.channels)
	r.Get("/types", h.types)
}

type overviewResponse struct {
	TotalCount    int             `json:"total_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	FraudRate     float64         `json:"fraud_rate"`
	MinDate       time.Time       `json:"min_date"`
	MaxDate       time.Time       `json:"max_date"`
}

type dailyResponse struct {
	Date          string          `json:"date"`
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

type bucketResponse struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type groupResponse struct {
	Type          string          `json:"type"`
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	o := h.svc.Overview(records)

	writeJSON(w, http.StatusOK, overviewResponse{
		TotalCount:    o.TotalCount,
		TotalAmount:   o.TotalAmount,
		AverageAmount: o.AverageAmount,
		FraudRate:     o.FraudRate,
		MinDate:       o.MinDate,
		MaxDate:       o.MaxDate,
	})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	daily := h.svc.Daily(records)

	resp := make([]dailyResponse, 0, len(daily))
	for _, d := range daily {
		resp = append(resp, dailyResponse{
			Date:          d.Date,
			Count:         d.Count,
			TotalAmount:   d.TotalAmount,
			AverageAmount: d.AverageAmount,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) amounts(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	buckets := h.svc.AmountDistribution(records)

	resp := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp = append(resp, bucketResponse{Range: b.Range, Count: b.Count, Percentage: b.Percentage})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) channels(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponses(h.svc.ByChannel(records)))
}

func (h *Handler) types(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponses(h.svc.ByCategory(records)))
}

func toGroupResponses(groups []stats.GroupStat) []groupResponse {
	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, groupResponse{
			Type:          g.Key,
			Count:         g.Count,
			TotalAmount:   g.TotalAmount,
			AverageAmount: g.AverageAmount,
		})
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrNotLoaded) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	slog.Error("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
