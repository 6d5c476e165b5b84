package fraud

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

type Handler struct {
	repo   ledger.Repository
	scorer *fraud.Scorer
}

func NewHandler(repo ledger.Repository, scorer *fraud.Scorer) *Handler {
	return &Handler{repo: repo, scorer: scorer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/channels", h.channels)
	r.Get("/categories", h.categories)
	r.Get("/score/{id}", h.score)
}

type predictionResponse struct {
	FraudScore float64  `json:"fraud_score"`
	Flagged    bool     `json:"flagged"`
	Reasons    []string `json:"reasons"`
}

type summaryResponse struct {
	TotalFraudCount  int             `json:"total_fraud_count"`
	FraudRate        float64         `json:"fraud_rate"`
	TotalFraudAmount decimal.Decimal `json:"total_fraud_amount"`
}

type groupResponse struct {
	Type        string          `json:"type"`
	FraudCount  int             `json:"fraud_count"`
	TotalCount  int             `json:"total_count"`
	FraudRate   float64         `json:"fraud_rate"`
	FraudAmount decimal.Decimal `json:"fraud_amount"`
}

func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	pred := h.scorer.Evaluate(rec)

	writeJSON(w, http.StatusOK, predictionResponse{
		FraudScore: pred.Score,
		Flagged:    pred.Flagged,
		Reasons:    pred.Reasons,
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	s := h.scorer.Summary(records)

	writeJSON(w, http.StatusOK, summaryResponse{
		TotalFraudCount:  s.FraudCount,
		FraudRate:        s.FraudRate,
		TotalFraudAmount: s.FraudAmount,
	})
}

func (h *Handler) channels(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponses(h.scorer.ByChannel(records)))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.All()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponses(h.scorer.ByCategory(records)))
}

func toGroupResponses(groups []fraud.GroupStats) []groupResponse {
	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, groupResponse{
			Type:        g.Key,
			FraudCount:  g.FraudCount,
			TotalCount:  g.TotalCount,
			FraudRate:   g.FraudRate,
			FraudAmount: g.FraudAmount,
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
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrNotLoaded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
