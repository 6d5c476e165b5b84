package system

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/system"
)

type Handler struct {
	svc *system.Service
}

func NewHandler(svc *system.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/metadata", h.metadata)
	r.Post("/reload", h.reload)
}

type healthResponse struct {
	Status         string  `json:"status"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

type metadataResponse struct {
	TotalTransactionCount int       `json:"total_transaction_count"`
	SnapshotID            string    `json:"snapshot_id"`
	DataLoadDate          time.Time `json:"data_load_date"`
	APIVersion            string    `json:"api_version"`
	MinDate               time.Time `json:"min_date"`
	MaxDate               time.Time `json:"max_date"`
}

type rejectedRowResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type reloadResponse struct {
	Accepted   int                   `json:"accepted"`
	Rejected   []rejectedRowResponse `json:"rejected"`
	SnapshotID string                `json:"snapshot_id"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Health()

	writeJSON(w, http.StatusOK, healthResponse{
		Status:         status.Status,
		ResponseTimeMS: status.ResponseTimeMS,
	})
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.svc.Metadata()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, metadataResponse{
		TotalTransactionCount: meta.TotalTransactionCount,
		SnapshotID:            meta.SnapshotID.String(),
		DataLoadDate:          meta.DataLoadDate,
		APIVersion:            meta.APIVersion,
		MinDate:               meta.MinDate,
		MaxDate:               meta.MaxDate,
	})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Reload()
	if err != nil {
		writeError(w, err)
		return
	}

	rejected := make([]rejectedRowResponse, 0, len(result.Rejected))
	for _, row := range result.Rejected {
		rejected = append(rejected, rejectedRowResponse{Line: row.Line, Reason: row.Reason})
	}

	slog.Info("dataset reloaded", "accepted", result.Accepted, "rejected", len(rejected))

	writeJSON(w, http.StatusOK, reloadResponse{
		Accepted:   result.Accepted,
		Rejected:   rejected,
		SnapshotID: result.SnapshotID.String(),
	})
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
	case errors.Is(err, ledger.ErrNotLoaded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ledger.ErrEmptyDataset):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
