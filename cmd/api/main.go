package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cardledger/internal/config"
	"github.com/MrJamesThe3rd/cardledger/internal/customer"
	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
	ledgerHttp "github.com/MrJamesThe3rd/cardledger/internal/http"
	customerHandler "github.com/MrJamesThe3rd/cardledger/internal/http/customer"
	fraudHandler "github.com/MrJamesThe3rd/cardledger/internal/http/fraud"
	statsHandler "github.com/MrJamesThe3rd/cardledger/internal/http/statistics"
	systemHandler "github.com/MrJamesThe3rd/cardledger/internal/http/system"
	txHandler "github.com/MrJamesThe3rd/cardledger/internal/http/transaction"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/cardledger/internal/stats"
	"github.com/MrJamesThe3rd/cardledger/internal/system"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st := store.New()

	f, err := os.Open(cfg.Data.CSVPath)
	if err != nil {
		slog.Error("failed to open dataset", "path", cfg.Data.CSVPath, "error", err)
		os.Exit(1)
	}

	result, err := st.Load(f)
	f.Close()

	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	slog.Info("dataset loaded",
		"accepted", result.Accepted,
		"rejected", len(result.Rejected),
		"snapshot", result.SnapshotID,
	)

	var (
		scorer          = fraud.NewScorer(cfg.Fraud.Threshold)
		ledgerService   = ledger.NewService(st)
		statsService    = stats.NewService(scorer)
		customerService = customer.NewService(st)
		systemService   = system.NewService(st, cfg.Data.CSVPath, cfg.App.Version)
	)

	var (
		transactionH = txHandler.NewHandler(ledgerService)
		customerH    = customerHandler.NewHandler(customerService)
		statisticsH  = statsHandler.NewHandler(st, statsService)
		fraudH       = fraudHandler.NewHandler(st, scorer)
		systemH      = systemHandler.NewHandler(systemService)
	)

	router := ledgerHttp.New(transactionH, customerH, statisticsH, fraudH, systemH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
