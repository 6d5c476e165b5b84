package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cardledger/internal/http/customer"
	"github.com/MrJamesThe3rd/cardledger/internal/http/fraud"
	"github.com/MrJamesThe3rd/cardledger/internal/http/statistics"
	"github.com/MrJamesThe3rd/cardledger/internal/http/system"
	"github.com/MrJamesThe3rd/cardledger/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	customersV1 *customer.Handler,
	statisticsV1 *statistics.Handler,
	fraudV1 *fraud.Handler,
	systemV1 *system.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/customers", customersV1.Routes)
		r.Route("/statistics", statisticsV1.Routes)
		r.Route("/fraud", fraudV1.Routes)
		r.Route("/system", systemV1.Routes)
	})

	return router
}
