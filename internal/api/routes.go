package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Analytics and order-preview routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analytics/differentials", handler.GetDifferentials).Methods("GET")
	api.HandleFunc("/analytics/factors", handler.GetFactors).Methods("GET")
	api.HandleFunc("/analytics/{symbol}/windows", handler.GetWindowStats).Methods("GET")
	api.HandleFunc("/orders/preview", handler.PreviewOrder).Methods("POST")

	return r
}
