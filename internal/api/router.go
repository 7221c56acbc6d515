/**
 * @description
 * This file sets up the HTTP router for the notification-service using the
 * go-chi/chi router. The endpoints are the public signup surface of the MoneyPay
 * front end, so the CORS policy is deliberately wide open: any origin, POST and
 * OPTIONS only, Content-Type as the only custom header.
 *
 * Contract details the front end depends on:
 * - OPTIONS on any endpoint answers 200 with the CORS headers and an empty body.
 * - Any other method than POST/OPTIONS answers 405 {"error":"Method not allowed"}.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the notification-service routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300, // Maximum value not ignored by any major browsers
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method not allowed"}`))
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Notification service is healthy"))
	})

	r.Post("/send-otp", h.HandleSendOTP)
	r.Post("/verify-otp", h.HandleVerifyOTP)
	r.Post("/send-transaction-alert", h.HandleSendTransactionAlert)
	r.Post("/send-email", h.HandleSendEmail)

	// Bare OPTIONS (no preflight headers) still gets a 200; the cors middleware
	// only answers real preflights.
	for _, path := range []string{"/send-otp", "/verify-otp", "/send-transaction-alert", "/send-email"} {
		r.Options(path, handleBareOptions)
	}

	return r
}

func handleBareOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}
