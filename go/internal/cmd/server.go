package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	// Register routes
	registerRoutes(mux, services)

	// Add health check endpoint
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerRoutes(mux *http.ServeMux, services *Services) {
	h := newHandlers(services)

	mux.HandleFunc("POST /games", h.createGame)
	mux.HandleFunc("GET /games/{id}", h.getGame)
	mux.HandleFunc("PATCH /games/{id}", h.updateGame)
	mux.HandleFunc("POST /games/{id}/pools", h.attachPoolsToGame)

	mux.HandleFunc("POST /pools", h.createPool)
	mux.HandleFunc("GET /pools/{id}", h.getPool)
	mux.HandleFunc("GET /pools/{id}/games", h.listPoolGames)
	mux.HandleFunc("POST /pools/{id}/games", h.attachGamesToPool)
	mux.HandleFunc("GET /pools/{id}/entries", h.listPoolEntries)

	mux.HandleFunc("POST /entries", h.createEntry)
	mux.HandleFunc("GET /entries/{id}", h.getEntry)
	mux.HandleFunc("PATCH /entries/{id}", h.updateEntry)
	mux.HandleFunc("DELETE /entries/{id}", h.deleteEntry)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Failed to write health check response: %v", err)
		}
	})
}
