package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smart-parking-lot/internal/parking"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
	hub        *Hub
}

// NewServer wires the HTTP surface around an already-constructed lot. The
// hub is registered as a lot observer so connected websocket clients see
// every state change.
func NewServer(port string, lot *parking.InstrumentedParkingLot) *Server {
	handler := NewHandler(lot)
	hub := NewHub()

	lot.AddObserver(func(pl *parking.ParkingLot) {
		hub.BroadcastStatus(statusFromLot(pl))
	})

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(TracingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/parking-lot", func(r chi.Router) {
		r.Post("/cars", handler.AddCar)
		r.Delete("/cars/{plate}", handler.RemoveCar)
		r.Get("/cars/{plate}", handler.FindCar)
		r.Get("/status", handler.GetStatus)
		r.Get("/stats", handler.GetStats)
		r.Get("/history", handler.GetHistory)
		r.Get("/ws", hub.ServeWS)
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		hub:        hub,
	}
}

func (s *Server) Start() error {
	go s.hub.Run()

	log.Printf("Starting HTTP server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
