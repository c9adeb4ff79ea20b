package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-parking-lot/internal/config"
	"smart-parking-lot/internal/parking"
	"smart-parking-lot/internal/server"
)

var mode = flag.String("mode", "cli", "Mode to run: cli, server, or both")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider()
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// The lot is constructed exactly once here and handed to every
	// front-end; nothing else may create or replace it.
	lot, err := parking.NewInstrumentedParkingLot(
		parking.NewParkingLot(cfg.Lot.Capacity, parking.HourlyPricing(cfg.Lot.RatePerHour)),
		telemetryProvider,
	)
	if err != nil {
		log.Fatalf("Failed to create parking lot: %v", err)
	}

	lot.AddObserver(func(pl *parking.ParkingLot) {
		log.Printf("Lot changed: %d/%d spots occupied, %d sessions archived",
			pl.OccupiedSpots(), pl.TotalSpots(), len(pl.History()))
	})

	log.Printf("Created parking lot: capacity=%d rate=%.2f/h env=%s",
		cfg.Lot.Capacity, cfg.Lot.RatePerHour, cfg.Env)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "cli":
		runCLI(ctx, cancel, lot, telemetryProvider, sigChan)
	case "server":
		runServer(ctx, cancel, cfg, lot, telemetryProvider, sigChan)
	case "both":
		runBoth(ctx, cancel, cfg, lot, telemetryProvider, sigChan)
	default:
		log.Fatalf("Invalid mode: %s. Must be cli, server, or both", *mode)
	}
}

func runCLI(ctx context.Context, cancel context.CancelFunc, lot *parking.InstrumentedParkingLot, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	shell := parking.NewInstrumentedShell(lot, telemetryProvider)
	shell.Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, lot *parking.InstrumentedParkingLot, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(cfg.HTTPServer.Port, lot)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting server mode on port %s", cfg.HTTPServer.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server error: %v", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, lot *parking.InstrumentedParkingLot, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(cfg.HTTPServer.Port, lot)

	serverDone := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.HTTPServer.Port)
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		shell := parking.NewInstrumentedShell(lot, telemetryProvider)
		shell.Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	case <-cliDone:
		log.Println("CLI exited")
	case <-ctx.Done():
		log.Println("Context cancelled")
	}

	shutdownTelemetry(telemetryProvider)
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	log.Println("Shutting down telemetry...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
