package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"smart-parking-lot/internal/parking"
)

func getServiceName() string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return "smart-parking-lot"
}

// Handler exposes the lot over HTTP. Serialization lives in the
// instrumented lot itself, so the shell and these handlers can share one
// instance without racing.
type Handler struct {
	lot *parking.InstrumentedParkingLot
}

func NewHandler(lot *parking.InstrumentedParkingLot) *Handler {
	return &Handler{lot: lot}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": getServiceName(),
		"meta":    extractMeta(r.Context()),
	})
}

func (h *Handler) AddCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.LicensePlate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "License plate is required")
		return
	}

	spotNumber, err := h.lot.AddCar(ctx, req.LicensePlate)
	if err != nil {
		switch {
		case errors.Is(err, parking.ErrAlreadyParked):
			WriteError(ctx, w, http.StatusConflict, "Car is already parked in the lot")
		case errors.Is(err, parking.ErrLotFull):
			WriteError(ctx, w, http.StatusConflict, "Parking lot is full")
		default:
			WriteError(ctx, w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	WriteSuccess(ctx, w, http.StatusCreated, "Car parked successfully", map[string]any{
		"spot_number":   spotNumber,
		"license_plate": req.LicensePlate,
	})
}

func (h *Handler) RemoveCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	licensePlate := chi.URLParam(r, "plate")
	if licensePlate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "License plate is required")
		return
	}

	entry, err := h.lot.RemoveCar(ctx, licensePlate)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Car not found")
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "Car removed successfully", receiptFromEntry(entry))
}

func (h *Handler) FindCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	licensePlate := chi.URLParam(r, "plate")
	if licensePlate == "" {
		WriteError(ctx, w, http.StatusBadRequest, "License plate is required")
		return
	}

	spotNumber, err := h.lot.FindCar(ctx, licensePlate)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Car not found")
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "Car found", FindCarResponse{
		SpotNumber:   spotNumber,
		LicensePlate: licensePlate,
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status StatusResponse
	h.lot.View(func(pl *parking.ParkingLot) {
		status = statusFromLot(pl)
	})

	WriteSuccess(ctx, w, http.StatusOK, "Status retrieved successfully", status)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var stats StatsResponse
	h.lot.View(func(pl *parking.ParkingLot) {
		stats = StatsResponse{
			TotalSpots:            pl.TotalSpots(),
			OccupiedSpots:         pl.OccupiedSpots(),
			FreeSpots:             pl.FreeSpots(),
			AverageParkingMinutes: pl.AverageParkingTimeMinutes(),
			TodaysRevenue:         pl.TodaysRevenue(),
			CompletedSessions:     len(pl.History()),
		}
	})

	WriteSuccess(ctx, w, http.StatusOK, "Stats retrieved successfully", stats)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var history []parking.HistoryEntry
	h.lot.View(func(pl *parking.ParkingLot) {
		history = pl.History()
	})

	receipts := make([]ReceiptResponse, 0, len(history))
	for _, entry := range history {
		receipts = append(receipts, receiptFromEntry(entry))
	}

	WriteSuccess(ctx, w, http.StatusOK, "History retrieved successfully", receipts)
}
