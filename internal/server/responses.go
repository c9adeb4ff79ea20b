package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"smart-parking-lot/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type AddCarRequest struct {
	LicensePlate string `json:"license_plate"`
}

type ReceiptResponse struct {
	LicensePlate string    `json:"license_plate"`
	EntryTime    time.Time `json:"entry_time"`
	ExitTime     time.Time `json:"exit_time"`
	Paid         float64   `json:"paid"`
}

type FindCarResponse struct {
	SpotNumber   int    `json:"spot_number"`
	LicensePlate string `json:"license_plate"`
}

type SpotStatus struct {
	SpotNumber   int        `json:"spot_number"`
	Occupied     bool       `json:"occupied"`
	LicensePlate string     `json:"license_plate,omitempty"`
	EntryTime    *time.Time `json:"entry_time,omitempty"`
}

type StatusResponse struct {
	TotalSpots    int          `json:"total_spots"`
	OccupiedSpots int          `json:"occupied_spots"`
	FreeSpots     int          `json:"free_spots"`
	Spots         []SpotStatus `json:"spots"`
}

type StatsResponse struct {
	TotalSpots            int     `json:"total_spots"`
	OccupiedSpots         int     `json:"occupied_spots"`
	FreeSpots             int     `json:"free_spots"`
	AverageParkingMinutes float64 `json:"average_parking_minutes"`
	TodaysRevenue         float64 `json:"todays_revenue"`
	CompletedSessions     int     `json:"completed_sessions"`
}

func statusFromLot(lot *parking.ParkingLot) StatusResponse {
	spots := lot.Spots()
	statuses := make([]SpotStatus, 0, len(spots))
	for _, spot := range spots {
		status := SpotStatus{
			SpotNumber: spot.Number,
			Occupied:   spot.IsOccupied,
		}
		if spot.IsOccupied {
			status.LicensePlate = spot.Car.LicensePlate
			entry := spot.Car.EntryTime
			status.EntryTime = &entry
		}
		statuses = append(statuses, status)
	}

	return StatusResponse{
		TotalSpots:    lot.TotalSpots(),
		OccupiedSpots: lot.OccupiedSpots(),
		FreeSpots:     lot.FreeSpots(),
		Spots:         statuses,
	}
}

func receiptFromEntry(entry parking.HistoryEntry) ReceiptResponse {
	return ReceiptResponse{
		LicensePlate: entry.Car.LicensePlate,
		EntryTime:    entry.EntryTime,
		ExitTime:     entry.ExitTime,
		Paid:         entry.Paid,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
