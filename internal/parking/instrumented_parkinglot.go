package parking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedParkingLot wraps a ParkingLot with tracing and metrics for
// every operation. It also serializes access to the lot, so several
// front-ends (shell, HTTP handlers) can share one instance: every
// operation and every View call runs under a single mutex covering the
// full scan-mutate-notify sequence.
type InstrumentedParkingLot struct {
	*ParkingLot
	mu        sync.Mutex
	telemetry *TelemetryProvider

	admissions        metric.Int64Counter
	exits             metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSpotsGauge   metric.Int64UpDownCounter
	revenue           metric.Float64Counter
}

func NewInstrumentedParkingLot(lot *ParkingLot, telemetry *TelemetryProvider) (*InstrumentedParkingLot, error) {
	meter := telemetry.Meter()

	admissions, err := meter.Int64Counter("parking_admissions_total",
		metric.WithDescription("Total number of car admission attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	exits, err := meter.Int64Counter("parking_exits_total",
		metric.WithDescription("Total number of car exit attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSpotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_spots",
		metric.WithDescription("Total number of parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	revenue, err := meter.Float64Counter("parking_revenue_total",
		metric.WithDescription("Cumulative revenue from completed sessions"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedParkingLot{
		ParkingLot:        lot,
		telemetry:         telemetry,
		admissions:        admissions,
		exits:             exits,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSpotsGauge:   totalSpotsGauge,
		revenue:           revenue,
	}

	totalSpotsGauge.Add(context.Background(), int64(lot.TotalSpots()))

	return ipl, nil
}

func (ipl *InstrumentedParkingLot) AddCar(ctx context.Context, licensePlate string) (int, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.add_car",
		trace.WithAttributes(
			attribute.String("car.license_plate", licensePlate),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_free_spot")

	ipl.mu.Lock()
	spotNumber, err := ipl.ParkingLot.AddCar(licensePlate)
	ipl.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "add_car"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		reason := "full"
		if errors.Is(err, ErrAlreadyParked) {
			reason = "duplicate"
		}
		labels = append(labels,
			attribute.String("status", "rejected"),
			attribute.String("reason", reason),
		)
		ipl.admissions.Add(ctx, 1, metric.WithAttributes(labels...))
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.Int("spot_number", spotNumber),
		)
		span.SetAttributes(attribute.Int("allocated_spot_number", spotNumber))
		span.AddEvent("spot_allocated", trace.WithAttributes(
			attribute.Int("spot_number", spotNumber),
		))

		ipl.admissions.Add(ctx, 1, metric.WithAttributes(labels...))
		ipl.occupancyGauge.Add(ctx, 1)
	}

	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return spotNumber, err
}

func (ipl *InstrumentedParkingLot) RemoveCar(ctx context.Context, licensePlate string) (HistoryEntry, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.remove_car",
		trace.WithAttributes(
			attribute.String("car.license_plate", licensePlate),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_spot")

	ipl.mu.Lock()
	entry, err := ipl.ParkingLot.RemoveCar(licensePlate)
	ipl.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "remove_car"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "not_found"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Float64("session.paid", entry.Paid))
		span.AddEvent("spot_released", trace.WithAttributes(
			attribute.Float64("paid", entry.Paid),
		))
		ipl.occupancyGauge.Add(ctx, -1)
		ipl.revenue.Add(ctx, entry.Paid)
	}

	ipl.exits.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return entry, err
}

func (ipl *InstrumentedParkingLot) FindCar(ctx context.Context, licensePlate string) (int, error) {
	tracer := ipl.telemetry.Tracer()
	_, span := tracer.Start(ctx, "parking_lot.find_car",
		trace.WithAttributes(
			attribute.String("car.license_plate", licensePlate),
		))
	defer span.End()

	ipl.mu.Lock()
	spotNumber, err := ipl.ParkingLot.FindCar(licensePlate)
	ipl.mu.Unlock()

	if err != nil {
		span.AddEvent("car_not_found")
	} else {
		span.SetAttributes(attribute.Int("spot_number", spotNumber))
		span.AddEvent("car_found", trace.WithAttributes(
			attribute.Int("spot_number", spotNumber),
		))
	}

	return spotNumber, err
}

// View runs f under the lot's lock, for composite reads spanning several
// accessor calls. f must not call back into the instrumented lot; the raw
// lot it receives is also what observers see during notification.
func (ipl *InstrumentedParkingLot) View(f func(*ParkingLot)) {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()
	f(ipl.ParkingLot)
}

func (ipl *InstrumentedParkingLot) Status(ctx context.Context) []*Spot {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.status")
	defer span.End()

	start := time.Now()

	ipl.mu.Lock()
	occupied := ipl.ParkingLot.Status()
	totalSpots := ipl.ParkingLot.TotalSpots()
	ipl.mu.Unlock()

	span.SetAttributes(
		attribute.Int("occupied_spots_count", len(occupied)),
		attribute.Int("total_spots", totalSpots),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "status"),
		attribute.String("status", "success"),
	))

	return occupied
}
