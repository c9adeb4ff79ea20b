package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedShell is a line-oriented console front-end over the lot.
// Every command runs in its own span.
type InstrumentedShell struct {
	lot       *InstrumentedParkingLot
	scanner   *bufio.Scanner
	telemetry *TelemetryProvider
}

func NewInstrumentedShell(lot *InstrumentedParkingLot, telemetry *TelemetryProvider) *InstrumentedShell {
	return &InstrumentedShell{
		lot:       lot,
		scanner:   bufio.NewScanner(os.Stdin),
		telemetry: telemetry,
	}
}

func (s *InstrumentedShell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		done := s.processCommand(cmdCtx, input)
		cmdSpan.End()

		if done {
			break
		}
	}

	span.AddEvent("shell_ended")
}

func (s *InstrumentedShell) processCommand(ctx context.Context, input string) bool {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.parse_command")
	defer span.End()

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "add":
		s.handleAdd(ctx, parts)
	case "remove":
		s.handleRemove(ctx, parts)
	case "find":
		s.handleFind(ctx, parts)
	case "status":
		s.handleStatus(ctx)
	case "stats":
		s.handleStats(ctx)
	case "history":
		s.handleHistory(ctx)
	case "clone":
		s.handleClone(ctx, parts)
	case "help":
		s.printHelp()
	case "exit", "quit":
		return true
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		fmt.Printf("Unknown command: %s (try 'help')\n", command)
	}
	return false
}

func (s *InstrumentedShell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  add <license_plate>      admit a car")
	fmt.Println("  remove <license_plate>   release a car and print the receipt")
	fmt.Println("  find <license_plate>     spot number for a parked car")
	fmt.Println("  status                   occupied spots")
	fmt.Println("  stats                    occupancy, average time, today's revenue")
	fmt.Println("  history                  archived sessions")
	fmt.Println("  clone <license_plate>    print a snapshot copy of a parked car")
	fmt.Println("  exit                     leave the shell")
}

func (s *InstrumentedShell) handleAdd(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.add_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: add <license_plate>")
		return
	}

	licensePlate := parts[1]
	span.SetAttributes(attribute.String("car.license_plate", licensePlate))

	spotNumber, err := s.lot.AddCar(ctx, licensePlate)
	if err != nil {
		span.AddEvent("admission_rejected")
		switch {
		case errors.Is(err, ErrAlreadyParked):
			fmt.Printf("Car %s is already in the lot\n", licensePlate)
		case errors.Is(err, ErrLotFull):
			fmt.Println("Sorry, parking lot is full")
		default:
			fmt.Printf("Error: %s\n", err.Error())
		}
		return
	}

	span.AddEvent("admission_successful", trace.WithAttributes(
		attribute.Int("spot_number", spotNumber),
	))
	fmt.Printf("Allocated spot number: %d\n", spotNumber)
}

func (s *InstrumentedShell) handleRemove(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.remove_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: remove <license_plate>")
		return
	}

	licensePlate := parts[1]
	span.SetAttributes(attribute.String("car.license_plate", licensePlate))

	entry, err := s.lot.RemoveCar(ctx, licensePlate)
	if err != nil {
		span.AddEvent("removal_failed")
		fmt.Printf("Car %s not found\n", licensePlate)
		return
	}

	span.AddEvent("removal_successful", trace.WithAttributes(
		attribute.Float64("paid", entry.Paid),
	))
	fmt.Printf("Car %s left after %s, paid %.2f\n",
		licensePlate, entry.ExitTime.Sub(entry.EntryTime), entry.Paid)
}

func (s *InstrumentedShell) handleFind(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.find_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: find <license_plate>")
		return
	}

	licensePlate := parts[1]
	span.SetAttributes(attribute.String("car.license_plate", licensePlate))

	spotNumber, err := s.lot.FindCar(ctx, licensePlate)
	if err != nil {
		span.AddEvent("car_not_found")
		fmt.Println("Not found")
		return
	}

	span.AddEvent("car_found", trace.WithAttributes(
		attribute.Int("spot_number", spotNumber),
	))
	fmt.Printf("%d\n", spotNumber)
}

func (s *InstrumentedShell) handleStatus(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.status_command")
	defer span.End()

	occupied := s.lot.Status(ctx)
	if len(occupied) == 0 {
		span.AddEvent("parking_lot_empty")
		fmt.Println("Parking lot is empty")
		return
	}

	span.SetAttributes(attribute.Int("occupied_spots_count", len(occupied)))

	fmt.Println("Spot No.\tLicense Plate\tEntry Time")
	for _, spot := range occupied {
		fmt.Printf("%d\t\t%s\t%s\n",
			spot.Number, spot.Car.LicensePlate, spot.Car.EntryTime.Format("15:04:05"))
	}
}

func (s *InstrumentedShell) handleStats(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.stats_command")
	defer span.End()

	s.lot.View(func(pl *ParkingLot) {
		fmt.Printf("Total spots:      %d\n", pl.TotalSpots())
		fmt.Printf("Occupied spots:   %d\n", pl.OccupiedSpots())
		fmt.Printf("Free spots:       %d\n", pl.FreeSpots())
		fmt.Printf("Avg parking time: %.1f minutes\n", pl.AverageParkingTimeMinutes())
		fmt.Printf("Today's revenue:  %.2f\n", pl.TodaysRevenue())
	})
}

func (s *InstrumentedShell) handleHistory(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.history_command")
	defer span.End()

	var history []HistoryEntry
	s.lot.View(func(pl *ParkingLot) {
		history = pl.History()
	})
	if len(history) == 0 {
		span.AddEvent("history_empty")
		fmt.Println("No completed sessions")
		return
	}

	span.SetAttributes(attribute.Int("history_length", len(history)))

	fmt.Println("License Plate\tEntry\t\tExit\t\tPaid")
	for _, entry := range history {
		fmt.Printf("%s\t%s\t%s\t%.2f\n",
			entry.Car.LicensePlate,
			entry.EntryTime.Format("15:04:05"),
			entry.ExitTime.Format("15:04:05"),
			entry.Paid)
	}
}

func (s *InstrumentedShell) handleClone(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.clone_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: clone <license_plate>")
		return
	}

	licensePlate := parts[1]

	var clone *Car
	s.lot.View(func(pl *ParkingLot) {
		for _, spot := range pl.Spots() {
			if spot.IsOccupied && spot.Car.LicensePlate == licensePlate {
				clone = spot.Car.Clone()
				return
			}
		}
	})

	if clone == nil {
		span.AddEvent("car_not_found")
		fmt.Println("Not found")
		return
	}

	span.AddEvent("car_cloned")
	fmt.Printf("Clone: plate=%s entry=%s\n",
		clone.LicensePlate, clone.EntryTime.Format("15:04:05"))
}
