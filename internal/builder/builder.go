// Package builder holds the mutable trip-in-progress: an ordered stop
// sequence plus the odometer readings needed for derived totals. A builder
// is owned by exactly one logged-in identity and mutated only through its
// own methods; on submission its state is snapshotted into an immutable
// domain.Trip and the builder resets.
package builder

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// StopField names one editable field of a stop. UpdateStop accepts only
// these values; anything else is a validation error.
type StopField string

const (
	FieldTime     StopField = "time"
	FieldOdometer StopField = "odometer"
	FieldLocation StopField = "location"
	FieldReason   StopField = "reason"
	FieldWait     StopField = "wait"
)

// Builder accumulates stops and derives totals for a trip sheet before
// submission. Methods are safe for concurrent use; every request from the
// same user serializes on the builder's mutex.
type Builder struct {
	mu               sync.Mutex
	stops            []domain.Stop
	startingOdometer string
	eotOdometer      string
	totalWait        int
	totalMiles       string
}

// New returns a fresh builder holding a single blank stop, the same state a
// driver sees when the trip form first opens.
func New() *Builder {
	b := &Builder{}
	b.AddStop()
	return b
}

// AddStop appends a blank stop numbered after the current last stop.
func (b *Builder) AddStop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stops = append(b.stops, domain.Stop{Number: len(b.stops) + 1})
}

// RemoveStop deletes the stop at index (0-based) and renumbers the remaining
// stops so Number is again a contiguous 1..N sequence in their current
// order. Totals are recomputed. Returns domain.ErrStopIndex for an invalid
// index.
func (b *Builder) RemoveStop(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.stops) {
		return fmt.Errorf("builder.Builder.RemoveStop: index %d: %w", index, domain.ErrStopIndex)
	}

	b.stops = append(b.stops[:index], b.stops[index+1:]...)
	for i := range b.stops {
		b.stops[i].Number = i + 1
	}
	b.calculateTotals()
	return nil
}

// UpdateStop sets a single field on the stop at index. Wait input is coerced
// to a non-negative integer (non-numeric or missing becomes 0) and triggers
// totals recomputation. Returns domain.ErrStopIndex for an invalid index and
// domain.ErrValidation for an unknown field.
func (b *Builder) UpdateStop(index int, field StopField, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.stops) {
		return fmt.Errorf("builder.Builder.UpdateStop: index %d: %w", index, domain.ErrStopIndex)
	}

	switch field {
	case FieldTime:
		b.stops[index].Time = value
	case FieldOdometer:
		b.stops[index].Odometer = value
	case FieldLocation:
		b.stops[index].Location = value
	case FieldReason:
		b.stops[index].Reason = value
	case FieldWait:
		b.stops[index].Wait = coerceWait(value)
		b.calculateTotals()
	default:
		return fmt.Errorf("%w: unknown stop field %q", domain.ErrValidation, field)
	}
	return nil
}

// SetOdometers records the starting and end-of-trip odometer readings as
// entered (free text) and recomputes totals.
func (b *Builder) SetOdometers(starting, eot string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.startingOdometer = starting
	b.eotOdometer = eot
	b.calculateTotals()
}

// CalculateTotals recomputes the derived totals from the current stops and
// odometer readings. Idempotent for unchanged inputs.
func (b *Builder) CalculateTotals() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calculateTotals()
}

// calculateTotals is the lock-free core of CalculateTotals.
//
// TotalWait is always the sum of the current stops' wait minutes. TotalMiles
// is eot - starting formatted to one decimal, but only when the delta is
// non-negative: a backwards odometer entry leaves the previous value in
// place (stale) rather than showing a negative or clamped total.
func (b *Builder) calculateTotals() {
	wait := 0
	for _, s := range b.stops {
		wait += s.Wait
	}
	b.totalWait = wait

	miles := coerceFloat(b.eotOdometer) - coerceFloat(b.startingOdometer)
	if miles >= 0 {
		b.totalMiles = strconv.FormatFloat(miles, 'f', 1, 64)
	}
}

// Stops returns a copy of the current stop sequence.
func (b *Builder) Stops() []domain.Stop {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Stop, len(b.stops))
	copy(out, b.stops)
	return out
}

// Totals returns the current derived totals (wait minutes, formatted miles).
func (b *Builder) Totals() (int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalWait, b.totalMiles
}

// Odometers returns the recorded starting and end-of-trip readings.
func (b *Builder) Odometers() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startingOdometer, b.eotOdometer
}

// Submit validates the form against the builder state and returns a draft
// trip combining both. The stop sequence is defensively copied: later
// mutation of the builder cannot affect the returned trip. The builder is
// NOT reset here — callers reset it only after the repository append
// succeeds, so a failed save loses nothing.
//
// Returns domain.ErrValidation naming the missing field when DriverName,
// Date, or VanID is empty, or when no stops exist.
func (b *Builder) Submit(form domain.TripForm) (domain.Trip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case strings.TrimSpace(form.DriverName) == "":
		return domain.Trip{}, fmt.Errorf("%w: driver name is required", domain.ErrValidation)
	case strings.TrimSpace(form.Date) == "":
		return domain.Trip{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	case strings.TrimSpace(form.VanID) == "":
		return domain.Trip{}, fmt.Errorf("%w: van id is required", domain.ErrValidation)
	case len(b.stops) == 0:
		return domain.Trip{}, fmt.Errorf("%w: at least one stop is required", domain.ErrValidation)
	}

	b.calculateTotals()

	stops := make([]domain.Stop, len(b.stops))
	copy(stops, b.stops)

	return domain.Trip{
		DriverName:       form.DriverName,
		Date:             form.Date,
		VanID:            form.VanID,
		Destination:      form.Destination,
		CrewName:         form.CrewName,
		Dispatcher:       form.Dispatcher,
		RR:               form.RR,
		H:                form.H,
		StartingOdometer: b.startingOdometer,
		Stops:            stops,
		EOTTime:          form.EOTTime,
		EOTOdometer:      b.eotOdometer,
		TotalWait:        b.totalWait,
		TotalMiles:       b.totalMiles,
		BackTime:         form.BackTime,
	}, nil
}

// Reset returns the builder to its initial state: one blank stop, cleared
// odometers and totals.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stops = []domain.Stop{{Number: 1}}
	b.startingOdometer = ""
	b.eotOdometer = ""
	b.totalWait = 0
	b.totalMiles = ""
}

// coerceWait parses wait-minute input, treating non-numeric or missing
// values as 0 and clamping negatives to 0 (wait is defined non-negative).
func coerceWait(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// coerceFloat parses an odometer reading, treating unparseable input as 0 —
// the same fallback the trip form applies.
func coerceFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
