package domain

import "context"

// CandidateRepository reads the reference pools generation is grounded in.
// Queries never mutate data; zero matches return an empty slice, not an
// error, so callers decide whether that is fatal.
type CandidateRepository interface {
	FlightsByRoute(ctx context.Context, originCountry, destCountry string) ([]FlightCandidate, error)
	HotelsByCountry(ctx context.Context, country string) ([]HotelCandidate, error)
	CarRentalsByCountry(ctx context.Context, country string) ([]CarRentalCandidate, error)
	Activities(ctx context.Context) ([]ActivityCandidate, error)
	ShopItems(ctx context.Context) ([]ShopItem, error)
}

// ProposalStore covers the form records and the durable pipeline writes.
type ProposalStore interface {
	InsertForm(ctx context.Context, req EventRequest) (int64, error)
	GetForm(ctx context.Context, id int64) (EventRequest, error)
	LatestFormID(ctx context.Context) (int64, error)

	// FlightIDByCode returns the pool identifier for a flight code, or
	// ErrNotFound when no candidate carries it.
	FlightIDByCode(ctx context.Context, code string) (string, error)
	UpdateFormFlight(ctx context.Context, formID int64, flightID string) error

	// InsertScheduleEntries persists one activity row per entry in schedule
	// order. No transaction wraps the batch.
	InsertScheduleEntries(ctx context.Context, formID int64, entries []ScheduleEntry) error
}

// Generator submits a prompt to a text-generation model and returns
// best-effort raw text. It guarantees neither valid JSON nor adherence to
// any constraint embedded in the prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
