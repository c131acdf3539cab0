package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaiwee/cathay-chuangx5/internal/adapters/observability"
	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

// State names one stage of a pipeline run. Transitions are strictly
// sequential and forward-only; Failed is reachable from every stage.
type State int

const (
	StateInit State = iota
	StateFlightResolving
	StateHotelResolving
	StateCarResolving
	StateScheduleResolving
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateFlightResolving:
		return "flight_resolving"
	case StateHotelResolving:
		return "hotel_resolving"
	case StateCarResolving:
		return "car_resolving"
	case StateScheduleResolving:
		return "schedule_resolving"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Proposal is the aggregate result of a successful pipeline run. Hotels and
// the car rental are returned but not independently stored; only the flight
// cross-reference and the schedule entries are durable.
type Proposal struct {
	Flight    domain.FlightRecommendation    `json:"flight"`
	Hotels    []domain.HotelRecommendation   `json:"hotels"`
	CarRental domain.CarRentalRecommendation `json:"car_rental"`
	Schedule  []ScheduleItem                 `json:"schedule"`
}

// Pipeline runs the four generation steps in fixed order, threading each
// validated output into the next step's prompt, and persists the flight
// cross-reference and schedule entries.
type Pipeline struct {
	candidates *CandidateService
	store      domain.ProposalStore
	gen        domain.Generator
}

func NewPipeline(c *CandidateService, store domain.ProposalStore, gen domain.Generator) *Pipeline {
	return &Pipeline{candidates: c, store: store, gen: gen}
}

// Run executes one full pipeline for req. There is no partial success: the
// caller gets either a complete Proposal or the first failure as a
// *domain.StepError. The flight cross-reference is persisted as soon as the
// flight step validates, so a later failure still leaves it recorded.
func (p *Pipeline) Run(ctx context.Context, req domain.EventRequest) (Proposal, error) {
	if err := req.Validate(); err != nil {
		return Proposal{}, domain.NewStepError("input", domain.KindInput, err)
	}

	state := StateInit
	started := time.Now()

	flight, err := p.resolveFlight(ctx, req, p.transition(&state, StateFlightResolving, req.FormID))
	if err != nil {
		return Proposal{}, p.fail(&state, req.FormID, err)
	}
	p.persistFlightRef(ctx, req.FormID, flight.FlightCode)

	hotels, err := p.resolveHotels(ctx, req, flight, p.transition(&state, StateHotelResolving, req.FormID))
	if err != nil {
		return Proposal{}, p.fail(&state, req.FormID, err)
	}

	car, err := p.resolveCarRental(ctx, req, flight, p.transition(&state, StateCarResolving, req.FormID))
	if err != nil {
		return Proposal{}, p.fail(&state, req.FormID, err)
	}

	schedule, err := p.resolveSchedule(ctx, req, flight, p.transition(&state, StateScheduleResolving, req.FormID))
	if err != nil {
		return Proposal{}, p.fail(&state, req.FormID, err)
	}

	p.transition(&state, StatePersisting, req.FormID)
	if err := p.persistSchedule(ctx, req.FormID, schedule); err != nil {
		return Proposal{}, p.fail(&state, req.FormID, err)
	}

	p.transition(&state, StateDone, req.FormID)
	log.Info().
		Int64("form_id", req.FormID).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline completed")
	return Proposal{Flight: flight, Hotels: hotels, CarRental: car, Schedule: schedule}, nil
}

// transition advances the state machine, logging the move, and returns the
// new state's step label for error construction.
func (p *Pipeline) transition(state *State, next State, formID int64) State {
	log.Debug().
		Int64("form_id", formID).
		Str("from", state.String()).
		Str("to", next.String()).
		Msg("pipeline transition")
	*state = next
	return next
}

func (p *Pipeline) fail(state *State, formID int64, err error) error {
	from := state.String()
	*state = StateFailed
	step, kind := "pipeline", "unknown"
	if se, ok := domain.AsStepError(err); ok {
		step, kind = se.Step, se.Kind.String()
	}
	observability.ObservePipelineStep(step, "failed")
	log.Error().
		Int64("form_id", formID).
		Str("state", from).
		Str("step", step).
		Str("kind", kind).
		Err(err).
		Msg("pipeline failed")
	return err
}

func (p *Pipeline) resolveFlight(ctx context.Context, req domain.EventRequest, _ State) (domain.FlightRecommendation, error) {
	pool, err := p.candidates.FlightsByRoute(ctx, req.OriginCountry, req.DestinationCountry, req.TimingPreference)
	if err != nil {
		return domain.FlightRecommendation{}, domain.NewStepError(stepFlight, domain.KindStorage, err)
	}
	if len(pool) == 0 {
		return domain.FlightRecommendation{}, domain.NewStepError(stepFlight, domain.KindEmptyPool,
			fmt.Errorf("no flights available from %s to %s (%s)", req.OriginCountry, req.DestinationCountry, req.TimingPreference))
	}

	raw, err := p.generate(ctx, stepFlight, buildFlightPrompt(req, pool))
	if err != nil {
		return domain.FlightRecommendation{}, err
	}
	rec, err := parseFlightResponse(raw, pool)
	if err != nil {
		p.logOffendingPayload(stepFlight, raw, err)
		return domain.FlightRecommendation{}, err
	}
	observability.ObservePipelineStep(stepFlight, "ok")
	return rec, nil
}

func (p *Pipeline) resolveHotels(ctx context.Context, req domain.EventRequest, flight domain.FlightRecommendation, _ State) ([]domain.HotelRecommendation, error) {
	pool, err := p.candidates.HotelsByCountry(ctx, flight.DestinationCountry)
	if err != nil {
		return nil, domain.NewStepError(stepHotel, domain.KindStorage, err)
	}
	if len(pool) == 0 {
		return nil, domain.NewStepError(stepHotel, domain.KindEmptyPool,
			fmt.Errorf("no hotels available in %s", flight.DestinationCountry))
	}

	raw, err := p.generate(ctx, stepHotel, buildHotelPrompt(req, flight, pool))
	if err != nil {
		return nil, err
	}
	hotels, err := parseHotelResponse(raw)
	if err != nil {
		p.logOffendingPayload(stepHotel, raw, err)
		return nil, err
	}
	observability.ObservePipelineStep(stepHotel, "ok")
	return hotels, nil
}

func (p *Pipeline) resolveCarRental(ctx context.Context, req domain.EventRequest, flight domain.FlightRecommendation, _ State) (domain.CarRentalRecommendation, error) {
	pool, err := p.candidates.CarRentalsByCountry(ctx, flight.DestinationCountry)
	if err != nil {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindStorage, err)
	}
	if len(pool) == 0 {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindEmptyPool,
			fmt.Errorf("no car rentals available in %s", flight.DestinationCountry))
	}

	raw, err := p.generate(ctx, stepCarRental, buildCarRentalPrompt(req, flight, pool))
	if err != nil {
		return domain.CarRentalRecommendation{}, err
	}
	rec, err := parseCarRentalResponse(raw, req.GroupSize)
	if err != nil {
		p.logOffendingPayload(stepCarRental, raw, err)
		return domain.CarRentalRecommendation{}, err
	}
	observability.ObservePipelineStep(stepCarRental, "ok")
	return rec, nil
}

func (p *Pipeline) resolveSchedule(ctx context.Context, req domain.EventRequest, flight domain.FlightRecommendation, _ State) ([]ScheduleItem, error) {
	activities, err := p.candidates.Activities(ctx)
	if err != nil {
		return nil, domain.NewStepError(stepSchedule, domain.KindStorage, err)
	}
	if len(activities) == 0 {
		return nil, domain.NewStepError(stepSchedule, domain.KindEmptyPool,
			fmt.Errorf("no in-flight activities available"))
	}
	items, err := p.candidates.ShopItems(ctx)
	if err != nil {
		return nil, domain.NewStepError(stepSchedule, domain.KindStorage, err)
	}

	raw, err := p.generate(ctx, stepSchedule, buildSchedulePrompt(req, flight, activities, items))
	if err != nil {
		return nil, err
	}
	schedule, err := parseScheduleResponse(raw, flight.Duration)
	if err != nil {
		p.logOffendingPayload(stepSchedule, raw, err)
		return nil, err
	}
	observability.ObservePipelineStep(stepSchedule, "ok")
	return schedule, nil
}

func (p *Pipeline) generate(ctx context.Context, step, prompt string) (string, error) {
	raw, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", domain.NewStepError(step, domain.KindUpstream, err)
	}
	return raw, nil
}

// persistFlightRef records the chosen flight on the form record. Persisted
// mid-pipeline on purpose: a later step's failure still leaves the flight
// cross-reference durable. A code with no pool match is a warned no-op.
func (p *Pipeline) persistFlightRef(ctx context.Context, formID int64, flightCode string) {
	id, err := p.store.FlightIDByCode(ctx, flightCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Int64("form_id", formID).Str("flight_code", flightCode).
				Msg("no pool flight matches the recommended code; form not updated")
			return
		}
		log.Error().Err(err).Str("flight_code", flightCode).Msg("flight id lookup failed")
		return
	}
	if err := p.store.UpdateFormFlight(ctx, formID, id); err != nil {
		log.Error().Err(err).Int64("form_id", formID).Str("flight_id", id).
			Msg("form flight cross-reference update failed")
		return
	}
	log.Info().Int64("form_id", formID).Str("flight_id", id).Msg("form flight cross-reference updated")
}

func (p *Pipeline) persistSchedule(ctx context.Context, formID int64, schedule []ScheduleItem) error {
	entries := make([]domain.ScheduleEntry, len(schedule))
	for i, s := range schedule {
		entries[i] = s.ScheduleEntry
	}
	if err := p.store.InsertScheduleEntries(ctx, formID, entries); err != nil {
		return domain.NewStepError("persist", domain.KindStorage, err)
	}
	return nil
}

// logOffendingPayload keeps the rejected generator output for diagnosis
// without ever folding it into defaulted results.
func (p *Pipeline) logOffendingPayload(step, raw string, err error) {
	const max = 2048
	if len(raw) > max {
		raw = raw[:max]
	}
	log.Warn().Str("step", step).Err(err).Str("payload", raw).Msg("generation output rejected")
}
