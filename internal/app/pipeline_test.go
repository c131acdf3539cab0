package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jaiwee/cathay-chuangx5/internal/app"
	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

/********** fakes **********/

type fakeRepo struct {
	flights    []domain.FlightCandidate
	hotels     []domain.HotelCandidate
	cars       []domain.CarRentalCandidate
	activities []domain.ActivityCandidate
	shopItems  []domain.ShopItem

	flightCalls, hotelCalls, carCalls, activityCalls int
}

func (r *fakeRepo) FlightsByRoute(_ context.Context, _, _ string) ([]domain.FlightCandidate, error) {
	r.flightCalls++
	return r.flights, nil
}

func (r *fakeRepo) HotelsByCountry(_ context.Context, _ string) ([]domain.HotelCandidate, error) {
	r.hotelCalls++
	return r.hotels, nil
}

func (r *fakeRepo) CarRentalsByCountry(_ context.Context, _ string) ([]domain.CarRentalCandidate, error) {
	r.carCalls++
	return r.cars, nil
}

func (r *fakeRepo) Activities(_ context.Context) ([]domain.ActivityCandidate, error) {
	r.activityCalls++
	return r.activities, nil
}

func (r *fakeRepo) ShopItems(_ context.Context) ([]domain.ShopItem, error) {
	return r.shopItems, nil
}

type fakeStore struct {
	flightIDs map[string]string // flight code -> pool id

	updatedFormID   int64
	updatedFlightID string
	scheduleFormID  int64
	scheduleRows    []domain.ScheduleEntry
	insertErr       error
}

func (s *fakeStore) InsertForm(_ context.Context, _ domain.EventRequest) (int64, error) {
	return 1, nil
}

func (s *fakeStore) GetForm(_ context.Context, _ int64) (domain.EventRequest, error) {
	return domain.EventRequest{}, domain.ErrNotFound
}

func (s *fakeStore) LatestFormID(_ context.Context) (int64, error) { return 1, nil }

func (s *fakeStore) FlightIDByCode(_ context.Context, code string) (string, error) {
	id, ok := s.flightIDs[code]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (s *fakeStore) UpdateFormFlight(_ context.Context, formID int64, flightID string) error {
	s.updatedFormID, s.updatedFlightID = formID, flightID
	return nil
}

func (s *fakeStore) InsertScheduleEntries(_ context.Context, formID int64, entries []domain.ScheduleEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.scheduleFormID = formID
	s.scheduleRows = entries
	return nil
}

// scriptGen replays canned generator answers in order.
type scriptGen struct {
	responses []string
	calls     int
}

func (g *scriptGen) Generate(_ context.Context, _ string) (string, error) {
	if g.calls >= len(g.responses) {
		return "", errors.New("unexpected generation call")
	}
	raw := g.responses[g.calls]
	g.calls++
	return raw, nil
}

/********** fixtures **********/

func tripRequest() domain.EventRequest {
	return domain.EventRequest{
		FormID:             7,
		Theme:              domain.ThemeSports,
		EventName:          "World Sevens Final",
		EventDate:          "2026-04-18",
		EventTime:          "19:00",
		EventLocation:      domain.Venue{Country: "Japan", Address: "1-1 Kasumigaoka, Tokyo"},
		OriginCountry:      "Singapore",
		DestinationCountry: "Japan",
		TimingPreference:   domain.TimingMorning,
		GroupSize:          80,
		HasEntertainment:   true,
		HasCulinary:        true,
		HasMerchandise:     true,
	}
}

func seededRepo() *fakeRepo {
	return &fakeRepo{
		flights: []domain.FlightCandidate{{
			ID: "f-1", OriginCountry: "Singapore", OriginAirport: "SIN",
			DestinationCountry: "Japan", DestinationAirport: "HND",
			DepartureTime: time.Date(2026, 4, 17, 9, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2026, 4, 17, 16, 0, 0, 0, time.UTC),
			Duration:      420, FlightCode: "CX712",
		}},
		hotels: []domain.HotelCandidate{
			{ID: "h-1", Name: "Hotel A", Address: "a", City: "Tokyo", Country: "Japan", Rating: 4.5, PricePerNight: 180},
			{ID: "h-2", Name: "Hotel B", Address: "b", City: "Tokyo", Country: "Japan", Rating: 4.2, PricePerNight: 150},
			{ID: "h-3", Name: "Hotel C", Address: "c", City: "Tokyo", Country: "Japan", Rating: 4.0, PricePerNight: 120},
		},
		cars: []domain.CarRentalCandidate{
			{ID: "c-1", ModelName: "Toyota Hiace", ProviderName: "Rentalo", ServiceType: "van", City: "Tokyo", Country: "Japan", PricePerDay: 120},
		},
		activities: []domain.ActivityCandidate{
			{ID: "a-1", Name: "Live Music Session", Type: "entertainment", Description: "live set"},
		},
		shopItems: []domain.ShopItem{
			{ID: "s-1", Name: "Cathay Premium Headphones", Category: "electronics"},
		},
	}
}

const (
	flightAnswer = `{"origin_country":"Singapore","origin_airport":"SIN","destination_country":"Japan","destination_airport":"HND","departure_time":"2026-04-17T09:00:00Z","arrival_time":"2026-04-17T16:00:00Z","duration":420,"flight_code":"CX712"}`

	hotelAnswer = `[
		{"name":"Hotel A","address":"a","city":"Tokyo","country":"Japan","distance_to_venue":1200,"rating":4.5,"booking_url":"u","price_per_night":180,"amenities":["wifi"]},
		{"name":"Hotel B","address":"b","city":"Tokyo","country":"Japan","distance_to_venue":900,"rating":4.2,"booking_url":"u","price_per_night":150,"amenities":[]},
		{"name":"Hotel C","address":"c","city":"Tokyo","country":"Japan","distance_to_venue":2500,"rating":4.0,"booking_url":"","price_per_night":120,"amenities":[]}
	]`

	carAnswer = `{"recommended_combination":[{"model":"Toyota Hiace","type":"van","quantity":10,"capacity":8,"total_capacity":80,"price_per_day":"$120"}],"total_cars":10,"total_capacity":80,"reasoning":"vans seat everyone"}`

	scheduleAnswer = `{"schedule":[
		{"start_time":"2026-04-17T09:00:00Z","duration":30,"activity_name":"Takeoff","description":"wheels up","featured_shop_item":null},
		{"start_time":"2026-04-17T09:30:00Z","duration":60,"activity_name":"Taste of Japan Welcome Meal","description":"kaiseki-inspired","featured_shop_item":null},
		{"start_time":"2026-04-17T10:30:00Z","duration":300,"activity_name":"Live Music Session","description":"J-pop set","featured_shop_item":"Cathay Premium Headphones"},
		{"start_time":"2026-04-17T15:30:00Z","duration":30,"activity_name":"Landing","description":"final descent","featured_shop_item":null}
	]}`
)

func newPipeline(repo *fakeRepo, store *fakeStore, gen *scriptGen) *app.Pipeline {
	return app.NewPipeline(app.NewCandidateService(repo, nil, 0), store, gen)
}

/********** tests **********/

func TestPipeline_HappyPath(t *testing.T) {
	repo := seededRepo()
	store := &fakeStore{flightIDs: map[string]string{"CX712": "f-1"}}
	gen := &scriptGen{responses: []string{flightAnswer, hotelAnswer, carAnswer, scheduleAnswer}}

	got, err := newPipeline(repo, store, gen).Run(context.Background(), tripRequest())
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if got.Flight.FlightCode != "CX712" {
		t.Errorf("flight = %+v", got.Flight)
	}
	if len(got.Hotels) != 3 {
		t.Errorf("got %d hotels, want 3", len(got.Hotels))
	}
	if got.Hotels[2].BookingURL != domain.PlaceholderBookingURL {
		t.Errorf("empty booking url not substituted: %+v", got.Hotels[2])
	}
	if got.CarRental.TotalCapacity != 80 {
		t.Errorf("car rental = %+v", got.CarRental)
	}
	if len(got.Schedule) != 4 {
		t.Errorf("got %d schedule entries, want 4", len(got.Schedule))
	}

	if gen.calls != 4 {
		t.Errorf("generator called %d times, want 4", gen.calls)
	}
	if store.updatedFormID != 7 || store.updatedFlightID != "f-1" {
		t.Errorf("flight cross-reference = (form %d, flight %q), want (7, f-1)", store.updatedFormID, store.updatedFlightID)
	}
	if store.scheduleFormID != 7 || len(store.scheduleRows) != 4 {
		t.Errorf("schedule persistence = (form %d, %d rows)", store.scheduleFormID, len(store.scheduleRows))
	}
	if store.scheduleRows[0].Name != "Takeoff" || store.scheduleRows[3].Name != "Landing" {
		t.Errorf("schedule rows out of order: %+v", store.scheduleRows)
	}
}

func TestPipeline_EmptyHotelPoolStopsTheRun(t *testing.T) {
	repo := seededRepo()
	repo.hotels = nil
	store := &fakeStore{flightIDs: map[string]string{"CX712": "f-1"}}
	gen := &scriptGen{responses: []string{flightAnswer}}

	_, err := newPipeline(repo, store, gen).Run(context.Background(), tripRequest())
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindEmptyPool {
		t.Fatalf("expected empty_pool step error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no hotels available in Japan") {
		t.Errorf("error does not name the country: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times after hotel-pool failure, want 1", gen.calls)
	}
	if repo.carCalls != 0 || repo.activityCalls != 0 {
		t.Errorf("later steps ran after failure: cars=%d activities=%d", repo.carCalls, repo.activityCalls)
	}
	// the flight cross-reference survives the failed run
	if store.updatedFlightID != "f-1" {
		t.Errorf("flight cross-reference not persisted before failure, got %q", store.updatedFlightID)
	}
}

func TestPipeline_ScheduleFailureKeepsFlightRef(t *testing.T) {
	repo := seededRepo()
	store := &fakeStore{flightIDs: map[string]string{"CX712": "f-1"}}
	gen := &scriptGen{responses: []string{flightAnswer, hotelAnswer, carAnswer, "let me think about that"}}

	_, err := newPipeline(repo, store, gen).Run(context.Background(), tripRequest())
	se, ok := domain.AsStepError(err)
	if !ok || se.Step != "schedule" || se.Kind != domain.KindMalformedOutput {
		t.Fatalf("expected malformed schedule step error, got %v", err)
	}
	if store.updatedFlightID != "f-1" {
		t.Errorf("flight cross-reference lost, got %q", store.updatedFlightID)
	}
	if len(store.scheduleRows) != 0 {
		t.Errorf("schedule rows persisted despite failure: %+v", store.scheduleRows)
	}
}

func TestPipeline_UnknownFlightCodeIsANoOp(t *testing.T) {
	repo := seededRepo()
	store := &fakeStore{flightIDs: map[string]string{}} // lookup always misses
	gen := &scriptGen{responses: []string{flightAnswer, hotelAnswer, carAnswer, scheduleAnswer}}

	if _, err := newPipeline(repo, store, gen).Run(context.Background(), tripRequest()); err != nil {
		t.Fatalf("missing flight id must not fail the run: %v", err)
	}
	if store.updatedFlightID != "" {
		t.Errorf("form updated with unknown flight id %q", store.updatedFlightID)
	}
}

func TestPipeline_EmptyFlightPool(t *testing.T) {
	repo := seededRepo()
	repo.flights = nil
	gen := &scriptGen{}

	_, err := newPipeline(repo, &fakeStore{}, gen).Run(context.Background(), tripRequest())
	se, ok := domain.AsStepError(err)
	if !ok || se.Step != "flight" || se.Kind != domain.KindEmptyPool {
		t.Fatalf("expected flight empty_pool error, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times with an empty pool", gen.calls)
	}
}

func TestPipeline_TimingFilterCanEmptyThePool(t *testing.T) {
	repo := seededRepo() // only a morning departure exists
	req := tripRequest()
	req.TimingPreference = domain.TimingEvening
	gen := &scriptGen{}

	_, err := newPipeline(repo, &fakeStore{}, gen).Run(context.Background(), req)
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindEmptyPool {
		t.Fatalf("expected empty_pool after timing filter, got %v", err)
	}
	if !strings.Contains(err.Error(), "evening") {
		t.Errorf("error does not name the timing preference: %v", err)
	}
}

func TestPipeline_InvalidRequest(t *testing.T) {
	req := tripRequest()
	req.GroupSize = 0
	gen := &scriptGen{}

	_, err := newPipeline(seededRepo(), &fakeStore{}, gen).Run(context.Background(), req)
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindInput {
		t.Fatalf("expected input step error, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator called for an invalid request")
	}
}

func TestPipeline_SchedulePersistenceFailure(t *testing.T) {
	repo := seededRepo()
	store := &fakeStore{
		flightIDs: map[string]string{"CX712": "f-1"},
		insertErr: errors.New("connection reset"),
	}
	gen := &scriptGen{responses: []string{flightAnswer, hotelAnswer, carAnswer, scheduleAnswer}}

	_, err := newPipeline(repo, store, gen).Run(context.Background(), tripRequest())
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindStorage {
		t.Fatalf("expected storage step error, got %v", err)
	}
}
