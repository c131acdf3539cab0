package app

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

func hotelJSON(n int) string {
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"name":              "Hotel " + string(rune('A'+i)),
			"address":           "1-2-3 Shibuya, Tokyo",
			"city":              "Tokyo",
			"country":           "Japan",
			"distance_to_venue": 1200 + i,
			"rating":            4.5,
			"booking_url":       "https://hotels.example/h" + string(rune('a'+i)),
			"price_per_night":   180,
			"amenities":         []string{"wifi", "gym"},
		})
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func TestParseHotelResponse_HappyPath(t *testing.T) {
	recs, err := parseHotelResponse(hotelJSON(3))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(recs) != domain.HotelRecommendationCount {
		t.Fatalf("got %d hotels, want %d", len(recs), domain.HotelRecommendationCount)
	}
	if recs[0].Name != "Hotel A" || recs[0].DistanceToVenue != 1200 || recs[0].Rating != 4.5 {
		t.Fatalf("unexpected first hotel: %+v", recs[0])
	}
}

func TestParseHotelResponse_Cardinality(t *testing.T) {
	for _, n := range []int{0, 1, 2, 4} {
		if _, err := parseHotelResponse(hotelJSON(n)); err == nil {
			t.Errorf("%d hotels accepted, want exactly %d", n, domain.HotelRecommendationCount)
		}
	}
}

func TestParseHotelResponse_ClampsRating(t *testing.T) {
	raw := `[
		{"name":"A","address":"a","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":12,"booking_url":"u","price_per_night":100,"amenities":[]},
		{"name":"B","address":"b","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":-3,"booking_url":"u","price_per_night":100,"amenities":[]},
		{"name":"C","address":"c","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":3.8,"booking_url":"u","price_per_night":100,"amenities":[]}
	]`
	recs, err := parseHotelResponse(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if recs[0].Rating != domain.MaxHotelRating {
		t.Errorf("rating 12 clamped to %v, want %v", recs[0].Rating, domain.MaxHotelRating)
	}
	if recs[1].Rating != 0 {
		t.Errorf("rating -3 clamped to %v, want 0", recs[1].Rating)
	}
	if recs[2].Rating != 3.8 {
		t.Errorf("in-range rating changed to %v", recs[2].Rating)
	}
}

func TestParseHotelResponse_CoercesLooseFields(t *testing.T) {
	// string-typed numbers, float distances and a missing booking_url all
	// show up in real generator output
	raw := `[
		{"name":"A","address":"a","city":"Tokyo","country":"Japan","distance_to_venue":1500.7,"rating":"4.2","booking_url":"","price_per_night":"220","amenities":["wifi"]},
		{"name":"B","address":"b","city":"Tokyo","country":"Japan","distance_to_ev":-40,"rating":4,"booking_url":"u","price_per_nigh":90,"amenities":[]},
		{"name":"C","address":"c","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":4,"booking_url":"u","price_per_night":"not a number","amenities":[]}
	]`
	recs, err := parseHotelResponse(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if recs[0].DistanceToVenue != 1500 {
		t.Errorf("distance 1500.7 floored to %d, want 1500", recs[0].DistanceToVenue)
	}
	if recs[0].Rating != 4.2 || recs[0].PricePerNight != 220 {
		t.Errorf("string numbers not coerced: %+v", recs[0])
	}
	if recs[0].BookingURL != domain.PlaceholderBookingURL {
		t.Errorf("empty booking_url = %q, want placeholder", recs[0].BookingURL)
	}
	if recs[1].DistanceToVenue != 0 {
		t.Errorf("negative distance floored to %d, want 0", recs[1].DistanceToVenue)
	}
	if recs[1].PricePerNight != 90 {
		t.Errorf("alternate price key not read: %+v", recs[1])
	}
	if recs[2].PricePerNight != 0 {
		t.Errorf("unparseable price = %d, want 0", recs[2].PricePerNight)
	}
}

func TestParseHotelResponse_NormalizationIsFixedPoint(t *testing.T) {
	raw := `[
		{"name":"A","address":"a","city":"Tokyo","country":"Japan","distance_to_venue":1500.7,"rating":9,"booking_url":"","price_per_night":"220","amenities":["wifi"]},
		{"name":"B","address":"b","city":"Osaka","country":"Japan","distance_to_venue":300,"rating":4.1,"booking_url":"u","price_per_night":90,"amenities":[]},
		{"name":"C","address":"c","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":3,"booking_url":"u","price_per_night":150,"amenities":["spa","pool"]}
	]`
	once, err := parseHotelResponse(raw)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	b, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twice, err := parseHotelResponse(string(b))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalization not idempotent:\n once=%+v\ntwice=%+v", once, twice)
	}
}

func TestParseHotelResponse_ObjectInsteadOfArray(t *testing.T) {
	_, err := parseHotelResponse(`{"hotels":[]}`)
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindSchemaViolation {
		t.Fatalf("expected schema_violation, got %v", err)
	}
}

func TestParseHotelResponse_Malformed(t *testing.T) {
	_, err := parseHotelResponse("here are three great hotels:")
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindMalformedOutput {
		t.Fatalf("expected malformed_output, got %v", err)
	}
}

func TestParseHotelResponse_MissingName(t *testing.T) {
	raw := `[
		{"name":"","address":"a","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":4,"booking_url":"u","price_per_night":100,"amenities":[]},
		{"name":"B","address":"b","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":4,"booking_url":"u","price_per_night":100,"amenities":[]},
		{"name":"C","address":"c","city":"Tokyo","country":"Japan","distance_to_venue":100,"rating":4,"booking_url":"u","price_per_night":100,"amenities":[]}
	]`
	if _, err := parseHotelResponse(raw); err == nil {
		t.Fatal("hotel without a name accepted")
	}
}
