package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

const stepHotel = "hotel"

func buildHotelPrompt(req domain.EventRequest, flight domain.FlightRecommendation, candidates []domain.HotelCandidate) string {
	var b strings.Builder
	b.WriteString("You are a hotel recommendation assistant helping travelers find the best accommodations near their event.\n\n")
	fmt.Fprintf(&b, "Event Details:\n")
	fmt.Fprintf(&b, "- Theme: %s\n", req.Theme)
	fmt.Fprintf(&b, "- Event Name: %s\n", req.EventName)
	fmt.Fprintf(&b, "- Event Date: %s\n", req.EventDate)
	fmt.Fprintf(&b, "- Event Time: %s\n", req.EventTime)
	fmt.Fprintf(&b, "- Event Venue: %s, %s\n", req.EventLocation.Address, req.EventLocation.Country)
	fmt.Fprintf(&b, "- Group Size: %d\n\n", req.GroupSize)

	fmt.Fprintf(&b, "Flight Details (for context):\n")
	fmt.Fprintf(&b, "- Origin: %s, %s\n", flight.OriginAirport, flight.OriginCountry)
	fmt.Fprintf(&b, "- Destination: %s, %s\n", flight.DestinationAirport, flight.DestinationCountry)
	fmt.Fprintf(&b, "- Arrival: %s\n", flight.ArrivalTime)
	fmt.Fprintf(&b, "- Duration: %d minutes\n\n", flight.Duration)

	fmt.Fprintf(&b, "Available Hotels in %s (SELECT EXACTLY %d from this list):\n", flight.DestinationCountry, domain.HotelRecommendationCount)
	for i, h := range candidates {
		fmt.Fprintf(&b, "%d. Name: %s, Address: %s, City: %s, Country: %s, Rating: %.1f, Price: $%d/night, Amenities: %s, Booking URL: %s\n",
			i+1, h.Name, h.Address, h.City, h.Country, h.Rating, h.PricePerNight,
			strings.Join(h.Amenities, ", "), h.BookingURL)
	}

	fmt.Fprintf(&b, `
Select EXACTLY %d hotels from the available list above that best match the criteria. Consider proximity to %s, rating, suitability for %s event attendees, and amenities for a group of %d.

For each selected hotel you MUST also estimate distance_to_venue: the distance in meters from the hotel address to the event venue address (%s).

IMPORTANT CONSTRAINTS:
- Use the EXACT values from the list for name, address, city, country, rating, booking_url, price_per_night, and amenities.
- rating must be a number between 0.0 and %.1f inclusive.
- booking_url must be a URL string; if the list value is empty, use "%s".

Respond ONLY with a valid JSON array of EXACTLY %d hotel objects in this exact format (no markdown, no code blocks, no extra text):
[
  {
    "name": "...",
    "address": "...",
    "city": "...",
    "country": "...",
    "distance_to_venue": 1500,
    "rating": 4.5,
    "booking_url": "...",
    "price_per_night": 150,
    "amenities": ["..."]
  }
]
`, domain.HotelRecommendationCount, req.EventLocation.Address, req.Theme, req.GroupSize,
		req.EventLocation.Address, domain.MaxHotelRating, domain.PlaceholderBookingURL,
		domain.HotelRecommendationCount)
	return b.String()
}

// parseHotelResponse validates and normalizes raw generator output into
// exactly HotelRecommendationCount recommendations. Ratings are clamped,
// distance and price are floored to non-negative integers, and an empty
// booking reference gets the placeholder URL. Normalization is a fixed
// point: re-running it on normalized output changes nothing.
func parseHotelResponse(raw string) ([]domain.HotelRecommendation, error) {
	cleaned := stripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, domain.NewStepError(stepHotel, domain.KindMalformedOutput,
			fmt.Errorf("generation output is not valid JSON"))
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, domain.NewStepError(stepHotel, domain.KindSchemaViolation,
			fmt.Errorf("hotel recommendations must be an array of objects: %w", err))
	}
	if len(items) != domain.HotelRecommendationCount {
		return nil, domain.NewStepError(stepHotel, domain.KindSchemaViolation,
			fmt.Errorf("expected exactly %d hotels, got %d", domain.HotelRecommendationCount, len(items)))
	}

	out := make([]domain.HotelRecommendation, 0, len(items))
	for i, m := range items {
		h := domain.HotelRecommendation{
			Name:            strAt(m, "name"),
			Address:         strAt(m, "address"),
			City:            strAt(m, "city"),
			Country:         strAt(m, "country"),
			DistanceToVenue: intAt(m, "distance_to_venue", "distance_to_ev"),
			Rating:          clamp(floatAt(m, "rating"), 0, domain.MaxHotelRating),
			BookingURL:      strAt(m, "booking_url"),
			PricePerNight:   intAt(m, "price_per_night", "price_per_nigh"),
			Amenities:       strSliceAt(m, "amenities"),
		}
		if h.BookingURL == "" {
			h.BookingURL = domain.PlaceholderBookingURL
		}
		if h.Name == "" || h.Address == "" {
			return nil, domain.NewStepError(stepHotel, domain.KindSchemaViolation,
				fmt.Errorf("hotel %d is missing name or address", i+1))
		}
		out = append(out, h)
	}
	return out, nil
}
