package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

const stepFlight = "flight"

func buildFlightPrompt(req domain.EventRequest, candidates []domain.FlightCandidate) string {
	var b strings.Builder
	b.WriteString("You are a travel planning assistant specializing in flight recommendations for events.\n\n")
	fmt.Fprintf(&b, "Event Details:\n")
	fmt.Fprintf(&b, "- Theme: %s\n", req.Theme)
	fmt.Fprintf(&b, "- Event Name: %s\n", req.EventName)
	fmt.Fprintf(&b, "- Event Date: %s\n", req.EventDate)
	fmt.Fprintf(&b, "- Event Time: %s\n", req.EventTime)
	fmt.Fprintf(&b, "- Event Location: %s, %s\n", req.EventLocation.Address, req.EventLocation.Country)
	fmt.Fprintf(&b, "- Origin Country: %s\n", req.OriginCountry)
	fmt.Fprintf(&b, "- Destination Country: %s\n", req.DestinationCountry)
	fmt.Fprintf(&b, "- Flight Timing Preference: %s\n", req.TimingPreference)
	fmt.Fprintf(&b, "- Group Size: %d\n\n", req.GroupSize)

	fmt.Fprintf(&b, "Available Flights from %s to %s (SELECT EXACTLY 1 from this list):\n", req.OriginCountry, req.DestinationCountry)
	for i, f := range candidates {
		fmt.Fprintf(&b, "%d. Flight %s: %s (%s) to %s (%s), departs %s, arrives %s, duration %d minutes\n",
			i+1, f.FlightCode,
			f.OriginAirport, f.OriginCountry,
			f.DestinationAirport, f.DestinationCountry,
			f.DepartureTime.Format(time.RFC3339), f.ArrivalTime.Format(time.RFC3339),
			f.Duration)
	}

	fmt.Fprintf(&b, `
Select the single flight from the list above that best fits the %s timing preference and arrives in time for the event on %s at %s. Use the EXACT values from the list; do not invent airports, times, or flight codes.

IMPORTANT: Respond ONLY with valid JSON in this exact format (no markdown, no code blocks, no extra text):
{
  "origin_country": "exact origin country from the list",
  "origin_airport": "exact origin airport code from the list",
  "destination_country": "exact destination country from the list",
  "destination_airport": "exact destination airport code from the list",
  "departure_time": "ISO 8601 timestamp from the list",
  "arrival_time": "ISO 8601 timestamp from the list",
  "duration": 120,
  "flight_code": "exact flight code from the list"
}
`, req.TimingPreference, req.EventDate, req.EventTime)
	return b.String()
}

type flightPayload struct {
	OriginCountry      string  `json:"origin_country"`
	OriginAirport      string  `json:"origin_airport"`
	DestinationCountry string  `json:"destination_country"`
	DestinationAirport string  `json:"destination_airport"`
	DepartureTime      string  `json:"departure_time"`
	ArrivalTime        string  `json:"arrival_time"`
	Duration           float64 `json:"duration"`
	FlightCode         string  `json:"flight_code"`
}

// parseFlightResponse validates raw generator output into a
// FlightRecommendation. When the flight code names a pool candidate, every
// factual field is replaced with the candidate's values: the generator only
// chooses among candidates, it cannot contradict pool data.
func parseFlightResponse(raw string, pool []domain.FlightCandidate) (domain.FlightRecommendation, error) {
	var p flightPayload
	if err := decodeResponse(stepFlight, raw, &p); err != nil {
		return domain.FlightRecommendation{}, err
	}

	if strings.TrimSpace(p.FlightCode) == "" {
		return domain.FlightRecommendation{}, domain.NewStepError(stepFlight, domain.KindSchemaViolation,
			fmt.Errorf("flight_code is empty"))
	}
	if p.Duration <= 0 {
		return domain.FlightRecommendation{}, domain.NewStepError(stepFlight, domain.KindSchemaViolation,
			fmt.Errorf("duration must be positive, got %v", p.Duration))
	}
	for field, v := range map[string]string{
		"origin_country":      p.OriginCountry,
		"origin_airport":      p.OriginAirport,
		"destination_country": p.DestinationCountry,
		"destination_airport": p.DestinationAirport,
		"departure_time":      p.DepartureTime,
		"arrival_time":        p.ArrivalTime,
	} {
		if strings.TrimSpace(v) == "" {
			return domain.FlightRecommendation{}, domain.NewStepError(stepFlight, domain.KindSchemaViolation,
				fmt.Errorf("%s is empty", field))
		}
	}

	rec := domain.FlightRecommendation{
		OriginCountry:      p.OriginCountry,
		OriginAirport:      p.OriginAirport,
		DestinationCountry: p.DestinationCountry,
		DestinationAirport: p.DestinationAirport,
		DepartureTime:      p.DepartureTime,
		ArrivalTime:        p.ArrivalTime,
		Duration:           int(math.Floor(p.Duration)),
		FlightCode:         strings.TrimSpace(p.FlightCode),
	}

	// Pool fields are immutable truth.
	for _, c := range pool {
		if strings.EqualFold(c.FlightCode, rec.FlightCode) {
			rec.OriginCountry = c.OriginCountry
			rec.OriginAirport = c.OriginAirport
			rec.DestinationCountry = c.DestinationCountry
			rec.DestinationAirport = c.DestinationAirport
			rec.DepartureTime = c.DepartureTime.Format(time.RFC3339)
			rec.ArrivalTime = c.ArrivalTime.Format(time.RFC3339)
			rec.Duration = c.Duration
			rec.FlightCode = c.FlightCode
			break
		}
	}
	return rec, nil
}
