package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

const stepCarRental = "car_rental"

func buildCarRentalPrompt(req domain.EventRequest, flight domain.FlightRecommendation, candidates []domain.CarRentalCandidate) string {
	var b strings.Builder
	b.WriteString("You are a car rental recommendation assistant helping travelers choose the best combination of vehicles for their trip.\n\n")
	fmt.Fprintf(&b, "Event Details:\n")
	fmt.Fprintf(&b, "- Theme: %s\n", req.Theme)
	fmt.Fprintf(&b, "- Event Name: %s\n", req.EventName)
	fmt.Fprintf(&b, "- Event Date: %s\n", req.EventDate)
	fmt.Fprintf(&b, "- Event Location: %s, %s\n", req.EventLocation.Address, req.EventLocation.Country)
	fmt.Fprintf(&b, "- Group Size: %d people\n\n", req.GroupSize)

	fmt.Fprintf(&b, "Flight Details (for context):\n")
	fmt.Fprintf(&b, "- Destination: %s, %s\n", flight.DestinationAirport, flight.DestinationCountry)
	fmt.Fprintf(&b, "- Arrival: %s\n\n", flight.ArrivalTime)

	fmt.Fprintf(&b, "Available Car Rentals in %s:\n", flight.DestinationCountry)
	for _, c := range candidates {
		fmt.Fprintf(&b, "- Model: %s, Provider: %s, Type: %s, Location: %s, %s, Price: $%d/day, Miles Eligible: %t, Estimated Capacity: %d passengers\n",
			c.ModelName, c.ProviderName, c.ServiceType, c.City, c.Country,
			c.PricePerDay, c.MilesEligible, c.EstimatedCapacity())
	}

	fmt.Fprintf(&b, `
Recommend the BEST COMBINATION of rental cars from the list above. Hard constraints:
1. Total seating capacity MUST be at least %d (the group size).
2. Minimize the number of distinct vehicle groupings subject to that capacity constraint.
Use the models, types, capacities, and prices EXACTLY as listed.

IMPORTANT: Respond ONLY with valid JSON in this exact format (no markdown, no code blocks, no extra text):
{
  "recommended_combination": [
    {
      "model": "model name from the list",
      "type": "sedan/suv/van",
      "quantity": 2,
      "capacity": 5,
      "total_capacity": 10,
      "price_per_day": "$45"
    }
  ],
  "total_cars": 2,
  "total_capacity": 10,
  "reasoning": "why this combination is best for the group"
}
`, req.GroupSize)
	return b.String()
}

// parseCarRentalResponse validates and normalizes raw generator output.
// Per-group and overall totals are recomputed rather than trusted, a zero
// capacity is re-estimated from the service type, and the combination must
// seat the whole group.
func parseCarRentalResponse(raw string, groupSize int) (domain.CarRentalRecommendation, error) {
	cleaned := stripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindMalformedOutput,
			fmt.Errorf("generation output is not valid JSON"))
	}
	var payload struct {
		RecommendedCombination []map[string]any `json:"recommended_combination"`
		Reasoning              string           `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindSchemaViolation, err)
	}
	if len(payload.RecommendedCombination) == 0 {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindSchemaViolation,
			fmt.Errorf("recommended_combination is empty"))
	}

	rec := domain.CarRentalRecommendation{Reasoning: payload.Reasoning}
	for i, m := range payload.RecommendedCombination {
		g := domain.CarGroup{
			Model:       strAt(m, "model"),
			Type:        strAt(m, "type"),
			Quantity:    intAt(m, "quantity"),
			Capacity:    intAt(m, "capacity"),
			PricePerDay: strAt(m, "price_per_day"),
		}
		if g.Model == "" || g.Quantity <= 0 {
			return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindSchemaViolation,
				fmt.Errorf("grouping %d is missing a model or a positive quantity", i+1))
		}
		if g.Capacity <= 0 {
			g.Capacity = domain.EstimateCapacity(g.Type)
		}
		g.TotalCapacity = g.Quantity * g.Capacity
		rec.RecommendedCombination = append(rec.RecommendedCombination, g)
		rec.TotalCars += g.Quantity
		rec.TotalCapacity += g.TotalCapacity
	}

	if rec.TotalCapacity < groupSize {
		return domain.CarRentalRecommendation{}, domain.NewStepError(stepCarRental, domain.KindSchemaViolation,
			fmt.Errorf("combination seats %d but the group size is %d", rec.TotalCapacity, groupSize))
	}
	return rec, nil
}
