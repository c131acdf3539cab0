package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

const stepSchedule = "schedule"

// ScheduleItem is a schedule entry together with its derived persistence
// category, as returned to the caller.
type ScheduleItem struct {
	domain.ScheduleEntry
	Category domain.ActivityCategory `json:"category"`
}

func buildSchedulePrompt(req domain.EventRequest, flight domain.FlightRecommendation,
	activities []domain.ActivityCandidate, items []domain.ShopItem) string {

	var b strings.Builder
	b.WriteString("You are a premium in-flight experience designer creating a themed flight schedule.\n\n")
	fmt.Fprintf(&b, "Event Details:\n")
	fmt.Fprintf(&b, "- Theme: %s\n", req.Theme)
	fmt.Fprintf(&b, "- Event Name: %s\n", req.EventName)
	fmt.Fprintf(&b, "- Event Date: %s\n", req.EventDate)
	fmt.Fprintf(&b, "- Origin: %s\n", req.OriginCountry)
	fmt.Fprintf(&b, "- Destination: %s\n", req.DestinationCountry)
	fmt.Fprintf(&b, "- Group Size: %d\n\n", req.GroupSize)

	fmt.Fprintf(&b, "Flight Details:\n")
	fmt.Fprintf(&b, "- Route: %s to %s\n", flight.OriginAirport, flight.DestinationAirport)
	fmt.Fprintf(&b, "- Flight Number: %s\n", flight.FlightCode)
	fmt.Fprintf(&b, "- Departure: %s\n", flight.DepartureTime)
	fmt.Fprintf(&b, "- Arrival: %s\n", flight.ArrivalTime)
	fmt.Fprintf(&b, "- Total Duration: %d minutes\n\n", flight.Duration)

	fmt.Fprintf(&b, "Experience Preferences:\n")
	fmt.Fprintf(&b, "- Entertainment: %s\n", yesNo(req.HasEntertainment))
	fmt.Fprintf(&b, "- Culinary Focus: %s\n", yesNo(req.HasCulinary))
	fmt.Fprintf(&b, "- Merchandise: %s\n\n", yesNo(req.HasMerchandise))

	b.WriteString("Available In-Flight Activities (choose the most appropriate ones):\n")
	for i, a := range activities {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, a.Name, a.Type, a.Description)
	}
	b.WriteString("\nAvailable Shop Items (feature them in fitting activities):\n")
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, s.Name, s.Category, s.Description)
	}

	fmt.Fprintf(&b, `
Create the full in-flight schedule, themed around %s. Hard constraints:
1. The FIRST entry MUST be named "Takeoff" and the LAST entry MUST be named "Landing".
2. At least one entry strictly between them MUST be a meal inspired by %s cuisine.
3. Entry start times are absolute ISO 8601 timestamps beginning at the departure time (%s); entries must be in order and must not overlap.
4. The durations of ALL entries MUST sum to EXACTLY %d minutes (the flight duration).
5. At least one entry MUST feature a single shop item from the list above in featured_shop_item.

IMPORTANT: Respond ONLY with valid JSON in this exact format (no markdown, no code blocks, no extra text):
{
  "schedule": [
    {
      "start_time": "ISO 8601 timestamp",
      "duration": 30,
      "activity_name": "Takeoff",
      "description": "...",
      "featured_shop_item": null
    }
  ]
}
`, req.EventName, req.DestinationCountry, flight.DepartureTime, flight.Duration)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

type scheduleEntryPayload struct {
	StartTime    string  `json:"start_time"`
	Duration     float64 `json:"duration"`
	ActivityName string  `json:"activity_name"`
	Description  string  `json:"description"`
	FeaturedItem *string `json:"featured_shop_item"`
}

// parseScheduleResponse validates raw generator output into an ordered
// schedule and re-verifies every constraint the prompt only requested:
// takeoff first, landing last, a meal strictly between, time-ordered
// non-overlapping entries, duration sum equal to the flight duration, and
// at least one featured shop item.
func parseScheduleResponse(raw string, flightDuration int) ([]ScheduleItem, error) {
	cleaned := stripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, domain.NewStepError(stepSchedule, domain.KindMalformedOutput,
			fmt.Errorf("generation output is not valid JSON"))
	}
	var payload struct {
		Schedule []scheduleEntryPayload `json:"schedule"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation, err)
	}
	if len(payload.Schedule) < 3 {
		return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation,
			fmt.Errorf("schedule needs at least takeoff, one meal, and landing; got %d entries", len(payload.Schedule)))
	}

	out := make([]ScheduleItem, 0, len(payload.Schedule))
	for i, e := range payload.Schedule {
		start, err := time.Parse(time.RFC3339, e.StartTime)
		if err != nil {
			return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation,
				fmt.Errorf("entry %d start_time %q is not ISO 8601: %w", i+1, e.StartTime, err))
		}
		if e.Duration <= 0 {
			return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation,
				fmt.Errorf("entry %d duration must be positive, got %v", i+1, e.Duration))
		}
		if strings.TrimSpace(e.ActivityName) == "" {
			return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation,
				fmt.Errorf("entry %d has no activity name", i+1))
		}
		entry := domain.ScheduleEntry{
			StartTime:   start,
			Duration:    int(math.Floor(e.Duration)),
			Name:        strings.TrimSpace(e.ActivityName),
			Description: e.Description,
		}
		if e.FeaturedItem != nil {
			entry.FeaturedItem = strings.TrimSpace(*e.FeaturedItem)
		}
		out = append(out, ScheduleItem{ScheduleEntry: entry, Category: domain.ClassifyActivity(entry.Name)})
	}

	if err := validateSchedule(out, flightDuration); err != nil {
		return nil, domain.NewStepError(stepSchedule, domain.KindSchemaViolation, err)
	}
	return out, nil
}

func validateSchedule(entries []ScheduleItem, flightDuration int) error {
	if entries[0].Category != domain.CategoryTakeoff {
		return fmt.Errorf("schedule must begin with a takeoff entry, got %q", entries[0].Name)
	}
	if last := entries[len(entries)-1]; last.Category != domain.CategoryLanding {
		return fmt.Errorf("schedule must end with a landing entry, got %q", last.Name)
	}

	var total int
	var hasMeal, hasFeatured bool
	for i, e := range entries {
		total += e.Duration
		if e.FeaturedItem != "" {
			hasFeatured = true
		}
		if i > 0 && i < len(entries)-1 &&
			(e.Category == domain.CategoryMeal || e.Category == domain.CategoryCulinary) {
			hasMeal = true
		}
		if i > 0 {
			prev := entries[i-1]
			if e.StartTime.Before(prev.End()) {
				return fmt.Errorf("entry %q (starts %s) overlaps %q (ends %s)",
					e.Name, e.StartTime.Format(time.RFC3339), prev.Name, prev.End().Format(time.RFC3339))
			}
		}
	}
	if total != flightDuration {
		return fmt.Errorf("entry durations sum to %d minutes but the flight lasts %d", total, flightDuration)
	}
	if !hasMeal {
		return fmt.Errorf("schedule has no destination-cuisine meal between takeoff and landing")
	}
	if !hasFeatured {
		return fmt.Errorf("no entry features a shop item")
	}
	return nil
}
