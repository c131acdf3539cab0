package domain

import (
	"fmt"
	"strings"
)

// Theme is the closed set of event themes the planner supports.
type Theme string

const (
	ThemeSports    Theme = "sports"
	ThemeMusic     Theme = "music"
	ThemeCorporate Theme = "corporate"
)

// TimingPreference buckets a departure into a part of the day.
type TimingPreference string

const (
	TimingMorning   TimingPreference = "morning"
	TimingAfternoon TimingPreference = "afternoon"
	TimingEvening   TimingPreference = "evening"
)

type Venue struct {
	Country string `json:"country"`
	Address string `json:"address"`
}

// EventRequest is the validated input driving one pipeline run. It is
// created by the form flow, handed to the orchestrator once, and never
// mutated during execution.
type EventRequest struct {
	FormID             int64            `json:"form_id,omitempty"`
	Theme              Theme            `json:"theme"`
	EventName          string           `json:"event_name"`
	EventDate          string           `json:"event_date"`
	EventTime          string           `json:"event_time"`
	EventLocation      Venue            `json:"event_location"`
	OriginCountry      string           `json:"origin_country"`
	DestinationCountry string           `json:"destination_country"`
	TimingPreference   TimingPreference `json:"flight_timing_preference"`
	GroupSize          int              `json:"group_size"`
	HasEntertainment   bool             `json:"has_entertainment"`
	HasCulinary        bool             `json:"has_culinary"`
	HasMerchandise     bool             `json:"has_merchandise"`
}

// Validate checks the structural contract before any generation call is
// attempted. Failures here are client input errors, not pipeline failures.
func (r EventRequest) Validate() error {
	switch r.Theme {
	case ThemeSports, ThemeMusic, ThemeCorporate:
	default:
		return fmt.Errorf("theme must be one of sports|music|corporate, got %q", r.Theme)
	}
	switch r.TimingPreference {
	case TimingMorning, TimingAfternoon, TimingEvening:
	default:
		return fmt.Errorf("flight_timing_preference must be one of morning|afternoon|evening, got %q", r.TimingPreference)
	}
	if strings.TrimSpace(r.EventName) == "" {
		return fmt.Errorf("event_name is required")
	}
	if strings.TrimSpace(r.EventDate) == "" {
		return fmt.Errorf("event_date is required")
	}
	if strings.TrimSpace(r.OriginCountry) == "" {
		return fmt.Errorf("origin_country is required")
	}
	if strings.TrimSpace(r.DestinationCountry) == "" {
		return fmt.Errorf("destination_country is required")
	}
	if r.GroupSize <= 0 {
		return fmt.Errorf("group_size must be a positive integer, got %d", r.GroupSize)
	}
	return nil
}
