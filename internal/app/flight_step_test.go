package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

func morningPool() []domain.FlightCandidate {
	return []domain.FlightCandidate{{
		ID:                 "f-1",
		OriginCountry:      "Singapore",
		OriginAirport:      "SIN",
		DestinationCountry: "Japan",
		DestinationAirport: "HND",
		DepartureTime:      time.Date(2026, 4, 17, 9, 0, 0, 0, time.UTC),
		ArrivalTime:        time.Date(2026, 4, 17, 16, 0, 0, 0, time.UTC),
		Duration:           420,
		FlightCode:         "CX712",
	}}
}

func TestParseFlightResponse_PoolFieldsAreImmutable(t *testing.T) {
	// the generator picked a pool flight but mangled its times; the
	// candidate's fields must win
	raw := `{
		"origin_country": "Singapore",
		"origin_airport": "XSP",
		"destination_country": "Japan",
		"destination_airport": "NRT",
		"departure_time": "2026-04-17T11:11:00Z",
		"arrival_time": "2026-04-17T23:59:00Z",
		"duration": 999,
		"flight_code": "cx712"
	}`
	rec, err := parseFlightResponse(raw, morningPool())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.FlightCode != "CX712" || rec.OriginAirport != "SIN" || rec.DestinationAirport != "HND" {
		t.Fatalf("pool fields not restored: %+v", rec)
	}
	if rec.Duration != 420 {
		t.Fatalf("duration = %d, want pool value 420", rec.Duration)
	}
	if rec.DepartureTime != "2026-04-17T09:00:00Z" || rec.ArrivalTime != "2026-04-17T16:00:00Z" {
		t.Fatalf("times not restored: %+v", rec)
	}
}

func TestParseFlightResponse_StripsFences(t *testing.T) {
	raw := "```json\n" + `{
		"origin_country": "Singapore", "origin_airport": "SIN",
		"destination_country": "Japan", "destination_airport": "HND",
		"departure_time": "2026-04-17T09:00:00Z", "arrival_time": "2026-04-17T16:00:00Z",
		"duration": 420, "flight_code": "CX712"
	}` + "\n```"
	rec, err := parseFlightResponse(raw, morningPool())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.FlightCode != "CX712" {
		t.Fatalf("unexpected rec: %+v", rec)
	}
}

func TestParseFlightResponse_Malformed(t *testing.T) {
	_, err := parseFlightResponse("I recommend flight CX712, a lovely morning departure.", morningPool())
	se, ok := domain.AsStepError(err)
	if !ok || se.Kind != domain.KindMalformedOutput {
		t.Fatalf("expected malformed_output step error, got %v", err)
	}
	if se.Step != stepFlight {
		t.Fatalf("step = %s, want %s", se.Step, stepFlight)
	}
}

func TestParseFlightResponse_SchemaViolations(t *testing.T) {
	cases := []string{
		`{"origin_country":"Singapore","origin_airport":"SIN","destination_country":"Japan","destination_airport":"HND","departure_time":"2026-04-17T09:00:00Z","arrival_time":"2026-04-17T16:00:00Z","duration":420,"flight_code":""}`,
		`{"origin_country":"Singapore","origin_airport":"SIN","destination_country":"Japan","destination_airport":"HND","departure_time":"2026-04-17T09:00:00Z","arrival_time":"2026-04-17T16:00:00Z","duration":-5,"flight_code":"CX712"}`,
		`{"origin_country":"","origin_airport":"SIN","destination_country":"Japan","destination_airport":"HND","departure_time":"2026-04-17T09:00:00Z","arrival_time":"2026-04-17T16:00:00Z","duration":420,"flight_code":"CX9"}`,
	}
	for i, raw := range cases {
		_, err := parseFlightResponse(raw, nil)
		se, ok := domain.AsStepError(err)
		if !ok || se.Kind != domain.KindSchemaViolation {
			t.Errorf("case %d: expected schema_violation, got %v", i, err)
		}
	}
}

func TestBuildFlightPrompt_EnumeratesCandidatesVerbatim(t *testing.T) {
	req := domain.EventRequest{
		Theme: domain.ThemeSports, EventName: "Final", EventDate: "2026-04-18", EventTime: "19:00",
		OriginCountry: "Singapore", DestinationCountry: "Japan",
		TimingPreference: domain.TimingMorning, GroupSize: 80,
	}
	prompt := buildFlightPrompt(req, morningPool())
	for _, want := range []string{"CX712", "SIN", "HND", "420 minutes", "no markdown"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseFlightResponse_UnknownCodeKeptAsIs(t *testing.T) {
	raw := `{"origin_country":"Singapore","origin_airport":"SIN","destination_country":"Japan","destination_airport":"NRT","departure_time":"2026-04-17T10:00:00Z","arrival_time":"2026-04-17T17:00:00Z","duration":420,"flight_code":"ZZ999"}`
	rec, err := parseFlightResponse(raw, morningPool())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.FlightCode != "ZZ999" || rec.DestinationAirport != "NRT" {
		t.Fatalf("unexpected rec: %+v", rec)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("unknown code must not be an error at parse time")
	}
}
