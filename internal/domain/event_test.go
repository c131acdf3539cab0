package domain_test

import (
	"testing"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

func validRequest() domain.EventRequest {
	return domain.EventRequest{
		Theme:              domain.ThemeSports,
		EventName:          "World Sevens Final",
		EventDate:          "2026-04-18",
		EventTime:          "19:00",
		EventLocation:      domain.Venue{Country: "Japan", Address: "1-1 Kasumigaoka, Tokyo"},
		OriginCountry:      "Singapore",
		DestinationCountry: "Japan",
		TimingPreference:   domain.TimingMorning,
		GroupSize:          80,
	}
}

func TestEventRequest_Validate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := []func(*domain.EventRequest){
		func(r *domain.EventRequest) { r.Theme = "circus" },
		func(r *domain.EventRequest) { r.TimingPreference = "midnight" },
		func(r *domain.EventRequest) { r.EventName = "  " },
		func(r *domain.EventRequest) { r.EventDate = "" },
		func(r *domain.EventRequest) { r.OriginCountry = "" },
		func(r *domain.EventRequest) { r.DestinationCountry = "" },
		func(r *domain.EventRequest) { r.GroupSize = 0 },
		func(r *domain.EventRequest) { r.GroupSize = -4 },
	}
	for i, mutate := range bad {
		r := validRequest()
		mutate(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}
}
