package domain

import "time"

// FlightCandidate is a read-only reference record from the flight pool.
type FlightCandidate struct {
	ID                 string    `json:"id,omitempty"`
	OriginCountry      string    `json:"origin_country"`
	OriginAirport      string    `json:"origin_airport"`
	DestinationCountry string    `json:"destination_country"`
	DestinationAirport string    `json:"destination_airport"`
	DepartureTime      time.Time `json:"departure_time"`
	ArrivalTime        time.Time `json:"arrival_time"`
	Duration           int       `json:"duration"` // minutes
	FlightCode         string    `json:"flight_code"`
}

// TimingBucket maps a departure hour to a part of the day:
// <12:00 morning, 12:00-16:59 afternoon, >=17:00 evening.
func TimingBucket(departure time.Time) TimingPreference {
	switch h := departure.Hour(); {
	case h < 12:
		return TimingMorning
	case h < 17:
		return TimingAfternoon
	default:
		return TimingEvening
	}
}

// MatchesTiming reports whether the candidate departs in the preferred
// part of the day.
func (f FlightCandidate) MatchesTiming(pref TimingPreference) bool {
	return TimingBucket(f.DepartureTime) == pref
}

// FlightRecommendation is the single flight selected for an EventRequest.
// When its flight code matches a candidate in the pool, every factual field
// must carry the candidate's exact values; the generator only chooses.
type FlightRecommendation struct {
	OriginCountry      string `json:"origin_country"`
	OriginAirport      string `json:"origin_airport"`
	DestinationCountry string `json:"destination_country"`
	DestinationAirport string `json:"destination_airport"`
	DepartureTime      string `json:"departure_time"` // ISO 8601
	ArrivalTime        string `json:"arrival_time"`   // ISO 8601
	Duration           int    `json:"duration"`       // minutes
	FlightCode         string `json:"flight_code"`
}
