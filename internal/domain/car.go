package domain

import "strings"

// CarRentalCandidate is a read-only reference record from the car rental
// pool. Seating capacity is not stored; it is estimated from the service
// type when building prompts.
type CarRentalCandidate struct {
	ID            string `json:"id,omitempty"`
	ModelName     string `json:"model_name"`
	ProviderName  string `json:"provider_name"`
	ServiceType   string `json:"service_type"` // sedan|suv|van
	City          string `json:"city"`
	Country       string `json:"country"`
	PricePerDay   int    `json:"price_per_day"`
	BookingURL    string `json:"booking_url"`
	MilesEligible bool   `json:"miles_eligible"`
}

// EstimatedCapacity derives seating capacity from the service type:
// van/minivan 8, suv 7, anything else 5.
func (c CarRentalCandidate) EstimatedCapacity() int {
	return EstimateCapacity(c.ServiceType)
}

func EstimateCapacity(serviceType string) int {
	t := strings.ToLower(serviceType)
	switch {
	case strings.Contains(t, "van"):
		return 8
	case strings.Contains(t, "suv"):
		return 7
	default:
		return 5
	}
}

// CarGroup is one vehicle grouping inside a recommendation.
type CarGroup struct {
	Model         string `json:"model"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	Capacity      int    `json:"capacity"`
	TotalCapacity int    `json:"total_capacity"`
	PricePerDay   string `json:"price_per_day"`
}

// CarRentalRecommendation is the vehicle combination selected for a group.
// Invariant: TotalCapacity >= the request's group size.
type CarRentalRecommendation struct {
	RecommendedCombination []CarGroup `json:"recommended_combination"`
	TotalCars              int        `json:"total_cars"`
	TotalCapacity          int        `json:"total_capacity"`
	Reasoning              string     `json:"reasoning"`
}
