package domain

// MaxHotelRating is the upper bound ratings are clamped into. The source
// data carries a mix of 5-point and 10-point scales; the pipeline
// normalizes everything onto the 5-point scale.
const MaxHotelRating = 5.0

// HotelRecommendationCount is the exact batch size every hotel step must
// produce.
const HotelRecommendationCount = 3

// PlaceholderBookingURL substitutes an empty booking reference.
const PlaceholderBookingURL = "https://example.com/booking"

// HotelCandidate is a read-only reference record from the hotel pool.
type HotelCandidate struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Rating        float64  `json:"rating"`
	BookingURL    string   `json:"booking_url"`
	PricePerNight int      `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
}

// HotelRecommendation is one of the three hotels selected for a request.
// DistanceToVenue is estimated by the generator, not stored in the pool.
type HotelRecommendation struct {
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	DistanceToVenue int      `json:"distance_to_venue"` // meters
	Rating          float64  `json:"rating"`
	BookingURL      string   `json:"booking_url"`
	PricePerNight   int      `json:"price_per_night"`
	Amenities       []string `json:"amenities"`
}
