package domain

import (
	"strings"
	"time"
)

// ActivityCandidate is a read-only reference record from the in-flight
// activity pool.
type ActivityCandidate struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"activity_name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ShopItem is a merchandise record that a schedule entry may feature.
type ShopItem struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"item_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ScheduleEntry is one item of the generated in-flight timeline.
type ScheduleEntry struct {
	StartTime    time.Time `json:"start_time"`
	Duration     int       `json:"duration"` // minutes, positive
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	FeaturedItem string    `json:"featured_item,omitempty"` // single shop item name
}

// End is the exclusive end of the entry's time slot.
func (e ScheduleEntry) End() time.Time {
	return e.StartTime.Add(time.Duration(e.Duration) * time.Minute)
}

// ActivityCategory tags a persisted schedule entry.
type ActivityCategory string

const (
	CategoryTakeoff       ActivityCategory = "Takeoff"
	CategoryLanding       ActivityCategory = "Landing"
	CategoryCulinary      ActivityCategory = "Culinary Experience"
	CategoryEntertainment ActivityCategory = "Entertainment"
	CategoryMerchandise   ActivityCategory = "Merchandise"
	CategoryMeal          ActivityCategory = "Meal"
)

// keyword groups checked by ClassifyActivity, highest priority first.
var categoryKeywords = []struct {
	category ActivityCategory
	words    []string
}{
	{CategoryTakeoff, []string{"take off", "takeoff"}},
	{CategoryLanding, []string{"landing"}},
	{CategoryCulinary, []string{"taste", "meal", "culinary", "dining", "food"}},
	{CategoryEntertainment, []string{"entertainment", "movie", "music", "show"}},
	{CategoryMerchandise, []string{"merchandise", "shop", "store"}},
}

// ClassifyActivity derives a persistence category from an activity name by
// case-insensitive substring match. Priority order: Takeoff, Landing,
// Culinary Experience, Entertainment, Merchandise; anything unmatched
// defaults to Meal.
func ClassifyActivity(name string) ActivityCategory {
	n := strings.ToLower(name)
	for _, g := range categoryKeywords {
		for _, w := range g.words {
			if strings.Contains(n, w) {
				return g.category
			}
		}
	}
	return CategoryMeal
}
