package assistant

import "strings"

// Intent classifies a visitor query into one travel topic.
type Intent string

const (
	IntentBeaches       Intent = "beaches"
	IntentWildlife      Intent = "wildlife"
	IntentCulture       Intent = "culture"
	IntentFood          Intent = "food"
	IntentItinerary     Intent = "itinerary"
	IntentBudget        Intent = "budget"
	IntentTransport     Intent = "transport"
	IntentAccommodation Intent = "accommodation"
	IntentWeather       Intent = "weather"
	IntentGeneral       Intent = "general"
)

type intentKeywords struct {
	intent   Intent
	keywords []string
}

// intentTable is checked in order; the first intent with any keyword match
// wins, so earlier topics take priority when a query mentions several.
var intentTable = []intentKeywords{
	{IntentBeaches, []string{"beach", "coast", "surf", "swim", "sand", "sea", "mirissa", "unawatuna", "arugam"}},
	{IntentWildlife, []string{"safari", "elephant", "leopard", "wildlife", "animal", "yala", "udawalawe", "whale"}},
	{IntentCulture, []string{"temple", "history", "culture", "sigiriya", "kandy", "heritage", "festival", "tradition"}},
	{IntentFood, []string{"food", "eat", "restaurant", "curry", "kottu", "cuisine", "hungry", "meal", "dish"}},
	{IntentItinerary, []string{"plan", "itinerary", "days", "trip", "route", "schedule", "week", "journey"}},
	{IntentBudget, []string{"budget", "cost", "price", "money", "expensive", "cheap", "afford", "spend"}},
	{IntentTransport, []string{"transport", "train", "bus", "driver", "travel", "getting around", "taxi", "hire"}},
	{IntentAccommodation, []string{"hotel", "stay", "accommodation", "resort", "hostel", "guesthouse", "book"}},
	{IntentWeather, []string{"weather", "rain", "monsoon", "season", "climate", "temperature", "forecast"}},
}

// DetectIntent matches case-insensitive substrings against the keyword table.
// Queries that hit nothing fall through to general.
func DetectIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, row := range intentTable {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				return row.intent
			}
		}
	}
	return IntentGeneral
}
