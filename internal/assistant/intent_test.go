package assistant

import "testing"

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Intent
	}{
		{"beach keyword", "best beaches near Galle", IntentBeaches},
		{"wildlife keyword", "can I see a leopard at Yala", IntentWildlife},
		{"culture keyword", "visiting the temple of the tooth", IntentCulture},
		{"food keyword", "where to eat kottu", IntentFood},
		{"itinerary keyword", "help me plan a trip", IntentItinerary},
		{"budget keyword", "how much does it cost", IntentBudget},
		{"transport keyword", "train to Ella", IntentTransport},
		{"accommodation keyword", "find a guesthouse", IntentAccommodation},
		{"weather keyword", "when is monsoon season", IntentWeather},
		{"no match", "hello there", IntentGeneral},
		{"case insensitive", "BEACH holiday", IntentBeaches},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectIntent(tc.query); got != tc.want {
				t.Fatalf("DetectIntent(%q) = %s, want %s", tc.query, got, tc.want)
			}
		})
	}
}

func TestDetectIntentFirstMatchWins(t *testing.T) {
	// beaches is declared before culture, so a mixed query classifies as beaches.
	if got := DetectIntent("should I do the beach or the temple first"); got != IntentBeaches {
		t.Fatalf("mixed query = %s, want %s", got, IntentBeaches)
	}
	// wildlife outranks food in declaration order.
	if got := DetectIntent("elephant safari then a good meal"); got != IntentWildlife {
		t.Fatalf("mixed query = %s, want %s", got, IntentWildlife)
	}
}
