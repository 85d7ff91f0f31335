package assistant

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUpdateCapsQueryHistory(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()
	for i := 0; i < 15; i++ {
		ctx.Update(fmt.Sprintf("query %d", i), IntentGeneral)
	}
	if len(ctx.PreviousQueries) != maxTrackedQueries {
		t.Fatalf("queries = %d, want %d", len(ctx.PreviousQueries), maxTrackedQueries)
	}
	if ctx.PreviousQueries[0] != "query 5" {
		t.Fatalf("oldest retained = %q, want %q", ctx.PreviousQueries[0], "query 5")
	}
	if ctx.PreviousQueries[len(ctx.PreviousQueries)-1] != "query 14" {
		t.Fatalf("newest = %q", ctx.PreviousQueries[len(ctx.PreviousQueries)-1])
	}
}

func TestUpdateCapsInterests(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()
	for _, intent := range []Intent{IntentBeaches, IntentWildlife, IntentCulture, IntentFood, IntentItinerary, IntentBudget, IntentTransport} {
		ctx.Update("q", intent)
	}
	if len(ctx.Interests) != maxTrackedInterests {
		t.Fatalf("interests = %d, want %d", len(ctx.Interests), maxTrackedInterests)
	}
	// oldest two evicted
	if ctx.Interests[0] != string(IntentCulture) {
		t.Fatalf("oldest interest = %q, want culture", ctx.Interests[0])
	}
}

func TestUpdateInterestsDeduplicated(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()
	ctx.Update("beach", IntentBeaches)
	ctx.Update("another beach", IntentBeaches)
	if len(ctx.Interests) != 1 {
		t.Fatalf("interests = %v, want single entry", ctx.Interests)
	}
}

func TestUpdateGeneralIntentNotAnInterest(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()
	ctx.Update("hello", IntentGeneral)
	if len(ctx.Interests) != 0 {
		t.Fatalf("interests = %v, want empty", ctx.Interests)
	}
	if ctx.CurrentIntent != IntentGeneral {
		t.Fatalf("current intent = %s", ctx.CurrentIntent)
	}
}

func TestUpdateBudgetTier(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()
	ctx.Update("looking for something cheap", IntentGeneral)
	if ctx.Budget != BudgetTierBudget {
		t.Fatalf("budget = %q, want budget", ctx.Budget)
	}
	ctx.Update("actually make it luxury", IntentGeneral)
	if ctx.Budget != BudgetTierLuxury {
		t.Fatalf("budget = %q, want luxury after overwrite", ctx.Budget)
	}
	ctx.Update("mid-range is fine", IntentGeneral)
	if ctx.Budget != BudgetTierMidRange {
		t.Fatalf("budget = %q, want mid-range", ctx.Budget)
	}
}

func TestUpdateExtractsName(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"I'm Priya and I love beaches", "Priya"},
		{"my name is Sam", "Sam"},
		{"call me Alex", "Alex"},
		{"i am Jordan", "Jordan"},
	}
	for _, tc := range cases {
		ctx := UserContext{}
		ctx.Normalize()
		ctx.Update(tc.query, IntentGeneral)
		if ctx.Name != tc.want {
			t.Fatalf("Update(%q) name = %q, want %q", tc.query, ctx.Name, tc.want)
		}
	}
}

func TestNormalizeHardensMalformedContext(t *testing.T) {
	ctx := UserContext{
		Budget:          "extravagant",
		Interests:       []string{"a", "b", "c", "d", "e", "f", "g"},
		PreviousQueries: make([]string, 25),
	}
	ctx.Normalize()
	if ctx.Budget != "" {
		t.Fatalf("budget = %q, want cleared", ctx.Budget)
	}
	if len(ctx.Interests) != maxTrackedInterests {
		t.Fatalf("interests = %d, want %d", len(ctx.Interests), maxTrackedInterests)
	}
	if len(ctx.PreviousQueries) != maxTrackedQueries {
		t.Fatalf("queries = %d, want %d", len(ctx.PreviousQueries), maxTrackedQueries)
	}
}

func TestFallbackResponse(t *testing.T) {
	if got := FallbackResponse(IntentBeaches); got != intentResponses[IntentBeaches].General {
		t.Fatalf("beaches fallback = %q", got)
	}
	got := FallbackResponse(IntentWeather)
	if got == "" || got == intentResponses[IntentBeaches].General {
		t.Fatalf("weather fallback = %q", got)
	}
}

func TestSuggestionsFor(t *testing.T) {
	if s := SuggestionsFor(IntentWildlife); len(s) != 4 {
		t.Fatalf("wildlife suggestions = %d, want 4", len(s))
	}
	if s := SuggestionsFor(IntentWeather); len(s) != len(defaultSuggestions) {
		t.Fatalf("weather suggestions = %v, want defaults", s)
	}
}

func TestUpdateTruncatesLongQueryOnRuneBoundary(t *testing.T) {
	ctx := UserContext{}
	ctx.Normalize()

	long := strings.Repeat("x", maxQueryLength-1) + "ගාල්ල"
	ctx.Update(long, IntentGeneral)

	got := ctx.PreviousQueries[len(ctx.PreviousQueries)-1]
	if len(got) > maxQueryLength {
		t.Fatalf("stored query is %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("stored query is not valid UTF-8: %q", got[len(got)-4:])
	}
}
