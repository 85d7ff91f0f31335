package assistant

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxTrackedQueries   = 10
	maxTrackedInterests = 5
	maxQueryLength      = 2000
)

// BudgetTier is the visitor's stated spending band.
type BudgetTier string

const (
	BudgetTierBudget   BudgetTier = "budget"
	BudgetTierMidRange BudgetTier = "mid-range"
	BudgetTierLuxury   BudgetTier = "luxury"
)

var (
	budgetLowRe  = regexp.MustCompile(`(?i)budget|cheap|affordable`)
	budgetHighRe = regexp.MustCompile(`(?i)luxury|premium|high.?end`)
	budgetMidRe  = regexp.MustCompile(`(?i)mid.?range|moderate`)
	nameRe       = regexp.MustCompile(`(?i)(?:i'm|i am|my name is|call me)\s+(\w+)`)
)

// UserContext is the conversation memory the client carries between requests.
// The server never stores it; each chat call merges the incoming blob with
// what the new query reveals and echoes the result back.
type UserContext struct {
	Name            string     `json:"name,omitempty"`
	Interests       []string   `json:"interests"`
	PreviousQueries []string   `json:"previousQueries"`
	Budget          BudgetTier `json:"budget,omitempty"`
	Language        string     `json:"language,omitempty"`
	CurrentIntent   Intent     `json:"currentIntent,omitempty"`
}

// Normalize hardens a client-submitted context: trims oversized history,
// drops unknown budget values and keeps the struct usable whatever arrived.
func (c *UserContext) Normalize() {
	if c.Interests == nil {
		c.Interests = []string{}
	}
	if c.PreviousQueries == nil {
		c.PreviousQueries = []string{}
	}
	c.PreviousQueries = tail(c.PreviousQueries, maxTrackedQueries)
	c.Interests = tail(c.Interests, maxTrackedInterests)
	switch c.Budget {
	case BudgetTierBudget, BudgetTierMidRange, BudgetTierLuxury, "":
	default:
		c.Budget = ""
	}
}

// Update folds one query and its detected intent into the context. A later
// budget mention overwrites the stored tier, so "cheap" followed by "luxury"
// on the next query ends up luxury.
func (c *UserContext) Update(query string, intent Intent) {
	query = strings.TrimSpace(query)
	if len(query) > maxQueryLength {
		cut := maxQueryLength
		// Back up to a rune boundary so the stored history stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
	}
	c.PreviousQueries = tail(append(c.PreviousQueries, query), maxTrackedQueries)
	c.CurrentIntent = intent

	if budgetLowRe.MatchString(query) {
		c.Budget = BudgetTierBudget
	} else if budgetHighRe.MatchString(query) {
		c.Budget = BudgetTierLuxury
	} else if budgetMidRe.MatchString(query) {
		c.Budget = BudgetTierMidRange
	}

	if intent != IntentGeneral && !contains(c.Interests, string(intent)) {
		c.Interests = tail(append(c.Interests, string(intent)), maxTrackedInterests)
	}

	if m := nameRe.FindStringSubmatch(query); m != nil {
		c.Name = m[1]
	}
}

func tail(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func contains(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
