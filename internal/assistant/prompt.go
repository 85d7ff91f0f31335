package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSystemPrompt assembles the persona instructions sent as the system
// message. The visitor's accumulated context and the intent's canned templates
// are inlined so the model can personalize rather than invent from scratch.
func BuildSystemPrompt(ctx UserContext, intent Intent, query string) string {
	name := ctx.Name
	if name == "" {
		name = "Unknown"
	}
	interests := strings.Join(ctx.Interests, ", ")
	if interests == "" {
		interests = "None yet"
	}
	budget := string(ctx.Budget)
	if budget == "" {
		budget = "Not specified"
	}
	recent := ctx.PreviousQueries
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	templates := "{}"
	if tpl, ok := TemplateFor(intent); ok {
		if b, err := json.MarshalIndent(tpl, "", "  "); err == nil {
			templates = string(b)
		}
	}

	var b strings.Builder
	b.WriteString("You are Yalu, an expert Sri Lankan travel AI with deep local knowledge and personality.\n\n")
	b.WriteString("User Context:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Previous interests: %s\n", interests)
	fmt.Fprintf(&b, "- Budget level: %s\n", budget)
	fmt.Fprintf(&b, "- Previous queries: %s\n", strings.Join(recent, "; "))
	fmt.Fprintf(&b, "- Current intent: %s\n\n", intent)
	fmt.Fprintf(&b, "User Query: %q\n\n", query)
	b.WriteString(`Instructions:
1. Give specific, actionable advice with real examples (names, prices, tips)
2. Be conversational and enthusiastic but professional
3. Include insider tips and local knowledge
4. Suggest logical next steps based on their journey
5. If relevant, mention current deals or seasonal considerations
6. Keep response concise but highly informative (max 3 paragraphs)
7. End with a specific question to understand their needs better

Base your response on these templates but personalize it:
`)
	b.WriteString(templates)
	return b.String()
}
