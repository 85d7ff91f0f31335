package assistant

import "fmt"

// ResponseTemplate holds the canned copy for one intent: a general opener plus
// more specific variants keyed by sub-topic. The general variant doubles as
// the offline fallback when the language model is unreachable.
type ResponseTemplate struct {
	General  string            `json:"general"`
	Specific map[string]string `json:"specific,omitempty"`
}

var intentResponses = map[Intent]ResponseTemplate{
	IntentBeaches: {
		General: "I can see you're drawn to our stunning coastline! 🏖️ Sri Lanka's beaches are incredibly diverse. Are you looking for surfing waves, calm swimming waters, or perhaps a romantic secluded cove? Your preference will help me suggest the perfect beach!",
		Specific: map[string]string{
			"surfing":  "Ah, a surfer! 🏄 You're in for a treat! For beginners, Weligama Bay is perfect with consistent, gentle waves. Experienced? Arugam Bay is world-class! When are you planning to visit? The season really matters for waves!",
			"swimming": "For safe swimming, I highly recommend Unawatuna or Pasikudah! 🏊 The water is calm, clear, and perfect for families. Pasikudah is especially unique - you can walk 100 meters into the sea and the water is still shallow!",
			"secluded": "I know some hidden gems! 🤫 Hiriketiya Bay is my personal favorite - a horseshoe cove surrounded by palm trees. Or try Secret Beach near Mirissa - you'll need to climb down some rocks, but it's worth it!",
		},
	},
	IntentWildlife: {
		General: "Wildlife lover! 🦁 Sri Lanka is one of the best wildlife destinations in Asia! Are you dreaming of leopards, elephants, or maybe whales? Each has its special season and location!",
		Specific: map[string]string{
			"leopards":  "Yala Block 1 has the world's highest leopard density! 🐆 Book the 6 AM safari slot - leopards are most active at dawn. I can check real-time availability. Pro tip: Stay at a park-edge hotel to enter first!",
			"elephants": "The Gathering at Minneriya is mind-blowing! 🐘 300+ elephants gather at the reservoir from July-September. Or visit Udawalawe year-round - I guarantee you'll see elephants there!",
			"whales":    "Blue whale season in Mirissa is December-April! 🐋 Book with Raja & the Whales - they're the most ethical operator. 90% sighting rate! Want me to check availability for your dates?",
		},
	},
	IntentCulture: {
		General: "You're interested in our rich culture! 🛕 From ancient kingdoms to vibrant festivals, Sri Lanka has 2500 years of history. Are you drawn to temples, historical sites, or living culture like festivals and traditions?",
		Specific: map[string]string{
			"temples":    "Temple of the Tooth in Kandy is unmissable! 🙏 Visit during the 5:30 PM puja for the best experience. Dress code: cover shoulders and knees. I'll share the exact timings and a cultural etiquette guide!",
			"historical": "The Cultural Triangle is perfect for history buffs! 📜 Sigiriya at sunrise is magical - fewer crowds and golden light on the frescoes. Buy a combo ticket for all sites - saves 40%!",
			"festivals":  "You're in luck! The Esala Perahera is coming up! 🎭 It's our most spectacular festival with elephants, dancers, and fire performers. Book grandstand seats NOW - they sell out fast!",
		},
	},
	IntentFood: {
		General: "Foodie alert! 🍛 Sri Lankan cuisine is a flavor explosion! Are you adventurous with spice? Want to try street food or prefer restaurants? I know spots from local favorites to Michelin-mentioned!",
		Specific: map[string]string{
			"street":      "Kottu roti at Pilawoos is legendary! 🥘 The rhythmic chopping sound will draw you in! Try cheese kottu if you're not sure about spice. Best time: after 7 PM when it's fresh!",
			"restaurants": "Ministry of Crab is our pride! 🦀 The 2kg jumbo crab is Instagram-famous! Book 2 weeks ahead. Budget tip: lunch menu is 40% cheaper with same quality!",
			"vegetarian":  "Sri Lanka is vegetarian paradise! 🥗 Try a traditional rice & curry - it's actually 15+ different dishes! Shanmugas in Colombo does the best vegetarian thali!",
		},
	},
	IntentItinerary: {
		General: "Let's craft your perfect Sri Lankan journey! 🗺️ How many days do you have? Most people underestimate travel times here. I'll create a realistic itinerary that doesn't leave you exhausted!",
		Specific: map[string]string{
			"short":  "5-7 days? Let's focus on highlights! 📍 I recommend the 'Golden Triangle': Sigiriya → Kandy → Galle. Each place is 2-3 hours apart, giving you quality time without rushing!",
			"medium": "10-14 days is perfect! 🎯 You can do justice to beach + culture + wildlife. My suggestion: Start in the Cultural Triangle, then hill country, end at the beaches. Want me to map it out?",
			"long":   "3 weeks? Amazing! 🌟 You can see hidden Sri Lanka! Include the untouched East coast, tea country trails, and even Jaffna up north. Let me create a diverse itinerary!",
		},
	},
	IntentBudget: {
		General: "Let's talk budget! 💰 Sri Lanka offers incredible value. Your money goes far here! What's your daily budget? I'll show you exactly what you can experience and where to splurge vs save!",
		Specific: map[string]string{
			"backpacker": "$30-40/day gets you: beach huts, local buses, street food, and all temple entries! 🎒 Pro tip: eat where locals eat - $2 for a massive rice & curry!",
			"midRange":   "$80-100/day opens up: boutique hotels, private drivers, good restaurants, and safaris! 🏨 This is the sweet spot - comfort without breaking the bank!",
			"luxury":     "Sky's the limit! 🌟 $200+/day gets you: Geoffrey Bawa hotels, helicopter transfers, private wildlife experiences. Cape Weligama and Wild Coast Lodge are unmissable!",
		},
	},
	IntentTransport: {
		General: "Getting around Sri Lanka is an adventure itself! 🚂 Trains are scenic but slow, drivers are convenient, buses are cheap but chaotic. What's your comfort vs adventure threshold?",
		Specific: map[string]string{
			"train":  "The Kandy-to-Ella train is MAGICAL! 🚂 Book 1st class observation car 45 days ahead online. Can't get tickets? I know a trick - buy Kandy-Nanu Oya, then Nanu Oya-Ella separately!",
			"driver": "Private driver is best for flexibility! 🚗 Expect $50-60/day including fuel. I work with trusted local drivers with years of great reviews. Want me to arrange one?",
			"rental": "Self-drive? You're brave! 😅 Roads are chaotic but doable. Get a small car for narrow roads. International permit + local permit needed. Tuk-tuk rental is more fun though!",
		},
	},
}

// TemplateFor returns the canned copy for an intent, if any exists.
func TemplateFor(intent Intent) (ResponseTemplate, bool) {
	tpl, ok := intentResponses[intent]
	return tpl, ok
}

// FallbackResponse is served when the language model call fails. Intents with
// a template reuse its general opener; anything else gets a graceful apology
// that still names the topic.
func FallbackResponse(intent Intent) string {
	if tpl, ok := intentResponses[intent]; ok {
		return tpl.General
	}
	return fmt.Sprintf("I understand you're asking about %s. While I'm having a small connection issue, I can tell you that Sri Lanka offers incredible %s experiences! Let me know more specifically what you're looking for - like dates, budget, or preferences - and I'll give you detailed recommendations!", intent, intent)
}

var intentSuggestions = map[Intent][]string{
	IntentBeaches: {
		"Compare South vs East beaches 🏖️",
		"Best beaches for my dates 📅",
		"Beach + wildlife combo trip 🐘",
		"Surfing lessons & spots 🏄",
	},
	IntentWildlife: {
		"Book safari for my dates 🦁",
		"Leopard vs elephant parks 🐆",
		"Wildlife photography tips 📸",
		"Ethical wildlife experiences 💚",
	},
	IntentCulture: {
		"Temple etiquette guide 🛕",
		"Festival calendar 🎭",
		"Cultural triangle route 🗺️",
		"Local experiences 🎨",
	},
	IntentFood: {
		"Must-try dishes checklist 🍛",
		"Cooking class recommendations 👨‍🍳",
		"Street food safety tips 🥘",
		"Restaurant reservations 🍽️",
	},
	IntentItinerary: {
		"Optimize my route 🛣️",
		"Add unique experiences ✨",
		"Time-saving tips ⏰",
		"Book everything now 🎫",
	},
	IntentBudget: {
		"Daily budget breakdown 💵",
		"Where to save vs splurge 💎",
		"Hidden costs to know 📊",
		"Best value experiences 🌟",
	},
}

var defaultSuggestions = []string{
	"Tell me more about your trip 🗺️",
	"Check availability & prices 💰",
	"See photos & videos 📸",
	"Get personalized tips 💡",
}

// SuggestionsFor returns follow-up chips for the detected intent.
func SuggestionsFor(intent Intent) []string {
	if s, ok := intentSuggestions[intent]; ok {
		return s
	}
	return defaultSuggestions
}
