package wizard

// Tag is one selectable option in a preference set.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Sectors offered on the business type step. "Other" unlocks free text.
var Sectors = []string{
	"Technology & Software",
	"Professional Services",
	"Retail & E-commerce",
	"Health & Wellbeing",
	"Hospitality & Leisure",
	"Construction & Property",
	"Creative & Media",
	"Finance & Insurance",
	"Education & Training",
	"Manufacturing",
	SectorOther,
}

// TagCatalog is the fixed set of identifiers each preference set may hold.
var TagCatalog = map[string][]Tag{
	"outcomes": {
		{ID: "lead-generation", Label: "Generate more leads"},
		{ID: "networking", Label: "Grow my network"},
		{ID: "brand-awareness", Label: "Raise brand awareness"},
		{ID: "revenue-growth", Label: "Increase revenue"},
		{ID: "partnerships", Label: "Find partners"},
		{ID: "talent", Label: "Hire talent"},
		{ID: "customer-retention", Label: "Keep customers coming back"},
	},
	"interests": {
		{ID: "marketing", Label: "Marketing"},
		{ID: "ecommerce", Label: "Selling online"},
		{ID: "affiliate", Label: "Affiliate income"},
		{ID: "sustainability", Label: "Sustainability"},
		{ID: "social-impact", Label: "Social impact"},
		{ID: "rewards", Label: "Rewards and perks"},
		{ID: "events", Label: "Events"},
		{ID: "mentoring", Label: "Mentoring"},
		{ID: "technology", Label: "Technology"},
		{ID: "finance", Label: "Finance"},
	},
	"goals": {
		{ID: "grow-audience", Label: "Grow my audience"},
		{ID: "partnerships", Label: "Build partnerships"},
		{ID: "mentoring", Label: "Get a mentor"},
		{ID: "learn", Label: "Learn new skills"},
		{ID: "give-back", Label: "Give back"},
	},
	"challenges": {
		{ID: "time", Label: "Not enough time"},
		{ID: "budget", Label: "Limited budget"},
		{ID: "skills-gap", Label: "Skills gap"},
		{ID: "visibility", Label: "Low visibility"},
		{ID: "cash-flow", Label: "Cash flow"},
	},
}

// KnownTag reports whether id is in the catalog for the named set.
func KnownTag(set, id string) bool {
	for _, t := range TagCatalog[set] {
		if t.ID == id {
			return true
		}
	}
	return false
}
