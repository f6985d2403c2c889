package pricing

import (
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

// Category groups features for bundle pricing.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryPremium Category = "premium"
	CategoryValues  Category = "values"
)

// Feature is one entry of the fixed catalog. Recommended decides whether the
// feature is preselected for a given set of answers.
type Feature struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Price       float64
	Removable   bool
	Recommended func(wizard.Answers) bool
}

func always(wizard.Answers) bool { return true }

// Catalog is ordered; generated packages list features in this order.
var Catalog = []Feature{
	{
		ID:          "member-profile",
		Name:        "Member profile",
		Description: "Public profile and directory listing",
		Category:    CategoryCore,
		Recommended: always,
	},
	{
		ID:          "community-access",
		Name:        "Community access",
		Description: "Join local and sector communities",
		Category:    CategoryCore,
		Recommended: always,
	},
	{
		ID:          "networking-events",
		Name:        "Networking events",
		Description: "Monthly member networking events",
		Category:    CategoryCore,
		Recommended: always,
	},
	{
		ID:          "business-growth",
		Name:        "Business growth toolkit",
		Description: "Growth planning, templates and workshops",
		Category:    CategoryPremium,
		Price:       49,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool { return a.HasOrganisation },
	},
	{
		ID:          "lead-generation",
		Name:        "Lead generation",
		Description: "Qualified introductions and referral routing",
		Category:    CategoryPremium,
		Price:       39,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool { return a.Outcomes.Has("lead-generation") },
	},
	{
		ID:          "marketing-suite",
		Name:        "Marketing suite",
		Description: "Campaign tools and featured placements",
		Category:    CategoryPremium,
		Price:       59,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.Outcomes.Has("brand-awareness") || a.Interests.Has("marketing")
		},
	},
	{
		ID:          "analytics-dashboard",
		Name:        "Analytics dashboard",
		Description: "Profile, referral and campaign reporting",
		Category:    CategoryPremium,
		Price:       29,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			switch a.BusinessSize {
			case wizard.SizeGrowing, wizard.SizeEstablished, wizard.SizeEnterprise:
				return true
			}
			return false
		},
	},
	{
		ID:          "premium-networking",
		Name:        "Premium networking",
		Description: "Curated introductions and private roundtables",
		Category:    CategoryPremium,
		Price:       35,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.Outcomes.Has("networking") || a.Goals.Has("partnerships")
		},
	},
	{
		ID:          "ecommerce-shop",
		Name:        "E-commerce shop",
		Description: "Sell products to the member marketplace",
		Category:    CategoryPremium,
		Price:       45,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.Interests.Has("ecommerce") || a.Sector == "Retail & E-commerce"
		},
	},
	{
		ID:          "affiliate-center",
		Name:        "Affiliate center",
		Description: "Earn commission on member referrals",
		Category:    CategoryPremium,
		Price:       25,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.Interests.Has("affiliate") || a.Outcomes.Has("revenue-growth")
		},
	},
	{
		ID:          "charity-partnerships",
		Name:        "Charity partnerships",
		Description: "Match with members supporting good causes",
		Category:    CategoryValues,
		Price:       15,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.UserType == wizard.UserCharity || a.Interests.Has("social-impact")
		},
	},
	{
		ID:          "sustainability-badge",
		Name:        "Sustainability badge",
		Description: "Showcase your sustainability commitments",
		Category:    CategoryValues,
		Price:       10,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool { return a.Interests.Has("sustainability") },
	},
	{
		ID:          "rewards-club",
		Name:        "Rewards club",
		Description: "Member discounts and cashback",
		Category:    CategoryValues,
		Price:       12,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.UserType == wizard.UserConsumer || a.Interests.Has("rewards")
		},
	},
	{
		ID:          "mentoring",
		Name:        "Mentoring",
		Description: "One-to-one mentoring with experienced members",
		Category:    CategoryValues,
		Price:       20,
		Removable:   true,
		Recommended: func(a wizard.Answers) bool {
			return a.Challenges.Has("skills-gap") || a.Goals.Has("mentoring") || a.Interests.Has("mentoring")
		},
	},
}

// Lookup finds a catalog feature by id.
func Lookup(id string) (Feature, bool) {
	for _, f := range Catalog {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}
