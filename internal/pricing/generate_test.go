package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

func growthAnswers() wizard.Answers {
	return wizard.Answers{
		UserType:     wizard.UserBusiness,
		Sector:       "Technology & Software",
		BusinessSize: wizard.SizeGrowing,
		Outcomes:     wizard.NewTagSet("lead-generation", "networking"),
	}
}

func featureIDs(p Package) []string {
	ids := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestGenerateGrowthScenario(t *testing.T) {
	pkg := Generate(growthAnswers())

	assert.Equal(t, "Growth", pkg.Tier)
	assert.Equal(t, 600.0, pkg.EstimatedROI)
	assert.Equal(t, []string{
		"member-profile",
		"community-access",
		"networking-events",
		"lead-generation",
		"analytics-dashboard",
		"premium-networking",
	}, featureIDs(pkg))
	assert.Equal(t, 3, pkg.PremiumCount)
	assert.Equal(t, Pricing{
		BasePrice:      103,
		BundleDiscount: 0.15,
		DiscountAmount: 15.45,
		FinalPrice:     87.55,
		AnnualPrice:    945.54,
	}, pkg.Pricing)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := growthAnswers()
	a.Interests = wizard.NewTagSet("sustainability", "marketing", "ecommerce")

	first, err := json.Marshal(Generate(a))
	require.NoError(t, err)

	var b wizard.Answers
	require.NoError(t, json.Unmarshal(mustJSON(t, a), &b))
	second, err := json.Marshal(Generate(b))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBundleDiscountBoundaries(t *testing.T) {
	base := wizard.Answers{UserType: wizard.UserBusiness, BusinessSize: wizard.SizeSolo}
	premium := []string{"lead-generation", "marketing-suite", "premium-networking", "ecommerce-shop"}

	cases := []struct {
		count    int
		discount float64
	}{
		{0, 0},
		{1, 0},
		{2, 0.10},
		{3, 0.15},
		{4, 0.15},
	}
	for _, tc := range cases {
		toggles := map[string]bool{}
		for _, id := range premium[:tc.count] {
			toggles[id] = true
		}
		pkg := Build(base, toggles)
		assert.Equal(t, tc.count, pkg.PremiumCount)
		assert.Equal(t, tc.discount, pkg.Pricing.BundleDiscount, "premium count %d", tc.count)
		assert.InDelta(t, pkg.Pricing.BasePrice*(1-tc.discount), pkg.Pricing.FinalPrice, 0.01)
	}
}

func TestDiscountAppliesToWholeTotal(t *testing.T) {
	a := wizard.Answers{UserType: wizard.UserCharity, BusinessSize: wizard.SizeSolo}
	pkg := Build(a, map[string]bool{"lead-generation": true, "marketing-suite": true})

	// charity-partnerships (values, 15) is discounted along with the premium pair.
	require.True(t, pkg.Has("charity-partnerships"))
	assert.Equal(t, 113.0, pkg.Pricing.BasePrice)
	assert.Equal(t, 101.7, pkg.Pricing.FinalPrice)
}

func TestTogglesCannotRemoveCore(t *testing.T) {
	pkg := Build(growthAnswers(), map[string]bool{"member-profile": false, "lead-generation": false})
	assert.True(t, pkg.Has("member-profile"))
	assert.False(t, pkg.Has("lead-generation"))
	for _, f := range pkg.Features {
		if f.Category == CategoryCore {
			assert.Zero(t, f.Price)
			assert.False(t, f.Removable)
		}
	}
}

func TestToggle(t *testing.T) {
	toggles, err := Toggle(nil, "mentoring", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mentoring": true}, toggles)

	_, err = Toggle(toggles, "networking-events", false)
	assert.ErrorIs(t, err, ErrFeatureLocked)

	_, err = Toggle(toggles, "crypto-wallet", true)
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestTierAndROI(t *testing.T) {
	assert.Equal(t, "Custom", TierFor(""))
	assert.Equal(t, "Enterprise", TierFor(wizard.SizeEnterprise))

	a := wizard.Answers{Outcomes: wizard.NewTagSet("talent")}
	assert.Equal(t, 150.0, EstimatedROI(a))
	a.BusinessSize = wizard.SizeEnterprise
	assert.Equal(t, 750.0, EstimatedROI(a))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
