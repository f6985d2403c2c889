// Package pricing derives the recommended package and its price from the
// journey answers. Everything here is a pure function of its inputs.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

var (
	ErrUnknownFeature = errors.New("unknown feature")
	ErrFeatureLocked  = errors.New("feature cannot be removed")
)

const (
	annualDiscount = 0.10
	roiPerOutcome  = 150.0
	customTier     = "Custom"
)

var tiers = map[wizard.BusinessSize]string{
	wizard.SizeSolo:        "Starter",
	wizard.SizeSmall:       "Essentials",
	wizard.SizeGrowing:     "Growth",
	wizard.SizeEstablished: "Professional",
	wizard.SizeEnterprise:  "Enterprise",
}

var sizeMultiplier = map[wizard.BusinessSize]float64{
	wizard.SizeSolo:        1,
	wizard.SizeSmall:       1.5,
	wizard.SizeGrowing:     2,
	wizard.SizeEstablished: 3,
	wizard.SizeEnterprise:  5,
}

// LineItem is a feature as it appears in a generated package.
type LineItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Removable   bool     `json:"removable"`
	Recommended bool     `json:"recommended"`
}

type Pricing struct {
	BasePrice      float64 `json:"basePrice"`
	BundleDiscount float64 `json:"bundleDiscount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalPrice     float64 `json:"finalPrice"`
	AnnualPrice    float64 `json:"annualPrice"`
}

// Package is the offer shown at the end of the journey.
type Package struct {
	Tier         string     `json:"tier"`
	Features     []LineItem `json:"features"`
	PremiumCount int        `json:"premiumCount"`
	Pricing      Pricing    `json:"pricing"`
	EstimatedROI float64    `json:"estimatedRoi"`
}

// Has reports whether the package includes feature id.
func (p Package) Has(id string) bool {
	for _, f := range p.Features {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Generate returns the recommended package for a.
func Generate(a wizard.Answers) Package {
	return Build(a, nil)
}

// Build generates the package for a, then applies the user's toggles.
// Toggles on core features or unknown ids are ignored.
func Build(a wizard.Answers, toggles map[string]bool) Package {
	pkg := Package{Tier: TierFor(a.BusinessSize)}

	var total float64
	for _, f := range Catalog {
		recommended := f.Recommended != nil && f.Recommended(a)
		selected := recommended || f.Category == CategoryCore
		if f.Removable {
			if on, ok := toggles[f.ID]; ok {
				selected = on
			}
		}
		if !selected {
			continue
		}

		price := f.Price
		if !f.Removable {
			price = 0
		}
		pkg.Features = append(pkg.Features, LineItem{
			ID:          f.ID,
			Name:        f.Name,
			Category:    f.Category,
			Price:       price,
			Removable:   f.Removable,
			Recommended: recommended,
		})
		total += price
		if f.Category == CategoryPremium {
			pkg.PremiumCount++
		}
	}

	// The bundle rate is earned by premium features but taken off the whole
	// total.
	discount := BundleDiscount(pkg.PremiumCount)
	final := total * (1 - discount)
	pkg.Pricing = Pricing{
		BasePrice:      round2(total),
		BundleDiscount: discount,
		DiscountAmount: round2(total - final),
		FinalPrice:     round2(final),
		AnnualPrice:    round2(AnnualPrice(final)),
	}
	pkg.EstimatedROI = round2(EstimatedROI(a))
	return pkg
}

// Toggle records the user's choice for a removable feature.
func Toggle(toggles map[string]bool, id string, enabled bool) (map[string]bool, error) {
	f, ok := Lookup(id)
	if !ok {
		return toggles, fmt.Errorf("%w: %q", ErrUnknownFeature, id)
	}
	if !f.Removable {
		return toggles, fmt.Errorf("%w: %q", ErrFeatureLocked, id)
	}
	out := make(map[string]bool, len(toggles)+1)
	for k, v := range toggles {
		out[k] = v
	}
	out[id] = enabled
	return out, nil
}

// TierFor maps a business size band to its tier label.
func TierFor(size wizard.BusinessSize) string {
	if t, ok := tiers[size]; ok {
		return t
	}
	return customTier
}

// BundleDiscount is 15% for three or more premium features, 10% for exactly
// two, nothing otherwise.
func BundleDiscount(premiumCount int) float64 {
	switch {
	case premiumCount >= 3:
		return 0.15
	case premiumCount == 2:
		return 0.10
	}
	return 0
}

// AnnualPrice offers twelve months at a 10% annual discount.
func AnnualPrice(monthly float64) float64 {
	return monthly * 12 * (1 - annualDiscount)
}

// EstimatedROI is a cosmetic estimate: outcomes × 150 × size multiplier.
func EstimatedROI(a wizard.Answers) float64 {
	mult, ok := sizeMultiplier[a.BusinessSize]
	if !ok {
		mult = 1
	}
	return float64(a.Outcomes.Len()) * roiPerOutcome * mult
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
