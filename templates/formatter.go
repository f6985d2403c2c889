package templates

import (
	"fmt"
	"strings"

	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

// Summary formats shown on the generation step, keyed by user type.
var summaryFormats = map[wizard.UserType]string{
	wizard.UserBusiness: "{firstName} {lastName}, {role} at {companyName} ({sector}, {businessSize})",
	wizard.UserCharity:  "{firstName} {lastName} representing {companyName} ({sector})",
	wizard.UserConsumer: "{firstName} {lastName} from {location}",
}

// FormatSummary renders a one-line description of who the member is.
func FormatSummary(a wizard.Answers) string {
	format, ok := summaryFormats[a.UserType]
	if !ok {
		format = "{firstName} {lastName}"
	}
	values := map[string]interface{}{
		"firstName":    a.FirstName,
		"lastName":     a.LastName,
		"location":     a.Location,
		"companyName":  a.CompanyName,
		"role":         a.Role,
		"sector":       a.SectorLabel(),
		"businessSize": string(a.BusinessSize),
	}
	return interpolateFormat(format, values)
}

// FormatPackage converts a generated package to human-readable text lines
func FormatPackage(pkg pricing.Package) string {
	lines := []string{fmt.Sprintf("%s package", pkg.Tier)}
	for _, f := range pkg.Features {
		price := "included"
		if f.Price > 0 {
			price = "£" + formatValue(f.Price) + "/mo"
		}
		marker := " "
		if f.Recommended {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s %-24s %-8s %s", marker, f.Name, f.Category, price))
	}

	p := pkg.Pricing
	lines = append(lines, fmt.Sprintf("  base £%.2f", p.BasePrice))
	if p.BundleDiscount > 0 {
		lines = append(lines, fmt.Sprintf("  bundle discount %.0f%% (-£%.2f)", p.BundleDiscount*100, p.DiscountAmount))
	}
	lines = append(lines,
		fmt.Sprintf("  total £%.2f/mo or £%.2f/yr", p.FinalPrice, p.AnnualPrice),
		fmt.Sprintf("  estimated ROI £%s", formatValue(pkg.EstimatedROI)),
	)
	return strings.Join(lines, "\n")
}

// interpolateFormat replaces {field} placeholders with actual values
func interpolateFormat(format string, data map[string]interface{}) string {
	result := format
	for key, value := range data {
		result = strings.ReplaceAll(result, "{"+key+"}", formatValue(value))
	}

	// Clean up any remaining unreplaced placeholders
	result = strings.ReplaceAll(result, "{", "")
	result = strings.ReplaceAll(result, "}", "")

	return tidy(result)
}

// tidy drops the separators left behind by empty answers.
func tidy(s string) string {
	r := strings.NewReplacer("( ", "(", " )", ")", " ,", ",", ",)", ")", "(,", "(", "()", "")
	for prev := ""; prev != s; {
		prev = s
		s = strings.Join(strings.Fields(r.Replace(s)), " ")
	}
	return strings.Trim(s, ", ")
}

// formatValue converts a value to a string for display
func formatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Check if it's actually an integer
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
