package wizard

import (
	"strings"
)

// Step is a position in the journey.
type Step int

const (
	StepWelcome Step = iota
	StepPersonalDetails
	StepOrganisation
	StepBusinessType
	StepBusinessDetails
	StepSpecificQuestions
	StepGeneration
	StepRegistration
	StepComplete
)

// Steps lists every step in journey order.
var Steps = []Step{
	StepWelcome,
	StepPersonalDetails,
	StepOrganisation,
	StepBusinessType,
	StepBusinessDetails,
	StepSpecificQuestions,
	StepGeneration,
	StepRegistration,
	StepComplete,
}

var stepNames = map[Step]string{
	StepWelcome:           "welcome",
	StepPersonalDetails:   "personal-details",
	StepOrganisation:      "organisation",
	StepBusinessType:      "business-type",
	StepBusinessDetails:   "business-details",
	StepSpecificQuestions: "specific-questions",
	StepGeneration:        "generation",
	StepRegistration:      "registration",
	StepComplete:          "complete",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepComplete
}

// ParseStep resolves a step name back to its ordinal.
func ParseStep(name string) (Step, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range stepNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Missing returns the fields that still block step s. An empty result means
// the step is complete.
func Missing(s Step, a Answers, registered bool) []string {
	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}

	switch s {
	case StepWelcome:
		need(a.UserType.Valid(), "userType")
	case StepPersonalDetails:
		need(a.FirstName != "", "firstName")
		need(a.LastName != "", "lastName")
		need(strings.Contains(a.Email, "@"), "email")
	case StepOrganisation:
		need(!a.HasOrganisation || a.CompanyName != "", "companyName")
	case StepBusinessType:
		need(a.Sector != "", "sector")
		need(a.Sector != SectorOther || a.OtherSector != "", "otherSector")
		need(a.BusinessSize.Valid(), "businessSize")
	case StepBusinessDetails:
		need(a.Outcomes.Len() > 0, "outcomes")
	case StepSpecificQuestions:
		need(a.Interests.Len() > 0, "interests")
	case StepRegistration:
		need(registered, "registration")
	}
	return missing
}

// Complete reports whether step s has everything it needs.
func Complete(s Step, a Answers, registered bool) bool {
	return len(Missing(s, a, registered)) == 0
}
