package templates

import "github.com/EasterCompany/package-builder-service/internal/wizard"

const (
	shortText = 120
	longText  = 500
)

// GetFields returns the rules for every answer the wizard collects.
func GetFields() map[string]FieldSpec {
	sizes := make([]string, len(wizard.BusinessSizes))
	for i, s := range wizard.BusinessSizes {
		sizes[i] = string(s)
	}
	sectors := make([]string, len(wizard.Sectors))
	copy(sectors, wizard.Sectors)

	return map[string]FieldSpec{
		"userType": {
			Type:        "string",
			Step:        wizard.StepWelcome,
			Enum:        []string{string(wizard.UserConsumer), string(wizard.UserBusiness), string(wizard.UserCharity)},
			Description: "Who the member is joining as",
		},
		"firstName": {Type: "string", Step: wizard.StepPersonalDetails, MaxLength: shortText},
		"lastName":  {Type: "string", Step: wizard.StepPersonalDetails, MaxLength: shortText},
		"email": {
			Type:        "string",
			Step:        wizard.StepPersonalDetails,
			MaxLength:   254,
			Description: "Contact email, must contain @",
		},
		"phone":    {Type: "string", Step: wizard.StepPersonalDetails, MaxLength: 32},
		"location": {Type: "string", Step: wizard.StepPersonalDetails, MaxLength: shortText},
		"hasOrganisation": {
			Type:        "boolean",
			Step:        wizard.StepOrganisation,
			Description: "Whether the member represents an organisation",
		},
		"companyName": {Type: "string", Step: wizard.StepOrganisation, MaxLength: shortText},
		"website":     {Type: "string", Step: wizard.StepOrganisation, MaxLength: longText},
		"role":        {Type: "string", Step: wizard.StepOrganisation, MaxLength: shortText},
		"sector": {
			Type:        "string",
			Step:        wizard.StepBusinessType,
			Enum:        sectors,
			Description: "Industry sector, or Other with otherSector filled in",
		},
		"otherSector": {Type: "string", Step: wizard.StepBusinessType, MaxLength: shortText},
		"businessSize": {
			Type: "string",
			Step: wizard.StepBusinessType,
			Enum: sizes,
		},
		"outcomes": {
			Type:        "array",
			Step:        wizard.StepBusinessDetails,
			TagSet:      "outcomes",
			Description: "What the member wants from the network",
		},
		"goals":      {Type: "array", Step: wizard.StepBusinessDetails, TagSet: "goals"},
		"challenges": {Type: "array", Step: wizard.StepBusinessDetails, TagSet: "challenges"},
		"interests": {
			Type:        "array",
			Step:        wizard.StepSpecificQuestions,
			TagSet:      "interests",
			Description: "Topics the member cares about",
		},
	}
}
