package templates

import (
	"strings"
	"testing"

	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

func TestValidate_ValidAnswer(t *testing.T) {
	errors := Validate("firstName", "Ada")
	if len(errors) != 0 {
		t.Errorf("Expected no validation errors, got %d: %v", len(errors), errors)
	}
}

func TestValidate_UnknownField(t *testing.T) {
	errors := Validate("favouriteColour", "green")
	if len(errors) == 0 {
		t.Fatal("Expected validation error for unknown field")
	}
	if errors[0].Field != "favouriteColour" {
		t.Errorf("Expected error field 'favouriteColour', got '%s'", errors[0].Field)
	}
}

func TestValidate_Cases(t *testing.T) {
	testCases := []struct {
		name      string
		field     string
		value     interface{}
		wantError bool
	}{
		{"user type", "userType", "business", false},
		{"user type not in enum", "userType", "robot", true},
		{"user type cleared", "userType", "", false},
		{"user type wrong type", "userType", 3.0, true},
		{"business size", "businessSize", "growing", false},
		{"business size not in enum", "businessSize", "huge", true},
		{"sector", "sector", "Technology & Software", false},
		{"sector other", "sector", "Other", false},
		{"sector unknown", "sector", "Space Mining", true},
		{"email", "email", "ada@example.com", false},
		{"email without at", "email", "ada.example.com", true},
		{"has organisation", "hasOrganisation", true, false},
		{"has organisation as string", "hasOrganisation", "yes", true},
		{"has organisation null", "hasOrganisation", nil, true},
		{"string null", "firstName", nil, true},
		{"outcomes", "outcomes", []interface{}{"networking", "talent"}, false},
		{"outcomes typed slice", "outcomes", []string{"lead-generation"}, false},
		{"outcomes unknown tag", "outcomes", []interface{}{"world-peace"}, true},
		{"outcomes non string", "outcomes", []interface{}{1.0}, true},
		{"outcomes null clears", "outcomes", nil, false},
		{"interests", "interests", []interface{}{"marketing"}, false},
		{"interests as string", "interests", "marketing", true},
		{"first name too long", "firstName", strings.Repeat("a", 121), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errors := Validate(tc.field, tc.value)
			hasError := len(errors) > 0

			if hasError != tc.wantError {
				t.Errorf("Expected error=%v, got error=%v (errors: %v)", tc.wantError, hasError, errors)
			}
		})
	}
}

func TestValidateAll_Ordered(t *testing.T) {
	errors := ValidateAll(map[string]interface{}{
		"userType":     "robot",
		"businessSize": "huge",
		"firstName":    "Ada",
	})
	if len(errors) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d: %v", len(errors), errors)
	}
	if errors[0].Field != "businessSize" || errors[1].Field != "userType" {
		t.Errorf("Expected errors ordered by field, got %v", errors)
	}
}

func TestValidate_AgreesWithAnswersSet(t *testing.T) {
	for _, field := range GetFieldList() {
		var a wizard.Answers
		var value interface{} = "x"
		switch GetFields()[field].Type {
		case "boolean":
			value = true
		case "array":
			value = []interface{}{}
		}
		if err := a.Set(field, value); err != nil && len(GetFields()[field].Enum) == 0 {
			t.Errorf("Field %s is in the catalog but Answers.Set rejected it: %v", field, err)
		}
	}
}

func TestFieldsForStep(t *testing.T) {
	got := FieldsForStep(wizard.StepPersonalDetails)
	want := []string{"email", "firstName", "lastName", "location", "phone"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if len(FieldsForStep(wizard.StepGeneration)) != 0 {
		t.Error("Expected no fields on the generation step")
	}
}

func TestFormatSummary(t *testing.T) {
	testCases := []struct {
		name    string
		answers wizard.Answers
		want    string
	}{
		{
			name: "business",
			answers: wizard.Answers{
				UserType: wizard.UserBusiness, FirstName: "Ada", LastName: "Lovelace",
				Role: "Founder", CompanyName: "Acme Ltd", Sector: "Technology & Software",
				BusinessSize: wizard.SizeGrowing,
			},
			want: "Ada Lovelace, Founder at Acme Ltd (Technology & Software, growing)",
		},
		{
			name: "business without size",
			answers: wizard.Answers{
				UserType: wizard.UserBusiness, FirstName: "Ada", LastName: "Lovelace",
				Role: "Founder", CompanyName: "Acme Ltd", Sector: "Other", OtherSector: "Robotics",
			},
			want: "Ada Lovelace, Founder at Acme Ltd (Robotics)",
		},
		{
			name: "charity without sector",
			answers: wizard.Answers{
				UserType: wizard.UserCharity, FirstName: "Grace", LastName: "Hopper", CompanyName: "Hope Trust",
			},
			want: "Grace Hopper representing Hope Trust",
		},
		{
			name:    "consumer",
			answers: wizard.Answers{UserType: wizard.UserConsumer, FirstName: "Alan", LastName: "Turing", Location: "Manchester"},
			want:    "Alan Turing from Manchester",
		},
		{
			name:    "no user type",
			answers: wizard.Answers{FirstName: "Alan"},
			want:    "Alan",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSummary(tc.answers); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatPackage(t *testing.T) {
	pkg := pricing.Generate(wizard.Answers{
		UserType:     wizard.UserBusiness,
		Sector:       "Technology & Software",
		BusinessSize: wizard.SizeGrowing,
		Outcomes:     wizard.NewTagSet("lead-generation", "networking"),
	})
	text := FormatPackage(pkg)

	for _, want := range []string{"Growth package", "Lead generation", "bundle discount 15%", "total £87.55/mo or £945.54/yr", "estimated ROI £600"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected package text to contain %q, got:\n%s", want, text)
		}
	}
}
