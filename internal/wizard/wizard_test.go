package wizard

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAnswers() Answers {
	return Answers{
		UserType:     UserBusiness,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Sector:       "Technology & Software",
		BusinessSize: SizeGrowing,
		Outcomes:     NewTagSet("lead-generation"),
		Interests:    NewTagSet("marketing"),
	}
}

func TestOutcomesPredicate(t *testing.T) {
	a := completeAnswers()
	a.Outcomes = nil
	assert.False(t, Complete(StepBusinessDetails, a, false))
	assert.Equal(t, []string{"outcomes"}, Missing(StepBusinessDetails, a, false))

	for _, tags := range [][]string{{"networking"}, {"networking", "talent"}} {
		a.Outcomes = NewTagSet(tags...)
		assert.True(t, Complete(StepBusinessDetails, a, false), "outcomes %v", tags)
	}
}

func TestSectorOtherRequiresFreeText(t *testing.T) {
	a := completeAnswers()
	a.Sector = SectorOther
	assert.Equal(t, []string{"otherSector"}, Missing(StepBusinessType, a, false))

	a.OtherSector = "Aquaculture"
	assert.True(t, Complete(StepBusinessType, a, false))
	assert.Equal(t, "Aquaculture", a.SectorLabel())
}

func TestOrganisationStep(t *testing.T) {
	a := Answers{HasOrganisation: true}
	assert.False(t, Complete(StepOrganisation, a, false))
	a.CompanyName = "Analytical Engines Ltd"
	assert.True(t, Complete(StepOrganisation, a, false))
	assert.True(t, Complete(StepOrganisation, Answers{}, false))
}

func TestSetField(t *testing.T) {
	var a Answers
	require.NoError(t, a.Set("firstName", "  Ada "))
	assert.Equal(t, "Ada", a.FirstName)

	require.NoError(t, a.Set("hasOrganisation", true))
	assert.True(t, a.HasOrganisation)

	require.NoError(t, a.Set("outcomes", []any{"networking", "networking", "talent"}))
	assert.Equal(t, []string{"networking", "talent"}, a.Outcomes.Slice())

	assert.ErrorIs(t, a.Set("nope", "x"), ErrUnknownField)
	assert.ErrorIs(t, a.Set("businessSize", "huge"), ErrInvalidValue)
	assert.ErrorIs(t, a.Set("hasOrganisation", "yes"), ErrInvalidValue)
	assert.ErrorIs(t, a.Set("interests", "marketing"), ErrInvalidValue)
}

func TestToggleTag(t *testing.T) {
	var a Answers
	require.NoError(t, a.ToggleTag("interests", "events"))
	assert.True(t, a.Interests.Has("events"))
	require.NoError(t, a.ToggleTag("interests", "events"))
	assert.Nil(t, a.Interests)
	assert.ErrorIs(t, a.ToggleTag("email", "x"), ErrUnknownField)
}

func TestTagSetJSONIsSorted(t *testing.T) {
	a := Answers{Outcomes: NewTagSet("talent", "networking", "lead-generation")}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hasOrganisation":false,"outcomes":["lead-generation","networking","talent"]}`, string(data))

	var back Answers
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)
}

func TestProgressNextRequiresCompletion(t *testing.T) {
	var p Progress
	err := p.Next(Answers{})
	require.ErrorIs(t, err, ErrStepIncomplete)

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"userType"}, incomplete.Missing)
	assert.Equal(t, StepWelcome, p.Current)

	require.NoError(t, p.Next(Answers{UserType: UserConsumer}))
	assert.Equal(t, StepPersonalDetails, p.Current)
	assert.Equal(t, StepPersonalDetails, p.Reached)
}

func TestProgressJumpTo(t *testing.T) {
	a := completeAnswers()
	var p Progress
	for i := 0; i < 4; i++ {
		require.NoError(t, p.Next(a))
	}
	require.Equal(t, StepBusinessDetails, p.Current)

	before := p
	err := p.JumpTo(StepSpecificQuestions)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, before, p)

	require.NoError(t, p.JumpTo(StepPersonalDetails))
	assert.Equal(t, StepPersonalDetails, p.Current)
	assert.Equal(t, StepBusinessDetails, p.Reached)

	// Data invalidated after the fact does not re-lock a reached step.
	a.Outcomes = nil
	require.NoError(t, p.JumpTo(StepBusinessDetails))
	assert.ErrorIs(t, p.Next(a), ErrStepIncomplete)
}

func TestProgressBackAndReset(t *testing.T) {
	var p Progress
	assert.ErrorIs(t, p.Back(), ErrAtFirstStep)

	require.NoError(t, p.Next(Answers{UserType: UserCharity}))
	require.NoError(t, p.Back())
	assert.Equal(t, StepWelcome, p.Current)
	assert.Equal(t, StepPersonalDetails, p.Reached)

	p.Registered = true
	p.Reset()
	assert.Equal(t, Progress{}, p)
}

func TestRegistrationAndTerminal(t *testing.T) {
	p := Progress{Current: StepRegistration, Reached: StepRegistration}
	assert.ErrorIs(t, p.Next(Answers{}), ErrStepIncomplete)

	p.Registered = true
	require.NoError(t, p.Next(Answers{}))
	assert.Equal(t, StepComplete, p.Current)
	assert.ErrorIs(t, p.Next(Answers{}), ErrTerminal)
}

func TestParseStep(t *testing.T) {
	for _, s := range Steps {
		got, ok := ParseStep(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}
	_, ok := ParseStep("payment")
	assert.False(t, ok)
}
