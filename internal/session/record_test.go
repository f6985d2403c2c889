package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

func TestApplyPatch(t *testing.T) {
	rec := New("s1")
	answers := wizard.Answers{UserType: wizard.UserBusiness, Outcomes: wizard.NewTagSet("talent")}
	pkg := pricing.Generate(answers)
	user := "u-1"

	rec.Apply(Patch{
		Progress: &wizard.Progress{Current: wizard.StepBusinessType, Reached: wizard.StepBusinessType},
		Answers:  &answers,
		Package:  &pkg,
		UserID:   &user,
	})
	assert.Equal(t, wizard.StepBusinessType, rec.Current)
	assert.Equal(t, answers, rec.ConversationData)
	require.NotNil(t, rec.GeneratedPackage)
	assert.Equal(t, "u-1", rec.UserID)

	rec.Apply(Patch{ClearPackage: true})
	assert.Nil(t, rec.GeneratedPackage)
	assert.Equal(t, wizard.StepBusinessType, rec.Current)
}

func TestMemoryRepositoryCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	rec := New("s1")
	rec.ConversationData.FirstName = "Ada"
	require.NoError(t, repo.Put(ctx, rec))

	rec.ConversationData.FirstName = "Changed"
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.ConversationData.FirstName)

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
