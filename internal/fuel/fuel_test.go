package fuel

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCompletionIsMonotonic(t *testing.T) {
	steps := []func(p *Profile){
		func(p *Profile) { p.Email = "ada@example.com" },
		func(p *Profile) { p.Bio = strings.Repeat("b", 60) },
		func(p *Profile) { p.Experience = []Experience{{Title: "Engineer"}} },
		func(p *Profile) { p.SocialLinks = []string{"https://social.example/ada"} },
		func(p *Profile) { p.ImageURL = "https://img.example/ada.png" },
		func(p *Profile) { p.Company, p.Website = "Engines", "https://engines.example" },
	}

	var p Profile
	prev := ProfileCompletion(p)
	assert.Zero(t, prev)
	for i, apply := range steps {
		apply(&p)
		got := ProfileCompletion(p)
		assert.GreaterOrEqual(t, got, prev, "step %d", i)
		prev = got
	}
	assert.Equal(t, 80, prev)
}

func TestProfileCompletionClampsAt100(t *testing.T) {
	p := Profile{
		Email:       "ada@example.com",
		Phone:       "+44 20 0000 0000",
		Bio:         strings.Repeat("x", 150),
		Experience:  []Experience{{Title: "A"}, {Title: "B"}},
		SocialLinks: []string{"a", "b", "c"},
		ImageURL:    "img",
		Company:     "Engines",
		Website:     "https://engines.example",
	}
	assert.Equal(t, 100, ProfileCompletion(p))
}

func TestQualityBonus(t *testing.T) {
	p := Profile{Bio: strings.Repeat("x", 101), SocialLinks: []string{"a", "b"}}
	// bio +15, social +10; two links are not enough for the quality bonus.
	assert.Equal(t, 25, ProfileCompletion(p))
	p.SocialLinks = append(p.SocialLinks, "c")
	assert.Equal(t, 45, ProfileCompletion(p))
}

func TestActivityFuel(t *testing.T) {
	a := Activity{
		WeeklyLogins:        3,
		StreakDays:          12,
		Connections:         2,
		Referrals:           1,
		ProfileViews:        45,
		CommunityEngagement: 4,
		EventsAttended:      1,
		PackageUpgrades:     0,
	}
	// 6 + 7 + 6 + 10 + 4 + 4 + 5 + 0
	assert.Equal(t, 42, ActivityFuel(a))

	a.PackageUpgrades = 5
	assert.Equal(t, 100, ActivityFuel(a))
	assert.Zero(t, ActivityFuel(Activity{Connections: -4}))
}

func TestScore(t *testing.T) {
	p := Profile{Email: "a@b.c", ImageURL: "img"}
	a := Activity{Referrals: 2}

	s := Score(p, a, 0)
	assert.Equal(t, State{
		ProfileCompletion: 25,
		ActivityFuel:      20,
		CurrentFuel:       45,
		NextMilestone:     50,
		Zone:              "low",
	}, s)

	s = Score(p, a, 60)
	assert.Zero(t, s.CurrentFuel)
	assert.Equal(t, 25, s.NextMilestone)
	assert.Equal(t, "empty", s.Zone)
}

func TestScoreCanReachGoldZone(t *testing.T) {
	p := Profile{
		Email: "a@b.c", Bio: strings.Repeat("x", 120),
		Experience: []Experience{{}, {}}, SocialLinks: []string{"a"},
		ImageURL: "i", Company: "c", Website: "w",
	}
	s := Score(p, Activity{PackageUpgrades: 7}, 0)
	assert.Equal(t, 200, s.CurrentFuel)
	assert.Equal(t, 200, s.NextMilestone)
	assert.Equal(t, "gold", s.Zone)
}

func TestNextMilestone(t *testing.T) {
	cases := map[int]int{0: 25, 24: 25, 25: 50, 99: 100, 100: 125, 199: 200, 200: 200, 350: 200}
	for fuel, want := range cases {
		assert.Equal(t, want, NextMilestone(fuel), "fuel %d", fuel)
	}
}

func TestDecayClockAppliesOncePerWeek(t *testing.T) {
	c := NewDecayClock(0)
	monday := time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	assert.False(t, c.Check(monday.Add(-24*time.Hour)))
	assert.True(t, c.Check(monday))
	assert.False(t, c.Check(monday.Add(3*time.Hour)))
	assert.Equal(t, DefaultDecayAmount, c.Total())

	assert.True(t, c.Check(monday.AddDate(0, 0, 7)))
	assert.Equal(t, 2*DefaultDecayAmount, c.Total())
}

func TestUntilNextDecay(t *testing.T) {
	friday := time.Date(2026, time.October, 16, 12, 30, 15, 0, time.UTC)
	assert.Equal(t, 2*24*time.Hour+11*time.Hour+29*time.Minute, UntilNextDecay(friday))

	monday := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7*24*time.Hour, UntilNextDecay(monday))
}
