// Package fuel computes the dashboard engagement score.
package fuel

// Milestones is the fixed ladder shown on the dashboard gauge.
var Milestones = []int{25, 50, 75, 100, 125, 150, 175, 200}

const (
	maxProfile  = 100
	maxActivity = 100
	goldZone    = 150
)

type Experience struct {
	Title   string `json:"title"`
	Company string `json:"company,omitempty"`
}

// Profile is the subset of a member profile that earns completion points.
type Profile struct {
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Experience  []Experience `json:"experience,omitempty"`
	SocialLinks []string     `json:"socialLinks,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Company     string       `json:"company,omitempty"`
	Website     string       `json:"website,omitempty"`
}

// Activity holds the counters that earn activity fuel.
type Activity struct {
	WeeklyLogins        int `json:"weeklyLogins"`
	StreakDays          int `json:"streakDays"`
	Connections         int `json:"connections"`
	Referrals           int `json:"referrals"`
	ProfileViews        int `json:"profileViews"`
	CommunityEngagement int `json:"communityEngagement"`
	EventsAttended      int `json:"eventsAttended"`
	PackageUpgrades     int `json:"packageUpgrades"`
}

type State struct {
	ProfileCompletion int    `json:"profileCompletion"`
	ActivityFuel      int    `json:"activityFuel"`
	Decay             int    `json:"decay"`
	CurrentFuel       int    `json:"currentFuel"`
	NextMilestone     int    `json:"nextMilestone"`
	Zone              string `json:"zone"`
}

// Score combines profile completion and activity, minus decay. The total is
// floored at zero but has no ceiling.
func Score(p Profile, a Activity, decay int) State {
	profile := ProfileCompletion(p)
	activity := ActivityFuel(a)
	current := profile + activity - decay
	if current < 0 {
		current = 0
	}
	return State{
		ProfileCompletion: profile,
		ActivityFuel:      activity,
		Decay:             decay,
		CurrentFuel:       current,
		NextMilestone:     NextMilestone(current),
		Zone:              ZoneFor(current),
	}
}

// ProfileCompletion awards points per filled section, clamped to 100.
func ProfileCompletion(p Profile) int {
	points := 0
	bio := len([]rune(p.Bio))
	if p.Email != "" || p.Phone != "" {
		points += 15
	}
	if bio > 50 {
		points += 15
	}
	if len(p.Experience) >= 1 {
		points += 15
	}
	if len(p.SocialLinks) >= 1 {
		points += 10
	}
	if p.ImageURL != "" {
		points += 10
	}
	if p.Company != "" && p.Website != "" {
		points += 15
	}
	if bio > 100 && (len(p.Experience) >= 2 || len(p.SocialLinks) > 2) {
		points += 20
	}
	return min(points, maxProfile)
}

// ActivityFuel weighs the activity counters, clamped to 100.
func ActivityFuel(a Activity) int {
	points := 2*nonNeg(a.WeeklyLogins) +
		min(nonNeg(a.StreakDays), 7) +
		3*nonNeg(a.Connections) +
		10*nonNeg(a.Referrals) +
		nonNeg(a.ProfileViews)/10 +
		nonNeg(a.CommunityEngagement) +
		5*nonNeg(a.EventsAttended) +
		15*nonNeg(a.PackageUpgrades)
	return min(points, maxActivity)
}

// NextMilestone is the first milestone strictly above fuel, or the top of
// the ladder once it has been passed.
func NextMilestone(fuel int) int {
	for _, m := range Milestones {
		if m > fuel {
			return m
		}
	}
	return Milestones[len(Milestones)-1]
}

func ZoneFor(fuel int) string {
	switch {
	case fuel <= 0:
		return "empty"
	case fuel < 50:
		return "low"
	case fuel < 100:
		return "steady"
	case fuel < goldZone:
		return "high"
	}
	return "gold"
}

func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
