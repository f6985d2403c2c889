// Package dashboard supplies the profile and activity data the fuel gauge
// is computed from.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
)

const (
	ModeReal = "real"
	ModeDemo = "demo"
)

type Provider interface {
	Profile(ctx context.Context, userID string) (fuel.Profile, error)
	Activity(ctx context.Context, userID string) (fuel.Activity, error)
}

// New picks the provider for mode.
func New(mode string, client *remote.Client, log *ActivityLog, logger *zap.Logger) (Provider, error) {
	switch mode {
	case ModeDemo:
		return DemoProvider{}, nil
	case ModeReal, "":
		if client == nil || log == nil {
			return nil, errors.New("real dashboard mode needs a remote client and an activity log")
		}
		return &RemoteProvider{client: client, activity: log, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown dashboard mode %q", mode)
	}
}

// DemoProvider serves fixed sample data for showcases.
type DemoProvider struct{}

func (DemoProvider) Profile(context.Context, string) (fuel.Profile, error) {
	return fuel.Profile{
		Email:       "demo@example-network.com",
		Bio:         "Founder of a small design studio working with local charities and independent retailers across the region.",
		Experience:  []fuel.Experience{{Title: "Founder", Company: "Northlight Studio"}},
		SocialLinks: []string{"https://www.linkedin.com/in/demo"},
		Company:     "Northlight Studio",
		Website:     "https://northlight.example",
	}, nil
}

func (DemoProvider) Activity(context.Context, string) (fuel.Activity, error) {
	return fuel.Activity{
		WeeklyLogins:        4,
		StreakDays:          5,
		Connections:         3,
		ProfileViews:        42,
		CommunityEngagement: 6,
		EventsAttended:      1,
	}, nil
}

// RemoteProvider reads profiles through the API client and activity from
// the local activity log.
type RemoteProvider struct {
	client   *remote.Client
	activity *ActivityLog
	logger   *zap.Logger
}

func (p *RemoteProvider) Profile(ctx context.Context, userID string) (fuel.Profile, error) {
	prof, src, err := p.client.GetProfile(ctx, userID)
	if errors.Is(err, remote.ErrNoProfile) {
		return fuel.Profile{}, nil
	}
	if err != nil {
		return fuel.Profile{}, err
	}
	if src == remote.SourceFallback && p.logger != nil {
		p.logger.Debug("Dashboard: serving cached profile", zap.String("user", userID))
	}
	return prof.Profile, nil
}

func (p *RemoteProvider) Activity(ctx context.Context, userID string) (fuel.Activity, error) {
	return p.activity.Get(ctx, userID)
}
