package builder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

var ErrNotAtRegistration = errors.New("session is not at the registration step")

type Registration struct {
	User      remote.User     `json:"user"`
	Source    remote.Source   `json:"source"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Session   *session.Record `json:"session"`
}

// Register creates the member for a journey sitting on the registration
// step and completes it. No credentials are stored.
func (s *Service) Register(ctx context.Context, id, password, confirm string) (*Registration, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Current != wizard.StepRegistration {
		return nil, ErrNotAtRegistration
	}
	if err := auth.ValidateRegistration(password, confirm); err != nil {
		return nil, err
	}

	a := rec.ConversationData
	user, src := s.directory.CreateUser(ctx, remote.NewUser{
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		UserType:  string(a.UserType),
		SessionID: id,
	})
	s.directory.SaveMeProfile(ctx, profileFromAnswers(user.ID, a))

	progress := rec.Progress
	progress.Registered = true
	if err := progress.Next(a); err != nil {
		return nil, err
	}
	updated, err := s.store.Save(ctx, id, session.Patch{Progress: &progress, UserID: &user.ID})
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Email, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Builder: member registered",
		zap.String("session", id), zap.String("user", user.ID), zap.String("source", string(src)))
	return &Registration{User: user, Source: src, Token: token, ExpiresAt: exp, Session: updated}, nil
}

func profileFromAnswers(userID string, a wizard.Answers) remote.Profile {
	return remote.Profile{
		UserID:    userID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Location:  a.Location,
		Role:      a.Role,
		UserType:  string(a.UserType),
		Profile: fuel.Profile{
			Email:   a.Email,
			Phone:   a.Phone,
			Company: a.CompanyName,
			Website: a.Website,
		},
	}
}
