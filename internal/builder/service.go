// Package builder drives one member through the package builder journey:
// answers go through field validation, every change is persisted, and the
// package is generated when the journey reaches the generation step.
package builder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/remote"
	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/templates"
)

// Store is the session persistence the journey needs.
type Store interface {
	Load(ctx context.Context, id string) (*session.Record, error)
	Save(ctx context.Context, id string, patch session.Patch) (*session.Record, error)
	Clear(ctx context.Context, id string) error
}

// Directory creates members and stores their profiles.
type Directory interface {
	CreateUser(ctx context.Context, u remote.NewUser) (remote.User, remote.Source)
	SaveMeProfile(ctx context.Context, p remote.Profile) (remote.Profile, remote.Source)
}

// ValidationErrors is returned when a field update fails its rules.
type ValidationErrors []templates.ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return v[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
}

type Service struct {
	store     Store
	directory Directory
	tokens    *auth.Tokens
	logger    *zap.Logger
}

func NewService(store Store, directory Directory, tokens *auth.Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, directory: directory, tokens: tokens, logger: logger}
}

// Start opens a new journey at the welcome step.
func (s *Service) Start(ctx context.Context) (*session.Record, error) {
	id := session.NewID()
	rec, err := s.store.Save(ctx, id, session.Patch{Progress: &wizard.Progress{}})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.logger.Info("Builder: session started", zap.String("session", id))
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*session.Record, error) {
	return s.store.Load(ctx, id)
}

// UpdateField validates and applies one answer, then saves the session.
// Changing answers drops a previously generated package; it is rebuilt the
// next time it is requested.
func (s *Service) UpdateField(ctx context.Context, id, field string, value any) (*session.Record, error) {
	if errs := templates.Validate(field, value); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	answers := rec.ConversationData
	if err := answers.Set(field, value); err != nil {
		return nil, ValidationErrors{{Field: field, Message: err.Error()}}
	}
	return s.store.Save(ctx, id, session.Patch{
		Answers:      &answers,
		ClearPackage: rec.GeneratedPackage != nil,
	})
}

// ToggleTag flips one option in a preference set.
func (s *Service) ToggleTag(ctx context.Context, id, field, tag string) (*session.Record, error) {
	if errs := templates.Validate(field, []string{tag}); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	answers := rec.ConversationData
	if err := answers.ToggleTag(field, tag); err != nil {
		return nil, ValidationErrors{{Field: field, Message: err.Error()}}
	}
	return s.store.Save(ctx, id, session.Patch{
		Answers:      &answers,
		ClearPackage: rec.GeneratedPackage != nil,
	})
}

// Next advances the journey. Entering the generation step builds the
// package from the current answers.
func (s *Service) Next(ctx context.Context, id string) (*session.Record, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	progress := rec.Progress
	if err := progress.Next(rec.ConversationData); err != nil {
		return nil, err
	}
	patch := session.Patch{Progress: &progress}
	if progress.Current == wizard.StepGeneration {
		pkg := pricing.Build(rec.ConversationData, rec.FeatureToggles)
		patch.Package = &pkg
	}
	return s.store.Save(ctx, id, patch)
}

func (s *Service) Back(ctx context.Context, id string) (*session.Record, error) {
	return s.move(ctx, id, func(p *wizard.Progress) error { return p.Back() })
}

// JumpTo moves to a step already reached. Locked steps leave the session
// untouched.
func (s *Service) JumpTo(ctx context.Context, id string, step wizard.Step) (*session.Record, error) {
	return s.move(ctx, id, func(p *wizard.Progress) error { return p.JumpTo(step) })
}

func (s *Service) move(ctx context.Context, id string, fn func(*wizard.Progress) error) (*session.Record, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	progress := rec.Progress
	if err := fn(&progress); err != nil {
		return nil, err
	}
	return s.store.Save(ctx, id, session.Patch{Progress: &progress})
}

// StartOver clears the stored journey and opens a fresh one.
func (s *Service) StartOver(ctx context.Context, id string) (*session.Record, error) {
	if err := s.store.Clear(ctx, id); err != nil {
		return nil, fmt.Errorf("start over: %w", err)
	}
	s.logger.Info("Builder: session cleared", zap.String("session", id))
	return s.Start(ctx)
}

// Clear forgets a journey without starting another.
func (s *Service) Clear(ctx context.Context, id string) error {
	if _, err := s.store.Load(ctx, id); err != nil {
		return err
	}
	return s.store.Clear(ctx, id)
}

// Package returns the generated package, building it if the session has
// none yet.
func (s *Service) Package(ctx context.Context, id string) (pricing.Package, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return pricing.Package{}, err
	}
	if rec.GeneratedPackage != nil {
		return *rec.GeneratedPackage, nil
	}
	pkg := pricing.Build(rec.ConversationData, rec.FeatureToggles)
	if _, err := s.store.Save(ctx, id, session.Patch{Package: &pkg}); err != nil {
		return pricing.Package{}, err
	}
	return pkg, nil
}

// ToggleFeature adds or removes a removable feature and reprices.
func (s *Service) ToggleFeature(ctx context.Context, id, feature string, enabled bool) (pricing.Package, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return pricing.Package{}, err
	}
	toggles, err := pricing.Toggle(rec.FeatureToggles, feature, enabled)
	if err != nil {
		return pricing.Package{}, err
	}
	pkg := pricing.Build(rec.ConversationData, toggles)
	if _, err := s.store.Save(ctx, id, session.Patch{Package: &pkg, FeatureToggles: toggles}); err != nil {
		return pricing.Package{}, err
	}
	return pkg, nil
}

// Quote prices answers without touching any session.
func (s *Service) Quote(answers wizard.Answers) pricing.Package {
	return pricing.Generate(answers)
}

// IsValidation reports whether err came from input rules rather than the
// store.
func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}
