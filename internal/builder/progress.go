package builder

import (
	"context"

	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/templates"
)

type StepStatus struct {
	Step       wizard.Step `json:"step"`
	Name       string      `json:"name"`
	Fields     []string    `json:"fields,omitempty"`
	Complete   bool        `json:"complete"`
	Missing    []string    `json:"missing,omitempty"`
	Accessible bool        `json:"accessible"`
}

// ProgressReport backs the step indicator and the Continue button.
type ProgressReport struct {
	SessionID  string       `json:"sessionId"`
	Current    wizard.Step  `json:"currentStep"`
	Reached    wizard.Step  `json:"reached"`
	CanProceed bool         `json:"canProceed"`
	Summary    string       `json:"summary,omitempty"`
	Steps      []StepStatus `json:"steps"`
}

func (s *Service) Progress(ctx context.Context, id string) (ProgressReport, error) {
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return ProgressReport{}, err
	}
	return Report(rec), nil
}

// Report describes every step of rec.
func Report(rec *session.Record) ProgressReport {
	a := rec.ConversationData
	r := ProgressReport{
		SessionID:  rec.SessionID,
		Current:    rec.Current,
		Reached:    rec.Reached,
		CanProceed: rec.Current < wizard.StepComplete && wizard.Complete(rec.Current, a, rec.Registered),
		Summary:    templates.FormatSummary(a),
	}
	for _, step := range wizard.Steps {
		missing := wizard.Missing(step, a, rec.Registered)
		r.Steps = append(r.Steps, StepStatus{
			Step:       step,
			Name:       step.String(),
			Fields:     templates.FieldsForStep(step),
			Complete:   len(missing) == 0,
			Missing:    missing,
			Accessible: rec.Progress.Accessible(step),
		})
	}
	return r
}
