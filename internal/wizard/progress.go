package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStepIncomplete = errors.New("step incomplete")
	ErrStepLocked     = errors.New("step not yet reachable")
	ErrAtFirstStep    = errors.New("already at first step")
	ErrTerminal       = errors.New("journey complete")
)

// IncompleteError names the fields blocking a transition.
type IncompleteError struct {
	Step    Step
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s (missing %s)", ErrStepIncomplete, e.Step, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrStepIncomplete
}

// Progress is the step machine. Reached is the highest step the user may
// jump to; it only ever grows until Reset, so a step reached once stays
// reachable even if its data is later invalidated.
type Progress struct {
	Current    Step `json:"currentStep"`
	Reached    Step `json:"reached"`
	Registered bool `json:"registered,omitempty"`
}

// Next advances one step if the current step is complete.
func (p *Progress) Next(a Answers) error {
	if p.Current >= StepComplete {
		return ErrTerminal
	}
	if missing := Missing(p.Current, a, p.Registered); len(missing) > 0 {
		return &IncompleteError{Step: p.Current, Missing: missing}
	}
	p.Current++
	if p.Current > p.Reached {
		p.Reached = p.Current
	}
	return nil
}

// Back moves one step back without touching any answers.
func (p *Progress) Back() error {
	if p.Current <= StepWelcome {
		return ErrAtFirstStep
	}
	p.Current--
	return nil
}

// JumpTo moves directly to n when n has already been reached.
func (p *Progress) JumpTo(n Step) error {
	if !p.Accessible(n) {
		return fmt.Errorf("%w: %s (reached %s)", ErrStepLocked, n, p.Reached)
	}
	p.Current = n
	return nil
}

// Accessible reports whether JumpTo(n) would be accepted.
func (p Progress) Accessible(n Step) bool {
	return n >= StepWelcome && n <= p.Reached
}

// Reset returns the machine to the first step.
func (p *Progress) Reset() {
	*p = Progress{}
}
