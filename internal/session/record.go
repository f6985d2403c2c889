// Package session holds the persisted journey record and the repository
// contract every storage medium implements.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

var ErrNotFound = errors.New("session not found")

// Record is the envelope persisted for one journey.
type Record struct {
	SessionID string `json:"sessionId"`
	wizard.Progress
	ConversationData wizard.Answers   `json:"conversationData"`
	GeneratedPackage *pricing.Package `json:"generatedPackage"`
	FeatureToggles   map[string]bool  `json:"featureToggles,omitempty"`
	UserID           string           `json:"userId,omitempty"`
	LastUpdated      time.Time        `json:"lastUpdated"`
	// Version increases on every local save. The outbox uses it to tell
	// whether a pushed copy is still the latest.
	Version int64 `json:"version"`
}

// NewID generates a session id.
func NewID() string {
	return uuid.New().String()
}

func New(id string) *Record {
	return &Record{SessionID: id}
}

// Clone returns a deep copy by round-tripping through the stored encoding.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		cp := *r
		return &cp
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		cp := *r
		return &cp
	}
	return &out
}

// Patch is a partial update. Nil fields are left alone.
type Patch struct {
	Progress       *wizard.Progress
	Answers        *wizard.Answers
	Package        *pricing.Package
	ClearPackage   bool
	FeatureToggles map[string]bool
	UserID         *string
}

// Apply merges p into r.
func (r *Record) Apply(p Patch) {
	if p.Progress != nil {
		r.Progress = *p.Progress
	}
	if p.Answers != nil {
		r.ConversationData = *p.Answers
	}
	if p.ClearPackage {
		r.GeneratedPackage = nil
	}
	if p.Package != nil {
		pkg := *p.Package
		r.GeneratedPackage = &pkg
	}
	if p.FeatureToggles != nil {
		r.FeatureToggles = p.FeatureToggles
	}
	if p.UserID != nil {
		r.UserID = *p.UserID
	}
}

// Repository is one storage medium for records.
type Repository interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
}

// Lister is implemented by repositories that can enumerate their sessions.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
