package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UserType is the kind of member going through the journey.
type UserType string

const (
	UserConsumer UserType = "consumer"
	UserBusiness UserType = "business"
	UserCharity  UserType = "charity"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case UserConsumer, UserBusiness, UserCharity:
		return true
	}
	return false
}

// BusinessSize is one of the five size bands offered on the business type step.
type BusinessSize string

const (
	SizeSolo        BusinessSize = "solo"
	SizeSmall       BusinessSize = "small"
	SizeGrowing     BusinessSize = "growing"
	SizeEstablished BusinessSize = "established"
	SizeEnterprise  BusinessSize = "enterprise"
)

// BusinessSizes lists the bands in ascending order.
var BusinessSizes = []BusinessSize{SizeSolo, SizeSmall, SizeGrowing, SizeEstablished, SizeEnterprise}

func (s BusinessSize) Valid() bool {
	for _, b := range BusinessSizes {
		if s == b {
			return true
		}
	}
	return false
}

// SectorOther selects the free-text sector fallback.
const SectorOther = "Other"

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// Answers is everything collected across the journey.
type Answers struct {
	UserType UserType `json:"userType,omitempty"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`

	HasOrganisation bool   `json:"hasOrganisation"`
	CompanyName     string `json:"companyName,omitempty"`
	Website         string `json:"website,omitempty"`
	Role            string `json:"role,omitempty"`

	Sector       string       `json:"sector,omitempty"`
	OtherSector  string       `json:"otherSector,omitempty"`
	BusinessSize BusinessSize `json:"businessSize,omitempty"`

	Interests  TagSet `json:"interests,omitempty"`
	Outcomes   TagSet `json:"outcomes,omitempty"`
	Goals      TagSet `json:"goals,omitempty"`
	Challenges TagSet `json:"challenges,omitempty"`
}

// Set applies a single field update. It is the only way answers change
// during a journey.
func (a *Answers) Set(field string, value any) error {
	if set := a.tagSet(field); set != nil {
		tags, err := toStrings(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		*set = NewTagSet(tags...)
		return nil
	}

	switch field {
	case "hasOrganisation":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s: %w: expected boolean, got %T", field, ErrInvalidValue, value)
		}
		a.HasOrganisation = b
		return nil
	}

	target := a.stringField(field)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s: %w: expected string, got %T", field, ErrInvalidValue, value)
	}
	s = strings.TrimSpace(s)

	switch field {
	case "userType":
		if s != "" && !UserType(s).Valid() {
			return fmt.Errorf("%s: %w: %q", field, ErrInvalidValue, s)
		}
	case "businessSize":
		if s != "" && !BusinessSize(s).Valid() {
			return fmt.Errorf("%s: %w: %q", field, ErrInvalidValue, s)
		}
	}
	*target = s
	return nil
}

// ToggleTag adds tag to the named set if absent and removes it otherwise.
func (a *Answers) ToggleTag(field, tag string) error {
	set := a.tagSet(field)
	if set == nil {
		return fmt.Errorf("%w: %q is not a tag set", ErrUnknownField, field)
	}
	if set.Has(tag) {
		set.Remove(tag)
	} else {
		set.Add(tag)
	}
	return nil
}

// SectorLabel returns the free-text sector when "Other" was picked.
func (a Answers) SectorLabel() string {
	if a.Sector == SectorOther && a.OtherSector != "" {
		return a.OtherSector
	}
	return a.Sector
}

func (a *Answers) stringField(field string) *string {
	switch field {
	case "userType":
		return (*string)(&a.UserType)
	case "firstName":
		return &a.FirstName
	case "lastName":
		return &a.LastName
	case "email":
		return &a.Email
	case "phone":
		return &a.Phone
	case "location":
		return &a.Location
	case "companyName":
		return &a.CompanyName
	case "website":
		return &a.Website
	case "role":
		return &a.Role
	case "sector":
		return &a.Sector
	case "otherSector":
		return &a.OtherSector
	case "businessSize":
		return (*string)(&a.BusinessSize)
	}
	return nil
}

func (a *Answers) tagSet(field string) *TagSet {
	switch field {
	case "interests":
		return &a.Interests
	case "outcomes":
		return &a.Outcomes
	case "goals":
		return &a.Goals
	case "challenges":
		return &a.Challenges
	}
	return nil
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected string element, got %T", ErrInvalidValue, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected array, got %T", ErrInvalidValue, value)
}

// TagSet is an unordered, deduplicated set of tag identifiers. It encodes as
// a sorted JSON array so the same set always serializes identically.
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	if len(tags) == 0 {
		return nil
	}
	s := make(TagSet, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			s[t] = struct{}{}
		}
	}
	if len(s) == 0 {
		return nil
	}
	return s
}

func (s *TagSet) Add(tag string) {
	if *s == nil {
		*s = make(TagSet)
	}
	(*s)[tag] = struct{}{}
}

func (s *TagSet) Remove(tag string) {
	delete(*s, tag)
	if len(*s) == 0 {
		*s = nil
	}
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s TagSet) Len() int { return len(s) }

// Slice returns the tags in sorted order.
func (s TagSet) Slice() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
