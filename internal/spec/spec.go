package spec

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Access is the declared access mode of a property.
type Access int

const (
	// ReadWrite allows both reads and writes. It is the default.
	ReadWrite Access = iota
	// ReadOnly allows reads only.
	ReadOnly
	// WriteOnly allows writes only.
	WriteOnly
)

// Access tokens accepted from metadata providers.
const (
	AccessTokenRead  = "read"
	AccessTokenWrite = "write"
)

// ParseAccess maps a provider access token to an Access mode.
// "read" is read-only, "write" is write-only, anything else is read-write.
func ParseAccess(token string) Access {
	switch strings.TrimSpace(token) {
	case AccessTokenRead:
		return ReadOnly
	case AccessTokenWrite:
		return WriteOnly
	default:
		return ReadWrite
	}
}

// Readable reports whether the mode allows reads.
func (a Access) Readable() bool {
	return a != WriteOnly
}

// Writeable reports whether the mode allows writes.
func (a Access) Writeable() bool {
	return a != ReadOnly
}

// Token returns the provider token for the mode, empty for read-write.
func (a Access) Token() string {
	switch a {
	case ReadOnly:
		return AccessTokenRead
	case WriteOnly:
		return AccessTokenWrite
	default:
		return ""
	}
}

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	default:
		return "read-write"
	}
}

// Candidate is a raw property record as supplied by a metadata provider.
// All fields except Name are optional.
type Candidate struct {
	Name        string `json:"name" yaml:"name"`
	Access      string `json:"access,omitempty" yaml:"access,omitempty"`           // "read", "write" or empty
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`               // pipe-delimited type expressions
	Description string `json:"description,omitempty" yaml:"description,omitempty"` // free text
	Lazy        bool   `json:"lazy,omitempty" yaml:"lazy,omitempty"`               // slot accepts deferred computations
}

// Spec is the immutable description of one declared property.
type Spec struct {
	name        string
	types       []TypeExpr
	access      Access
	description string
	lazy        bool
}

// New creates a Spec. An empty types slice means untyped.
func New(name string, access Access, types []TypeExpr, description string) (*Spec, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, &MissingNameError{Index: -1}
	}
	var copied []TypeExpr
	if len(types) > 0 {
		copied = slices.Clone(types)
	}
	return &Spec{
		name:        name,
		types:       copied,
		access:      access,
		description: description,
	}, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNew(name string, access Access, types []TypeExpr, description string) *Spec {
	s, err := New(name, access, types, description)
	if err != nil {
		panic(err)
	}
	return s
}

// FromCandidate builds a Spec from a provider record. class and index are
// used only to describe a missing name.
func FromCandidate(class string, index int, c Candidate) (*Spec, error) {
	name := NormalizeName(c.Name)
	if name == "" {
		return nil, &MissingNameError{Class: class, Index: index, Candidate: c}
	}
	return &Spec{
		name:        name,
		types:       ParseTypes(c.Type),
		access:      ParseAccess(c.Access),
		description: strings.TrimSpace(c.Description),
		lazy:        c.Lazy,
	}, nil
}

// NormalizeName trims and NFC-normalizes a property name so lookups agree
// regardless of how the provider encoded it.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Name returns the property name.
func (s *Spec) Name() string { return s.name }

// Types returns a copy of the allowed type expressions, nil when untyped.
func (s *Spec) Types() []TypeExpr {
	if s.types == nil {
		return nil
	}
	return slices.Clone(s.types)
}

// Untyped reports whether any value is accepted.
func (s *Spec) Untyped() bool { return s.types == nil }

// Access returns the declared access mode.
func (s *Spec) Access() Access { return s.access }

// Description returns the optional description.
func (s *Spec) Description() string { return s.description }

// Lazy reports whether the property's slot accepts deferred computations.
func (s *Spec) Lazy() bool { return s.lazy }

// TypeStrings returns the allowed type expressions rendered as strings.
func (s *Spec) TypeStrings() []string {
	if s.types == nil {
		return nil
	}
	out := make([]string, len(s.types))
	for i, t := range s.types {
		out[i] = t.String()
	}
	return out
}

// Candidate converts the spec back into a provider record.
func (s *Spec) Candidate() Candidate {
	return Candidate{
		Name:        s.name,
		Access:      s.access.Token(),
		Type:        strings.Join(s.TypeStrings(), "|"),
		Description: s.description,
		Lazy:        s.lazy,
	}
}

// String renders the spec in declaration form, e.g. "read int|null $age".
func (s *Spec) String() string {
	var b strings.Builder
	if tok := s.access.Token(); tok != "" {
		b.WriteString(tok)
		b.WriteByte(' ')
	}
	if s.types != nil {
		b.WriteString(strings.Join(s.TypeStrings(), "|"))
		b.WriteByte(' ')
	}
	b.WriteByte('$')
	b.WriteString(s.name)
	if s.description != "" {
		b.WriteByte(' ')
		b.WriteString(s.description)
	}
	return b.String()
}

// MissingNameError reports a provider candidate without a property name.
// It aborts registry construction for the class.
type MissingNameError struct {
	Class     string
	Index     int
	Candidate Candidate
}

func (e *MissingNameError) Error() string {
	if e.Class == "" {
		return "property name was not provided"
	}
	return fmt.Sprintf("class %q: property #%d: property name was not provided (type %q, access %q)",
		e.Class, e.Index, e.Candidate.Type, e.Candidate.Access)
}
