package slides

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

// SanitizedHTML is fragment markup that has crossed the trust boundary and
// may be embedded verbatim. Values are only produced by a Sanitizer.
type SanitizedHTML struct {
	markup string
}

// String returns the markup.
func (h SanitizedHTML) String() string { return h.markup }

// IsEmpty reports whether there is no markup.
func (h SanitizedHTML) IsEmpty() bool { return h.markup == "" }

// SanitizePolicy names how fragment markup is treated before embedding.
type SanitizePolicy string

const (
	// PolicyTrusted passes markup through; the authoring system sanitizes upstream.
	PolicyTrusted SanitizePolicy = "trusted"
	// PolicyUGC keeps common formatting and links (bluemonday UGCPolicy).
	PolicyUGC SanitizePolicy = "ugc"
	// PolicyStrict strips every tag (bluemonday StrictPolicy).
	PolicyStrict SanitizePolicy = "strict"
)

// Sanitizer turns raw fragment text into SanitizedHTML.
type Sanitizer struct {
	name   SanitizePolicy
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer for the named policy. An empty name means
// PolicyTrusted.
func NewSanitizer(name SanitizePolicy) (*Sanitizer, error) {
	switch name {
	case "", PolicyTrusted:
		return &Sanitizer{name: PolicyTrusted}, nil
	case PolicyUGC:
		return &Sanitizer{name: name, policy: bluemonday.UGCPolicy()}, nil
	case PolicyStrict:
		return &Sanitizer{name: name, policy: bluemonday.StrictPolicy()}, nil
	default:
		return nil, fmt.Errorf("unknown sanitize policy %q", name)
	}
}

// Policy returns the policy name.
func (s *Sanitizer) Policy() SanitizePolicy { return s.name }

// Sanitize applies the policy to raw markup.
func (s *Sanitizer) Sanitize(raw string) SanitizedHTML {
	if s == nil || s.policy == nil {
		return SanitizedHTML{markup: raw}
	}
	return SanitizedHTML{markup: s.policy.Sanitize(raw)}
}
