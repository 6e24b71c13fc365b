// Package policy holds the insurance policy catalog and the trigger matcher.
package policy

import (
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

// Kind is the normalized policy type.
type Kind string

const (
	KindAccident Kind = "accident"
	KindDelay    Kind = "delay"
	KindOther    Kind = "other"
)

// Trigger holds optional thresholds. A nil threshold counts as 0.
type Trigger struct {
	AccidentProb *float64 `json:"accident_prob,omitempty" validate:"omitempty,gte=0,lte=1"`
	DelayProb    *float64 `json:"delay_prob,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Policy is one catalog record.
type Policy struct {
	Name    string  `json:"policy_name" validate:"required"`
	Type    string  `json:"type"`
	Trigger Trigger `json:"trigger"`
}

// Kind maps the catalog label onto a Kind. Labels are case-insensitive and
// "retard" is accepted for delay.
func (p Policy) Kind() Kind {
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "accident":
		return KindAccident
	case "delay", "retard":
		return KindDelay
	default:
		return KindOther
	}
}

// Matches reports whether the policy's trigger fires for score.
func (p Policy) Matches(score risk.RiskScore) bool {
	switch p.Kind() {
	case KindAccident:
		return score.AccidentProbability >= threshold(p.Trigger.AccidentProb)
	case KindDelay:
		return score.DelayProbability >= threshold(p.Trigger.DelayProb)
	default:
		return true
	}
}

func threshold(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Matched is the ordered set of policies whose triggers fired, in catalog order.
type Matched []Policy

// Names returns the policy names in order. The result is never nil.
func (m Matched) Names() []string {
	out := make([]string, 0, len(m))
	for _, p := range m {
		out = append(out, p.Name)
	}
	return out
}

// Match selects the policies whose triggers fire for score, preserving order.
func Match(score risk.RiskScore, policies []Policy) Matched {
	out := Matched{}
	for _, p := range policies {
		if p.Matches(score) {
			out = append(out, p)
		}
	}
	return out
}
