// Package recommend assembles the externally visible recommendation for a
// trip from its risk score, matched policies and explanation outcome.
package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/explain"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/policy"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

// Defaults substituted for absent upstream values.
const (
	DefaultTitle    = "AI recommendation"
	DefaultAnalysis = "Analysis unavailable."
)

// RecommendedPolicy is either an explanation item or a bare policy name.
// It marshals to a JSON object or a JSON string accordingly.
type RecommendedPolicy struct {
	item *explain.Item
	name string
}

// ItemPolicy wraps an explanation item.
func ItemPolicy(it explain.Item) RecommendedPolicy { return RecommendedPolicy{item: &it} }

// NamedPolicy wraps a policy name.
func NamedPolicy(name string) RecommendedPolicy { return RecommendedPolicy{name: name} }

// Item returns the wrapped explanation item, if any.
func (p RecommendedPolicy) Item() (explain.Item, bool) {
	if p.item == nil {
		return explain.Item{}, false
	}
	return *p.item, true
}

// Name returns the wrapped policy name, or the item title.
func (p RecommendedPolicy) Name() string {
	if p.item != nil {
		return p.item.Title
	}
	return p.name
}

func (p RecommendedPolicy) MarshalJSON() ([]byte, error) {
	if p.item != nil {
		return json.Marshal(p.item)
	}
	return json.Marshal(p.name)
}

func (p *RecommendedPolicy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*p = RecommendedPolicy{}
		return json.Unmarshal(data, &p.name)
	}
	var it explain.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return err
	}
	*p = ItemPolicy(it)
	return nil
}

// Recommendation is the fully populated response for one trip.
type Recommendation struct {
	Title                string              `json:"title"`
	Analysis             string              `json:"analysis"`
	RecommendedPolicies  []RecommendedPolicy `json:"recommended_policies"`
	TripID               string              `json:"trip_id"`
	DelayProbability     float64             `json:"delay_probability"`
	AccidentProbability  float64             `json:"accident_probability"`
	ObservedDelaySeconds int                 `json:"observed_delay_seconds"`
}

// Assemble merges the pipeline results into a Recommendation.
//
// A successful outcome yields a fixed title, a one-line summary and the
// explanation items. A degraded outcome takes title and analysis from the
// fallback item and lists the matched policy names instead. Empty fields are
// replaced by defaults so every field is always present.
func Assemble(tripID string, score risk.RiskScore, matched policy.Matched, outcome explain.Outcome) Recommendation {
	if tripID == "" {
		tripID = score.TripID
	}
	rec := Recommendation{
		TripID:              tripID,
		DelayProbability:    score.DelayProbability,
		AccidentProbability: score.AccidentProbability,
	}

	if fb, degraded := outcome.Fallback(); degraded {
		rec.Title = fb.Title
		rec.Analysis = fb.Analysis
		for _, name := range matched.Names() {
			rec.RecommendedPolicies = append(rec.RecommendedPolicies, NamedPolicy(name))
		}
	} else {
		rec.Title = fmt.Sprintf("Insurance recommendation for trip %s", tripID)
		rec.Analysis = summary(tripID, score, len(matched))
		for _, it := range outcome.Items() {
			rec.RecommendedPolicies = append(rec.RecommendedPolicies, ItemPolicy(it))
		}
	}

	if rec.Title == "" {
		rec.Title = DefaultTitle
	}
	if rec.Analysis == "" {
		rec.Analysis = DefaultAnalysis
	}
	if rec.RecommendedPolicies == nil {
		rec.RecommendedPolicies = []RecommendedPolicy{}
	}
	return rec
}

func summary(tripID string, score risk.RiskScore, matched int) string {
	risks := fmt.Sprintf("delay probability %.2f, accident probability %.3f",
		score.DelayProbability, score.AccidentProbability)
	switch matched {
	case 0:
		return fmt.Sprintf("No policy matched trip %s (%s).", tripID, risks)
	case 1:
		return fmt.Sprintf("1 policy matched trip %s (%s).", tripID, risks)
	default:
		return fmt.Sprintf("%d policies matched trip %s (%s).", matched, tripID, risks)
	}
}
