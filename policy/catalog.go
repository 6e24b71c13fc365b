package policy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

// Catalog is the read-only policy list loaded at startup.
type Catalog struct {
	policies []Policy
}

// NewCatalog validates policies and returns a catalog holding a private copy.
func NewCatalog(policies []Policy) (*Catalog, error) {
	v := validator.New()
	for i, p := range policies {
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("policy %d (%q): %w", i, p.Name, err)
		}
	}
	return &Catalog{policies: clonePolicies(policies)}, nil
}

// ParseCatalog decodes a JSON array of policy records.
func ParseCatalog(data []byte) (*Catalog, error) {
	var policies []Policy
	if err := json.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("parse policy catalog: %w", err)
	}
	return NewCatalog(policies)
}

// LoadCatalog reads and validates the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Policies returns a copy of the catalog in file order.
func (c *Catalog) Policies() []Policy {
	return clonePolicies(c.policies)
}

// Len returns the number of policies.
func (c *Catalog) Len() int { return len(c.policies) }

// Match runs Match against the catalog.
func (c *Catalog) Match(score risk.RiskScore) Matched {
	return Match(score, c.policies)
}

// clonePolicies copies policies including the threshold pointers.
func clonePolicies(in []Policy) []Policy {
	out := make([]Policy, len(in))
	for i, p := range in {
		p.Trigger.AccidentProb = cloneFloat(p.Trigger.AccidentProb)
		p.Trigger.DelayProb = cloneFloat(p.Trigger.DelayProb)
		out[i] = p
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
