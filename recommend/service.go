package recommend

import (
	"context"
	"errors"
	"log/slog"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/explain"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/policy"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

// ErrTripNotFound is returned when the risk table has no row for the trip.
var ErrTripNotFound = errors.New("trip not found")

// RiskLookup finds a trip's risk score. *risk.Table satisfies it.
type RiskLookup interface {
	Lookup(tripID string) (risk.RiskScore, bool)
}

// Matcher selects policies for a score. *policy.Catalog satisfies it.
type Matcher interface {
	Match(score risk.RiskScore) policy.Matched
}

// Explainer produces explanations. *explain.Generator satisfies it.
type Explainer interface {
	Explain(ctx context.Context, tripID string, matched policy.Matched) explain.Outcome
}

// DelaySource reports observed realtime delay. *gtfsrt.DelaySnapshot satisfies it.
type DelaySource interface {
	ObservedDelaySeconds(tripID string) int
}

// Service runs the per-request pipeline against read-only dependencies.
type Service struct {
	risks     RiskLookup
	matcher   Matcher
	explainer Explainer
	delays    DelaySource
	log       *slog.Logger
}

// NewService wires the pipeline. delays may be nil.
func NewService(risks RiskLookup, matcher Matcher, explainer Explainer, delays DelaySource, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		risks:     risks,
		matcher:   matcher,
		explainer: explainer,
		delays:    delays,
		log:       log.With("component", "recommend"),
	}
}

// Recommend builds the recommendation for tripID. ErrTripNotFound is the only
// error it returns; explanation failures produce a degraded recommendation.
func (s *Service) Recommend(ctx context.Context, tripID string) (Recommendation, error) {
	score, ok := s.risks.Lookup(tripID)
	if !ok {
		return Recommendation{}, ErrTripNotFound
	}

	matched := s.matcher.Match(score)
	outcome := s.explainer.Explain(ctx, tripID, matched)
	if outcome.IsDegraded() {
		s.log.Warn("degraded recommendation", "trip_id", tripID, "reason", outcome.Reason())
	}

	rec := Assemble(tripID, score, matched, outcome)
	if s.delays != nil {
		rec.ObservedDelaySeconds = s.delays.ObservedDelaySeconds(tripID)
	}
	return rec, nil
}
