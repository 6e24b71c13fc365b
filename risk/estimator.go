package risk

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// Estimator turns trip features into risk scores.
type Estimator struct {
	params Params
	rng    *rand.Rand
}

// NewEstimator returns an estimator drawing jitter from rng.
// A nil rng is only valid when both jitter amplitudes are zero.
func NewEstimator(params Params, rng *rand.Rand) *Estimator {
	return &Estimator{params: params, rng: rng}
}

// NewRand returns a PCG source seeded with seed, or with the current time when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Params returns the estimator's parameters.
func (e *Estimator) Params() Params { return e.params }

// Estimate scores every trip in features, preserving input order.
// Distances are normalized by the longest trip in the batch; an empty batch
// yields an empty slice and a zero maximum yields a normalized distance of 0.
func (e *Estimator) Estimate(features []TripFeatures) []RiskScore {
	var maxKM float64
	for _, f := range features {
		if f.TotalDistanceKM > maxKM {
			maxKM = f.TotalDistanceKM
		}
	}

	out := make([]RiskScore, 0, len(features))
	for _, f := range features {
		var norm float64
		if maxKM > 0 {
			norm = f.TotalDistanceKM / maxKM
		}
		out = append(out, RiskScore{
			TripID:              f.TripID,
			DelayProbability:    e.score(e.params.Delay, DelayCap, norm, f.StopCount),
			AccidentProbability: e.score(e.params.Accident, AccidentCap, norm, f.StopCount),
		})
	}
	return out
}

// score computes one field. The configured cap can only lower ceiling.
func (e *Estimator) score(c Component, ceiling, norm float64, stops int) float64 {
	hi := math.Min(c.Cap, ceiling)
	v := c.Base + c.DistanceWeight*norm + c.StopWeight*float64(stops)
	if c.Jitter > 0 && e.rng != nil {
		v += (e.rng.Float64()*2 - 1) * c.Jitter
	}
	v = decimal.NewFromFloat(clamp(v, 0, hi)).Round(int32(c.Decimals)).InexactFloat64()
	// rounding up may cross a cap with more decimals than the field keeps
	return clamp(v, 0, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
