package risk

// Score ceilings enforced at generation time.
const (
	DelayCap    = 0.4
	AccidentCap = 0.05
)

// TripFeatures are the schedule features a score is derived from.
type TripFeatures struct {
	TripID          string  `json:"trip_id"`
	TotalDistanceKM float64 `json:"total_distance_km"`
	StopCount       int     `json:"stop_count"`
}

// RiskScore is one row of the risk table.
type RiskScore struct {
	TripID              string  `json:"trip_id"`
	DelayProbability    float64 `json:"delay_prob"`
	AccidentProbability float64 `json:"accident_prob"`
}

// Component parameterizes one probability field.
// Cap tightens the field's fixed ceiling (DelayCap or AccidentCap) and never raises it.
type Component struct {
	Base           float64 `yaml:"base" validate:"gte=0,lte=1"`
	DistanceWeight float64 `yaml:"distanceWeight" validate:"gte=0"`
	StopWeight     float64 `yaml:"stopWeight" validate:"gte=0"`
	Jitter         float64 `yaml:"jitter" validate:"gte=0,lte=1"`
	Cap            float64 `yaml:"cap" validate:"gte=0,lte=1"`
	Decimals       int     `yaml:"decimals" validate:"gte=0,lte=10"`
}

// Params holds the delay and accident components.
type Params struct {
	Delay    Component `yaml:"delay"`
	Accident Component `yaml:"accident"`
}

// DefaultParams returns the production weights.
func DefaultParams() Params {
	return Params{
		Delay: Component{
			Base:           0.05,
			DistanceWeight: 0.3,
			StopWeight:     0.005,
			Jitter:         0.02,
			Cap:            DelayCap,
			Decimals:       2,
		},
		Accident: Component{
			Base:           0.01,
			DistanceWeight: 0.01,
			StopWeight:     0.001,
			Jitter:         0.005,
			Cap:            AccidentCap,
			Decimals:       3,
		},
	}
}

// WithoutJitter returns a copy of p with both jitter amplitudes set to zero.
func (p Params) WithoutJitter() Params {
	p.Delay.Jitter = 0
	p.Accident.Jitter = 0
	return p
}
