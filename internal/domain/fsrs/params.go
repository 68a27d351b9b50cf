// Package fsrs implements a simplified FSRS-4.5 scheduler (Free Spaced
// Repetition Scheduler, https://github.com/open-spaced-repetition/fsrs4anki).
//
// Key concepts:
//   - Stability (S): days after which recall probability drops to the target.
//   - Difficulty (D): a value in [0.01, 0.99] representing inherent item difficulty.
//   - Retrievability (R): estimated recall probability at a given elapsed time.
//   - Rating: 1=Again, 2=Hard, 3=Good, 4=Easy.
package fsrs

// WeightCount is the length of the FSRS weight vector.
const WeightCount = 13

// Bounds and fixed factors shared by every parameterization.
const (
	// MinStability is the floor applied to every computed stability,
	// roughly 2.4 hours expressed in days.
	MinStability = 0.1

	// MinDifficulty and MaxDifficulty bound the normalized difficulty scale.
	MinDifficulty = 0.01
	MaxDifficulty = 0.99

	// MinIntervalDays is the floor applied to every scheduled interval.
	MinIntervalDays = 1.0

	// hardIntervalFactor shortens and easyIntervalFactor lengthens the
	// computed interval for Hard and Easy ratings respectively.
	hardIntervalFactor = 0.8
	easyIntervalFactor = 1.3

	// meanReversionFactor is the share of the difficulty deviation kept
	// after pulling the updated value back toward the mean difficulty.
	meanReversionFactor = 0.7
)

// Params defines all configurable parameters for the scheduler.
type Params struct {
	// Weights is the FSRS-4.5 weight vector:
	//   w[0..3]  initial stability per first rating (Again/Hard/Good/Easy)
	//   w[4]     difficulty mean reversion strength
	//   w[5]     difficulty update factor
	//   w[6]     stability decay exponent (lapse)
	//   w[7]     stability base multiplier (lapse)
	//   w[8]     stability growth factor (success)
	//   w[9]     difficulty-stability interaction
	//   w[10]    stability saturation exponent
	//   w[11..12] reserved hard penalty / easy bonus factors
	Weights [WeightCount]float64

	// TargetRetention is the recall probability the scheduler aims for at
	// the moment a card comes due. Must be strictly between 0 and 1.
	TargetRetention float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	Weights         []float64
	TargetRetention float64
}

// NewDefaultParams creates a new Params instance with the default FSRS-4.5
// weight vector and a 90% target retention.
func NewDefaultParams() *Params {
	return &Params{
		Weights: [WeightCount]float64{
			0.4,  // w0: initial stability for Again
			0.6,  // w1: initial stability for Hard
			2.4,  // w2: initial stability for Good
			5.8,  // w3: initial stability for Easy
			4.93, // w4: difficulty mean reversion strength
			0.94, // w5: difficulty update factor
			0.86, // w6: stability decay exponent
			0.01, // w7: stability increase base (fail)
			1.49, // w8: stability increase factor (success)
			0.14, // w9: difficulty-stability interaction
			0.94, // w10: stability-stability interaction (power)
			2.18, // w11: hard penalty factor
			0.05, // w12: easy bonus factor
		},
		TargetRetention: 0.9,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Override the weight vector only when a full vector is provided
	if len(config.Weights) == WeightCount {
		copy(params.Weights[:], config.Weights)
	}

	// Override target retention only when it is a valid probability
	if config.TargetRetention > 0 && config.TargetRetention < 1 {
		params.TargetRetention = config.TargetRetention
	}

	return params
}
