// SPDX-License-Identifier: MIT
// Package: wfst/semiring
//
// Package semiring defines the closed set of weight algebras a transducer can carry.
//
// A semiring is fixed for a whole compiled grammar, so it is modeled as a small
// tagged variant (Kind) that is dispatched once per operation instead of an
// interface value stored on every arc. Weights are plain float64 values whose
// meaning depends on the Kind:
//
//	Tropical     – cost; Plus = min, Times = +, Zero = +Inf, One = 0 (default).
//	Log          – negated log-probability; Plus = -log(e^-a + e^-b), Times = +.
//	Probability  – real probability; Plus = +, Times = *, Zero = 0, One = 1.
//
// Tropical is idempotent (a ⊕ a = a); Log and Probability are not, which changes
// how the optimizer is allowed to treat a transducer.
//
// Errors:
//
//	ErrUnknownSemiring - Parse received a name that is not one of the known kinds.
package semiring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/wfst/internal/mathx"
)

// ErrUnknownSemiring indicates that Parse received an unsupported semiring name.
var ErrUnknownSemiring = errors.New("semiring: unknown semiring")

// Delta is the default quantization step used when weights must be compared
// for equality (determinization subsets, minimization signatures).
const Delta = 1.0 / 1024.0

// Kind selects a semiring.
type Kind uint8

const (
	// Tropical is the (min, +) semiring over costs.
	Tropical Kind = iota

	// Log is the (log-add, +) semiring over negated log-probabilities.
	Log

	// Probability is the (+, *) semiring over non-negative reals.
	Probability
)

// String returns the canonical lower-case name of the semiring.
func (k Kind) String() string {
	switch k {
	case Tropical:
		return "tropical"
	case Log:
		return "log"
	case Probability:
		return "probability"
	default:
		return fmt.Sprintf("semiring(%d)", uint8(k))
	}
}

// Parse maps a name ("tropical", "log", "probability" or "real") to a Kind.
func Parse(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tropical", "standard":
		return Tropical, nil
	case "log":
		return Log, nil
	case "probability", "real":
		return Probability, nil
	default:
		return Tropical, fmt.Errorf("%w: %q", ErrUnknownSemiring, name)
	}
}

// Zero returns the identity of Plus (the weight of "no path").
func (k Kind) Zero() float64 {
	if k == Probability {
		return 0
	}

	return math.Inf(1)
}

// One returns the identity of Times (the weight of the empty path).
func (k Kind) One() float64 {
	if k == Probability {
		return 1
	}

	return 0
}

// IsZero reports whether w is the semiring Zero.
func (k Kind) IsZero(w float64) bool {
	if k == Probability {
		return w == 0
	}

	return math.IsInf(w, 1)
}

// IsOne reports whether w equals One within Delta.
func (k Kind) IsOne(w float64) bool {
	return k.ApproxEqual(w, k.One(), Delta)
}

// Plus combines the weights of alternative paths.
func (k Kind) Plus(a, b float64) float64 {
	switch k {
	case Probability:
		return a + b
	case Log:
		if math.IsInf(a, 1) {
			return b
		}
		if math.IsInf(b, 1) {
			return a
		}

		return mathx.Min(a, b) - math.Log1p(math.Exp(-mathx.Abs(a-b)))
	default:
		return mathx.Min(a, b)
	}
}

// Times combines the weights along a single path.
func (k Kind) Times(a, b float64) float64 {
	if k == Probability {
		return a * b
	}
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return math.Inf(1)
	}

	return a + b
}

// Divide returns c such that b ⊗ c = a. Dividing by Zero yields Zero.
func (k Kind) Divide(a, b float64) float64 {
	if k.IsZero(b) || k.IsZero(a) {
		return k.Zero()
	}
	if k == Probability {
		return a / b
	}

	return a - b
}

// Idempotent reports whether a ⊕ a = a for every weight.
func (k Kind) Idempotent() bool { return k == Tropical }

// Less reports whether a is strictly better than b in the natural order:
// lower cost for Tropical and Log, higher probability for Probability.
func (k Kind) Less(a, b float64) bool {
	if k == Probability {
		return a > b
	}

	return a < b
}

// Member reports whether w is a valid element of the semiring.
func (k Kind) Member(w float64) bool {
	if math.IsNaN(w) {
		return false
	}
	if k == Probability {
		return w >= 0 && !math.IsInf(w, 0)
	}

	return !math.IsInf(w, -1)
}

// ApproxEqual reports whether a and b differ by at most delta.
// Two Zero weights are always equal.
func (k Kind) ApproxEqual(a, b, delta float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}

	return mathx.Abs(a-b) <= delta
}

// Quantize rounds w to the nearest multiple of delta so that weights can be
// used as map keys. Infinite weights are returned unchanged.
func (k Kind) Quantize(w, delta float64) float64 {
	if math.IsInf(w, 0) || math.IsNaN(w) {
		return w
	}

	return math.Floor(w/delta+0.5) * delta
}
