// SPDX-License-Identifier: MIT
// Package: wfst/rewrite
//
// Package rewrite compiles context-dependent rewrite rules
//
//	phi -> psi / lambda __ rho
//
// into weighted transducers, following the marker-based construction of
// Mohri and Sproat: auxiliary transducers insert context markers, rewrite the
// marked spans and filter out markers that are not licensed by their context.
//
// A rule is described by a Spec:
//
//	Tau     – the mapping phi -> psi. With Phi == nil, Tau is the complete
//	          mapping transducer; otherwise Tau and Phi are acceptors and the
//	          mapping is cross.Cross(Tau, Phi).
//	Lambda  – left context acceptor (nil: empty context, always satisfied).
//	Rho     – right context acceptor (nil: empty context).
//
// Directions:
//
//	LeftToRight   – sites are rewritten left to right; the left context is
//	                matched against already rewritten output.
//	RightToLeft   – the mirror image; the right context is matched against output.
//	Simultaneous  – both contexts are matched against the input.
//
// Modes: Obligatory (every licensed site is rewritten) and Optional (each
// licensed site may be left alone).
//
// Contexts may refer to the string boundaries through the BOS and EOS labels
// (see BeginningOfString and EndOfString).
//
// Errors:
//
//	ErrType               – a Spec member or the sigma machine has the wrong shape.
//	fst.ErrSymbolMismatch – members carry incompatible symbol tables.
//	fst.ErrSemiringMismatch – members use different semirings.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/wfst/fst"
)

// ErrType indicates a rule member or sigma of the wrong shape.
var ErrType = errors.New("rewrite: wrong machine type")

// Marker labels. They sit in the fst.Reserved range, far above the byte,
// codepoint and generated symbol ranges.
const (
	// BOS marks the beginning of the string inside contexts.
	BOS = fst.Reserved + 1

	// EOS marks the end of the string inside contexts.
	EOS = fst.Reserved + 2

	markRight fst.Label = fst.Reserved + 3 // ">"  precedes every right-context match
	markLeft1 fst.Label = fst.Reserved + 4 // "<1" site whose left context holds
	markLeft2 fst.Label = fst.Reserved + 5 // "<2" site whose left context fails
)

// Direction selects the order in which rule sites are applied.
type Direction uint8

const (
	// LeftToRight applies sites left to right.
	LeftToRight Direction = iota

	// RightToLeft applies sites right to left.
	RightToLeft

	// Simultaneous checks both contexts on the input.
	Simultaneous
)

// String returns the short name of the direction.
func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	case Simultaneous:
		return "sim"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection accepts "ltr", "rtl" and "sim" (case-insensitive; empty is ltr).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return LeftToRight, nil
	case "rtl":
		return RightToLeft, nil
	case "sim", "simultaneous":
		return Simultaneous, nil
	default:
		return LeftToRight, fmt.Errorf("%w: unknown direction %q", ErrType, s)
	}
}

// Mode selects whether licensed sites must be rewritten.
type Mode uint8

const (
	// Obligatory rewrites every licensed site.
	Obligatory Mode = iota

	// Optional may leave any licensed site unchanged.
	Optional
)

// String returns the name of the mode.
func (m Mode) String() string {
	if m == Optional {
		return "optional"
	}

	return "obligatory"
}

// ParseMode accepts "obligatory" or "optional" (empty is obligatory).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "obligatory", "obl":
		return Obligatory, nil
	case "optional", "opt":
		return Optional, nil
	default:
		return Obligatory, fmt.Errorf("%w: unknown mode %q", ErrType, s)
	}
}

// Spec describes one rewrite rule.
type Spec struct {
	Tau       *fst.Fst
	Phi       *fst.Fst
	Lambda    *fst.Fst
	Rho       *fst.Fst
	Direction Direction
	Mode      Mode
}

// BeginningOfString returns the acceptor of the single BOS label.
func BeginningOfString(opts ...fst.Option) *fst.Fst { return boundary(BOS, opts) }

// EndOfString returns the acceptor of the single EOS label.
func EndOfString(opts ...fst.Option) *fst.Fst { return boundary(EOS, opts) }

func boundary(l fst.Label, opts []fst.Option) *fst.Fst {
	k := fst.New(opts...).Semiring()

	return fst.Linear([]fst.Label{l}, []fst.Label{l}, k.One(), opts...)
}
