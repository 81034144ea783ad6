// internal/fuzzy/set.go

package fuzzy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidSet      = errors.New("invalid fuzzy set")
	ErrDegenerateShape = errors.New("degenerate fuzzy set shape")
)

// Shape is the membership function family of a fuzzy set.
type Shape string

const (
	ShapeTriangle  Shape = "TRI"
	ShapeTrapezoid Shape = "TRAP"
)

var SupportedShapes = []Shape{
	ShapeTriangle,
	ShapeTrapezoid,
}

// Arity returns the number of parameters the shape takes, or 0 for an unknown shape.
func (s Shape) Arity() int {
	switch s {
	case ShapeTriangle:
		return 3
	case ShapeTrapezoid:
		return 4
	default:
		return 0
	}
}

// ParseShape accepts a shape name in any letter case.
func ParseShape(s string) (Shape, error) {
	shape := Shape(strings.ToUpper(strings.TrimSpace(s)))
	for _, supported := range SupportedShapes {
		if shape == supported {
			return shape, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported shape %q", ErrInvalidSet, s)
}

// Set is a named membership function. It is immutable once built by NewSet.
type Set struct {
	name   string
	shape  Shape
	params []float64
}

// NewSet validates the parameters and builds a fuzzy set.
// Parameters must be finite and non-decreasing.
func NewSet(name string, shape Shape, params ...float64) (Set, error) {
	name = CanonicalName(name)
	if name == "" {
		return Set{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidSet)
	}
	if shape.Arity() == 0 {
		return Set{}, fmt.Errorf("%w: unsupported shape %q for set %q", ErrInvalidSet, shape, name)
	}
	if len(params) != shape.Arity() {
		return Set{}, fmt.Errorf("%w: %s set %q needs %d parameters, got %d",
			ErrInvalidSet, shape, name, shape.Arity(), len(params))
	}
	for i, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Set{}, fmt.Errorf("%w: parameter %d of set %q is not finite", ErrInvalidSet, i, name)
		}
		if i > 0 && p < params[i-1] {
			return Set{}, fmt.Errorf("%w: parameters of set %q must be non-decreasing, got %v",
				ErrInvalidSet, name, params)
		}
	}

	return Set{
		name:   name,
		shape:  shape,
		params: append([]float64(nil), params...),
	}, nil
}

func (s Set) Name() string { return s.name }
func (s Set) Shape() Shape { return s.shape }

// Params returns a copy of the shape parameters.
func (s Set) Params() []float64 {
	return append([]float64(nil), s.params...)
}

// Membership evaluates the degree of v in the set. Boundaries are checked in a
// fixed order and the first matching segment wins, so a value on a shared
// boundary is never defined twice.
func (s Set) Membership(v float64) (float64, error) {
	p := s.params
	switch s.shape {
	case ShapeTrapezoid:
		a, b, c, d := p[0], p[1], p[2], p[3]
		switch {
		case v <= a || v >= d:
			return 0.0, nil
		case a <= v && v <= b:
			return s.slope(v-a, b-a)
		case b <= v && v <= c:
			return 1.0, nil
		case c <= v && v <= d:
			return s.slope(d-v, d-c)
		}
	case ShapeTriangle:
		a, b, c := p[0], p[1], p[2]
		switch {
		case v <= a || v >= c:
			return 0.0, nil
		case a <= v && v <= b:
			return s.slope(v-a, b-a)
		case b <= v && v <= c:
			return s.slope(c-v, c-b)
		}
	}
	return 0.0, nil
}

func (s Set) slope(rise, width float64) (float64, error) {
	if width == 0 {
		return 0, fmt.Errorf("%w: set %q has a zero-width segment %v", ErrDegenerateShape, s.name, s.params)
	}
	return rise / width, nil
}

// Centroid is the representative point used by defuzzification: the mean of
// the shape parameters.
func (s Set) Centroid() float64 {
	switch s.shape {
	case ShapeTriangle, ShapeTrapezoid:
		sum := 0.0
		for _, p := range s.params {
			sum += p
		}
		return sum / float64(len(s.params))
	default:
		return 0
	}
}

func (s Set) String() string {
	return fmt.Sprintf("%s %s %v", s.name, s.shape, s.params)
}

// CanonicalName trims and NFC-normalizes an identifier so that visually
// identical names typed on different keyboards resolve to the same key.
func CanonicalName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
