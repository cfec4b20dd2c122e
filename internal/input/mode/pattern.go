package mode

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/altnav/internal/input/key"
)

// PatternKind discriminates Pattern variants.
type PatternKind uint8

const (
	// PatternAny matches every value.
	PatternAny PatternKind = iota
	// PatternLiteral matches one scalar.
	PatternLiteral
	// PatternSet matches any scalar in a set.
	PatternSet
	// PatternTuple matches a tuple element by element.
	PatternTuple
)

// Pattern matches a Value. Build patterns with Any, Literal, Set and Tuple.
type Pattern struct {
	kind  PatternKind
	value int64
	set   []int64
	elems []Pattern
}

// Any matches anything.
func Any() Pattern {
	return Pattern{kind: PatternAny}
}

// Literal matches the scalar v.
func Literal(v int64) Pattern {
	return Pattern{kind: PatternLiteral, value: v}
}

// Set matches any scalar in vs.
func Set(vs ...int64) Pattern {
	return Pattern{kind: PatternSet, set: slices.Clone(vs)}
}

// Tuple matches a tuple of the same length whose elements match elems.
func Tuple(elems ...Pattern) Pattern {
	return Pattern{kind: PatternTuple, elems: slices.Clone(elems)}
}

// Code matches one key code.
func Code(c key.Code) Pattern {
	return Literal(int64(c))
}

// Codes matches any of the given key codes.
func Codes(cs ...key.Code) Pattern {
	vs := make([]int64, len(cs))
	for i, c := range cs {
		vs[i] = int64(c)
	}
	return Set(vs...)
}

// KeyState matches one key state.
func KeyState(s key.State) Pattern {
	return Literal(int64(s))
}

// Stroke matches a keystroke by its (code, state) tuple.
func Stroke(code, state Pattern) Pattern {
	return Tuple(code, state)
}

// Kind returns the variant of p.
func (p Pattern) Kind() PatternKind {
	return p.kind
}

// IsAny reports whether p matches unconditionally.
func (p Pattern) IsAny() bool {
	return p.kind == PatternAny
}

// Match reports whether v matches p. Scalar patterns never match tuples and
// tuple patterns never match scalars.
func (p Pattern) Match(v Value) bool {
	switch p.kind {
	case PatternAny:
		return true
	case PatternLiteral:
		return !v.tuple && v.scalar == p.value
	case PatternSet:
		return !v.tuple && slices.Contains(p.set, v.scalar)
	case PatternTuple:
		if !v.tuple || len(v.elems) != len(p.elems) {
			return false
		}
		for i, elem := range p.elems {
			if !elem.Match(v.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MatchKeystroke matches the (code, state) tuple of ks.
func (p Pattern) MatchKeystroke(ks key.Keystroke) bool {
	return p.Match(ValueOf(ks))
}

// String renders the pattern: "*", "56", "{36,37}", "(56, 1)".
func (p Pattern) String() string {
	switch p.kind {
	case PatternAny:
		return "*"
	case PatternLiteral:
		return strconv.FormatInt(p.value, 10)
	case PatternSet:
		parts := make([]string, len(p.set))
		for i, v := range p.set {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case PatternTuple:
		parts := make([]string, len(p.elems))
		for i, e := range p.elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}

// Value is what patterns match against: a scalar or a tuple of values.
type Value struct {
	scalar int64
	elems  []Value
	tuple  bool
}

// Scalar creates a scalar value.
func Scalar(v int64) Value {
	return Value{scalar: v}
}

// TupleOf creates a tuple value.
func TupleOf(elems ...Value) Value {
	return Value{elems: elems, tuple: true}
}

// ValueOf returns the (code, state) tuple of ks.
func ValueOf(ks key.Keystroke) Value {
	return TupleOf(Scalar(int64(ks.Code)), Scalar(int64(ks.State)))
}
