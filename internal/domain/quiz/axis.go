// Package quiz holds the static question catalog and the four-axis vector
// type every score is expressed in.
package quiz

import (
	"fmt"
	"sort"
)

// Axis is one of the four preference dimensions.
type Axis int

// Axes in their fixed tie-break order.
const (
	Distance Axis = iota
	Initiative
	Security
	Affection

	// NoFocus marks a question that does not target a single axis.
	NoFocus Axis = -1
)

// axisCount is the number of real axes.
const axisCount = 4

// Axes lists the axes in tie-break order.
var Axes = [axisCount]Axis{Distance, Initiative, Security, Affection} //nolint:gochecknoglobals // immutable ordering

var axisNames = [axisCount]string{"distance", "initiative", "security", "affection"} //nolint:gochecknoglobals // immutable names

// String returns the axis' lowercase name.
func (a Axis) String() string {
	if !a.Valid() {
		return "none"
	}
	return axisNames[a]
}

// Valid reports whether a is one of the four real axes.
func (a Axis) Valid() bool {
	return a >= Distance && a <= Affection
}

// ParseAxis maps a lowercase axis name back to its Axis.
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return NoFocus, fmt.Errorf("unknown axis %q", name)
}

// Vector is a signed integer per axis, indexed by Axis.
type Vector [axisCount]int

// Vec builds a Vector from explicit components.
func Vec(distance, initiative, security, affection int) Vector {
	return Vector{distance, initiative, security, affection}
}

// Get returns the component for axis a; invalid axes read as zero.
func (v Vector) Get(a Axis) int {
	if !a.Valid() {
		return 0
	}
	return v[a]
}

// Add returns the elementwise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Negate flips the sign of every component.
func (v Vector) Negate() Vector {
	for i := range v {
		v[i] = -v[i]
	}
	return v
}

// Ranked orders the axes by descending magnitude. Equal magnitudes keep
// the fixed axis order.
func (v Vector) Ranked() [axisCount]Axis {
	ranked := Axes
	sort.SliceStable(ranked[:], func(i, j int) bool {
		return abs(v[ranked[i]]) > abs(v[ranked[j]])
	})
	return ranked
}

func (v Vector) String() string {
	return fmt.Sprintf("(distance:%d, initiative:%d, security:%d, affection:%d)", v[Distance], v[Initiative], v[Security], v[Affection])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
