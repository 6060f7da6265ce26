// Package contrast provides the per-row pixel transforms the scheduler applies.
package contrast

// Transform mutates one row of pixel bytes in place. Implementations must not
// retain the slice and must be safe for concurrent use on disjoint rows.
type Transform interface {
	Apply(row []byte)
}

// Func adapts a plain function to Transform.
type Func func(row []byte)

// Apply calls f(row).
func (f Func) Apply(row []byte) { f(row) }

// Darken lowers every channel by Factor, flooring at zero.
type Darken struct {
	Factor uint8
}

// Apply implements Transform.
func (d Darken) Apply(row []byte) {
	if d.Factor == 0 {
		return
	}
	c := d.Factor
	for i, v := range row {
		if v > c {
			row[i] = v - c
		} else {
			row[i] = 0
		}
	}
}

// Value returns the darkened value of a single channel byte.
func (d Darken) Value(v uint8) uint8 {
	if v > d.Factor {
		return v - d.Factor
	}
	return 0
}
