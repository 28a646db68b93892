package tensor

import "fmt"

// Direction is the iteration direction of a Dimension.
type Direction int

const (
	// Forward stores positions as they are.
	Forward Direction = iota
	// Backward stores positions mirrored: forward position 0 is stored as size-1.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Axis is the contract shared by a Dimension and an Indexer. Anything that
// implements it can be a dimension of an Indexer.
//
// Position and SetPosition always work with forward positions in [0, Size()].
type Axis interface {
	Size() int
	Position() int
	SetPosition(p int)
}

// Named is implemented by axes that can be looked up by name with
// Indexer.Lookup.
type Named interface {
	Name() string
}

// Dimension is a single axis with a fixed size and direction.
type Dimension struct {
	name      string
	size      int
	direction Direction

	// position is the directional (stored) position. It is in [0, size] for
	// Forward and in [-1, size-1] for Backward, -1 being the end sentinel.
	position int
}

// NewDimension returns a dimension at forward position 0.
//
// It panics if size is not positive.
func NewDimension(name string, size int, dir Direction) *Dimension {
	if size <= 0 {
		panic(fmt.Sprintf("tensor: dimension %q: size must be > 0, got %d", name, size))
	}
	if dir != Forward && dir != Backward {
		panic(fmt.Sprintf("tensor: dimension %q: invalid %v", name, dir))
	}
	d := &Dimension{name: name, size: size, direction: dir}
	d.SetPosition(0)
	return d
}

// Name returns the name the dimension was created with.
func (d *Dimension) Name() string {
	return d.name
}

// Size returns the number of elements of the dimension.
func (d *Dimension) Size() int {
	return d.size
}

// Direction returns the iteration direction.
func (d *Dimension) Direction() Direction {
	return d.direction
}

// Position returns the forward position, independent of the direction.
func (d *Dimension) Position() int {
	if d.direction == Forward {
		return d.position
	}
	return d.size - d.position - 1
}

// SetPosition sets the forward position p, which must be in [0, Size()].
func (d *Dimension) SetPosition(p int) {
	if debug {
		checkPosition(d.name, p, d.size)
	}
	if d.direction == Forward {
		d.position = p
	} else {
		d.position = (d.size - 1) - p
	}
}

// DirectionalPosition returns the stored position: the forward position for
// Forward dimensions and its mirror for Backward ones.
func (d *Dimension) DirectionalPosition() int {
	return d.position
}

// SetDirectionalPosition sets the stored position directly. p must be in
// [0, Size()] for Forward and [-1, Size()-1] for Backward dimensions.
func (d *Dimension) SetDirectionalPosition(p int) {
	if debug {
		if d.direction == Forward {
			checkPosition(d.name, p, d.size)
		} else {
			checkPosition(d.name, p+1, d.size)
		}
	}
	d.position = p
}

// IsBegin reports whether the dimension is at its first element.
func (d *Dimension) IsBegin() bool {
	return d.Position() == 0
}

// IsLast reports whether the dimension is at its last valid element.
func (d *Dimension) IsLast() bool {
	return d.Position() == d.size-1
}

// IsEnd reports whether the dimension is parked one past its last element.
func (d *Dimension) IsEnd() bool {
	return d.Position() == d.size
}

func (d *Dimension) String() string {
	return fmt.Sprintf("%s(%d,%v)@%d", d.name, d.size, d.direction, d.Position())
}
