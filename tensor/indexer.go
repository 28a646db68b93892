package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Indexer maps a linear (global) position to one position per axis and back.
//
// Axis 0 is the fastest varying one. The divisor of axis k is the product of
// the sizes of axes 0..k-1 and its modulus is its own size, except for the
// last axis whose modulus is size+1 so that Size() decomposes into the end
// sentinel instead of wrapping to 0.
type Indexer struct {
	name  string
	axes  []Axis
	sizes []int
	// divisors doubles as the multiplier table used by Position.
	divisors []int
	moduli   []int
	size     int
}

// New returns an indexer over axes, ordered from the fastest to the slowest
// varying one. The indexer takes ownership of the axes: they should not be
// moved by anything else afterwards.
//
// It panics when no axis is given, when an axis has a non positive size, or
// when the product of the sizes overflows an int.
func New(axes ...Axis) *Indexer {
	return NewNamed("", axes...)
}

// NewNamed is like New, and names the indexer so it can be found with Lookup
// when nested in another indexer.
func NewNamed(name string, axes ...Axis) *Indexer {
	if len(axes) == 0 {
		panic("tensor: an indexer needs at least one axis")
	}
	t := &Indexer{
		name:     name,
		axes:     append([]Axis(nil), axes...),
		sizes:    make([]int, len(axes)),
		divisors: make([]int, len(axes)),
		moduli:   make([]int, len(axes)),
	}
	sub := 1
	for k, a := range t.axes {
		s := a.Size()
		if s <= 0 {
			panic(fmt.Sprintf("tensor: axis %d has size %d, must be > 0", k, s))
		}
		if sub > math.MaxInt/s {
			panic(fmt.Sprintf("tensor: indexer size overflows at axis %d", k))
		}
		t.sizes[k] = s
		t.divisors[k] = sub
		t.moduli[k] = s
		sub *= s
	}
	last := len(t.axes) - 1
	if t.moduli[last] == math.MaxInt {
		panic("tensor: outermost axis too large to hold the end sentinel")
	}
	t.moduli[last]++
	t.size = sub
	return t
}

// Name returns the name given to NewNamed.
func (t *Indexer) Name() string {
	return t.name
}

// DimensionCount returns the number of axes.
func (t *Indexer) DimensionCount() int {
	return len(t.axes)
}

// Size returns the total number of elements, the product of all axis sizes.
func (t *Indexer) Size() int {
	return t.size
}

// SubSize returns the product of the sizes of axes 0..k, both included.
// SubSize(DimensionCount()-1) == Size().
func (t *Indexer) SubSize(k int) int {
	return t.divisors[k] * t.sizes[k]
}

// Dimension returns axis k.
func (t *Indexer) Dimension(k int) Axis {
	return t.axes[k]
}

// Lookup returns the first axis implementing Named with the given name.
func (t *Indexer) Lookup(name string) (Axis, bool) {
	for _, a := range t.axes {
		if n, ok := a.(Named); ok && n.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// SetPosition decomposes the global position g, in [0, Size()], into the
// position of every axis.
func (t *Indexer) SetPosition(g int) {
	if debug {
		checkPosition("global", g, t.size)
	}
	for k, a := range t.axes {
		a.SetPosition(g / t.divisors[k] % t.moduli[k])
	}
}

// Position recomposes the global position from the axis positions.
func (t *Indexer) Position() int {
	g := 0
	for k, a := range t.axes {
		g += a.Position() * t.divisors[k]
	}
	return g
}

// Reset moves every axis back to position 0.
func (t *Indexer) Reset() {
	t.SetPosition(0)
}

// IsEnd reports whether the indexer is parked on the end sentinel.
func (t *Indexer) IsEnd() bool {
	return t.Position() == t.size
}

func (t *Indexer) String() string {
	var b strings.Builder
	b.WriteString("tensor.Indexer[")
	if t.name != "" {
		b.WriteString(t.name)
		b.WriteString(" ")
	}
	for k, a := range t.axes {
		name := fmt.Sprintf("%d", k)
		if n, ok := a.(Named); ok && n.Name() != "" {
			name = n.Name()
		}
		fmt.Fprintf(&b, "%s:%d ", name, t.sizes[k])
	}
	fmt.Fprintf(&b, "@%d]", t.Position())
	return b.String()
}

// Decompose sets the positions of axes from the global position g like
// Indexer.SetPosition, without precomputed tables.
func Decompose(g int, axes ...Axis) {
	div := 1
	last := len(axes) - 1
	for k, a := range axes {
		s := a.Size()
		mod := s
		if k == last {
			mod++
		}
		a.SetPosition(g / div % mod)
		div *= s
	}
}

// Compose returns the global position of axes like Indexer.Position.
func Compose(axes ...Axis) int {
	g, mul := 0, 1
	for _, a := range axes {
		g += a.Position() * mul
		mul *= a.Size()
	}
	return g
}
