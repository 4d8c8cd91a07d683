package domain

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// SizeDecider picks a concrete element count inside an inclusive range.
type SizeDecider interface {
	DecideSize(min, max int) int
}

// SizeDeciderFunc adapts a plain function to SizeDecider.
type SizeDeciderFunc func(min, max int) int

func (f SizeDeciderFunc) DecideSize(min, max int) int { return f(min, max) }

// RandomDecider draws uniformly from [min, max].
// Safe for concurrent use, so one decider can serve many independent trees.
type RandomDecider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomDecider creates a decider with a deterministic seed.
func NewRandomDecider(seed uint64) *RandomDecider {
	return &RandomDecider{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (d *RandomDecider) DecideSize(min, max int) int {
	if max <= min {
		return min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return min + d.rnd.IntN(max-min+1)
}

// FixedDecider always answers n. SizeConstraint.Decide clamps the answer into
// the constraint's range.
func FixedDecider(n int) SizeDecider {
	return SizeDeciderFunc(func(min, max int) int {
		return n
	})
}

// SizeConstraint is an inclusive element-count range for a container node.
// Decide commits to a single count exactly once; later calls return the cached value.
type SizeConstraint struct {
	min, max  int
	decided   int
	isDecided bool
}

// NewSizeConstraint validates and creates an undecided constraint.
func NewSizeConstraint(min, max int) (*SizeConstraint, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidSizeRange, min, max)
	}
	return &SizeConstraint{min: min, max: max}, nil
}

// MustSizeConstraint is NewSizeConstraint for ranges known to be valid.
func MustSizeConstraint(min, max int) *SizeConstraint {
	c, err := NewSizeConstraint(min, max)
	if err != nil {
		panic(err)
	}
	return c
}

// ExactSize returns the constraint [n, n].
func ExactSize(n int) *SizeConstraint {
	return MustSizeConstraint(n, n)
}

// Min returns the inclusive lower bound.
func (c *SizeConstraint) Min() int { return c.min }

// Max returns the inclusive upper bound, regardless of whether a count was decided.
func (c *SizeConstraint) Max() int { return c.max }

// Decided reports the committed count, if any.
func (c *SizeConstraint) Decided() (int, bool) {
	return c.decided, c.isDecided
}

// Decide commits to a count using d on the first call and returns the cached
// count afterwards. Answers outside the range are clamped.
func (c *SizeConstraint) Decide(d SizeDecider) int {
	if c.isDecided {
		return c.decided
	}
	n := d.DecideSize(c.min, c.max)
	if n < c.min {
		n = c.min
	}
	if n > c.max {
		n = c.max
	}
	c.decided = n
	c.isDecided = true
	return n
}

func (c *SizeConstraint) String() string {
	if c.isDecided {
		return fmt.Sprintf("[%d, %d]=%d", c.min, c.max, c.decided)
	}
	return fmt.Sprintf("[%d, %d]", c.min, c.max)
}
