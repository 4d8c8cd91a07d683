package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Size bounds a container's element count.
type Size struct {
	Min, Max int
}

// Constraint converts the marker into a fresh size constraint.
func (s Size) Constraint() (*domain.SizeConstraint, error) {
	return domain.NewSizeConstraint(s.Min, s.Max)
}

// NotNull forbids null injection on the property.
type NotNull struct{}

// NullInject sets the probability of injecting the absent value.
type NullInject struct {
	Probability float64
}

// ParseTag turns a tag value such as "size=1..3,notnull,nullinject=0.2" into
// markers, in the order they appear.
func ParseTag(tag string) ([]any, error) {
	var markers []any
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "size":
			s, err := parseSize(value)
			if err != nil {
				return nil, err
			}
			markers = append(markers, s)
		case "notnull":
			markers = append(markers, NotNull{})
		case "nullinject":
			p, err := strconv.ParseFloat(value, 64)
			if err != nil || p < 0 || p > 1 {
				return nil, fmt.Errorf("annotation: invalid nullinject %q", value)
			}
			markers = append(markers, NullInject{Probability: p})
		default:
			return nil, fmt.Errorf("annotation: unknown marker %q", key)
		}
	}
	return markers, nil
}

// parseSize accepts "n" or "min..max".
func parseSize(value string) (Size, error) {
	lo, hi, ranged := strings.Cut(value, "..")
	min, err := strconv.Atoi(lo)
	if err != nil {
		return Size{}, fmt.Errorf("annotation: invalid size %q", value)
	}
	max := min
	if ranged {
		if max, err = strconv.Atoi(hi); err != nil {
			return Size{}, fmt.Errorf("annotation: invalid size %q", value)
		}
	}
	if min < 0 || max < min {
		return Size{}, fmt.Errorf("%w: %q", domain.ErrInvalidSizeRange, value)
	}
	return Size{Min: min, Max: max}, nil
}

// NodeOptions translates markers into node construction options. Markers it
// does not know are ignored.
func (s *Source) NodeOptions() ([]domain.NodeOption, error) {
	var opts []domain.NodeOption
	if size, ok := Find[Size](s); ok {
		c, err := size.Constraint()
		if err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithSize(c))
	}
	if inject, ok := Find[NullInject](s); ok {
		opts = append(opts, domain.WithNullable(true), domain.WithNullInject(inject.Probability))
	}
	if _, ok := Find[NotNull](s); ok {
		opts = append(opts, domain.WithNullable(false), domain.WithNullInject(0))
	}
	return opts, nil
}
