package model

import (
	"fmt"
	"math"
	"strconv"
)

// Incar is an ordered set of INCAR tags. Insertion order is preserved so the
// generated file keeps the defaults-then-overrides layout stable across runs.
type Incar struct {
	keys   []string
	values map[string]any
}

// NewIncar creates an empty tag set
func NewIncar() *Incar {
	return &Incar{values: map[string]any{}}
}

// Set stores a tag value, keeping the position of an already-present key
func (c *Incar) Set(key string, value any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns a tag value
func (c *Incar) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether a tag is present
func (c *Incar) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes a tag
func (c *Incar) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the tag names in file order
func (c *Incar) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// FormatIncarValue renders a tag value in INCAR syntax: Fortran booleans,
// floats with a trailing decimal, everything else verbatim.
func FormatIncarValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return ".TRUE."
		}
		return ".FALSE."
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', 1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return FormatIncarValue(float64(t))
	case int, int64:
		return fmt.Sprintf("%d", t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
