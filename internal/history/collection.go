package history

import (
	"fmt"
	"strings"
)

// Collection owns a set of open units, keyed by id and kept in the order
// they were opened. Like Unit it is a value: every change returns a new
// Collection and leaves the receiver untouched.
type Collection struct {
	units []Unit
}

// NewCollection returns a collection holding units.
func NewCollection(units ...Unit) Collection {
	var c Collection
	for _, u := range units {
		c = c.Add(u)
	}
	return c
}

// Len returns the number of units.
func (c Collection) Len() int { return len(c.units) }

// Units returns the units in opening order.
func (c Collection) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Index returns the position of the unit with id, or -1.
func (c Collection) Index(id string) int {
	for i, u := range c.units {
		if u.id == id {
			return i
		}
	}
	return -1
}

// Get returns the unit with id.
func (c Collection) Get(id string) (Unit, bool) {
	if i := c.Index(id); i >= 0 {
		return c.units[i], true
	}
	return Unit{}, false
}

// At returns the i-th unit.
func (c Collection) At(i int) Unit { return c.units[i] }

// Find resolves an id or a unique id prefix.
func (c Collection) Find(prefix string) (Unit, error) {
	if u, ok := c.Get(prefix); ok {
		return u, nil
	}
	var found []Unit
	for _, u := range c.units {
		if prefix != "" && strings.HasPrefix(u.id, prefix) {
			found = append(found, u)
		}
	}
	switch len(found) {
	case 0:
		return Unit{}, fmt.Errorf("%w: %q", ErrUnitNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return Unit{}, fmt.Errorf("%w: %q matches %d units", ErrAmbiguousID, prefix, len(found))
	}
}

// Add appends u, or replaces the unit with the same id in place.
func (c Collection) Add(u Unit) Collection {
	if i := c.Index(u.id); i >= 0 {
		return c.set(i, u)
	}
	units := make([]Unit, len(c.units), len(c.units)+1)
	copy(units, c.units)
	return Collection{units: append(units, u)}
}

// Replace swaps in u for the unit with the same id.
func (c Collection) Replace(u Unit) (Collection, error) {
	i := c.Index(u.id)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrUnitNotFound, u.id)
	}
	return c.set(i, u), nil
}

// Remove drops the unit with id.
func (c Collection) Remove(id string) (Collection, error) {
	i := c.Index(id)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrUnitNotFound, id)
	}
	units := make([]Unit, 0, len(c.units)-1)
	units = append(units, c.units[:i]...)
	units = append(units, c.units[i+1:]...)
	return Collection{units: units}, nil
}

func (c Collection) set(i int, u Unit) Collection {
	units := make([]Unit, len(c.units))
	copy(units, c.units)
	units[i] = u
	return Collection{units: units}
}
