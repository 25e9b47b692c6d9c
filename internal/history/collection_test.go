package history

import (
	"errors"
	"testing"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

func TestCollection_Lifecycle(t *testing.T) {
	s := New()
	a, _ := s.NewUnitWithID("aaa111", "first", Seed("a"))
	b, _ := s.NewUnitWithID("bbb222", "second", Seed("b"))

	c := NewCollection(a, b)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	a2, err := a.AddStep(GetterStep{Op: rxp.OpAtEnd})
	if err != nil {
		t.Fatal(err)
	}
	c2, err := c.Replace(a2)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got, _ := c2.Get("aaa111"); got.Len() != 2 {
		t.Errorf("replaced unit Len = %d, want 2", got.Len())
	}
	if got, _ := c.Get("aaa111"); got.Len() != 1 {
		t.Error("original collection should be unchanged after Replace")
	}
	if c2.Index("aaa111") != 0 {
		t.Error("Replace should keep the unit's position")
	}

	c3, err := c2.Remove("aaa111")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c3.Len() != 1 || c3.At(0).ID() != "bbb222" {
		t.Errorf("after Remove: %d units, first %q", c3.Len(), c3.At(0).ID())
	}
	if c2.Len() != 2 {
		t.Error("original collection should be unchanged after Remove")
	}
}

func TestCollection_Missing(t *testing.T) {
	s := New()
	a, _ := s.NewUnitWithID("aaa111", "first", Seed("a"))
	c := NewCollection()

	if _, err := c.Replace(a); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("Replace: err = %v, want ErrUnitNotFound", err)
	}
	if _, err := c.Remove("aaa111"); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("Remove: err = %v, want ErrUnitNotFound", err)
	}
	if _, ok := c.Get("aaa111"); ok {
		t.Error("Get on empty collection should report false")
	}
}

func TestCollection_AddReplacesSameID(t *testing.T) {
	s := New()
	a, _ := s.NewUnitWithID("aaa111", "first", Seed("a"))
	c := NewCollection(a, a.Rename("renamed"))
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if c.At(0).Name() != "renamed" {
		t.Errorf("Name = %q, want renamed", c.At(0).Name())
	}
}

func TestCollection_Find(t *testing.T) {
	s := New()
	a, _ := s.NewUnitWithID("abc123", "a", Seed("a"))
	b, _ := s.NewUnitWithID("abd456", "b", Seed("b"))
	c := NewCollection(a, b)

	if u, err := c.Find("abc"); err != nil || u.ID() != "abc123" {
		t.Errorf("Find(abc) = %q, %v", u.ID(), err)
	}
	if u, err := c.Find("abd456"); err != nil || u.ID() != "abd456" {
		t.Errorf("Find(full id) = %q, %v", u.ID(), err)
	}
	if _, err := c.Find("ab"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("Find(ab): err = %v, want ErrAmbiguousID", err)
	}
	if _, err := c.Find("zz"); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("Find(zz): err = %v, want ErrUnitNotFound", err)
	}
	if _, err := c.Find(""); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("Find(\"\"): err = %v, want ErrUnitNotFound", err)
	}
}
