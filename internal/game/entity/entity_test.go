package entity

import "testing"

func TestEntity_Flags(t *testing.T) {
	e := New(1, CategoryPlaceable, "crate")

	if e.Flag(KeyPhysics) {
		t.Error("unset flag reported true")
	}
	e.SetData(KeyPhysics, 1)
	if !e.Flag(KeyPhysics) {
		t.Error("set flag reported false")
	}
	e.SetData(KeyPhysics, 0)
	if e.Flag(KeyPhysics) {
		t.Error("zero value should read as unset")
	}
}

func TestEntity_HalfExtents(t *testing.T) {
	e := New(1, CategoryPlaceable, "crate")

	he := e.HalfExtents()
	if he.X != DefaultHalfExtent || he.Y != DefaultHalfExtent || he.Z != DefaultHalfExtent {
		t.Errorf("default extents = %v", he)
	}

	e.SetData(KeyHalfX, 2)
	e.SetData(KeyHalfY, -1) // Non-positive values fall back to the default
	he = e.HalfExtents()
	if he.X != 2 {
		t.Errorf("declared X extent ignored: %v", he)
	}
	if he.Y != DefaultHalfExtent {
		t.Errorf("non-positive Y extent should default: %v", he)
	}
}

func TestEntity_DataBagOnNilMap(t *testing.T) {
	e := &Entity{ID: 1}
	e.SetData(KeyMass, 5)
	if v, ok := e.DataValue(KeyMass); !ok || v != 5 {
		t.Errorf("DataValue = %v, %v", v, ok)
	}
}

func TestCategory_String(t *testing.T) {
	if CategoryCreature.String() != "creature" {
		t.Errorf("got %q", CategoryCreature.String())
	}
	if CategoryCount.String() != "unknown" {
		t.Errorf("got %q", CategoryCount.String())
	}
}
