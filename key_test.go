package loot

import "testing"

func TestKeyGetSet(t *testing.T) {
	damage := NewKey[int](NewQuery("Weapon", "Damage"))
	c := NewContainer()

	if _, ok := damage.Get(c); ok {
		t.Fatalf("expected no value before Set")
	}
	damage.Set(c, 7)
	if v, ok := damage.Get(c); !ok || v != 7 {
		t.Fatalf("expected 7, got %v (%v)", v, ok)
	}
	if !damage.Exists(c) {
		t.Fatalf("expected key to exist")
	}
	if q := damage.Query(); q.String() != "Weapon.Damage" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestKeyGetOr(t *testing.T) {
	name := NewKey[string](NewQuery("Name"))
	c := NewContainer()

	if v := name.GetOr(c, "fallback"); v != "fallback" {
		t.Fatalf("expected fallback, got %q", v)
	}
	name.Set(c, "chest")
	if v := name.GetOr(c, "fallback"); v != "chest" {
		t.Fatalf("expected chest, got %q", v)
	}
}

func TestKeyWidthTolerance(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Count"), int32(9)).
		Set(NewQuery("Meta"), int32(2)).
		Set(NewQuery("Chance"), float32(0.5)).
		Set(NewQuery("Flag"), uint8(1))

	if v, ok := NewKey[int](NewQuery("Count")).Get(c); !ok || v != 9 {
		t.Fatalf("expected int key to read int32, got %v (%v)", v, ok)
	}
	if v, ok := NewKey[int16](NewQuery("Meta")).Get(c); !ok || v != 2 {
		t.Fatalf("expected int16 key to read int32, got %v (%v)", v, ok)
	}
	if v, ok := NewKey[float64](NewQuery("Chance")).Get(c); !ok || v != 0.5 {
		t.Fatalf("expected float64 key to read float32, got %v (%v)", v, ok)
	}
	if v, ok := NewKey[bool](NewQuery("Flag")).Get(c); !ok || !v {
		t.Fatalf("expected bool key to read byte, got %v (%v)", v, ok)
	}
	if _, ok := NewKey[string](NewQuery("Count")).Get(c); ok {
		t.Fatalf("expected string key not to read an int")
	}
}

func TestKeySliceTypes(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Lines"), []any{"a", "b"}).
		Set(NewQuery("Children"), []any{NewContainer().Set(NewQuery("v"), 1)})

	lines, ok := NewKey[[]string](NewQuery("Lines")).Get(c)
	if !ok || len(lines) != 2 || lines[0] != "a" {
		t.Fatalf("expected string slice key to read untyped list, got %v (%v)", lines, ok)
	}
	children, ok := NewKey[[]*Container](NewQuery("Children")).Get(c)
	if !ok || len(children) != 1 {
		t.Fatalf("expected container slice key to read untyped list, got %v (%v)", children, ok)
	}
}

func TestStandardKeys(t *testing.T) {
	c := NewContainer()
	ItemTypeKey.Set(c, "loot:gem")
	MetaKey.Set(c, 2)
	WeightKey.Set(c, 10)

	if v, _ := ItemTypeKey.Get(c); v != "loot:gem" {
		t.Fatalf("expected loot:gem, got %q", v)
	}
	if v, _ := MetaKey.Get(c); v != 2 {
		t.Fatalf("expected meta 2, got %v", v)
	}
	if v, _ := WeightKey.Get(c); v != 10 {
		t.Fatalf("expected weight 10, got %v", v)
	}
}

func TestValueBind(t *testing.T) {
	damage := NewKey[int](NewQuery("Damage"))
	c := NewContainer()
	v := damage.Bind(c)

	if v.Exists() {
		t.Fatalf("expected no value before Set")
	}
	v.Set(12)
	if got, ok := v.Get(); !ok || got != 12 {
		t.Fatalf("expected 12, got %v (%v)", got, ok)
	}
	if got := v.GetOr(0); got != 12 {
		t.Fatalf("expected 12, got %v", got)
	}
	// The bound container is the one written to.
	if got, ok := damage.Get(c); !ok || got != 12 {
		t.Fatalf("expected container to hold 12, got %v (%v)", got, ok)
	}
}
