package loot

import "testing"

func TestContainerSetGet(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Name"), "chest").
		Set(NewQuery("Weapon", "Damage"), 7)

	if v, ok := c.Get(NewQuery("Name")); !ok || v != "chest" {
		t.Fatalf("expected chest, got %v (%v)", v, ok)
	}
	if v, ok := c.Get(NewQuery("Weapon", "Damage")); !ok || v != 7 {
		t.Fatalf("expected 7, got %v (%v)", v, ok)
	}
	if _, ok := c.Get(NewQuery("Weapon", "Missing")); ok {
		t.Fatalf("expected missing value")
	}
	if _, ok := c.Get(NewQuery("Name", "Deeper")); ok {
		t.Fatalf("expected no value below a leaf")
	}
	if _, ok := c.Get(NewQuery()); ok {
		t.Fatalf("expected no value under the empty query")
	}
}

func TestContainerSetReplacesLeafWithChild(t *testing.T) {
	c := NewContainer().Set(NewQuery("a"), 1)
	c.Set(NewQuery("a", "b"), 2)

	if v, ok := c.GetInt(NewQuery("a", "b")); !ok || v != 2 {
		t.Fatalf("expected nested value 2, got %v (%v)", v, ok)
	}
	if _, ok := c.Child(NewQuery("a")); !ok {
		t.Fatalf("expected a to have become a container")
	}
}

func TestContainerSetEmptyQueryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Set with an empty query to panic")
		}
	}()
	NewContainer().Set(NewQuery(), 1)
}

func TestContainerSetSerializes(t *testing.T) {
	c := NewContainer().Set(NewQuery("Amount"), Fixed(3))

	child, ok := c.Child(NewQuery("Amount"))
	if !ok {
		t.Fatalf("expected amount to serialize to a container")
	}
	if typ, _ := child.GetString(amountTypeQuery); typ != amountFixed {
		t.Fatalf("expected fixed amount type, got %q", typ)
	}
}

func TestContainerSetSerializesSlices(t *testing.T) {
	c := NewContainer().Set(NewQuery("Amounts"), []Amount{Fixed(1), Fixed(2)})

	list, ok := c.GetContainers(NewQuery("Amounts"))
	if !ok || len(list) != 2 {
		t.Fatalf("expected two serialized amounts, got %v (%v)", list, ok)
	}
	if v, _ := list[1].GetFloat(valueQuery); v != 2 {
		t.Fatalf("expected second amount to hold 2, got %v", v)
	}
}

func TestContainerTypedGetters(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Int32"), int32(9)).
		Set(NewQuery("Byte"), uint8(1)).
		Set(NewQuery("Float"), 2.5).
		Set(NewQuery("String"), "hello").
		Set(NewQuery("Strings"), []string{"a", "b"}).
		Set(NewQuery("AnyStrings"), []any{"a", "b"})

	if v, ok := c.GetInt(NewQuery("Int32")); !ok || v != 9 {
		t.Fatalf("expected widened int 9, got %v (%v)", v, ok)
	}
	if v, ok := c.GetBool(NewQuery("Byte")); !ok || !v {
		t.Fatalf("expected byte to read as true, got %v (%v)", v, ok)
	}
	if v, ok := c.GetFloat(NewQuery("Float")); !ok || v != 2.5 {
		t.Fatalf("expected 2.5, got %v (%v)", v, ok)
	}
	if v, ok := c.GetFloat(NewQuery("Int32")); !ok || v != 9 {
		t.Fatalf("expected int to read as float, got %v (%v)", v, ok)
	}
	if v, ok := c.GetString(NewQuery("String")); !ok || v != "hello" {
		t.Fatalf("expected hello, got %q (%v)", v, ok)
	}
	if v, ok := c.GetStringSlice(NewQuery("Strings")); !ok || len(v) != 2 {
		t.Fatalf("expected two strings, got %v (%v)", v, ok)
	}
	if v, ok := c.GetStringSlice(NewQuery("AnyStrings")); !ok || v[1] != "b" {
		t.Fatalf("expected untyped string list to read, got %v (%v)", v, ok)
	}
	if _, ok := c.GetInt(NewQuery("String")); ok {
		t.Fatalf("expected string not to read as int")
	}
}

func TestContainerKeysSorted(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("b"), 1).
		Set(NewQuery("a"), 2).
		Set(NewQuery("c"), 3)

	keys := c.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 values, got %v", c.Len())
	}
}

func TestContainerRemove(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("a", "b"), 1).
		Set(NewQuery("a", "c"), 2)

	c.Remove(NewQuery("a", "b"))
	if c.Contains(NewQuery("a", "b")) {
		t.Fatalf("expected a.b to be removed")
	}
	if !c.Contains(NewQuery("a", "c")) {
		t.Fatalf("expected a.c to survive")
	}
	// Removing a missing path is a no-op.
	c.Remove(NewQuery("x", "y")).Remove(NewQuery())
}

func TestContainerCopy(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Nested", "Value"), 1).
		Set(NewQuery("List"), []*Container{NewContainer().Set(NewQuery("v"), 1)}).
		Set(NewQuery("Strings"), []string{"a"})

	cp := c.Copy()
	if !cp.Equal(c) {
		t.Fatalf("expected copy to equal original")
	}

	cp.Set(NewQuery("Nested", "Value"), 2)
	list, _ := cp.GetContainers(NewQuery("List"))
	list[0].Set(NewQuery("v"), 2)

	if v, _ := c.GetInt(NewQuery("Nested", "Value")); v != 1 {
		t.Fatalf("expected original nested value to stay 1, got %v", v)
	}
	original, _ := c.GetContainers(NewQuery("List"))
	if v, _ := original[0].GetInt(NewQuery("v")); v != 1 {
		t.Fatalf("expected original list value to stay 1, got %v", v)
	}
}

func TestContainerString(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("b"), 2).
		Set(NewQuery("a"), 1)

	if s := c.String(); s != "Container{a: 1, b: 2}" {
		t.Fatalf("unexpected string %q", s)
	}
}

func TestContainerEqual(t *testing.T) {
	a := NewContainer().Set(NewQuery("x", "y"), 1)
	b := NewContainer().Set(NewQuery("x", "y"), 1)
	if !a.Equal(b) {
		t.Fatalf("expected containers to be equal")
	}
	b.Set(NewQuery("x", "y"), 2)
	if a.Equal(b) {
		t.Fatalf("expected containers to differ")
	}
	// Equality is width sensitive.
	if a.Equal(NewContainer().Set(NewQuery("x", "y"), int32(1))) {
		t.Fatalf("expected int and int32 values to differ")
	}
}

func TestContainerNBTRoundTrip(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("Name"), "chest").
		Set(NewQuery("Count"), 3).
		Set(NewQuery("Chance"), 0.25).
		Set(NewQuery("Enabled"), true).
		Set(NewQuery("Meta", "Level"), int16(2)).
		Set(NewQuery("Lines"), []string{"a", "b"}).
		Set(NewQuery("Children"), []*Container{
			NewContainer().Set(NewQuery("v"), "first"),
			NewContainer().Set(NewQuery("v"), "second"),
		})

	b, err := c.EncodeNBT()
	if err != nil {
		t.Fatalf("EncodeNBT failed: %v", err)
	}
	decoded, err := DecodeNBT(b)
	if err != nil {
		t.Fatalf("DecodeNBT failed: %v", err)
	}

	if v, ok := decoded.GetString(NewQuery("Name")); !ok || v != "chest" {
		t.Fatalf("expected chest, got %q (%v)", v, ok)
	}
	if v, ok := decoded.GetInt(NewQuery("Count")); !ok || v != 3 {
		t.Fatalf("expected count 3, got %v (%v)", v, ok)
	}
	if v, ok := decoded.GetFloat(NewQuery("Chance")); !ok || v != 0.25 {
		t.Fatalf("expected chance 0.25, got %v (%v)", v, ok)
	}
	if v, ok := decoded.GetBool(NewQuery("Enabled")); !ok || !v {
		t.Fatalf("expected enabled, got %v (%v)", v, ok)
	}
	if v, ok := decoded.GetInt(NewQuery("Meta", "Level")); !ok || v != 2 {
		t.Fatalf("expected nested level 2, got %v (%v)", v, ok)
	}
	lines, ok := decoded.GetStringSlice(NewQuery("Lines"))
	if !ok || len(lines) != 2 || lines[1] != "b" {
		t.Fatalf("expected lines to survive, got %v (%v)", lines, ok)
	}
	children, ok := decoded.GetContainers(NewQuery("Children"))
	if !ok || len(children) != 2 {
		t.Fatalf("expected two children, got %v (%v)", children, ok)
	}
	if v, _ := children[1].GetString(NewQuery("v")); v != "second" {
		t.Fatalf("expected second child to survive, got %q", v)
	}
}

func TestContainerNBTEmptyLists(t *testing.T) {
	c := NewContainer().
		Set(NewQuery("List"), []any{}).
		Set(NewQuery("Lines"), []string{})

	// Set must not guess a container type for an untyped empty slice.
	v, ok := c.Get(NewQuery("List"))
	if !ok {
		t.Fatalf("expected the empty list to be stored")
	}
	if _, untyped := v.([]any); !untyped {
		t.Fatalf("expected the empty list to stay untyped, got %T", v)
	}

	b, err := c.EncodeNBT()
	if err != nil {
		t.Fatalf("EncodeNBT failed: %v", err)
	}
	decoded, err := DecodeNBT(b)
	if err != nil {
		t.Fatalf("DecodeNBT failed: %v", err)
	}

	if got, ok := decoded.GetContainers(NewQuery("List")); !ok || len(got) != 0 {
		t.Fatalf("expected an empty container list, got %v (%v)", got, ok)
	}
	if got, ok := decoded.GetStringSlice(NewQuery("Lines")); !ok || len(got) != 0 {
		t.Fatalf("expected empty lines to survive, got %v (%v)", got, ok)
	}
	// A decoded container must encode again.
	if _, err := decoded.EncodeNBT(); err != nil {
		t.Fatalf("expected the decoded container to encode, got %v", err)
	}
}
