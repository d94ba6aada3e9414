package loot

import (
	"fmt"
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/item"
)

// Entry is a single weighted entry of a table. The weight sets how likely
// the entry is to be selected relative to the other entries of its table:
// an entry of weight 30 in a table totaling 100 is selected 30% of the
// time. Entries with a weight of zero or less are never selected.
//
// Drop is the entry producing items. Nothing and Subtable cover empty
// selections and nested tables. Custom entries may be used as long as
// callers of Roll recognize them, though only entries implementing
// Serializable can be part of a serialized table.
type Entry interface {
	// Weight returns the selection weight of the entry.
	Weight() int
}

var (
	rollsQuery   = NewQuery("Rolls")
	entriesQuery = NewQuery("Entries")
	tableQuery   = NewQuery("Table")
)

type nothing struct {
	weight int
}

// Compile time checks to ensure that nothing and subtable implement Entry
// and Serializable.
var (
	_ Entry        = nothing{}
	_ Serializable = nothing{}
	_ Entry        = subtable{}
	_ Serializable = subtable{}
)

// Nothing returns a table entry that produces no items when selected.
// Nothing entries thin out a table: a roll that selects one comes up
// empty.
func Nothing(weight int) Entry {
	return nothing{weight: weight}
}

// Weight returns the selection weight of the entry.
func (n nothing) Weight() int {
	return n.weight
}

// ToContainer returns the container form of the entry.
func (n nothing) ToContainer() *Container {
	return NewContainer().Set(WeightKey.Query(), n.weight)
}

// String returns the string representation of the entry.
func (n nothing) String() string {
	return fmt.Sprintf("Nothing(weight %v)", n.weight)
}

type subtable struct {
	table  *Table
	weight int
}

// Subtable returns a table entry that rolls another table when selected,
// yielding everything that table produces. Tables must not reach
// themselves through their subtables: rolling a cyclic table recurses
// without bound. Subtable panics if the table is nil.
func Subtable(t *Table, weight int) Entry {
	if t == nil {
		panic("loot: subtable requires a table")
	}
	return subtable{table: t, weight: weight}
}

// Weight returns the selection weight of the entry.
func (s subtable) Weight() int {
	return s.weight
}

// ToContainer returns the container form of the entry.
func (s subtable) ToContainer() *Container {
	return NewContainer().
		Set(WeightKey.Query(), s.weight).
		Set(tableQuery, s.table)
}

// String returns the string representation of the entry.
func (s subtable) String() string {
	return fmt.Sprintf("Subtable(%v, weight %v)", s.table, s.weight)
}

// Table is a weighted collection of entries rolled to produce loot. Each
// roll samples the table's rolls amount, selects that many entries by
// weight and expands subtables recursively.
//
// Usage:
//
//	table := loot.NewTable(
//		loot.NewDrop(item.Diamond{}, loot.Between(1, 3), 10),
//		loot.NewDrop(item.GoldIngot{}, loot.Fixed(5), 30),
//		loot.Nothing(60),
//	).SetRolls(loot.Between(1, 4))
//	stacks := table.RollStacks(r, 3)
//
// Concurrency:
// Building a table is not safe for concurrent use. Once built, a table may
// be rolled from multiple goroutines as long as each uses its own random
// source, as the Generator does.
type Table struct {
	entries []Entry
	rolls   Amount
}

// NewTable creates a table holding the given entries, rolled once per
// roll. Use SetRolls to change how many entries a single roll selects.
func NewTable(entries ...Entry) *Table {
	t := &Table{rolls: Fixed(1)}
	return t.Add(entries...)
}

// Add appends entries to the table and returns the table itself so calls
// can be chained.
func (t *Table) Add(entries ...Entry) *Table {
	t.entries = append(t.entries, entries...)
	return t
}

// SetRolls sets the amount sampled for the number of entries a single roll
// selects and returns the table itself so calls can be chained. A nil
// amount resets the table to a single selection per roll.
func (t *Table) SetRolls(rolls Amount) *Table {
	if rolls == nil {
		rolls = Fixed(1)
	}
	t.rolls = rolls
	return t
}

// Entries returns the entries of the table.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Rolls returns the amount sampled for the number of entries a single roll
// selects.
func (t *Table) Rolls() Amount {
	return t.rolls
}

// TotalWeight returns the sum of the positive entry weights of the table.
func (t *Table) TotalWeight() int {
	total := 0
	for _, e := range t.entries {
		if w := e.Weight(); w > 0 {
			total += w
		}
	}
	return total
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Roll samples the rolls amount and selects that many entries by weight.
// Selected subtables are rolled in turn with their results expanded in
// place, and selected Nothing entries are dropped, so the returned slice
// holds only entries that produce something. Roll returns no entries if
// the table has no entry with a positive weight.
func (t *Table) Roll(r *rand.Rand) []Entry {
	var out []Entry
	n := Floored(t.rolls, r)
	for i := 0; i < n; i++ {
		e, ok := t.pick(r)
		if !ok {
			break
		}
		switch v := e.(type) {
		case subtable:
			out = append(out, v.table.Roll(r)...)
		case nothing:
		default:
			out = append(out, e)
		}
	}
	return out
}

// RollStacks rolls the table and produces the item stacks of every drop
// that was selected. The maxStacks limit applies to each drop separately,
// as described on Drop.Stacks.
func (t *Table) RollStacks(r *rand.Rand, maxStacks int) []item.Stack {
	var stacks []item.Stack
	for _, e := range t.Roll(r) {
		if d, ok := e.(Drop); ok {
			stacks = append(stacks, d.Stacks(r, maxStacks)...)
		}
	}
	return stacks
}

// pick selects a single entry by weighted random selection. It reports
// false if no entry has a positive weight.
func (t *Table) pick(r *rand.Rand) (Entry, bool) {
	total := t.TotalWeight()
	if total <= 0 {
		return nil, false
	}
	n := r.IntN(total)
	for _, e := range t.entries {
		w := e.Weight()
		if w <= 0 {
			continue
		}
		if n < w {
			return e, true
		}
		n -= w
	}
	return nil, false
}

// Equal checks if the table is equal to another table by comparing their
// serialized forms.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ToContainer().Equal(other.ToContainer())
}

// String returns the string representation of the table.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%v entries, rolls %v)", len(t.entries), t.rolls)
}

// ToContainer returns the container form of the table, including all of
// its entries. ToContainer panics if the table holds a custom entry that
// does not implement Serializable.
func (t *Table) ToContainer() *Container {
	entries := make([]*Container, len(t.entries))
	for i, e := range t.entries {
		s, ok := e.(Serializable)
		if !ok {
			panic(fmt.Sprintf("loot: entry %T does not implement loot.Serializable", e))
		}
		entries[i] = s.ToContainer()
	}
	return NewContainer().
		Set(rollsQuery, t.rolls).
		Set(entriesQuery, entries)
}

// DecodeTable decodes a table from its container form, as produced by
// Table.ToContainer. Entries holding an item type decode as drops, entries
// holding a nested table as subtables and all others as Nothing entries.
func DecodeTable(c *Container) (*Table, error) {
	t := NewTable()
	if rc, ok := c.Child(rollsQuery); ok {
		rolls, err := DecodeAmount(rc)
		if err != nil {
			return nil, fmt.Errorf("decode table: rolls: %w", err)
		}
		t.SetRolls(rolls)
	}
	list, ok := c.GetContainers(entriesQuery)
	if !ok {
		return t, nil
	}
	for i, ec := range list {
		e, err := decodeEntry(ec)
		if err != nil {
			return nil, fmt.Errorf("decode table: entry %v: %w", i, err)
		}
		t.Add(e)
	}
	return t, nil
}

// decodeEntry decodes a single table entry, recognizing drops by their
// item type and subtables by their nested table.
func decodeEntry(c *Container) (Entry, error) {
	if ItemTypeKey.Exists(c) {
		return DecodeDrop(c)
	}
	weight, ok := WeightKey.Get(c)
	if !ok {
		return nil, fmt.Errorf("missing weight")
	}
	if tc, ok := c.Child(tableQuery); ok {
		inner, err := DecodeTable(tc)
		if err != nil {
			return nil, err
		}
		return Subtable(inner, weight), nil
	}
	return Nothing(weight), nil
}
