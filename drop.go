package loot

import (
	"fmt"
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
)

// Drop is a table entry that produces item stacks. A drop couples an item
// type with a quantity amount, a selection weight and an optional list of
// properties applied to every stack produced.
//
// Usage:
//
//	drop := loot.NewDrop(item.Diamond{}, loot.Between(1, 4), 10)
//	stacks := drop.Stacks(r, 3)
//
// Drops are immutable values and safe to share across tables.
type Drop struct {
	t          world.Item
	quantity   Amount
	weight     int
	properties []Property
}

// Compile time check to ensure that Drop implements Entry.
var _ Entry = Drop{}

// NewDrop creates a drop of the given item type, sampling the given amount
// for the quantity each time the drop is rolled. The weight sets how likely
// the drop is to be selected relative to the other entries of its table.
// NewDrop panics if the item type or amount is nil.
func NewDrop(t world.Item, quantity Amount, weight int) Drop {
	return NewDropWithProperties(t, quantity, weight)
}

// NewDropWithProperties creates a drop like NewDrop does, additionally
// attaching properties that are applied, in order, to every stack the drop
// produces.
func NewDropWithProperties(t world.Item, quantity Amount, weight int, properties ...Property) Drop {
	if t == nil {
		panic("loot: drop requires an item type")
	}
	if quantity == nil {
		panic("loot: drop requires a quantity amount")
	}
	p := make([]Property, len(properties))
	copy(p, properties)
	return Drop{t: t, quantity: quantity, weight: weight, properties: p}
}

// Type returns the item type the drop produces stacks of.
func (d Drop) Type() world.Item {
	return d.t
}

// Quantity returns the amount sampled for the total item count of a roll.
func (d Drop) Quantity() Amount {
	return d.quantity
}

// Weight returns the selection weight of the drop within its table.
func (d Drop) Weight() int {
	return d.weight
}

// Properties returns the properties applied to every stack the drop
// produces.
func (d Drop) Properties() []Property {
	p := make([]Property, len(d.properties))
	copy(p, d.properties)
	return p
}

// Stacks samples the drop's quantity and splits the total across item
// stacks, each filled up to the maximum stack size of the item type. At
// most maxStacks stacks are produced: totals beyond what they can hold are
// discarded, so every stack but the last is full.
//
// A sampled total of zero or less, a maxStacks of zero or less and the
// zero value Drop all produce no stacks. Stacks panics if the item type
// reports a maximum stack size below one.
func (d Drop) Stacks(r *rand.Rand, maxStacks int) []item.Stack {
	if d.t == nil || d.quantity == nil {
		return nil
	}
	total := Floored(d.quantity, r)
	if total <= 0 || maxStacks <= 0 {
		return nil
	}
	size := item.NewStack(d.t, 1).MaxCount()
	if size < 1 {
		panic(fmt.Sprintf("loot: item %v reports a maximum stack size of %v", itemName(d.t), size))
	}
	if limit := maxStacks * size; total > limit {
		total = limit
	}
	stacks := make([]item.Stack, 0, (total+size-1)/size)
	for total > 0 {
		n := min(total, size)
		s := item.NewStack(d.t, n)
		for _, p := range d.properties {
			s = p.Apply(s)
		}
		stacks = append(stacks, s)
		total -= n
	}
	return stacks
}

// Equal checks if the drop is equal to another drop by comparing their
// serialized forms.
func (d Drop) Equal(other Drop) bool {
	if d.t == nil || other.t == nil {
		return d.t == nil && other.t == nil
	}
	return d.ToContainer().Equal(other.ToContainer())
}

// String returns the string representation of the drop.
func (d Drop) String() string {
	if d.t == nil {
		return "Drop()"
	}
	return fmt.Sprintf("Drop(%v, quantity %v, weight %v)", itemName(d.t), d.quantity, d.weight)
}

// ToContainer returns the container form of the drop, with the item type,
// weight, quantity and properties stored under the standard keys of this
// package. ToContainer panics on the zero value Drop.
func (d Drop) ToContainer() *Container {
	if d.t == nil {
		panic("loot: serialize a drop without an item type")
	}
	name, meta := d.t.EncodeItem()
	c := NewContainer()
	ItemTypeKey.Set(c, name)
	if meta != 0 {
		MetaKey.Set(c, meta)
	}
	WeightKey.Set(c, d.weight)
	c.Set(QuantityKey.Query(), d.quantity)
	if len(d.properties) > 0 {
		c.Set(DataKey.Query(), d.properties)
	}
	return c
}

// DecodeDrop decodes a drop from its container form, as produced by
// Drop.ToContainer. The item type is resolved against the world's item
// registry, so the item must be registered before decoding.
func DecodeDrop(c *Container) (Drop, error) {
	name, ok := ItemTypeKey.Get(c)
	if !ok {
		return Drop{}, fmt.Errorf("decode drop: missing item type")
	}
	meta := MetaKey.GetOr(c, 0)
	t, ok := world.ItemByName(name, meta)
	if !ok {
		return Drop{}, fmt.Errorf("decode drop: unknown item %q (meta %v)", name, meta)
	}
	weight, ok := WeightKey.Get(c)
	if !ok {
		return Drop{}, fmt.Errorf("decode drop: missing weight")
	}
	qc, ok := QuantityKey.Get(c)
	if !ok {
		return Drop{}, fmt.Errorf("decode drop: missing quantity")
	}
	quantity, err := DecodeAmount(qc)
	if err != nil {
		return Drop{}, fmt.Errorf("decode drop: quantity: %w", err)
	}
	var properties []Property
	if list, ok := DataKey.Get(c); ok {
		properties = make([]Property, len(list))
		for i, pc := range list {
			p, err := DecodeProperty(pc)
			if err != nil {
				return Drop{}, fmt.Errorf("decode drop: property %v: %w", i, err)
			}
			properties[i] = p
		}
	}
	return NewDropWithProperties(t, quantity, weight, properties...), nil
}

// itemName returns the string identifier an item type encodes to.
func itemName(t world.Item) string {
	name, _ := t.EncodeItem()
	return name
}
