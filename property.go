package loot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df-mc/dragonfly/server/item"
)

// Property decorates an item stack after it has been created from a drop.
// Properties are applied in the order they were attached to the drop, each
// receiving the stack the previous one returned.
type Property interface {
	Serializable
	fmt.Stringer
	// Apply returns the stack with the property applied to it.
	Apply(s item.Stack) item.Stack
}

// Property discriminators as stored under PropertyType in serialized form.
const (
	propertyCustomName = "custom_name"
	propertyLore       = "lore"
	propertyEnchant    = "enchant"
	propertyDurability = "durability"
	propertyData       = "data"
)

var (
	propertyTypeQuery = NewQuery("PropertyType")
	nameQuery         = NewQuery("Name")
	linesQuery        = NewQuery("Lines")
	idQuery           = NewQuery("Id")
	levelQuery        = NewQuery("Level")
	durabilityQuery   = NewQuery("Durability")
	valuesQuery       = NewQuery("Values")
)

type customName struct {
	name string
}

// CustomName returns a property that renames the stacks it is applied to.
func CustomName(name string) Property {
	return customName{name: name}
}

// Apply returns the stack with its custom name set.
func (p customName) Apply(s item.Stack) item.Stack {
	return s.WithCustomName(p.name)
}

// ToContainer returns the container form of the property.
func (p customName) ToContainer() *Container {
	return NewContainer().
		Set(propertyTypeQuery, propertyCustomName).
		Set(nameQuery, p.name)
}

// String returns the string representation of the property.
func (p customName) String() string {
	return fmt.Sprintf("CustomName(%q)", p.name)
}

type lore struct {
	lines []string
}

// Lore returns a property that sets the lore lines shown under the name of
// the stacks it is applied to.
func Lore(lines ...string) Property {
	l := make([]string, len(lines))
	copy(l, lines)
	return lore{lines: l}
}

// Apply returns the stack with its lore set.
func (p lore) Apply(s item.Stack) item.Stack {
	return s.WithLore(p.lines...)
}

// ToContainer returns the container form of the property.
func (p lore) ToContainer() *Container {
	return NewContainer().
		Set(propertyTypeQuery, propertyLore).
		Set(linesQuery, p.lines)
}

// String returns the string representation of the property.
func (p lore) String() string {
	return fmt.Sprintf("Lore(%q)", p.lines)
}

type enchant struct {
	id, level int
}

// Enchant returns a property that adds the enchantment registered under
// the given ID at the given level to the stacks it is applied to. Stacks
// pass through unchanged if no enchantment is registered under the ID.
func Enchant(id, level int) Property {
	return enchant{id: id, level: level}
}

// Apply returns the stack with the enchantment added.
func (p enchant) Apply(s item.Stack) item.Stack {
	t, ok := item.EnchantmentByID(p.id)
	if !ok {
		return s
	}
	return s.WithEnchantments(item.NewEnchantment(t, p.level))
}

// ToContainer returns the container form of the property.
func (p enchant) ToContainer() *Container {
	return NewContainer().
		Set(propertyTypeQuery, propertyEnchant).
		Set(idQuery, p.id).
		Set(levelQuery, p.level)
}

// String returns the string representation of the property.
func (p enchant) String() string {
	return fmt.Sprintf("Enchant(%v, %v)", p.id, p.level)
}

type durability struct {
	durability int
}

// Durability returns a property that sets the remaining durability of the
// stacks it is applied to. Stacks of items without durability pass through
// unchanged.
func Durability(d int) Property {
	return durability{durability: d}
}

// Apply returns the stack with its durability set.
func (p durability) Apply(s item.Stack) item.Stack {
	return s.WithDurability(p.durability)
}

// ToContainer returns the container form of the property.
func (p durability) ToContainer() *Container {
	return NewContainer().
		Set(propertyTypeQuery, propertyDurability).
		Set(durabilityQuery, p.durability)
}

// String returns the string representation of the property.
func (p durability) String() string {
	return fmt.Sprintf("Durability(%v)", p.durability)
}

type data struct {
	values map[string]any
}

// Data returns a property that attaches arbitrary key/value data to the
// stacks it is applied to, readable again through item.Stack.Value.
func Data(values map[string]any) Property {
	m := make(map[string]any, len(values))
	for k, v := range values {
		m[k] = v
	}
	return data{values: m}
}

// Apply returns the stack with all data values attached.
func (p data) Apply(s item.Stack) item.Stack {
	for k, v := range p.values {
		s = s.WithValue(k, v)
	}
	return s
}

// ToContainer returns the container form of the property.
func (p data) ToContainer() *Container {
	values := NewContainer()
	for k, v := range p.values {
		values.Set(NewQuery(k), v)
	}
	return NewContainer().
		Set(propertyTypeQuery, propertyData).
		Set(valuesQuery, values)
}

// String returns the string representation of the property.
func (p data) String() string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("Data(")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", k, p.values[k])
	}
	sb.WriteString(")")
	return sb.String()
}

// DecodeProperty decodes a property from its container form, as produced
// by the ToContainer method of any property in this package.
func DecodeProperty(c *Container) (Property, error) {
	typ, ok := c.GetString(propertyTypeQuery)
	if !ok {
		return nil, fmt.Errorf("decode property: missing property type")
	}
	switch typ {
	case propertyCustomName:
		name, ok := c.GetString(nameQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing name")
		}
		return CustomName(name), nil
	case propertyLore:
		lines, ok := c.GetStringSlice(linesQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing lines")
		}
		return Lore(lines...), nil
	case propertyEnchant:
		id, ok := c.GetInt(idQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing id")
		}
		level, ok := c.GetInt(levelQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing level")
		}
		return Enchant(id, level), nil
	case propertyDurability:
		d, ok := c.GetInt(durabilityQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing durability")
		}
		return Durability(d), nil
	case propertyData:
		child, ok := c.Child(valuesQuery)
		if !ok {
			return nil, fmt.Errorf("decode property: missing values")
		}
		values := make(map[string]any, child.Len())
		for _, k := range child.Keys() {
			v, _ := child.Get(NewQuery(k))
			values[k] = v
		}
		return Data(values), nil
	}
	return nil, fmt.Errorf("decode property: unknown property type %q", typ)
}
