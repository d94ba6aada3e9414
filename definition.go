package loot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df-mc/dragonfly/server/world"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a table definition file.
type Format int

const (
	// FormatYAML parses definitions as YAML.
	FormatYAML Format = iota
	// FormatJSON parses definitions as JSON.
	FormatJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// TableDefinition models the YAML and JSON contract for designer-authored
// loot tables. It is shared with the schema generator so editor tooling
// can validate definition files against a machine-readable document.
//
// Usage:
//
//	def, err := loot.ReadDefinitionFile("tables/chest.yml")
//	if err != nil {
//		...
//	}
//	table, err := def.Build()
type TableDefinition struct {
	Name    string            `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"title=Table name,description=Name the table is registered under. Required at the top level and ignored on nested tables"`
	Rolls   *AmountDefinition `yaml:"rolls,omitempty" json:"rolls,omitempty" jsonschema:"description=How many entries a single roll selects. Defaults to one"`
	Entries []EntryDefinition `yaml:"entries" json:"entries" jsonschema:"description=Weighted entries of the table"`
}

// EntryDefinition models a single weighted entry of a table definition.
// Exactly one of Item, Empty and Table must be set.
type EntryDefinition struct {
	Item       string               `yaml:"item,omitempty" json:"item,omitempty" jsonschema:"description=Identifier of the item the entry drops"`
	Meta       int16                `yaml:"meta,omitempty" json:"meta,omitempty" jsonschema:"description=Metadata value of the item"`
	Quantity   *AmountDefinition    `yaml:"quantity,omitempty" json:"quantity,omitempty" jsonschema:"description=Total item count of a roll. Defaults to one"`
	Properties []PropertyDefinition `yaml:"properties,omitempty" json:"properties,omitempty" jsonschema:"description=Properties applied to every produced stack"`
	Empty      bool                 `yaml:"empty,omitempty" json:"empty,omitempty" jsonschema:"description=Marks an entry that drops nothing when selected"`
	Table      *TableDefinition     `yaml:"table,omitempty" json:"table,omitempty" jsonschema:"description=Nested table rolled when the entry is selected"`
	Weight     int                  `yaml:"weight" json:"weight" jsonschema:"title=Selection weight,description=Likelihood of the entry relative to the other entries of its table"`
}

// AmountDefinition models a sampled amount. Exactly one of Value, the
// Min/Max pair and Base must be set. Unlike Between, the Min/Max range of
// a definition is inclusive on both ends and must use whole numbers.
type AmountDefinition struct {
	Value    *float64          `yaml:"value,omitempty" json:"value,omitempty" jsonschema:"description=Fixed amount"`
	Min      *float64          `yaml:"min,omitempty" json:"min,omitempty" jsonschema:"description=Inclusive whole number lower bound of a uniform range"`
	Max      *float64          `yaml:"max,omitempty" json:"max,omitempty" jsonschema:"description=Inclusive whole number upper bound of a uniform range"`
	Base     *float64          `yaml:"base,omitempty" json:"base,omitempty" jsonschema:"description=Base amount an addition is sampled on top of"`
	Addition *AmountDefinition `yaml:"addition,omitempty" json:"addition,omitempty" jsonschema:"description=Amount added to the base"`
	Chance   *float64          `yaml:"chance,omitempty" json:"chance,omitempty" jsonschema:"description=Probability between 0 and 1 that the addition applies. Omit to always apply it"`
}

// PropertyDefinition models a property applied to the stacks of an entry.
// The Type field selects the property and decides which other fields are
// read.
type PropertyDefinition struct {
	Type       string         `yaml:"type" json:"type" jsonschema:"title=Property type,description=One of custom_name lore enchant durability and data"`
	Name       string         `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"description=Custom name to set"`
	Lines      []string       `yaml:"lines,omitempty" json:"lines,omitempty" jsonschema:"description=Lore lines to set"`
	ID         int            `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"description=Registered ID of the enchantment to add"`
	Level      int            `yaml:"level,omitempty" json:"level,omitempty" jsonschema:"description=Level of the enchantment to add"`
	Durability int            `yaml:"durability,omitempty" json:"durability,omitempty" jsonschema:"description=Remaining durability to set"`
	Values     map[string]any `yaml:"values,omitempty" json:"values,omitempty" jsonschema:"description=Arbitrary key/value data to attach"`
}

// Validate checks the definition for problems that would make Build fail
// or produce a table that cannot roll. It returns the first problem found.
func (d *TableDefinition) Validate() error {
	return d.validate(true)
}

// validate checks a table definition, requiring a name only at the root.
func (d *TableDefinition) validate(root bool) error {
	if root && d.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(d.Entries) == 0 {
		return fmt.Errorf("at least one entry is required")
	}
	if d.Rolls != nil {
		if err := d.Rolls.validate(); err != nil {
			return fmt.Errorf("rolls: %w", err)
		}
	}
	positive := false
	for i := range d.Entries {
		if err := d.Entries[i].validate(); err != nil {
			return fmt.Errorf("entry[%d]: %w", i, err)
		}
		if d.Entries[i].Weight > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("at least one entry must have a positive weight")
	}
	return nil
}

// validate checks a single entry definition.
func (e *EntryDefinition) validate() error {
	set := 0
	if e.Item != "" {
		set++
	}
	if e.Empty {
		set++
	}
	if e.Table != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of item, empty and table must be set")
	}
	if e.Weight < 0 {
		return fmt.Errorf("weight must not be negative")
	}
	if e.Item == "" && (e.Quantity != nil || e.Meta != 0 || len(e.Properties) > 0) {
		return fmt.Errorf("quantity, meta and properties require an item")
	}
	if e.Quantity != nil {
		if err := e.Quantity.validate(); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
	}
	for i := range e.Properties {
		if err := e.Properties[i].validate(); err != nil {
			return fmt.Errorf("property[%d]: %w", i, err)
		}
	}
	if e.Table != nil {
		if err := e.Table.validate(false); err != nil {
			return fmt.Errorf("table: %w", err)
		}
	}
	return nil
}

// validate checks that exactly one amount form is described.
func (a *AmountDefinition) validate() error {
	switch {
	case a.Value != nil:
		if a.Min != nil || a.Max != nil || a.Base != nil || a.Addition != nil || a.Chance != nil {
			return fmt.Errorf("value excludes all other amount fields")
		}
	case a.Min != nil || a.Max != nil:
		if a.Min == nil || a.Max == nil {
			return fmt.Errorf("min and max must be set together")
		}
		if a.Base != nil || a.Addition != nil || a.Chance != nil {
			return fmt.Errorf("min and max exclude the base amount fields")
		}
		if *a.Max < *a.Min {
			return fmt.Errorf("max must not be below min")
		}
		if *a.Min != math.Trunc(*a.Min) || *a.Max != math.Trunc(*a.Max) {
			return fmt.Errorf("min and max must be whole numbers")
		}
	case a.Base != nil:
		if a.Addition == nil {
			return fmt.Errorf("base requires an addition amount")
		}
		if err := a.Addition.validate(); err != nil {
			return fmt.Errorf("addition: %w", err)
		}
		if a.Chance != nil && (*a.Chance < 0 || *a.Chance > 1) {
			return fmt.Errorf("chance must be between 0 and 1")
		}
	default:
		return fmt.Errorf("one of value, min/max and base must be set")
	}
	return nil
}

// validate checks a property definition against its declared type.
func (p *PropertyDefinition) validate() error {
	switch p.Type {
	case propertyCustomName:
		if p.Name == "" {
			return fmt.Errorf("custom_name requires a name")
		}
	case propertyLore:
		if len(p.Lines) == 0 {
			return fmt.Errorf("lore requires at least one line")
		}
	case propertyEnchant:
		if p.Level < 1 {
			return fmt.Errorf("enchant requires a level of at least 1")
		}
	case propertyDurability:
		if p.Durability < 0 {
			return fmt.Errorf("durability must not be negative")
		}
	case propertyData:
		if len(p.Values) == 0 {
			return fmt.Errorf("data requires at least one value")
		}
	case "":
		return fmt.Errorf("property type must not be empty")
	default:
		return fmt.Errorf("unknown property type %q", p.Type)
	}
	return nil
}

// Build validates the definition and builds the table it describes. Item
// names resolve against the world's item registry, so the items must be
// registered before building.
func (d *TableDefinition) Build() (*Table, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.build()
}

// build assembles the table of a validated definition.
func (d *TableDefinition) build() (*Table, error) {
	t := NewTable()
	if d.Rolls != nil {
		t.SetRolls(d.Rolls.amount())
	}
	for i := range d.Entries {
		e, err := d.Entries[i].build()
		if err != nil {
			return nil, fmt.Errorf("entry[%d]: %w", i, err)
		}
		t.Add(e)
	}
	return t, nil
}

// build assembles the entry of a validated entry definition.
func (e *EntryDefinition) build() (Entry, error) {
	if e.Empty {
		return Nothing(e.Weight), nil
	}
	if e.Table != nil {
		inner, err := e.Table.build()
		if err != nil {
			return nil, fmt.Errorf("table: %w", err)
		}
		return Subtable(inner, e.Weight), nil
	}
	t, ok := world.ItemByName(e.Item, e.Meta)
	if !ok {
		return nil, fmt.Errorf("unknown item %q (meta %v)", e.Item, e.Meta)
	}
	quantity := Amount(Fixed(1))
	if e.Quantity != nil {
		quantity = e.Quantity.amount()
	}
	properties := make([]Property, len(e.Properties))
	for i := range e.Properties {
		properties[i] = e.Properties[i].property()
	}
	return NewDropWithProperties(t, quantity, e.Weight, properties...), nil
}

// amount builds the amount a validated amount definition describes. The
// inclusive min/max range widens by one so that Floored covers the upper
// bound.
func (a *AmountDefinition) amount() Amount {
	switch {
	case a.Value != nil:
		return Fixed(*a.Value)
	case a.Min != nil:
		return Between(*a.Min, *a.Max+1)
	default:
		if a.Chance != nil {
			return BaseWithChance(*a.Base, a.Addition.amount(), *a.Chance)
		}
		return BaseWithAddition(*a.Base, a.Addition.amount())
	}
}

// property builds the property a validated property definition describes.
func (p *PropertyDefinition) property() Property {
	switch p.Type {
	case propertyCustomName:
		return CustomName(p.Name)
	case propertyLore:
		return Lore(p.Lines...)
	case propertyEnchant:
		return Enchant(p.ID, p.Level)
	case propertyDurability:
		return Durability(p.Durability)
	default:
		return Data(p.Values)
	}
}

// ParseDefinition parses a table definition from its encoded form.
func ParseDefinition(data []byte, f Format) (*TableDefinition, error) {
	def := &TableDefinition{}
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, def); err != nil {
			return nil, fmt.Errorf("parse yaml definition: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, def); err != nil {
			return nil, fmt.Errorf("parse json definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse definition: unknown format %v", f)
	}
	return def, nil
}

// formatByExtension maps a file extension to the definition format stored
// under it.
func formatByExtension(ext string) (Format, bool) {
	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return 0, false
}

// ReadDefinitionFile reads and parses the table definition file at a
// path, deriving the format from the file extension.
func ReadDefinitionFile(path string) (*TableDefinition, error) {
	f, ok := formatByExtension(filepath.Ext(path))
	if !ok {
		return nil, fmt.Errorf("read definition %v: unsupported extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := ParseDefinition(data, f)
	if err != nil {
		return nil, fmt.Errorf("read definition %v: %w", path, err)
	}
	return def, nil
}
