// Package loot provides weighted loot tables for Dragonfly servers.
//
// Loot is a drop generation layer built on top of Dragonfly that provides:
//   - Weighted tables of drops, nested tables and empty entries
//   - Variable amounts for roll counts and stack quantities
//   - Splitting of rolled quantities across correctly sized item stacks
//   - Properties that name, enchant and tag the produced stacks
//   - A container document model with typed keys and NBT persistence
//   - Designer-authored table definitions in YAML and JSON
//
// # Quick Start
//
// Build a table and roll it through a generator:
//
//	table := loot.NewTable(
//	    loot.NewDrop(item.Diamond{}, loot.Between(1, 3), 10),
//	    loot.NewDrop(item.GoldIngot{}, loot.Fixed(5), 30),
//	    loot.Nothing(60),
//	).SetRolls(loot.Between(1, 4))
//
//	g := loot.NewGenerator()
//	g.Register("dungeon_chest", table)
//
//	result, err := g.Roll("dungeon_chest", 3)
//	if err != nil {
//	    ...
//	}
//	for _, s := range result.Stacks {
//	    ...
//	}
//
// Or spawn the rolled stacks into the world directly:
//
//	p.Tx().World().Exec(func(tx *world.Tx) {
//	    g.Spawn(tx, pos, "dungeon_chest", 3)
//	})
//
// # Stack Splitting
//
// A drop samples a single total and splits it across stacks, each filled
// up to the maximum stack size of the item. At most maxStacks stacks are
// produced and anything beyond what they can hold is discarded:
//
//	drop := loot.NewDrop(item.Diamond{}, loot.Fixed(130), 1)
//	drop.Stacks(r, 3) // two stacks of 64 and one of 2
//
//	drop = loot.NewDrop(item.Diamond{}, loot.Fixed(500), 1)
//	drop.Stacks(r, 3) // three stacks of 64, the rest is discarded
//
// # Serialization
//
// Tables, drops, amounts and properties serialize to containers, a
// hierarchical document model addressed by queries and typed keys:
//
//	c := table.ToContainer()
//	b, err := c.EncodeNBT()
//
//	c, err = loot.DecodeNBT(b)
//	table, err = loot.DecodeTable(c)
//
// # Definition Files
//
// Tables can be authored as YAML or JSON files and loaded at startup:
//
//	name: dungeon_chest
//	rolls: {min: 1, max: 3}
//	entries:
//	  - item: minecraft:diamond
//	    quantity: {min: 1, max: 3}
//	    weight: 10
//	  - empty: true
//	    weight: 60
//
//	g := loot.NewGenerator()
//	if _, err := g.LoadDir("tables"); err != nil {
//	    ...
//	}
package loot

// Version is the loot version.
const Version = "1.0.0"
