package loot

import (
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// SpawnStacks spawns the given stacks as item entities at a position in a
// world, giving each a small random velocity so they scatter around it.
// Empty stacks are skipped. SpawnStacks must be called from within the
// world transaction that owns the position.
func SpawnStacks(tx *world.Tx, pos mgl64.Vec3, r *rand.Rand, stacks []item.Stack) {
	for _, s := range stacks {
		if s.Empty() {
			continue
		}
		opts := world.EntitySpawnOpts{Position: pos, Velocity: scatter(r)}
		tx.AddEntity(entity.NewItem(opts, s))
	}
}

// scatter returns a small horizontal velocity with a fixed upward
// component.
func scatter(r *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{r.Float64()*0.2 - 0.1, 0.2, r.Float64()*0.2 - 0.1}
}
